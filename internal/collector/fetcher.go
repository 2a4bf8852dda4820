package collector

import (
	"context"
	"fmt"
	"math"

	"NexusStream/internal/model"
)

// Fetcher defines the interface for fetching one year of daily bars.
// An unknown symbol or a symbol without trading data yields an empty
// slice and a nil error.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string) ([]model.OHLCV, error)
	Name() string
}

// checkBars rejects bars carrying NaN or infinite prices or volumes.
func checkBars(bars []model.OHLCV) error {
	for _, b := range bars {
		for _, v := range []float64{b.Open, b.High, b.Low, b.Close, b.Volume} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("non-finite value in bar %s", b.Time.Format("2006-01-02"))
			}
		}
	}
	return nil
}
