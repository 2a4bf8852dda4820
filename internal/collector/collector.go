package collector

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"NexusStream/internal/calculator"
	"NexusStream/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyData []model.OHLCV
	Err       error
	Calls     int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string) ([]model.OHLCV, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return generateMockBars(m.Price, 252), nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	if basePrice == 0 {
		return []model.OHLCV{}
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   today.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector runs a Fetcher and derives the VWAP series from its bars.
type Collector struct {
	Fetcher Fetcher
	Logger  zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, logger zerolog.Logger) *Collector {
	return &Collector{Fetcher: fetcher, Logger: logger}
}

// Collect fetches one year of daily bars for symbol and computes the VWAP
// series. Every failure is logged and reported as a NoData result.
func (c *Collector) Collect(ctx context.Context, symbol string) (res *model.Result) {
	noData := &model.Result{Symbol: symbol, NoData: true}
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error().Str("symbol", symbol).Interface("panic", r).Msg("collecting daily bars")
			res = noData
		}
	}()

	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol)
	if err != nil {
		c.Logger.Error().Err(err).
			Str("symbol", symbol).
			Str("source", c.Fetcher.Name()).
			Msg("fetching daily bars")
		return noData
	}
	if err := checkBars(bars); err != nil {
		c.Logger.Error().Err(err).
			Str("symbol", symbol).
			Str("source", c.Fetcher.Name()).
			Msg("validating daily bars")
		return noData
	}
	if len(bars) == 0 {
		c.Logger.Info().Str("symbol", symbol).Str("source", c.Fetcher.Name()).Msg("no daily data returned")
		return noData
	}

	rows := calculator.CalculateVWAP(bars)
	snap, err := calculator.LatestSnapshot(rows)
	if err != nil {
		c.Logger.Error().Err(err).Str("symbol", symbol).Msg("building snapshot")
		return noData
	}

	return &model.Result{
		Symbol: symbol,
		Series: &model.Series{
			Symbol:    symbol,
			Rows:      rows,
			FetchedAt: time.Now(),
		},
		Snapshot: snap,
	}
}
