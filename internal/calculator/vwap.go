package calculator

import (
	"errors"
	"math"

	"github.com/guregu/null/v6"

	"NexusStream/internal/model"
)

// CalculateVWAP derives the year-to-date VWAP columns for daily bars sorted
// by date. The running sums restart on the first bar of each calendar year.
// VWAP stays invalid unless the quotient is a finite number.
func CalculateVWAP(bars []model.OHLCV) []model.Row {
	rows := make([]model.Row, len(bars))

	var cumVolume, cumPV float64
	year := 0
	for i, b := range bars {
		if y := b.Time.Year(); i == 0 || y != year {
			year = y
			cumVolume, cumPV = 0, 0
		}

		pv := b.Close * b.Volume
		cumVolume += b.Volume
		cumPV += pv

		rows[i] = model.Row{
			OHLCV:          b,
			PriceVolume:    pv,
			CumVolume:      cumVolume,
			CumPriceVolume: cumPV,
		}
		if cumVolume > 0 {
			if v := cumPV / cumVolume; !math.IsNaN(v) && !math.IsInf(v, 0) {
				rows[i].VWAP = null.FloatFrom(v)
			}
		}
	}
	return rows
}

// LatestSnapshot returns the close and VWAP of the last row.
func LatestSnapshot(rows []model.Row) (model.Snapshot, error) {
	if len(rows) == 0 {
		return model.Snapshot{}, errors.New("no rows provided")
	}
	last := rows[len(rows)-1]
	return model.Snapshot{
		LatestPrice: last.Close,
		LatestVWAP:  last.VWAP,
		Days:        len(rows),
	}, nil
}
