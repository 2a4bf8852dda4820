package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Row is a bar together with its year-to-date VWAP columns.
type Row struct {
	OHLCV
	PriceVolume    float64
	CumVolume      float64
	CumPriceVolume float64
	// VWAP is invalid while the cumulative volume of the year is zero.
	VWAP null.Float
}

// Series holds the derived rows for one symbol, oldest first.
type Series struct {
	Symbol    string
	Rows      []Row
	FetchedAt time.Time
}

// Snapshot carries the headline numbers taken from the last row of a Series.
type Snapshot struct {
	LatestPrice float64
	LatestVWAP  null.Float
	Days        int
}

// Result is the outcome of one fetch for a symbol. NoData is set when the
// provider had nothing for the symbol or the fetch failed.
type Result struct {
	Symbol   string
	Series   *Series
	Snapshot Snapshot
	NoData   bool
}
