package render

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guregu/null/v6"

	"NexusStream/internal/currency"
	"NexusStream/internal/model"
)

// DateLayout is the date format used in the chart and the table.
const DateLayout = "2006-01-02"

// Undefined is displayed in place of a VWAP that has no volume behind it.
const Undefined = "n/a"

// State is the refresh state a view was produced in.
type State string

const (
	StateIdle     State = "idle"
	StateRendered State = "rendered"
	StateNoData   State = "no_data"
)

// Metric is one headline number.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Chart is the payload for the candlestick and VWAP overlay.
type Chart struct {
	Dates []string     `json:"dates"`
	Open  []float64    `json:"open"`
	High  []float64    `json:"high"`
	Low   []float64    `json:"low"`
	Close []float64    `json:"close"`
	VWAP  []null.Float `json:"vwap"`
}

// TableRow is one line of the recent-days table.
type TableRow struct {
	Date   string `json:"date"`
	Close  string `json:"close"`
	Volume string `json:"volume"`
	VWAP   string `json:"vwap"`
}

// View is everything the dashboard shows for one refresh cycle.
type View struct {
	Ticker    string     `json:"ticker"`
	Currency  string     `json:"currency"`
	State     State      `json:"state"`
	Metrics   []Metric   `json:"metrics,omitempty"`
	Chart     *Chart     `json:"chart,omitempty"`
	Table     []TableRow `json:"table,omitempty"`
	Warning   string     `json:"warning,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Idle is the view shown while no ticker is set.
func Idle() *View {
	return &View{State: StateIdle, UpdatedAt: time.Now()}
}

// NoDataWarning is the message shown when a symbol has nothing to display.
func NoDataWarning(ticker string) string {
	return fmt.Sprintf("No daily data found for %s. Check your network or the ticker is invalid.", ticker)
}

// Build turns a fetch result into a view. tailRows bounds the table length.
func Build(res *model.Result, cur currency.Currency, tailRows int) *View {
	v := &View{
		Ticker:    res.Symbol,
		Currency:  cur.Symbol,
		UpdatedAt: time.Now(),
	}
	if res.NoData || res.Series == nil || len(res.Series.Rows) == 0 {
		v.State = StateNoData
		v.Warning = NoDataWarning(res.Symbol)
		return v
	}

	v.State = StateRendered
	snap := res.Snapshot
	v.Metrics = []Metric{
		{Label: fmt.Sprintf("%s Latest Daily Price", res.Symbol), Value: cur.Format(snap.LatestPrice)},
		{Label: "Latest Yearly VWAP", Value: formatVWAP(cur, snap.LatestVWAP)},
		{Label: "Total Days (1-Year)", Value: humanize.Comma(int64(snap.Days))},
	}

	rows := res.Series.Rows
	chart := &Chart{
		Dates: make([]string, len(rows)),
		Open:  make([]float64, len(rows)),
		High:  make([]float64, len(rows)),
		Low:   make([]float64, len(rows)),
		Close: make([]float64, len(rows)),
		VWAP:  make([]null.Float, len(rows)),
	}
	for i, r := range rows {
		chart.Dates[i] = r.Time.Format(DateLayout)
		chart.Open[i] = r.Open
		chart.High[i] = r.High
		chart.Low[i] = r.Low
		chart.Close[i] = r.Close
		chart.VWAP[i] = r.VWAP
	}
	v.Chart = chart

	start := 0
	if tailRows > 0 && len(rows) > tailRows {
		start = len(rows) - tailRows
	}
	for _, r := range rows[start:] {
		v.Table = append(v.Table, TableRow{
			Date:   r.Time.Format(DateLayout),
			Close:  cur.Format(r.Close),
			Volume: humanize.Commaf(r.Volume),
			VWAP:   formatVWAP(cur, r.VWAP),
		})
	}
	return v
}

func formatVWAP(cur currency.Currency, vwap null.Float) string {
	if !vwap.Valid {
		return Undefined
	}
	return cur.Format(vwap.Float64)
}
