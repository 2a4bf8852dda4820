package render

import (
	"html/template"
	"io"
)

// TickerRef is one entry of the popular tickers table.
type TickerRef struct {
	Name   string
	Symbol string
}

// Page is the data behind the full dashboard page.
type Page struct {
	Title          string
	Ticker         string
	Tickers        []TickerRef
	RefreshSeconds int
	View           *View
}

// WritePage renders the dashboard page.
func WritePage(w io.Writer, p Page) error {
	return pageTmpl.Execute(w, p)
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{if gt .RefreshSeconds 0}}<meta http-equiv="refresh" content="{{.RefreshSeconds}}">{{end}}
<link rel="preconnect" href="https://fonts.googleapis.com">
<link href="https://fonts.googleapis.com/css2?family=Inter:wght@300;400;600;700&display=swap" rel="stylesheet">
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>
<style>
body { font-family: 'Inter', sans-serif; background: #0e1117; color: #fafafa; margin: 0; display: flex; }
aside { width: 300px; padding: 24px; background: #161a23; min-height: 100vh; }
main { flex: 1; padding: 24px 40px; }
h1, h2, h3 { font-weight: 600; }
.metrics { display: flex; gap: 16px; }
.metric { flex: 1; background: #111; border: 1px solid #222; padding: 18px; border-radius: 14px; transition: 0.3s ease; }
.metric:hover { box-shadow: 0 0 15px rgba(0, 173, 255, 0.35); }
.metric .label { font-size: 0.85em; color: #aaa; }
.metric .value { font-size: 1.8em; margin-top: 6px; }
.warning { background: #3d3a12; border: 1px solid #8a7d1c; padding: 14px; border-radius: 8px; }
.info { background: #12303d; padding: 12px; border-radius: 8px; font-size: 0.9em; }
table { border-collapse: collapse; width: 100%; }
td, th { padding: 4px 8px; border-bottom: 1px solid #222; text-align: left; }
input { width: 100%; padding: 6px; box-sizing: border-box; }
</style>
</head>
<body>
<aside>
<h2>CONTROLS</h2>
<form method="post" action="/ticker">
<label for="ticker">Enter Stock Ticker:</label>
<input id="ticker" name="ticker" value="{{.Ticker}}">
</form>
<h3>Popular Tickers</h3>
<table>
<tr><th>Company</th><th>Ticker</th></tr>
{{range .Tickers}}<tr><td>{{.Name}}</td><td>{{.Symbol}}</td></tr>
{{end}}</table>
<p class="info">This dashboard shows historical daily data (1-year) and auto-refreshes every {{.RefreshSeconds}} seconds.</p>
</aside>
<main>
<h1>{{.Title}}</h1>
{{with .View}}
{{if eq .State "no_data"}}
<div class="warning">{{.Warning}}</div>
{{else if eq .State "idle"}}
<p>Enter a ticker to start.</p>
{{else}}
<div class="metrics">
{{range .Metrics}}<div class="metric"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>
{{end}}</div>
<h3>VWAP vs. Price (1-Day Candles)</h3>
<div id="chart" style="height:600px"></div>
<script>
const chart = {{.Chart}};
Plotly.newPlot("chart", [
  {type: "candlestick", x: chart.dates, open: chart.open, high: chart.high, low: chart.low, close: chart.close, name: "Price"},
  {type: "scatter", mode: "lines", x: chart.dates, y: chart.vwap, name: "VWAP", line: {width: 2, color: "#FFD700"}}
], {
  template: "plotly_dark", paper_bgcolor: "#0e1117", plot_bgcolor: "#0e1117", font: {color: "#fafafa"},
  xaxis: {rangeslider: {visible: false}, showgrid: false}, yaxis: {showgrid: false},
  hovermode: "x unified", showlegend: true, margin: {l: 40, r: 40, t: 40, b: 40}
}, {responsive: true});
</script>
<h3>Latest Daily Candle Data (Last {{len .Table}} Days)</h3>
<table>
<tr><th>Date</th><th>Close</th><th>Volume</th><th>VWAP</th></tr>
{{range .Table}}<tr><td>{{.Date}}</td><td>{{.Close}}</td><td>{{.Volume}}</td><td>{{.VWAP}}</td></tr>
{{end}}</table>
{{end}}
<p><small>Updated {{.UpdatedAt.Format "2006-01-02 15:04:05"}}</small></p>
{{end}}
</main>
</body>
</html>
`))
