package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
)

// Three sessions; the middle one is a holiday with null prices.
const chartFixture = `{"chart":{"result":[{
  "meta":{"symbol":"AAPL","gmtoffset":-14400,"exchangeTimezoneName":"America/New_York"},
  "timestamp":[1735828200,1735914600,1736173800],
  "indicators":{
    "quote":[{"open":[200,null,210],"high":[204,null,214],"low":[198,null,206],"close":[200,null,212],"volume":[1000,null,3000]}],
    "adjclose":[{"adjclose":[100,null,212]}]
  }}],"error":null}}`

func newYahooTestServer(t *testing.T, status int, body string) (*httptest.Server, *YahooFetcher) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("range") != "1y" || q.Get("interval") != "1d" {
			http.Error(w, "bad params", http.StatusBadRequest)
			return
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	return srv, f
}

func TestYahooFetcher_AdjustsAndSkipsNulls(t *testing.T) {
	_, f := newYahooTestServer(t, http.StatusOK, chartFixture)

	bars, err := f.FetchDailyBars(context.Background(), "AAPL")
	assert.NoError(t, err)
	assert.Equal(t, len(bars), 2)

	// First bar is scaled by adjclose/close = 0.5.
	assert.Equal(t, bars[0].Open, float64(100))
	assert.Equal(t, bars[0].High, float64(102))
	assert.Equal(t, bars[0].Low, float64(99))
	assert.Equal(t, bars[0].Close, float64(100))
	assert.Equal(t, bars[0].Volume, float64(1000))

	// Second bar is unadjusted.
	assert.Equal(t, bars[1].Close, float64(212))
	assert.Equal(t, bars[1].Volume, float64(3000))

	// Dates are exchange-local calendar days.
	assert.Equal(t, bars[0].Time.Year(), 2025)
	assert.Equal(t, bars[0].Time.Month(), time.January)
	assert.Equal(t, bars[0].Time.Day(), 2)
	assert.Equal(t, bars[0].Time.Hour(), 0)
	assert.Equal(t, bars[1].Time.Day(), 6)
}

func TestYahooFetcher_EmptyResult(t *testing.T) {
	_, f := newYahooTestServer(t, http.StatusOK, `{"chart":{"result":[{"meta":{"gmtoffset":0},"indicators":{"quote":[{}]}}],"error":null}}`)

	bars, err := f.FetchDailyBars(context.Background(), "EMPTY")
	assert.NoError(t, err)
	assert.Equal(t, len(bars), 0)
}

func TestYahooFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api error", http.StatusNotFound, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`},
		{"bad status", http.StatusInternalServerError, `{"chart":{"result":[],"error":null}}`},
		{"malformed", http.StatusOK, `<html>rate limited</html>`},
		{"non-finite close", http.StatusOK, `{"chart":{"result":[{"timestamp":[1735828200],"indicators":{"quote":[{"open":[1],"high":[1],"low":[1],"close":["NaN"],"volume":[1]}]}}],"error":null}}`},
		{"overflowing volume", http.StatusOK, `{"chart":{"result":[{"timestamp":[1735828200],"indicators":{"quote":[{"open":[1],"high":[1],"low":[1],"close":[1],"volume":[1e999]}]}}],"error":null}}`},
		{"mismatched arrays", http.StatusOK, `{"chart":{"result":[{"timestamp":[1,2],"indicators":{"quote":[{"open":[1],"high":[1],"low":[1],"close":[1],"volume":[1]}]}}],"error":null}}`},
	}
	for _, tt := range tests {
		_, f := newYahooTestServer(t, tt.status, tt.body)
		_, err := f.FetchDailyBars(context.Background(), "BAD")
		if err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}

func TestYahooFetcher_Unreachable(t *testing.T) {
	f := NewYahooFetcher("")
	f.BaseURL = "http://127.0.0.1:1"
	_, err := f.FetchDailyBars(context.Background(), "AAPL")
	assert.Error(t, err)
}
