package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"

	"NexusStream/internal/collector"
	"NexusStream/internal/render"
	"NexusStream/internal/scheduler"
)

func newTestServer(t *testing.T, fetcher collector.Fetcher, ticker string) (*httptest.Server, *scheduler.Scheduler) {
	t.Helper()
	sched := scheduler.NewScheduler(collector.NewCollector(fetcher, zerolog.Nop()), ticker, 20, zerolog.Nop())
	srv := New(Config{
		Title:          "NexusStream",
		RefreshSeconds: 60,
		Tickers:        []render.TickerRef{{Name: "Apple", Symbol: "AAPL"}},
		Logger:         zerolog.Nop(),
	}, sched)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, sched
}

func get(t *testing.T, u string) (int, string) {
	t.Helper()
	resp, err := http.Get(u)
	assert.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestPage(t *testing.T) {
	ts, sched := newTestServer(t, &collector.MockFetcher{Price: 180}, "AAPL")
	sched.RunNow()

	status, body := get(t, ts.URL+"/")
	assert.Equal(t, status, http.StatusOK)
	assert.True(t, strings.Contains(body, "AAPL Latest Daily Price"))
	assert.True(t, strings.Contains(body, `value="AAPL"`))
	assert.True(t, strings.Contains(body, "<td>Apple</td>"))

	status, _ = get(t, ts.URL+"/missing")
	assert.Equal(t, status, http.StatusNotFound)

	status, body = get(t, ts.URL+"/healthz")
	assert.Equal(t, status, http.StatusOK)
	assert.Equal(t, body, "ok")
}

func TestPage_NoData(t *testing.T) {
	ts, sched := newTestServer(t, &collector.MockFetcher{}, "ZZZZ")
	sched.RunNow()

	_, body := get(t, ts.URL+"/")
	assert.True(t, strings.Contains(body, "No daily data found for ZZZZ"))
}

func TestTicker(t *testing.T) {
	ts, sched := newTestServer(t, &collector.MockFetcher{Price: 180}, "AAPL")

	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.PostForm(ts.URL+"/ticker", url.Values{"ticker": {" tcs.ns "}})
	assert.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, resp.StatusCode, http.StatusSeeOther)
	assert.Equal(t, resp.Header.Get("Location"), "/")
	assert.Equal(t, sched.Ticker(), "TCS.NS")
}

func TestAPIView(t *testing.T) {
	ts, sched := newTestServer(t, &collector.MockFetcher{Price: 180}, "MSFT")
	sched.RunNow()

	status, body := get(t, ts.URL+"/api/view")
	assert.Equal(t, status, http.StatusOK)

	var v render.View
	assert.NoError(t, json.Unmarshal([]byte(body), &v))
	assert.Equal(t, v.Ticker, "MSFT")
	assert.Equal(t, v.State, render.StateRendered)
	assert.Equal(t, len(v.Table), 20)
	assert.Equal(t, len(v.Chart.Dates), 252)
}
