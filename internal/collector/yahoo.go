package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"NexusStream/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// FetchDailyBars returns one year of split and dividend adjusted daily bars.
func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string) ([]model.OHLCV, error) {
	params := url.Values{}
	params.Set("range", "1y")
	params.Set("interval", "1d")
	params.Set("events", "div,splits")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", f.BaseURL, url.PathEscape(symbol), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("yahoo: status %d, invalid json body", resp.StatusCode)
	}

	chart := gjson.GetBytes(body, "chart")
	if e := chart.Get("error"); e.Exists() && e.Type != gjson.Null {
		return nil, fmt.Errorf("yahoo api error: %s", e.Get("description").String())
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	return parseChart(chart.Get("result.0"))
}

// parseChart converts a chart result into adjusted bars. Prices are scaled
// by adjclose/close so that splits and dividends do not show up as gaps.
func parseChart(result gjson.Result) ([]model.OHLCV, error) {
	timestamps := result.Get("timestamp").Array()
	if len(timestamps) == 0 {
		return []model.OHLCV{}, nil
	}

	quote := result.Get("indicators.quote.0")
	if !quote.Exists() {
		return nil, errors.New("yahoo: missing quote indicators")
	}
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()
	adjCloses := result.Get("indicators.adjclose.0.adjclose").Array()

	n := len(timestamps)
	if len(opens) != n || len(highs) != n || len(lows) != n || len(closes) != n || len(volumes) != n {
		return nil, fmt.Errorf("yahoo: quote arrays do not match %d timestamps", n)
	}

	zone := time.FixedZone(result.Get("meta.exchangeTimezoneName").String(), int(result.Get("meta.gmtoffset").Int()))
	bars := make([]model.OHLCV, 0, n)

	for i, ts := range timestamps {
		if closes[i].Type == gjson.Null {
			continue // holidays and halted sessions
		}
		c := closes[i].Float()
		ratio := 1.0
		if i < len(adjCloses) && adjCloses[i].Type != gjson.Null && c != 0 {
			ratio = adjCloses[i].Float() / c
		}

		t := time.Unix(ts.Int(), 0).In(zone)
		bars = append(bars, model.OHLCV{
			Time:   time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, zone),
			Open:   opens[i].Float() * ratio,
			High:   highs[i].Float() * ratio,
			Low:    lows[i].Float() * ratio,
			Close:  c * ratio,
			Volume: volumes[i].Float(),
		})
	}

	if err := checkBars(bars); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
