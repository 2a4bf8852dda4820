package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Ticker is an entry of the popular tickers reference table.
type Ticker struct {
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr  string `yaml:"addr"`
		Title string `yaml:"title"`
	} `yaml:"server"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Symbol  string `yaml:"symbol"`
	} `yaml:"data_source"`
	Schedule struct {
		RefreshSeconds int `yaml:"refresh_seconds"`
	} `yaml:"schedule"`
	Dashboard struct {
		TailRows       int      `yaml:"tail_rows"`
		PopularTickers []Ticker `yaml:"popular_tickers"`
	} `yaml:"dashboard"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// DefaultTickers is the reference table shown when none is configured.
var DefaultTickers = []Ticker{
	{"Apple", "AAPL"},
	{"Microsoft", "MSFT"},
	{"Google", "GOOGL"},
	{"Tesla", "TSLA"},
	{"Amazon", "AMZN"},
	{"NVIDIA", "NVDA"},
	{"Meta", "META"},
	{"Netflix", "NFLX"},
	{"Reliance (IND)", "RELIANCE.NS"},
	{"TCS (IND)", "TCS.NS"},
	{"HDFC Bank (IND)", "HDFCBANK.NS"},
	{"Infosys (IND)", "INFY.NS"},
	{"Toyota (JP)", "7203.T"},
	{"Sony (JP)", "6758.T"},
	{"Samsung (KOR)", "005930.KS"},
	{"TSMC (Taiwan)", "TSM"},
	{"Volkswagen (GER)", "VOW3.DE"},
	{"Shell (UK)", "SHEL.L"},
	{"AstraZeneca (UK)", "AZN.L"},
	{"Vale (Brazil)", "VALE"},
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DASHBOARD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TICKER"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("REFRESH_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.RefreshSeconds = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8501"
	}
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "AAPL"
	}
	if cfg.Server.Title == "" {
		cfg.Server.Title = "NexusStream"
	}
	if cfg.Schedule.RefreshSeconds == 0 {
		cfg.Schedule.RefreshSeconds = 60
	}
	if cfg.Dashboard.TailRows == 0 {
		cfg.Dashboard.TailRows = 20
	}
	if len(cfg.Dashboard.PopularTickers) == 0 {
		cfg.Dashboard.PopularTickers = DefaultTickers
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.DataSource.Symbol = strings.ToUpper(strings.TrimSpace(cfg.DataSource.Symbol))

	return cfg, nil
}

// RefreshSpec returns the cron spec of the refresh cycle. The page
// meta-refresh and the cycle timer share the same interval.
func (c *Config) RefreshSpec() string {
	return fmt.Sprintf("@every %ds", c.Schedule.RefreshSeconds)
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	var errs error
	if c.Server.Addr == "" {
		errs = errors.Join(errs, errors.New("server.addr is required"))
	}
	if c.Schedule.RefreshSeconds <= 0 {
		errs = errors.Join(errs, errors.New("schedule.refresh_seconds must be positive"))
	} else if _, err := cron.ParseStandard(c.RefreshSpec()); err != nil {
		errs = errors.Join(errs, fmt.Errorf("schedule.refresh_seconds: %w", err))
	}
	if c.Dashboard.TailRows <= 0 {
		errs = errors.Join(errs, errors.New("dashboard.tail_rows must be positive"))
	}
	for i, t := range c.Dashboard.PopularTickers {
		if strings.TrimSpace(t.Symbol) == "" {
			errs = errors.Join(errs, fmt.Errorf("dashboard.popular_tickers[%d]: symbol is required", i))
		}
	}
	return errs
}
