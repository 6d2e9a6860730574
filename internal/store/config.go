package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// validIntervals are the candle intervals the vendor accepts.
var validIntervals = map[string]bool{
	"ONE_MINUTE":     true,
	"THREE_MINUTE":   true,
	"FIVE_MINUTE":    true,
	"TEN_MINUTE":     true,
	"FIFTEEN_MINUTE": true,
	"THIRTY_MINUTE":  true,
	"ONE_HOUR":       true,
	"ONE_DAY":        true,
}

type Config struct {
	Mode     string `yaml:"mode"`
	Exchange string `yaml:"exchange"`

	Defaults struct {
		Symbol        string `yaml:"symbol"`
		TradingSymbol string `yaml:"trading_symbol"`
		Token         string `yaml:"token"`
		Interval      string `yaml:"interval"`
		Days          int    `yaml:"days"`
		Qty           int    `yaml:"qty"`
	} `yaml:"defaults"`

	Stream struct {
		Tokens       []string `yaml:"tokens"`
		ExchangeType int      `yaml:"exchange_type"`
		PingSeconds  int      `yaml:"ping_seconds"`
		BufferSize   int      `yaml:"buffer_size"`
	} `yaml:"stream"`

	News struct {
		Enabled        bool `yaml:"enabled"`
		MaxHeadlines   int  `yaml:"max_headlines"`
		TimeoutSeconds int  `yaml:"timeout_seconds"`
	} `yaml:"news"`
}

func (c *Config) Validate() error {
	if c.Mode != "DRY_RUN" && c.Mode != "LIVE" {
		return fmt.Errorf("invalid mode '%s': must be 'DRY_RUN' or 'LIVE'", c.Mode)
	}
	if c.Exchange == "" {
		return fmt.Errorf("exchange cannot be empty")
	}
	if !validIntervals[c.Defaults.Interval] {
		return fmt.Errorf("invalid interval '%s'", c.Defaults.Interval)
	}
	if c.Defaults.Days <= 0 {
		return fmt.Errorf("defaults.days must be positive, got %d", c.Defaults.Days)
	}
	if c.Defaults.Qty <= 0 {
		return fmt.Errorf("defaults.qty must be positive, got %d", c.Defaults.Qty)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.Mode == "" {
		c.Mode = "DRY_RUN"
	}
	if c.Exchange == "" {
		c.Exchange = "NSE"
	}
	if c.Defaults.Symbol == "" {
		c.Defaults.Symbol = "RELIANCE"
	}
	if c.Defaults.TradingSymbol == "" {
		c.Defaults.TradingSymbol = c.Defaults.Symbol + "-EQ"
	}
	if c.Defaults.Token == "" {
		c.Defaults.Token = "2885"
	}
	if c.Defaults.Interval == "" {
		c.Defaults.Interval = "ONE_DAY"
	}
	if c.Defaults.Days == 0 {
		c.Defaults.Days = 30
	}
	if c.Defaults.Qty == 0 {
		c.Defaults.Qty = 1
	}
	if c.Stream.ExchangeType == 0 {
		c.Stream.ExchangeType = 1 // NSE cash market
	}
	if c.Stream.PingSeconds == 0 {
		c.Stream.PingSeconds = 30
	}
	if c.Stream.BufferSize == 0 {
		c.Stream.BufferSize = 200
	}
	if c.News.MaxHeadlines == 0 {
		c.News.MaxHeadlines = 5
	}
	if c.News.TimeoutSeconds == 0 {
		c.News.TimeoutSeconds = 10
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
