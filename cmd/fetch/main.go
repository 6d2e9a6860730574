package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"angelone-trader/internal/broker/brokerobs"
	"angelone-trader/internal/creds"
	"angelone-trader/internal/logger"
	"angelone-trader/internal/marketdata"
	"angelone-trader/internal/news"
	"angelone-trader/internal/smartapi"
	"angelone-trader/internal/store"
	"angelone-trader/internal/trace"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	symbol := flag.String("symbol", "", "stock symbol (default from config)")
	token := flag.String("token", "", "SmartAPI symbol token (default from config)")
	exchange := flag.String("exchange", "", "exchange, NSE or BSE (default from config)")
	interval := flag.String("interval", "", "candle interval (default from config)")
	days := flag.Int("days", 0, "days of history (default from config)")
	withNews := flag.Bool("news", false, "also fetch recent headlines")
	flag.Parse()

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *symbol == "" {
		*symbol = cfg.Defaults.Symbol
	}
	if *token == "" {
		*token = cfg.Defaults.Token
	}
	if *exchange == "" {
		*exchange = cfg.Exchange
	}
	if *interval == "" {
		*interval = cfg.Defaults.Interval
	}
	if *days == 0 {
		*days = cfg.Defaults.Days
	}

	if err := logger.Init(); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	ctx := context.Background()
	defer func() { _ = trace.Shutdown(ctx) }()

	cr, err := creds.Load()
	if err != nil {
		var missing *creds.MissingError
		if errors.As(err, &missing) {
			fmt.Println(missing.Hint())
		} else {
			fmt.Printf("Error loading credentials: %v\n", err)
		}
		os.Exit(1)
	}

	client := smartapi.New(cr)
	if _, err := client.Login(ctx); err != nil {
		fmt.Printf("Authentication failed: %v\n", err)
		os.Exit(1)
	}
	brk := brokerobs.Wrap(client)

	fmt.Printf("Fetching %d days of %s data for %s...\n", *days, *interval, *symbol)

	candles, err := marketdata.Fetch(ctx, brk, marketdata.Query{
		Symbol:   *symbol,
		Token:    *token,
		Exchange: *exchange,
		Interval: *interval,
		Days:     *days,
	})
	if err != nil {
		fmt.Printf("Failed to fetch data: %v\n", err)
		os.Exit(1)
	}

	marketdata.RenderTable(os.Stdout, *symbol, candles)
	fmt.Printf("\nFetched %d candles.\n", len(candles))

	ltp, err := brk.LTP(ctx, *exchange, cfg.Defaults.TradingSymbol, *token)
	if err != nil {
		fmt.Printf("Failed to fetch last traded price: %v\n", err)
	} else {
		fmt.Printf("Last traded price: ₹%.2f\n", ltp.LTP)
	}

	if *withNews && cfg.News.Enabled {
		scraper := news.NewScraper(time.Duration(cfg.News.TimeoutSeconds) * time.Second)
		headlines := scraper.Fetch(ctx, *symbol, cfg.News.MaxHeadlines)
		if len(headlines) > 0 {
			fmt.Printf("\nRecent headlines for %s:\n", *symbol)
			for _, h := range headlines {
				fmt.Printf("  [%s] %s\n", h.Source, h.Title)
				if h.URL != "" {
					fmt.Printf("      %s\n", h.URL)
				}
			}
		} else {
			fmt.Println("\nNo headlines found.")
		}
	}
}
