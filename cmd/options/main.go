package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"angelone-trader/internal/expiry"
	"angelone-trader/internal/logger"
	"angelone-trader/internal/optionchain"
	"angelone-trader/internal/store"
	"angelone-trader/internal/trace"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	symbol := flag.String("symbol", "", "underlying symbol (default from config)")
	expiryOnly := flag.Bool("expiry-only", false, "print the next expiry date and exit")
	flag.Parse()

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *symbol == "" {
		*symbol = cfg.Defaults.Symbol
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

	exp := expiry.NextExpiry(time.Now())
	fmt.Printf("Next monthly options expiry: %s (%s)\n", exp.Format("2006-01-02"), exp.Weekday())

	if *expiryOnly {
		return
	}
	chain, err := optionchain.NewClient().Fetch(ctx, *symbol, exp)
	if err != nil {
		fmt.Printf("Failed to fetch option chain: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n%s option chain — expiry %s (underlying %.2f, %d strikes)\n\n",
		chain.Symbol, chain.Expiry.Format("2006-01-02"), chain.Underlying, len(chain.Strikes))

	header := fmt.Sprintf("%12s %12s %10s %12s %12s", "Call OI", "Call LTP", "Strike", "Put LTP", "Put OI")
	fmt.Println(header)
	for _, s := range chain.Strikes {
		fmt.Printf("%12d %12.2f %10.2f %12.2f %12d\n",
			s.CallOI, s.CallLTP, s.StrikePrice, s.PutLTP, s.PutOI)
	}
}
