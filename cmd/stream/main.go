package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"angelone-trader/internal/creds"
	"angelone-trader/internal/logger"
	"angelone-trader/internal/smartapi"
	"angelone-trader/internal/store"
	"angelone-trader/internal/stream"
	"angelone-trader/internal/trace"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if len(cfg.Stream.Tokens) == 0 {
		fmt.Println("No stream tokens configured. Add them under 'stream.tokens' in config.yaml.")
		os.Exit(1)
	}

	if err := logger.Init(); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() { _ = trace.Shutdown(context.Background()) }()

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
	sess, err := client.Login(ctx)
	if err != nil {
		fmt.Printf("Authentication failed: %v\n", err)
		os.Exit(1)
	}

	mgr := stream.NewManager(cr.APIKey, sess,
		stream.WithPingInterval(time.Duration(cfg.Stream.PingSeconds)*time.Second),
		stream.WithBufferSize(cfg.Stream.BufferSize),
	)
	if err := mgr.Start(ctx); err != nil {
		fmt.Printf("Failed to start feed: %v\n", err)
		os.Exit(1)
	}
	defer mgr.Stop(ctx)

	if err := mgr.Subscribe(ctx, cfg.Stream.ExchangeType, cfg.Stream.Tokens); err != nil {
		fmt.Printf("Failed to subscribe: %v\n", err)
		os.Exit(1)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(5 * time.Second)
	defer tick.Stop()

	fmt.Println("Streaming live ticks. Ctrl+C to stop.")
	for {
		select {
		case <-tick.C:
			for _, token := range cfg.Stream.Tokens {
				recent, err := mgr.Recent(token, 1)
				if err != nil {
					continue
				}
				t := recent[0]
				fmt.Printf("%s  token=%s  ltp=%.2f\n", t.Ts.Format("15:04:05"), t.Token, t.LTP)
			}
		case <-sigc:
			fmt.Println("Shutting down...")
			return
		case <-ctx.Done():
			return
		}
	}
}
