// Command orders walks through each order operation. It runs in dry-run
// mode unless the config says LIVE and -live is passed; real orders move
// real money.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"angelone-trader/internal/broker/brokerobs"
	"angelone-trader/internal/creds"
	"angelone-trader/internal/logger"
	"angelone-trader/internal/orders"
	"angelone-trader/internal/smartapi"
	"angelone-trader/internal/store"
	"angelone-trader/internal/trace"
	"angelone-trader/internal/tradelog"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	live := flag.Bool("live", false, "allow real orders (config mode must also be LIVE)")
	flag.Parse()

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
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

	if err := tradelog.CompressOlder(tradelog.RetentionDays()); err != nil {
		logger.Warn(ctx, "Trade journal compression failed", "error", err)
	}

	// Both the config and the flag have to opt in before anything real
	// is sent.
	mode := "DRY_RUN"
	if cfg.Mode == "LIVE" && *live {
		mode = "LIVE"
	}

	if mode == "DRY_RUN" {
		fmt.Println(strings.Repeat("=", 55))
		fmt.Println("  RUNNING IN DRY-RUN MODE — no real orders will be placed")
		fmt.Println(strings.Repeat("=", 55))
	} else {
		fmt.Println(strings.Repeat("!", 55))
		fmt.Println("  LIVE MODE — orders WILL be placed with real money!")
		fmt.Println("  Press Ctrl+C within 5 seconds to abort...")
		fmt.Println(strings.Repeat("!", 55))
		time.Sleep(5 * time.Second)
	}

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

	placer := orders.NewPlacer(brokerobs.Wrap(client), mode)
	d := cfg.Defaults

	// Example 1: Market buy order
	fmt.Println("\n--- Example 1: Market Buy Order ---")
	printOrder("BUY", d.TradingSymbol, d.Qty, "MARKET", 0)
	orderID, err := placer.Buy(ctx, orders.Spec{
		TradingSymbol: d.TradingSymbol,
		Token:         d.Token,
		Exchange:      cfg.Exchange,
		Qty:           d.Qty,
		OrderType:     "MARKET",
	})
	reportPlacement(placer, orderID, err)

	// Example 2: Limit sell order
	fmt.Println("\n--- Example 2: Limit Sell Order ---")
	printOrder("SELL", d.TradingSymbol, d.Qty, "LIMIT", 1350.00)
	sellID, err := placer.Sell(ctx, orders.Spec{
		TradingSymbol: d.TradingSymbol,
		Token:         d.Token,
		Exchange:      cfg.Exchange,
		Qty:           d.Qty,
		Price:         1350.00,
		OrderType:     "LIMIT",
	})
	reportPlacement(placer, sellID, err)

	// Example 3: Stop-loss order
	fmt.Println("\n--- Example 3: Stop-Loss Order ---")
	fmt.Printf("   Symbol:         %s\n", d.TradingSymbol)
	fmt.Printf("   Quantity:       %d\n", d.Qty)
	fmt.Printf("   Trigger Price:  ₹%.2f\n", 1250.00)
	fmt.Printf("   Limit Price:    ₹%.2f\n", 1245.00)
	slID, err := placer.StopLoss(ctx, orders.StopLossSpec{
		TradingSymbol: d.TradingSymbol,
		Token:         d.Token,
		Exchange:      cfg.Exchange,
		Qty:           d.Qty,
		Price:         1245.00,
		TriggerPrice:  1250.00,
	})
	reportPlacement(placer, slID, err)

	// Example 4: Check order status (only works with a real order ID)
	fmt.Println("\n--- Example 4: Check Order Status ---")
	if orderID != "" {
		entry, err := placer.Status(ctx, orderID)
		if err != nil {
			fmt.Printf("   Failed to fetch order status: %v\n", err)
		} else {
			fmt.Printf("   Order %s:\n", orderID)
			fmt.Printf("   Status:  %s\n", entry.OrderStatus)
			fmt.Printf("   Symbol:  %s\n", entry.TradingSymbol)
			fmt.Printf("   Qty:     %s\n", entry.Quantity)
			fmt.Printf("   Price:   %s\n", entry.Price)
		}
	} else {
		fmt.Println("   No order ID to check (dry run)")
	}

	// Example 5: Cancel an order
	fmt.Println("\n--- Example 5: Cancel Order ---")
	if orderID != "" {
		fmt.Printf("   Cancelling order: %s (variety: NORMAL)\n", orderID)
		if err := placer.Cancel(ctx, orderID, "NORMAL"); err != nil {
			fmt.Printf("   Cancel failed: %v\n", err)
		} else {
			fmt.Println("   Order cancelled.")
		}
	} else {
		fmt.Println("   No order ID to cancel (dry run)")
	}

	fmt.Printf("\nDone. All examples ran in %s mode.\n", mode)
}

func printOrder(side, symbol string, qty int, orderType string, price float64) {
	fmt.Println("\nOrder details:")
	fmt.Printf("   Action:     %s\n", side)
	fmt.Printf("   Symbol:     %s\n", symbol)
	fmt.Printf("   Quantity:   %d\n", qty)
	fmt.Printf("   Type:       %s\n", orderType)
	if orderType == "LIMIT" {
		fmt.Printf("   Price:      ₹%.2f\n", price)
	}
	fmt.Println("   Product:    DELIVERY (CNC)")
}

func reportPlacement(p *orders.Placer, orderID string, err error) {
	switch {
	case err != nil:
		fmt.Printf("\n   Order failed: %v\n", err)
	case p.DryRun():
		fmt.Println("\n   [DRY RUN] Order NOT placed. Run with -live and mode: LIVE to execute.")
	default:
		fmt.Printf("\n   Order placed! Order ID: %s\n", orderID)
	}
}
