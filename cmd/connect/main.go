package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"angelone-trader/internal/creds"
	"angelone-trader/internal/logger"
	"angelone-trader/internal/smartapi"
	"angelone-trader/internal/trace"
)

func main() {
	baseURL := flag.String("base-url", "", "override the SmartAPI endpoint (testing)")
	flag.Parse()

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

	var opts []smartapi.Option
	if *baseURL != "" {
		opts = append(opts, smartapi.WithBaseURL(*baseURL))
	}
	client := smartapi.New(cr, opts...)

	fmt.Println("Authenticating with AngelOne SmartAPI...")
	sess, err := client.Login(ctx)
	if err != nil {
		fmt.Printf("Authentication failed: %v\n", err)
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  1. Check your ANGELONE_CLIENT_ID (format: A12345678)")
		fmt.Println("  2. Check your ANGELONE_PASSWORD (your trading PIN)")
		fmt.Println("  3. Make sure TOTP is enabled in the AngelOne app")
		fmt.Println("  4. Check your API key at smartapi.angelbroking.com")
		os.Exit(1)
	}

	fmt.Println("Login successful!")
	fmt.Printf("Session token: %s...\n", truncate(sess.JWTToken, 20))
	fmt.Printf("Feed token: %s\n", sess.FeedToken)
	fmt.Printf("Connected as client: %s\n", sess.ClientCode)
	fmt.Println("\nConnection test passed. You're good to go.")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
