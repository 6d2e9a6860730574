// Package orders shapes and routes equity orders: market/limit buy and
// sell, stop-loss limit, cancellation, and order-book status lookup.
//
// Every operation honors a dry-run gate: validation and logging run in
// full, the network call to the broker is suppressed.
package orders

import (
	"context"
	"errors"
	"fmt"

	"angelone-trader/internal/broker"
	"angelone-trader/internal/logger"
	"angelone-trader/internal/smartapi"
	"angelone-trader/internal/tradelog"
)

// ErrStopLossPrices rejects stop-loss orders missing either price.
var ErrStopLossPrices = errors.New("stop-loss orders need both price and trigger price > 0")

// ErrOrderNotFound is returned by Status when no order book row matches.
var ErrOrderNotFound = errors.New("order not found in order book")

// Spec describes a buy or sell in user terms.
type Spec struct {
	TradingSymbol string  // e.g. "RELIANCE-EQ"
	Token         string  // vendor symbol token
	Exchange      string  // "NSE" or "BSE"
	Qty           int     // number of shares
	Price         float64 // limit price, ignored for market orders
	OrderType     string  // "MARKET" or "LIMIT"
}

// StopLossSpec describes a stop-loss limit sell: the order activates at
// TriggerPrice and then rests as a limit at Price.
type StopLossSpec struct {
	TradingSymbol string
	Token         string
	Exchange      string
	Qty           int
	Price         float64
	TriggerPrice  float64
}

// Placer routes orders through a broker, guarded by a dry-run flag.
type Placer struct {
	brk    broker.Broker
	dryRun bool
}

// NewPlacer creates a Placer. mode is the run-config mode string; any
// value other than "LIVE" keeps the dry-run gate closed.
func NewPlacer(brk broker.Broker, mode string) *Placer {
	return &Placer{brk: brk, dryRun: mode != "LIVE"}
}

// DryRun reports whether the placer suppresses broker calls.
func (p *Placer) DryRun() bool { return p.dryRun }

func (p *Placer) mode() string {
	if p.dryRun {
		return "DRY_RUN"
	}
	return "LIVE"
}

// Buy places a buy order. Returns the vendor order ID, or "" in dry run.
func (p *Placer) Buy(ctx context.Context, s Spec) (string, error) {
	return p.place(ctx, "BUY", s)
}

// Sell places a sell order. Same shaping as Buy with transactiontype=SELL.
func (p *Placer) Sell(ctx context.Context, s Spec) (string, error) {
	return p.place(ctx, "SELL", s)
}

func (p *Placer) place(ctx context.Context, side string, s Spec) (string, error) {
	if s.Qty <= 0 {
		return "", fmt.Errorf("quantity must be positive, got %d", s.Qty)
	}
	if s.OrderType != "MARKET" && s.OrderType != "LIMIT" {
		return "", fmt.Errorf("order type must be MARKET or LIMIT, got %q", s.OrderType)
	}

	price := 0.0
	if s.OrderType == "LIMIT" {
		price = s.Price
	}

	params := smartapi.OrderParams{
		Variety:         "NORMAL",
		TradingSymbol:   s.TradingSymbol,
		SymbolToken:     s.Token,
		TransactionType: side,
		Exchange:        s.Exchange,
		OrderType:       s.OrderType,
		ProductType:     "DELIVERY",
		Duration:        "DAY",
		Quantity:        s.Qty,
		Price:           price,
	}

	if p.dryRun {
		logger.Order(ctx, s.TradingSymbol, side, s.Qty, price, "", "DRY_RUN")
		return "", nil
	}

	resp, err := p.brk.PlaceOrder(ctx, params)
	if err != nil {
		return "", err
	}

	logger.Order(ctx, s.TradingSymbol, side, s.Qty, price, resp.OrderID, "LIVE")
	p.journal(s.TradingSymbol, side, s.Qty, price, resp.OrderID)
	return resp.OrderID, nil
}

// StopLoss places a stop-loss limit sell. Both prices must be positive;
// the check runs before any network call.
func (p *Placer) StopLoss(ctx context.Context, s StopLossSpec) (string, error) {
	if s.Price <= 0 || s.TriggerPrice <= 0 {
		return "", ErrStopLossPrices
	}
	if s.Qty <= 0 {
		return "", fmt.Errorf("quantity must be positive, got %d", s.Qty)
	}

	params := smartapi.OrderParams{
		Variety:         "STOPLOSS",
		TradingSymbol:   s.TradingSymbol,
		SymbolToken:     s.Token,
		TransactionType: "SELL",
		Exchange:        s.Exchange,
		OrderType:       "STOPLOSS_LIMIT",
		ProductType:     "DELIVERY",
		Duration:        "DAY",
		Quantity:        s.Qty,
		Price:           s.Price,
		TriggerPrice:    s.TriggerPrice,
	}

	if p.dryRun {
		logger.Order(ctx, s.TradingSymbol, "SELL", s.Qty, s.Price, "", "DRY_RUN", "variety", "STOPLOSS", "trigger", s.TriggerPrice)
		return "", nil
	}

	resp, err := p.brk.PlaceOrder(ctx, params)
	if err != nil {
		return "", err
	}

	logger.Order(ctx, s.TradingSymbol, "SELL", s.Qty, s.Price, resp.OrderID, "LIVE", "variety", "STOPLOSS", "trigger", s.TriggerPrice)
	p.journal(s.TradingSymbol, "SELL-SL", s.Qty, s.Price, resp.OrderID)
	return resp.OrderID, nil
}

// Cancel cancels an open order. Variety must match the original order.
func (p *Placer) Cancel(ctx context.Context, orderID, variety string) error {
	if p.dryRun {
		logger.Info(ctx, "DRY RUN: order not cancelled", "order_id", orderID, "variety", variety)
		return nil
	}

	if _, err := p.brk.CancelOrder(ctx, variety, orderID); err != nil {
		return err
	}
	p.journal("", "CANCEL", 0, 0, orderID)
	return nil
}

// Status looks an order up in the order book. The vendor has no
// per-order endpoint; the book is scanned for the matching order ID.
func (p *Placer) Status(ctx context.Context, orderID string) (smartapi.OrderBookEntry, error) {
	book, err := p.brk.OrderBook(ctx)
	if err != nil {
		return smartapi.OrderBookEntry{}, err
	}

	for _, entry := range book {
		if entry.OrderID == orderID {
			return entry, nil
		}
	}
	return smartapi.OrderBookEntry{}, fmt.Errorf("order %s: %w", orderID, ErrOrderNotFound)
}

func (p *Placer) journal(symbol, side string, qty int, price float64, orderID string) {
	err := tradelog.Append(tradelog.Entry{
		Symbol:  symbol,
		Side:    side,
		Qty:     qty,
		Price:   price,
		OrderID: orderID,
		Mode:    p.mode(),
	})
	if err != nil {
		logger.Warn(context.Background(), "Failed to append trade journal entry", "error", err)
	}
}
