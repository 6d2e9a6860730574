package broker

import (
	"context"

	"angelone-trader/internal/smartapi"
)

// Broker is the trading surface the CLIs and helpers work against.
// *smartapi.Client is the production implementation.
type Broker interface {
	// Candles fetches historical OHLCV bars
	Candles(ctx context.Context, req smartapi.CandleRequest) ([]smartapi.Candle, error)

	// LTP returns the last traded price snapshot for an instrument
	LTP(ctx context.Context, exchange, tradingSymbol, token string) (smartapi.LTPData, error)

	// PlaceOrder submits an order and returns the vendor's order ID
	PlaceOrder(ctx context.Context, params smartapi.OrderParams) (smartapi.OrderResponse, error)

	// CancelOrder cancels an open order of the given variety
	CancelOrder(ctx context.Context, variety, orderID string) (smartapi.OrderResponse, error)

	// OrderBook returns all of today's orders
	OrderBook(ctx context.Context) ([]smartapi.OrderBookEntry, error)
}

var _ Broker = (*smartapi.Client)(nil)
