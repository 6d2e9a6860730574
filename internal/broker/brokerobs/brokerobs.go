package brokerobs

import (
	"context"

	"angelone-trader/internal/broker"
	"angelone-trader/internal/logger"
	"angelone-trader/internal/smartapi"
	"angelone-trader/internal/trace"
)

// observableBroker wraps a Broker with observability (logging & tracing)
type observableBroker struct {
	broker broker.Broker
}

var _ broker.Broker = (*observableBroker)(nil)

// Wrap wraps a broker with observability middleware
func Wrap(b broker.Broker) broker.Broker {
	return &observableBroker{broker: b}
}

// Candles fetches candles with observability
func (ob *observableBroker) Candles(ctx context.Context, req smartapi.CandleRequest) ([]smartapi.Candle, error) {
	ctx, span := trace.StartSpan(ctx, "broker.Candles")
	defer span.End()

	logger.Debug(ctx, "Fetching candles", "token", req.SymbolToken, "interval", req.Interval)

	candles, err := ob.broker.Candles(ctx, req)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch candles", err, "token", req.SymbolToken)
		return nil, err
	}

	logger.Debug(ctx, "Candles fetched successfully", "token", req.SymbolToken, "count", len(candles))
	return candles, nil
}

// LTP returns the last traded price with observability
func (ob *observableBroker) LTP(ctx context.Context, exchange, tradingSymbol, token string) (smartapi.LTPData, error) {
	ctx, span := trace.StartSpan(ctx, "broker.LTP")
	defer span.End()

	data, err := ob.broker.LTP(ctx, exchange, tradingSymbol, token)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch LTP", err, "symbol", tradingSymbol)
		return smartapi.LTPData{}, err
	}

	logger.Debug(ctx, "LTP fetched successfully", "symbol", tradingSymbol, "ltp", data.LTP)
	return data, nil
}

// PlaceOrder places an order with observability
func (ob *observableBroker) PlaceOrder(ctx context.Context, params smartapi.OrderParams) (smartapi.OrderResponse, error) {
	ctx, span := trace.StartSpan(ctx, "broker.PlaceOrder")
	defer span.End()

	logger.Info(ctx, "Placing order",
		"symbol", params.TradingSymbol,
		"side", params.TransactionType,
		"qty", params.Quantity,
		"ordertype", params.OrderType,
		"variety", params.Variety)

	resp, err := ob.broker.PlaceOrder(ctx, params)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to place order", err, "symbol", params.TradingSymbol)
		return smartapi.OrderResponse{}, err
	}

	logger.Info(ctx, "Order placed", "symbol", params.TradingSymbol, "order_id", resp.OrderID)
	return resp, nil
}

// CancelOrder cancels an order with observability
func (ob *observableBroker) CancelOrder(ctx context.Context, variety, orderID string) (smartapi.OrderResponse, error) {
	ctx, span := trace.StartSpan(ctx, "broker.CancelOrder")
	defer span.End()

	resp, err := ob.broker.CancelOrder(ctx, variety, orderID)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to cancel order", err, "order_id", orderID)
		return smartapi.OrderResponse{}, err
	}

	logger.Info(ctx, "Order cancelled", "order_id", orderID, "variety", variety)
	return resp, nil
}

// OrderBook fetches the order book with observability
func (ob *observableBroker) OrderBook(ctx context.Context) ([]smartapi.OrderBookEntry, error) {
	ctx, span := trace.StartSpan(ctx, "broker.OrderBook")
	defer span.End()

	entries, err := ob.broker.OrderBook(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch order book", err)
		return nil, err
	}

	logger.Debug(ctx, "Order book fetched", "count", len(entries))
	return entries, nil
}
