package marketdata

import (
	"context"
	"strings"
	"testing"
	"time"

	"angelone-trader/internal/smartapi"
)

type fakeBroker struct {
	gotReq  smartapi.CandleRequest
	candles []smartapi.Candle
}

func (f *fakeBroker) Candles(ctx context.Context, req smartapi.CandleRequest) ([]smartapi.Candle, error) {
	f.gotReq = req
	return f.candles, nil
}

func (f *fakeBroker) LTP(ctx context.Context, exchange, tradingSymbol, token string) (smartapi.LTPData, error) {
	return smartapi.LTPData{}, nil
}

func (f *fakeBroker) PlaceOrder(ctx context.Context, params smartapi.OrderParams) (smartapi.OrderResponse, error) {
	return smartapi.OrderResponse{}, nil
}

func (f *fakeBroker) CancelOrder(ctx context.Context, variety, orderID string) (smartapi.OrderResponse, error) {
	return smartapi.OrderResponse{}, nil
}

func (f *fakeBroker) OrderBook(ctx context.Context) ([]smartapi.OrderBookEntry, error) {
	return nil, nil
}

func TestFetchBuildsSessionWindow(t *testing.T) {
	fb := &fakeBroker{candles: []smartapi.Candle{{Close: 1}}}

	_, err := Fetch(context.Background(), fb, Query{
		Symbol:   "RELIANCE",
		Token:    "2885",
		Exchange: "NSE",
		Interval: "ONE_DAY",
		Days:     30,
	})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	req := fb.gotReq
	if req.Exchange != "NSE" || req.SymbolToken != "2885" || req.Interval != "ONE_DAY" {
		t.Errorf("request = %+v", req)
	}
	if !strings.HasSuffix(req.FromDate, " 09:15") {
		t.Errorf("FromDate = %q, want 09:15 session open", req.FromDate)
	}
	if !strings.HasSuffix(req.ToDate, " 15:30") {
		t.Errorf("ToDate = %q, want 15:30 session close", req.ToDate)
	}

	wantFrom := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	if !strings.HasPrefix(req.FromDate, wantFrom) {
		t.Errorf("FromDate = %q, want date %s", req.FromDate, wantFrom)
	}
}

func TestRenderTable(t *testing.T) {
	ts, _ := time.Parse("2006-01-02", "2025-01-15")
	candles := []smartapi.Candle{
		{Ts: ts, Open: 1250.5, High: 1262, Low: 1244.1, Close: 1255.3, Volume: 1234567},
	}

	var b strings.Builder
	RenderTable(&b, "RELIANCE", candles)
	out := b.String()

	if !strings.Contains(out, "RELIANCE — OHLCV (1 candles)") {
		t.Errorf("missing title, got:\n%s", out)
	}
	for _, col := range []string{"Date", "Open", "High", "Low", "Close", "Volume"} {
		if !strings.Contains(out, col) {
			t.Errorf("missing column %s", col)
		}
	}
	if !strings.Contains(out, "2025-01-15") {
		t.Errorf("missing date row, got:\n%s", out)
	}
	if !strings.Contains(out, "1,234,567") {
		t.Errorf("volume not grouped, got:\n%s", out)
	}
	if !strings.Contains(out, "1250.50") {
		t.Errorf("open not formatted, got:\n%s", out)
	}
}

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}
	for _, tt := range tests {
		if got := groupThousands(tt.in); got != tt.want {
			t.Errorf("groupThousands(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
