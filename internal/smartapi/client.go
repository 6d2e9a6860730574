// Package smartapi is a client for AngelOne's SmartAPI brokerage HTTP API:
// TOTP-based session login, historical candles, quotes, and order routing.
package smartapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"angelone-trader/internal/api"
	"angelone-trader/internal/creds"
	"angelone-trader/internal/logger"
)

const defaultBaseURL = "https://apiconnect.angelbroking.com"

const (
	loginPath     = "/rest/auth/angelbroking/user/v1/loginByPassword"
	renewPath     = "/rest/auth/angelbroking/jwt/v1/generateTokens"
	logoutPath    = "/rest/secure/angelbroking/user/v1/logout"
	candlePath    = "/rest/secure/angelbroking/historical/v1/getCandleData"
	placePath     = "/rest/secure/angelbroking/order/v1/placeOrder"
	cancelPath    = "/rest/secure/angelbroking/order/v1/cancelOrder"
	orderBookPath = "/rest/secure/angelbroking/order/v1/getOrderBook"
	ltpPath       = "/rest/secure/angelbroking/order/v1/getLtpData"
)

// ErrNotLoggedIn is returned by authenticated calls before Login succeeds.
var ErrNotLoggedIn = errors.New("smartapi: not logged in")

// Client talks to the SmartAPI endpoints. Create one with New, then call
// Login before any of the authenticated methods.
type Client struct {
	http    *api.Client
	creds   creds.Credentials
	session *Session
}

// Option configures the client.
type Option func(*clientConfig)

type clientConfig struct {
	baseURL string
	timeout time.Duration
	limiter *api.RateLimiter
}

// WithBaseURL overrides the vendor endpoint (tests point this at a local
// server).
func WithBaseURL(u string) Option {
	return func(c *clientConfig) { c.baseURL = u }
}

// WithTimeout overrides the HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.timeout = d }
}

// WithRateLimiter replaces the default request limiter.
func WithRateLimiter(rl *api.RateLimiter) Option {
	return func(c *clientConfig) { c.limiter = rl }
}

// New creates a SmartAPI client for the given credentials. Requests are
// throttled to 10 per second by default; the vendor enforces per-second
// limits on the historical and order endpoints.
func New(cr creds.Credentials, opts ...Option) *Client {
	cfg := clientConfig{
		baseURL: defaultBaseURL,
		timeout: 30 * time.Second,
		limiter: api.NewRateLimiter(10, 100*time.Millisecond),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	httpOpts := []api.ClientOption{
		api.WithBaseURL(cfg.baseURL),
		api.WithTimeout(cfg.timeout),
		api.WithHeader("Content-Type", "application/json"),
		api.WithHeader("Accept", "application/json"),
		api.WithHeader("X-UserType", "USER"),
		api.WithHeader("X-SourceID", "WEB"),
		api.WithHeader("X-ClientLocalIP", "127.0.0.1"),
		api.WithHeader("X-ClientPublicIP", "127.0.0.1"),
		api.WithHeader("X-MACAddress", "00:00:00:00:00:00"),
		api.WithHeader("X-PrivateKey", cr.APIKey),
		api.WithLogging(true),
	}
	if cfg.limiter != nil {
		httpOpts = append(httpOpts, api.WithRateLimiter(cfg.limiter))
	}

	return &Client{
		http:  api.NewClient(httpOpts...),
		creds: cr,
	}
}

// Session returns the current session, or nil before login.
func (c *Client) Session() *Session {
	return c.session
}

// Login derives the current TOTP code and opens a session. The returned
// session is also retained for subsequent authenticated calls.
func (c *Client) Login(ctx context.Context) (*Session, error) {
	op := logger.StartOperation(ctx, "smartapi.Login", "client_code", c.creds.ClientID)
	ctx = op.GetContext()

	code, err := TOTPCode(c.creds.TOTPSecret)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}

	var sess Session
	if err := c.post(ctx, loginPath, loginRequest{
		ClientCode: c.creds.ClientID,
		Password:   c.creds.Password,
		TOTP:       code,
	}, &sess); err != nil {
		op.EndWithError(err)
		return nil, fmt.Errorf("login failed: %w", err)
	}

	sess.ClientCode = c.creds.ClientID
	c.session = &sess
	c.http.SetHeader("Authorization", "Bearer "+sess.JWTToken)

	logger.Session(ctx, sess.ClientCode, "login")
	op.End()
	return &sess, nil
}

// RenewToken exchanges the refresh token for a fresh JWT.
func (c *Client) RenewToken(ctx context.Context) (*Session, error) {
	if c.session == nil {
		return nil, ErrNotLoggedIn
	}

	var sess Session
	if err := c.post(ctx, renewPath, renewRequest{RefreshToken: c.session.RefreshToken}, &sess); err != nil {
		return nil, fmt.Errorf("token renewal failed: %w", err)
	}

	sess.ClientCode = c.session.ClientCode
	if sess.FeedToken == "" {
		sess.FeedToken = c.session.FeedToken
	}
	c.session = &sess
	c.http.SetHeader("Authorization", "Bearer "+sess.JWTToken)

	logger.Session(ctx, sess.ClientCode, "renew")
	return &sess, nil
}

// Logout invalidates the session on the vendor side.
func (c *Client) Logout(ctx context.Context) error {
	if c.session == nil {
		return ErrNotLoggedIn
	}
	if err := c.post(ctx, logoutPath, logoutRequest{ClientCode: c.session.ClientCode}, nil); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	logger.Session(ctx, c.session.ClientCode, "logout")
	c.session = nil
	return nil
}

// Candles fetches historical OHLCV bars. The vendor returns rows of
// [timestamp, open, high, low, close, volume] which are parsed here.
func (c *Client) Candles(ctx context.Context, req CandleRequest) ([]Candle, error) {
	if c.session == nil {
		return nil, ErrNotLoggedIn
	}

	var rows [][]any
	if err := c.post(ctx, candlePath, req, &rows); err != nil {
		return nil, fmt.Errorf("candle fetch failed: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no candle data for token %s: the symbol token might be wrong, or the market might be closed for the requested period", req.SymbolToken)
	}

	return parseCandleRows(rows)
}

// LTP returns the last traded price snapshot for an instrument.
func (c *Client) LTP(ctx context.Context, exchange, tradingSymbol, token string) (LTPData, error) {
	if c.session == nil {
		return LTPData{}, ErrNotLoggedIn
	}

	var data LTPData
	if err := c.post(ctx, ltpPath, ltpRequest{
		Exchange:      exchange,
		TradingSymbol: tradingSymbol,
		SymbolToken:   token,
	}, &data); err != nil {
		return LTPData{}, fmt.Errorf("ltp fetch failed: %w", err)
	}
	return data, nil
}

// PlaceOrder submits an order and returns the vendor's order ID.
func (c *Client) PlaceOrder(ctx context.Context, params OrderParams) (OrderResponse, error) {
	if c.session == nil {
		return OrderResponse{}, ErrNotLoggedIn
	}

	var resp OrderResponse
	if err := c.post(ctx, placePath, params, &resp); err != nil {
		return OrderResponse{}, fmt.Errorf("order placement failed: %w", err)
	}
	return resp, nil
}

// CancelOrder cancels an open order. Variety must match the original
// order ("NORMAL" for regular orders, "STOPLOSS" for SL orders).
func (c *Client) CancelOrder(ctx context.Context, variety, orderID string) (OrderResponse, error) {
	if c.session == nil {
		return OrderResponse{}, ErrNotLoggedIn
	}

	var resp OrderResponse
	if err := c.post(ctx, cancelPath, cancelRequest{Variety: variety, OrderID: orderID}, &resp); err != nil {
		return OrderResponse{}, fmt.Errorf("order cancel failed: %w", err)
	}
	return resp, nil
}

// OrderBook returns all of today's orders.
func (c *Client) OrderBook(ctx context.Context) ([]OrderBookEntry, error) {
	if c.session == nil {
		return nil, ErrNotLoggedIn
	}

	resp, err := c.http.GET(ctx, orderBookPath)
	if err != nil {
		return nil, fmt.Errorf("order book fetch failed: %w", err)
	}

	var entries []OrderBookEntry
	if err := decodeEnvelope(resp.Body, &entries); err != nil {
		return nil, fmt.Errorf("order book fetch failed: %w", err)
	}
	return entries, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	resp, err := c.http.POST(ctx, path, body)
	if err != nil {
		return err
	}
	return decodeEnvelope(resp.Body, out)
}

func decodeEnvelope(body []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Status {
		msg := env.Message
		if msg == "" {
			msg = "unknown error"
		}
		return &APIError{Message: msg, Code: env.ErrorCode}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

func parseCandleRows(rows [][]any) ([]Candle, error) {
	candles := make([]Candle, 0, len(rows))
	for i, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("candle row %d: expected 6 fields, got %d", i, len(row))
		}
		tsStr, ok := row[0].(string)
		if !ok {
			return nil, fmt.Errorf("candle row %d: timestamp is not a string", i)
		}
		// Vendor timestamps look like "2025-01-15T00:00:00+05:30".
		ts, err := time.Parse("2006-01-02T15:04:05-07:00", tsStr)
		if err != nil {
			return nil, fmt.Errorf("candle row %d: parse timestamp %q: %w", i, tsStr, err)
		}

		nums := make([]float64, 5)
		for j := 1; j <= 5; j++ {
			f, ok := row[j].(float64)
			if !ok {
				return nil, fmt.Errorf("candle row %d: field %d is not a number", i, j)
			}
			nums[j-1] = f
		}

		candles = append(candles, Candle{
			Ts:     ts,
			Open:   nums[0],
			High:   nums[1],
			Low:    nums[2],
			Close:  nums[3],
			Volume: int64(nums[4]),
		})
	}
	return candles, nil
}
