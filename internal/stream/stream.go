// Package stream consumes the SmartAPI live market feed over WebSocket
// and keeps bounded per-token tick buffers.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"angelone-trader/internal/logger"
	"angelone-trader/internal/smartapi"
)

const defaultFeedURL = "wss://smartapisocket.angelone.in/smart-stream"

// Subscription modes defined by the feed.
const (
	ModeLTP = 1
)

// Tick is one decoded LTP packet.
type Tick struct {
	Token string
	Ts    time.Time
	LTP   float64
}

type subscribeFrame struct {
	CorrelationID string          `json:"correlationID"`
	Action        int             `json:"action"`
	Params        subscribeParams `json:"params"`
}

type subscribeParams struct {
	Mode      int         `json:"mode"`
	TokenList []tokenList `json:"tokenList"`
}

type tokenList struct {
	ExchangeType int      `json:"exchangeType"`
	Tokens       []string `json:"tokens"`
}

// Manager owns the feed connection and the tick buffers.
type Manager struct {
	feedURL      string
	apiKey       string
	session      *smartapi.Session
	pingInterval time.Duration
	bufferSize   int

	conn   *websocket.Conn
	connMu sync.Mutex

	ticks map[string][]Tick
	mu    sync.RWMutex

	done chan struct{}
}

// Option configures the manager.
type Option func(*Manager)

// WithFeedURL overrides the feed endpoint (tests).
func WithFeedURL(u string) Option {
	return func(m *Manager) { m.feedURL = u }
}

// WithPingInterval overrides the heartbeat interval.
func WithPingInterval(d time.Duration) Option {
	return func(m *Manager) { m.pingInterval = d }
}

// WithBufferSize overrides the per-token tick buffer size.
func WithBufferSize(n int) Option {
	return func(m *Manager) { m.bufferSize = n }
}

// NewManager creates a feed manager for an authenticated session.
func NewManager(apiKey string, sess *smartapi.Session, opts ...Option) *Manager {
	m := &Manager{
		feedURL:      defaultFeedURL,
		apiKey:       apiKey,
		session:      sess,
		pingInterval: 30 * time.Second,
		bufferSize:   200,
		ticks:        make(map[string][]Tick),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start connects to the feed and launches the read and heartbeat loops.
func (m *Manager) Start(ctx context.Context) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+m.session.JWTToken)
	header.Set("x-api-key", m.apiKey)
	header.Set("x-client-code", m.session.ClientCode)
	header.Set("x-feed-token", m.session.FeedToken)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, m.feedURL, header)
	if err != nil {
		return fmt.Errorf("connect to feed: %w", err)
	}

	m.connMu.Lock()
	m.conn = conn
	m.connMu.Unlock()

	go m.readLoop(ctx)
	go m.heartbeat(ctx)

	logger.Info(ctx, "Feed connected", "url", m.feedURL)
	return nil
}

// Subscribe requests LTP-mode ticks for the given tokens.
func (m *Manager) Subscribe(ctx context.Context, exchangeType int, tokens []string) error {
	frame := subscribeFrame{
		CorrelationID: fmt.Sprintf("sub-%d", time.Now().UnixNano()),
		Action:        1,
		Params: subscribeParams{
			Mode: ModeLTP,
			TokenList: []tokenList{
				{ExchangeType: exchangeType, Tokens: tokens},
			},
		},
	}

	b, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	m.mu.Lock()
	for _, t := range tokens {
		if _, ok := m.ticks[t]; !ok {
			m.ticks[t] = make([]Tick, 0, m.bufferSize)
		}
	}
	m.mu.Unlock()

	m.connMu.Lock()
	defer m.connMu.Unlock()
	if m.conn == nil {
		return fmt.Errorf("feed not connected")
	}
	if err := m.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	logger.Info(ctx, "Subscribed to feed", "tokens", len(tokens), "exchange_type", exchangeType)
	return nil
}

// Stop closes the connection and stops the loops.
func (m *Manager) Stop(ctx context.Context) {
	select {
	case <-m.done:
	default:
		close(m.done)
	}

	m.connMu.Lock()
	defer m.connMu.Unlock()
	if m.conn != nil {
		_ = m.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		m.conn.Close()
		m.conn = nil
	}
	logger.Info(ctx, "Feed stopped")
}

// Recent returns up to n most recent ticks for a token, oldest first.
func (m *Manager) Recent(token string, n int) ([]Tick, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ticks, ok := m.ticks[token]
	if !ok {
		return nil, fmt.Errorf("no subscription for token %s", token)
	}
	if len(ticks) == 0 {
		return nil, fmt.Errorf("no ticks yet for token %s", token)
	}
	if len(ticks) < n {
		n = len(ticks)
	}
	out := make([]Tick, n)
	copy(out, ticks[len(ticks)-n:])
	return out, nil
}

func (m *Manager) readLoop(ctx context.Context) {
	for {
		select {
		case <-m.done:
			return
		default:
		}

		m.connMu.Lock()
		conn := m.conn
		m.connMu.Unlock()
		if conn == nil {
			return
		}

		msgType, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-m.done:
			default:
				logger.ErrorWithErr(ctx, "Feed read failed", err)
			}
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			tick, err := DecodeLTP(data)
			if err != nil {
				logger.Warn(ctx, "Skipping undecodable packet", "error", err, "size", len(data))
				continue
			}
			m.addTick(tick)
		case websocket.TextMessage:
			// "pong" heartbeat replies and error frames arrive as text.
			if string(data) != "pong" {
				logger.Debug(ctx, "Feed text message", "body", string(data))
			}
		}
	}
}

func (m *Manager) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(m.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.connMu.Lock()
			conn := m.conn
			if conn != nil {
				if err := conn.WriteMessage(websocket.TextMessage, []byte("ping")); err != nil {
					logger.Warn(ctx, "Heartbeat write failed", "error", err)
				}
			}
			m.connMu.Unlock()
		}
	}
}

func (m *Manager) addTick(t Tick) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ticks, ok := m.ticks[t.Token]
	if !ok {
		return
	}
	ticks = append(ticks, t)
	if len(ticks) > m.bufferSize {
		ticks = ticks[1:]
	}
	m.ticks[t.Token] = ticks
}
