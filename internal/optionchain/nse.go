// Package optionchain fetches equity option chains from NSE India.
package optionchain

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sort"
	"time"

	"angelone-trader/internal/logger"
)

// Strike is one row of the chain for a single expiry.
type Strike struct {
	StrikePrice float64
	CallLTP     float64
	CallOI      int64
	PutLTP      float64
	PutOI       int64
}

// Chain is the option chain for one symbol and expiry.
type Chain struct {
	Symbol     string
	Expiry     time.Time
	Underlying float64
	Strikes    []Strike
}

// NSE expiry dates are formatted like "26-Feb-2026".
const nseDateLayout = "02-Jan-2006"

// Client talks to the NSE option-chain endpoint. NSE requires a primed
// cookie session and browser-like headers.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
}

// NewClient creates a new NSE option-chain client
func NewClient() *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: "https://www.nseindia.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		headers: map[string]string{
			"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			"Accept":          "*/*",
			"Accept-Language": "en-US,en;q=0.9",
		},
	}
}

// WithBaseURL points the client at a different host (tests).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

type chainResponse struct {
	Records struct {
		ExpiryDates     []string `json:"expiryDates"`
		UnderlyingValue float64  `json:"underlyingValue"`
		Data            []struct {
			StrikePrice float64 `json:"strikePrice"`
			ExpiryDate  string  `json:"expiryDate"`
			CE          *struct {
				LastPrice    float64 `json:"lastPrice"`
				OpenInterest int64   `json:"openInterest"`
			} `json:"CE"`
			PE *struct {
				LastPrice    float64 `json:"lastPrice"`
				OpenInterest int64   `json:"openInterest"`
			} `json:"PE"`
		} `json:"data"`
	} `json:"records"`
}

// Fetch retrieves the chain for symbol filtered to the given expiry date.
// If no row matches the expiry exactly, the chain's nearest later expiry
// is used instead.
func (c *Client) Fetch(ctx context.Context, symbol string, expiry time.Time) (*Chain, error) {
	url := fmt.Sprintf("%s/api/option-chain-equities?symbol=%s", c.baseURL, symbol)

	data, err := c.makeRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch option chain for %s: %w", symbol, err)
	}

	var resp chainResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode option chain for %s: %w", symbol, err)
	}

	target, err := resolveExpiry(resp.Records.ExpiryDates, expiry)
	if err != nil {
		return nil, fmt.Errorf("option chain for %s: %w", symbol, err)
	}

	chain := &Chain{
		Symbol:     symbol,
		Expiry:     target,
		Underlying: resp.Records.UnderlyingValue,
	}

	want := target.Format(nseDateLayout)
	for _, row := range resp.Records.Data {
		if row.ExpiryDate != want {
			continue
		}
		s := Strike{StrikePrice: row.StrikePrice}
		if row.CE != nil {
			s.CallLTP = row.CE.LastPrice
			s.CallOI = row.CE.OpenInterest
		}
		if row.PE != nil {
			s.PutLTP = row.PE.LastPrice
			s.PutOI = row.PE.OpenInterest
		}
		chain.Strikes = append(chain.Strikes, s)
	}

	sort.Slice(chain.Strikes, func(i, j int) bool {
		return chain.Strikes[i].StrikePrice < chain.Strikes[j].StrikePrice
	})

	logger.Debug(ctx, "Option chain fetched", "symbol", symbol, "expiry", want, "strikes", len(chain.Strikes))
	return chain, nil
}

// resolveExpiry picks the listed expiry matching want, or the nearest
// listed expiry on or after it.
func resolveExpiry(listed []string, want time.Time) (time.Time, error) {
	wantDay := time.Date(want.Year(), want.Month(), want.Day(), 0, 0, 0, 0, time.UTC)

	var best time.Time
	for _, s := range listed {
		d, err := time.Parse(nseDateLayout, s)
		if err != nil {
			continue
		}
		if d.Equal(wantDay) {
			return d, nil
		}
		if !d.Before(wantDay) && (best.IsZero() || d.Before(best)) {
			best = d
		}
	}
	if best.IsZero() {
		return time.Time{}, fmt.Errorf("no listed expiry on or after %s", wantDay.Format(nseDateLayout))
	}
	return best, nil
}

func (c *Client) makeRequest(ctx context.Context, url string) ([]byte, error) {
	// Prime cookies first; NSE rejects bare API calls.
	homeReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, err
	}
	for key, value := range c.headers {
		homeReq.Header.Set(key, value)
	}
	if resp, err := c.httpClient.Do(homeReq); err == nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("NSE API returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
