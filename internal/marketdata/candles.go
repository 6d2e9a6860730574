// Package marketdata turns user-level candle queries into vendor requests
// and renders the results.
package marketdata

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"angelone-trader/internal/broker"
	"angelone-trader/internal/logger"
	"angelone-trader/internal/smartapi"
)

// NSE cash session bounds used for the request window.
const (
	marketOpen  = "09:15"
	marketClose = "15:30"
)

// Query describes a candle fetch in user terms.
type Query struct {
	Symbol   string // display symbol, e.g. "RELIANCE"
	Token    string // vendor symbol token, e.g. "2885"
	Exchange string // "NSE" or "BSE"
	Interval string // "ONE_MINUTE" .. "ONE_DAY"
	Days     int    // days of history
}

// Fetch retrieves up to Days of history ending now. The request window
// opens at 09:15 on the from-date and closes at 15:30 on the to-date.
func Fetch(ctx context.Context, brk broker.Broker, q Query) ([]smartapi.Candle, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -q.Days)

	req := smartapi.CandleRequest{
		Exchange:    q.Exchange,
		SymbolToken: q.Token,
		Interval:    q.Interval,
		FromDate:    from.Format("2006-01-02") + " " + marketOpen,
		ToDate:      to.Format("2006-01-02") + " " + marketClose,
	}

	logger.Info(ctx, "Fetching candle data", "symbol", q.Symbol, "days", q.Days, "interval", q.Interval)

	candles, err := brk.Candles(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch candles for %s: %w", q.Symbol, err)
	}
	return candles, nil
}

// RenderTable writes candles as a fixed-width OHLCV table.
func RenderTable(w io.Writer, symbol string, candles []smartapi.Candle) {
	header := fmt.Sprintf("%-12s %10s %10s %10s %10s %12s", "Date", "Open", "High", "Low", "Close", "Volume")

	fmt.Fprintf(w, "\n%s — OHLCV (%d candles)\n\n", symbol, len(candles))
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("─", len(header)))

	for _, c := range candles {
		fmt.Fprintf(w, "%-12s %10.2f %10.2f %10.2f %10.2f %12s\n",
			c.Ts.Format("2006-01-02"),
			c.Open, c.High, c.Low, c.Close,
			groupThousands(c.Volume))
	}
}

// groupThousands formats n with comma separators (1234567 -> "1,234,567").
func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}

	if neg {
		return "-" + b.String()
	}
	return b.String()
}
