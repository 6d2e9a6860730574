package smartapi

import (
	"encoding/json"
	"fmt"
	"time"
)

// envelope is the wrapper every SmartAPI response arrives in.
type envelope struct {
	Status    bool            `json:"status"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"errorcode"`
	Data      json.RawMessage `json:"data"`
}

// APIError is a vendor-reported failure (status=false in the envelope).
type APIError struct {
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("smartapi: %s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("smartapi: %s", e.Message)
}

// Session holds the tokens returned by a successful login.
type Session struct {
	ClientCode   string
	JWTToken     string `json:"jwtToken"`
	RefreshToken string `json:"refreshToken"`
	FeedToken    string `json:"feedToken"`
}

type loginRequest struct {
	ClientCode string `json:"clientcode"`
	Password   string `json:"password"`
	TOTP       string `json:"totp"`
}

type renewRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type logoutRequest struct {
	ClientCode string `json:"clientcode"`
}

// CandleRequest mirrors the vendor's getCandleData parameters.
type CandleRequest struct {
	Exchange    string `json:"exchange"`
	SymbolToken string `json:"symboltoken"`
	Interval    string `json:"interval"`
	FromDate    string `json:"fromdate"`
	ToDate      string `json:"todate"`
}

// Candle is one OHLCV bar parsed from the vendor's row-array format.
type Candle struct {
	Ts     time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// OrderParams mirrors the vendor's placeOrder request body.
type OrderParams struct {
	Variety         string  `json:"variety"`
	TradingSymbol   string  `json:"tradingsymbol"`
	SymbolToken     string  `json:"symboltoken"`
	TransactionType string  `json:"transactiontype"`
	Exchange        string  `json:"exchange"`
	OrderType       string  `json:"ordertype"`
	ProductType     string  `json:"producttype"`
	Duration        string  `json:"duration"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
	SquareOff       float64 `json:"squareoff"`
	StopLoss        float64 `json:"stoploss"`
	TriggerPrice    float64 `json:"triggerprice"`
}

// OrderResponse is the vendor's acknowledgment of a place/cancel call.
type OrderResponse struct {
	Script        string `json:"script"`
	OrderID       string `json:"orderid"`
	UniqueOrderID string `json:"uniqueorderid"`
}

type cancelRequest struct {
	Variety string `json:"variety"`
	OrderID string `json:"orderid"`
}

// OrderBookEntry is one row of the order book. The vendor returns most
// numeric fields as strings; they are passed through untouched.
type OrderBookEntry struct {
	OrderID         string `json:"orderid"`
	OrderStatus     string `json:"orderstatus"`
	TradingSymbol   string `json:"tradingsymbol"`
	TransactionType string `json:"transactiontype"`
	Variety         string `json:"variety"`
	OrderType       string `json:"ordertype"`
	Quantity        string `json:"quantity"`
	Price           string `json:"price"`
	TriggerPrice    string `json:"triggerprice"`
	Text            string `json:"text"`
}

type ltpRequest struct {
	Exchange      string `json:"exchange"`
	TradingSymbol string `json:"tradingsymbol"`
	SymbolToken   string `json:"symboltoken"`
}

// LTPData is the last traded price snapshot for one instrument.
type LTPData struct {
	Exchange      string  `json:"exchange"`
	TradingSymbol string  `json:"tradingsymbol"`
	SymbolToken   string  `json:"symboltoken"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	LTP           float64 `json:"ltp"`
}
