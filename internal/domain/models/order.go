package models

import "time"

type OrderSide string

const (
	SideBuy  OrderSide = "BUY"
	SideSell OrderSide = "SELL"
)

// OrderRequest describes one limit order to submit. LimitPrice is a
// pointer because its absence is meaningful: a limit order without a
// price is rejected before any network call.
type OrderRequest struct {
	Symbol      string
	Side        OrderSide
	Quantity    float64
	OrderType   string // "LMT" or "LIMIT"
	LimitPrice  *float64
	TimeInForce string // "GTC", "IOC", "ALO"
	ReduceOnly  bool
}

// OrderResult is the gateway's acknowledgement of a submission.
type OrderResult struct {
	Status  string `json:"status"`
	OrderID string `json:"orderId,omitempty"`
}

// CloseOrder records the outcome of flattening one position.
type CloseOrder struct {
	Symbol     string
	Side       OrderSide
	Quantity   float64
	LimitPrice float64
	Status     string // "submitted", "simulated", "skipped", "error"
	Detail     string // reason for skipped/error entries
}

// OrderEvent is the bus record emitted per submitted or simulated order.
type OrderEvent struct {
	CycleID    string    `json:"cycleId"`
	Symbol     string    `json:"symbol"`
	Side       string    `json:"side"`
	Price      float64   `json:"price"`
	Size       float64   `json:"size"`
	ReduceOnly bool      `json:"reduceOnly"`
	DryRun     bool      `json:"dryRun"`
	Timestamp  time.Time `json:"ts"`
}
