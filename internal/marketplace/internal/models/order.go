package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"time"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderAccepted  OrderStatus = "ACCEPTED"
	OrderFulfilled OrderStatus = "FULFILLED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderRejected  OrderStatus = "REJECTED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// orderTransitions is the exhaustive transition table. Anything not listed
// here is illegal; terminal states have no entry.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderAccepted, OrderRejected, OrderCancelled},
	OrderAccepted:  {OrderFulfilled, OrderCancelled},
	OrderFulfilled: {OrderDelivered},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s.
func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

// Order is created by the checkout collaborator in PENDING state; every
// later mutation goes through the fulfillment state machine. PricePerUnit
// is a snapshot taken at creation and never changes.
type Order struct {
	ID              uuid.UUID       `json:"id"`
	BuyerID         int64           `json:"buyer_id"`
	SellerID        int64           `json:"seller_id"`
	ProductID       int64           `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PricePerUnit    decimal.Decimal `json:"price_per_unit"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CancelledBy     string          `json:"cancelled_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	AcceptedAt      *time.Time      `json:"accepted_at,omitempty"`
	FulfilledAt     *time.Time      `json:"fulfilled_at,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
