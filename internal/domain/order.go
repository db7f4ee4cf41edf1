package domain

import (
	"encoding/json"
	"time"
)

type OrderStatus string

const (
	OrderPending           OrderStatus = "pending"
	OrderPaid              OrderStatus = "paid"
	OrderCanceled          OrderStatus = "canceled"
	OrderFailed            OrderStatus = "failed"
	OrderExpired           OrderStatus = "expired"
	OrderConfirmedUnmapped OrderStatus = "confirmed_unmapped"
)

// Terminal reports whether no further transition is modeled for the status.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderPaid, OrderCanceled, OrderFailed, OrderExpired:
		return true
	}
	return false
}

// Order is one purchase attempt. LocalID is generated by this process at
// creation time; RemoteID is assigned by the gateway and may stay empty.
// An order with status confirmed_unmapped is an anomaly record: a confirmed
// payment that could not be attributed to any buyer (ChatID == 0).
type Order struct {
	LocalID           string          `json:"localId"`
	RemoteID          string          `json:"remoteId,omitempty"`
	ChatID            int64           `json:"chatId,omitempty"`
	Amount            int64           `json:"amount"`
	Currency          string          `json:"currency"`
	Status            OrderStatus     `json:"status"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	PaidAt            *time.Time      `json:"paidAt,omitempty"`
	RawCreateResponse json.RawMessage `json:"rawCreateResponse,omitempty"`
	RawNotification   json.RawMessage `json:"rawNotification,omitempty"`
}
