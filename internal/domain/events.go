package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventOrderSubmitted     EventType = "order.submitted"
	EventOrderStatusUpdated EventType = "order.status_updated"
	EventOrderDeleted       EventType = "order.deleted"
)

// StorefrontEvent records an order mutation the storefront completed against the backend.
type StorefrontEvent struct {
	ID        string           `json:"id"`
	Type      EventType        `json:"type"`
	OrderID   OrderID          `json:"order_id,omitempty"`
	Status    OrderStatus      `json:"status,omitempty"`
	ItemCount int              `json:"item_count,omitempty"`
	Total     *decimal.Decimal `json:"total,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

func NewStorefrontEvent(typ EventType, orderID OrderID) StorefrontEvent {
	return StorefrontEvent{
		ID:        uuid.New().String(),
		Type:      typ,
		OrderID:   orderID,
		Timestamp: time.Now().UTC(),
	}
}
