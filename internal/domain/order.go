package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusCanceled OrderStatus = "canceled"
)

var ErrInvalidStatus = errors.New("invalid order status")

// OrderStatuses lists every status the orders backend accepts, in display order.
var OrderStatuses = []OrderStatus{OrderStatusPending, OrderStatusPaid, OrderStatusCanceled}

// ParseOrderStatus normalizes free-form input (surrounding spaces, any case)
// and rejects anything outside OrderStatuses.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q (use pending, paid or canceled)", ErrInvalidStatus, raw)
	}
	return s, nil
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// OrderID is assigned by the backend, which may encode it as a JSON string or number.
type OrderID string

func (id *OrderID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = OrderID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode order id: %w", err)
	}
	*id = OrderID(n.String())
	return nil
}

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	CEP     string `json:"cep"`
	Address string `json:"address"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (c Customer) Trimmed() Customer {
	return Customer{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		CEP:     strings.TrimSpace(c.CEP),
		Address: strings.TrimSpace(c.Address),
	}
}

type OrderItem struct {
	ProductID int64           `json:"productId,omitempty"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID        OrderID     `json:"id"`
	Status    OrderStatus `json:"status"`
	Customer  *Customer   `json:"customer,omitempty"`
	Items     []OrderItem `json:"items"`
	CreatedAt Timestamp   `json:"created_at"`
}

// Total is computed from the item snapshot, never taken from the backend.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}
