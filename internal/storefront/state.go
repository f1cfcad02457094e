package storefront

import (
	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/storefront/internal/cart"
	"github.com/joao-fontenele/storefront/internal/domain"
)

// View names the part of the page a change affects.
type View int

const (
	ViewCatalog View = iota
	ViewCart
	ViewCheckout
	ViewOrders
)

func (v View) String() string {
	switch v {
	case ViewCatalog:
		return "catalog"
	case ViewCart:
		return "cart"
	case ViewCheckout:
		return "checkout"
	case ViewOrders:
		return "orders"
	default:
		return "unknown"
	}
}

// Notice is the user-visible message attached to a view.
type Notice struct {
	Text  string `json:"text"`
	Error bool   `json:"error"`
}

type state struct {
	products       []domain.Product
	cart           *cart.Cart
	orders         []domain.Order
	statusFilter   domain.OrderStatus
	catalogLoading bool
	submitting     bool
	catalogNotice  *Notice
	checkoutNotice *Notice
	ordersNotice   *Notice
}

// Snapshot is a point-in-time copy of the state, safe to hold across renders.
type Snapshot struct {
	Products       []domain.Product
	CartLines      []cart.Line
	CartTotal      decimal.Decimal
	Orders         []domain.Order
	StatusFilter   domain.OrderStatus
	CatalogLoading bool
	Submitting     bool
	CatalogNotice  *Notice
	CheckoutNotice *Notice
	OrdersNotice   *Notice
}

// Change is delivered to subscribers after every mutation.
type Change struct {
	View     View
	Snapshot Snapshot
}

func (s *state) snapshot() Snapshot {
	products := make([]domain.Product, len(s.products))
	copy(products, s.products)

	orders := make([]domain.Order, len(s.orders))
	for i, o := range s.orders {
		o.Items = append([]domain.OrderItem(nil), o.Items...)
		orders[i] = o
	}

	return Snapshot{
		Products:       products,
		CartLines:      s.cart.Lines(),
		CartTotal:      s.cart.Total(),
		Orders:         orders,
		StatusFilter:   s.statusFilter,
		CatalogLoading: s.catalogLoading,
		Submitting:     s.submitting,
		CatalogNotice:  copyNotice(s.catalogNotice),
		CheckoutNotice: copyNotice(s.checkoutNotice),
		OrdersNotice:   copyNotice(s.ordersNotice),
	}
}

func copyNotice(n *Notice) *Notice {
	if n == nil {
		return nil
	}
	c := *n
	return &c
}

func errorNotice(text string) *Notice {
	return &Notice{Text: text, Error: true}
}

func successNotice(text string) *Notice {
	return &Notice{Text: text}
}
