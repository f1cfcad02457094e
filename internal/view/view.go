// Package view turns storefront snapshots into the view models the UI serves.
// Money is always rendered with two decimals.
package view

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/storefront"
)

const noOrders = "No orders."

type Renderer struct {
	currency string
}

func NewRenderer(currencySymbol string) *Renderer {
	return &Renderer{currency: currencySymbol}
}

func (r *Renderer) Money(d decimal.Decimal) string {
	if r.currency == "" {
		return d.StringFixed(2)
	}
	return r.currency + " " + d.StringFixed(2)
}

type ProductCard struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Image    string `json:"image"`
	Price    string `json:"price"`
}

type CatalogView struct {
	Products []ProductCard      `json:"products"`
	Loading  bool               `json:"loading"`
	Notice   *storefront.Notice `json:"notice,omitempty"`
}

func (r *Renderer) Catalog(s storefront.Snapshot) CatalogView {
	cards := make([]ProductCard, 0, len(s.Products))
	for _, p := range s.Products {
		cards = append(cards, ProductCard{
			ID:       p.ID,
			Title:    p.Title,
			Category: p.Category,
			Image:    p.Image,
			Price:    r.Money(p.Price),
		})
	}
	return CatalogView{Products: cards, Loading: s.CatalogLoading, Notice: s.CatalogNotice}
}

type CartLine struct {
	Index     int    `json:"index"`
	ProductID int64  `json:"productId"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

type CartView struct {
	Lines      []CartLine         `json:"lines"`
	Total      string             `json:"total"`
	Submitting bool               `json:"submitting"`
	Notice     *storefront.Notice `json:"notice,omitempty"`
}

// Cart renders lines with their current indices; those indices are only valid
// until the next cart change.
func (r *Renderer) Cart(s storefront.Snapshot) CartView {
	lines := make([]CartLine, 0, len(s.CartLines))
	for i, l := range s.CartLines {
		lines = append(lines, CartLine{
			Index:     i,
			ProductID: l.ProductID,
			Title:     l.Title,
			Price:     r.Money(l.Price),
			Quantity:  l.Quantity,
			Subtotal:  r.Money(l.Subtotal()),
		})
	}
	return CartView{
		Lines:      lines,
		Total:      r.Money(s.CartTotal),
		Submitting: s.Submitting,
		Notice:     s.CheckoutNotice,
	}
}

type OrderItem struct {
	Title    string `json:"title"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Subtotal string `json:"subtotal"`
}

type OrderCard struct {
	ID        domain.OrderID     `json:"id"`
	Status    domain.OrderStatus `json:"status"`
	CreatedAt string             `json:"created_at"`
	Items     []OrderItem        `json:"items"`
	Total     string             `json:"total"`
}

type OrdersView struct {
	Filter   domain.OrderStatus   `json:"filter"`
	Statuses []domain.OrderStatus `json:"statuses"`
	Orders   []OrderCard          `json:"orders"`
	Empty    string               `json:"empty,omitempty"`
	Notice   *storefront.Notice   `json:"notice,omitempty"`
}

func (r *Renderer) Orders(s storefront.Snapshot) OrdersView {
	v := OrdersView{
		Filter:   s.StatusFilter,
		Statuses: domain.OrderStatuses,
		Orders:   make([]OrderCard, 0, len(s.Orders)),
		Notice:   s.OrdersNotice,
	}
	if len(s.Orders) == 0 {
		v.Empty = noOrders
		return v
	}

	for _, o := range s.Orders {
		card := OrderCard{
			ID:     o.ID,
			Status: o.Status,
			Items:  make([]OrderItem, 0, len(o.Items)),
			Total:  r.Money(o.Total()),
		}
		if !o.CreatedAt.IsZero() {
			card.CreatedAt = o.CreatedAt.Local().Format(time.DateTime)
		}
		for _, it := range o.Items {
			card.Items = append(card.Items, OrderItem{
				Title:    it.Title,
				Price:    r.Money(it.Price),
				Quantity: it.Quantity,
				Subtotal: r.Money(it.Subtotal()),
			})
		}
		v.Orders = append(v.Orders, card)
	}
	return v
}
