package view

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/storefront/internal/cart"
	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/storefront"
)

func TestRenderer_Money(t *testing.T) {
	assert.Equal(t, "R$ 22.30", NewRenderer("R$").Money(decimal.RequireFromString("22.3")))
	assert.Equal(t, "0.00", NewRenderer("").Money(decimal.Zero))
}

func TestRenderer_Catalog(t *testing.T) {
	r := NewRenderer("R$")
	v := r.Catalog(storefront.Snapshot{
		Products:      []domain.Product{{ID: 1, Title: "Bag", Category: "bags", Image: "img", Price: decimal.RequireFromString("109.95")}},
		CatalogNotice: &storefront.Notice{Text: "Failed to load products.", Error: true},
	})

	require.Len(t, v.Products, 1)
	assert.Equal(t, "R$ 109.95", v.Products[0].Price)
	require.NotNil(t, v.Notice)
	assert.True(t, v.Notice.Error)
}

func TestRenderer_Cart(t *testing.T) {
	r := NewRenderer("R$")
	lines := []cart.Line{
		{ProductID: 1, Title: "A", Price: decimal.NewFromInt(10), Quantity: 2},
		{ProductID: 2, Title: "B", Price: decimal.RequireFromString("0.5"), Quantity: 3},
	}
	v := r.Cart(storefront.Snapshot{CartLines: lines, CartTotal: cart.Total(lines)})

	require.Len(t, v.Lines, 2)
	assert.Equal(t, 1, v.Lines[1].Index)
	assert.Equal(t, "R$ 20.00", v.Lines[0].Subtotal)
	assert.Equal(t, "R$ 1.50", v.Lines[1].Subtotal)
	assert.Equal(t, "R$ 21.50", v.Total)
}

func TestRenderer_Orders(t *testing.T) {
	r := NewRenderer("R$")

	t.Run("empty list shows placeholder", func(t *testing.T) {
		v := r.Orders(storefront.Snapshot{})
		assert.Equal(t, noOrders, v.Empty)
		assert.NotNil(t, v.Orders)
		assert.Equal(t, domain.OrderStatuses, v.Statuses)
	})

	t.Run("total computed from item snapshot", func(t *testing.T) {
		v := r.Orders(storefront.Snapshot{
			StatusFilter: domain.OrderStatusPaid,
			Orders: []domain.Order{{
				ID:        "7",
				Status:    domain.OrderStatusPaid,
				CreatedAt: domain.Timestamp{Time: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
				Items: []domain.OrderItem{
					{Title: "A", Price: decimal.NewFromInt(10), Quantity: 2},
					{Title: "B", Price: decimal.RequireFromString("2.25"), Quantity: 1},
				},
			}},
		})

		require.Len(t, v.Orders, 1)
		assert.Empty(t, v.Empty)
		assert.Equal(t, domain.OrderStatusPaid, v.Filter)
		assert.Equal(t, "R$ 22.25", v.Orders[0].Total)
		assert.Equal(t, "R$ 20.00", v.Orders[0].Items[0].Subtotal)
		assert.NotEmpty(t, v.Orders[0].CreatedAt)
	})
}
