package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joao-fontenele/storefront/internal/domain"
)

func product(id int64, price string) domain.Product {
	return domain.Product{
		ID:    id,
		Title: "product",
		Price: decimal.RequireFromString(price),
	}
}

func TestCart_Add(t *testing.T) {
	t.Run("repeated adds aggregate into one line per product", func(t *testing.T) {
		c := New()
		ids := []int64{3, 1, 3, 2, 1, 3}
		for _, id := range ids {
			c.Add(product(id, "1.50"))
		}

		lines := c.Lines()
		require.Len(t, lines, 3)
		assert.Equal(t, int64(3), lines[0].ProductID)
		assert.Equal(t, 3, lines[0].Quantity)
		assert.Equal(t, int64(1), lines[1].ProductID)
		assert.Equal(t, 2, lines[1].Quantity)
		assert.Equal(t, int64(2), lines[2].ProductID)
		assert.Equal(t, 1, lines[2].Quantity)
	})

	t.Run("adding the same product twice doubles quantity", func(t *testing.T) {
		c := New()
		a := product(1, "10")
		c.Add(a)
		c.Add(a)

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 2, lines[0].Quantity)
		assert.True(t, lines[0].Price.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, "20.00", c.Total().StringFixed(2))
	})

	t.Run("price is snapshotted at add time", func(t *testing.T) {
		c := New()
		c.Add(product(1, "10"))
		c.Add(product(1, "99"))

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, "10", lines[0].Price.String())
	})
}

func TestCart_Total(t *testing.T) {
	c := New()
	assert.True(t, c.Total().IsZero())

	c.Add(product(1, "0.10"))
	c.Add(product(2, "0.20"))
	c.Add(product(2, "0.20"))
	assert.Equal(t, "0.5", c.Total().String())

	before := c.Total()
	require.NoError(t, c.SetQuantityInt(0, 4))
	assert.Equal(t, "0.3", c.Total().Sub(before).String())

	before = c.Total()
	removed, err := c.Remove(1)
	require.NoError(t, err)
	assert.True(t, before.Sub(c.Total()).Equal(removed.Subtotal()))
	assert.Equal(t, "0.4", c.Total().String())
}

func TestCart_SetQuantity(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"3", 3},
		{" 7 ", 7},
		{"0", 1},
		{"-5", 1},
		{"", 1},
		{"abc", 1},
		{"12abc", 12},
		{"2.9", 2},
		{"+4", 4},
		{"99999999999999999999", maxQuantity},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			c := New()
			c.Add(product(1, "1"))

			got, err := c.SetQuantity(0, tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want, c.Lines()[0].Quantity)
		})
	}

	t.Run("integer variant clamps", func(t *testing.T) {
		c := New()
		c.Add(product(1, "1"))
		require.NoError(t, c.SetQuantityInt(0, -10))
		assert.Equal(t, 1, c.Lines()[0].Quantity)
	})

	t.Run("out of range index", func(t *testing.T) {
		c := New()
		_, err := c.SetQuantity(0, "2")
		assert.ErrorIs(t, err, ErrLineNotFound)
	})
}

func TestCart_RemoveAndClear(t *testing.T) {
	c := New()
	c.Add(product(1, "1"))
	c.Add(product(2, "2"))
	c.Add(product(3, "3"))

	_, err := c.Remove(0)
	require.NoError(t, err)
	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, int64(2), lines[0].ProductID, "indices shift after removal")

	_, err = c.Remove(5)
	assert.ErrorIs(t, err, ErrLineNotFound)

	c.Clear()
	assert.True(t, c.Empty())
	assert.True(t, c.Total().IsZero())
}

func TestCart_LinesIsACopy(t *testing.T) {
	c := New()
	c.Add(product(1, "1"))

	lines := c.Lines()
	lines[0].Quantity = 50

	assert.Equal(t, 1, c.Lines()[0].Quantity)
}
