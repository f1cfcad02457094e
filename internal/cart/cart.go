// Package cart holds the in-memory shopping cart: one line per product, kept
// in insertion order, with the total always derived from the current lines.
package cart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joao-fontenele/storefront/internal/domain"
)

var ErrLineNotFound = errors.New("cart line not found")

type Line struct {
	ProductID int64           `json:"productId"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is not safe for concurrent use; the storefront app serializes access.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add increments the quantity of the product's line, or appends a new line
// with the product's current price.
func (c *Cart) Add(p domain.Product) {
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Quantity:  1,
	})
}

// SetQuantity parses raw the way a number input is read and stores the
// result clamped to at least 1.
func (c *Cart) SetQuantity(index int, raw string) (int, error) {
	q := ParseQuantity(raw)
	if err := c.SetQuantityInt(index, q); err != nil {
		return 0, err
	}
	return q, nil
}

func (c *Cart) SetQuantityInt(index, quantity int) error {
	if index < 0 || index >= len(c.lines) {
		return fmt.Errorf("%w: index %d", ErrLineNotFound, index)
	}
	c.lines[index].Quantity = max(1, quantity)
	return nil
}

// Remove deletes the line at index. Later lines shift down by one.
func (c *Cart) Remove(index int) (Line, error) {
	if index < 0 || index >= len(c.lines) {
		return Line{}, fmt.Errorf("%w: index %d", ErrLineNotFound, index)
	}
	removed := c.lines[index]
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return removed, nil
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Total() decimal.Decimal {
	return Total(c.lines)
}

func Total(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ParseQuantity reads an optional sign and the leading run of digits, ignoring
// anything after them. Empty or non-numeric input yields 1, as does anything
// below 1.
func ParseQuantity(raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 1
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		digits++
		if n > (maxQuantity-int(r-'0'))/10 {
			n = maxQuantity
			continue
		}
		n = n*10 + int(r-'0')
	}
	if digits == 0 || neg {
		return 1
	}
	return max(1, n)
}

const maxQuantity = 1<<31 - 1
