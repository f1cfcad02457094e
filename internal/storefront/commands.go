package storefront

import (
	"context"

	"github.com/joao-fontenele/storefront/internal/domain"
)

// Command is one user action. The set is closed; App.Dispatch handles each kind.
type Command interface {
	command()
}

// LoadCatalog replaces the product list with a fresh fetch.
type LoadCatalog struct{}

// AddToCart adds one unit of a product from the current catalog.
type AddToCart struct {
	ProductID int64
}

// SetQuantity sets the quantity of the cart line at Index from raw user input.
type SetQuantity struct {
	Index int
	Raw   string
}

// RemoveLine deletes the cart line at Index. Indices refer to the latest render.
type RemoveLine struct {
	Index int
}

type ClearCart struct{}

// SubmitOrder sends the cart as a new order for Customer.
type SubmitOrder struct {
	Customer domain.Customer
}

// LoadOrders fetches orders, optionally constrained to Status. The filter is
// remembered and reused by reloads that follow order mutations.
type LoadOrders struct {
	Status string
}

type UpdateOrderStatus struct {
	ID     domain.OrderID
	Status string
}

// DeleteOrder asks Confirm before sending anything to the backend.
type DeleteOrder struct {
	ID      domain.OrderID
	Confirm Confirmer
}

func (LoadCatalog) command()       {}
func (AddToCart) command()         {}
func (SetQuantity) command()       {}
func (RemoveLine) command()        {}
func (ClearCart) command()         {}
func (SubmitOrder) command()       {}
func (LoadOrders) command()        {}
func (UpdateOrderStatus) command() {}
func (DeleteOrder) command()       {}

type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}
