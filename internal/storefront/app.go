// Package storefront keeps the session state of the shop (catalog, cart and the
// cached order list) and applies user commands to it, talking to the catalog
// and orders backend as needed. Every mutation is announced to subscribers so
// views can re-render.
package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/joao-fontenele/storefront/internal/cart"
	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/orders"
	"github.com/joao-fontenele/storefront/internal/telemetry"
)

var (
	ErrCatalogLoading   = errors.New("catalog load already in progress")
	ErrUnknownProduct   = errors.New("product not in catalog")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrSubmitInProgress = errors.New("order submission already in progress")
	ErrNotConfirmed     = errors.New("deletion not confirmed")
	ErrUnknownCommand   = errors.New("unknown command")
)

const (
	msgCatalogFailed   = "Failed to load products."
	msgEmptyCart       = "Add items to the cart before placing an order."
	msgOrderPlaced     = "Order placed successfully!"
	msgOrderFailed     = "Failed to create order"
	msgOrdersFailed    = "Failed to load orders."
	msgInvalidStatus   = "Invalid status. Use: pending, paid or canceled."
	msgUpdateFailed    = "Failed to update order"
	msgDeleteFailed    = "Failed to delete order"
	deleteConfirmation = "Are you sure you want to delete this order?"
)

type CatalogSource interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type OrderBackend interface {
	Create(ctx context.Context, in orders.CreateOrderRequest) (*domain.Order, error)
	List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id domain.OrderID, status domain.OrderStatus) error
	Delete(ctx context.Context, id domain.OrderID) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.StorefrontEvent) error
}

type Option func(*App)

func WithEventPublisher(p EventPublisher) Option {
	return func(a *App) { a.publisher = p }
}

func WithMetrics(m *telemetry.Metrics) Option {
	return func(a *App) { a.metrics = m }
}

type App struct {
	catalog   CatalogSource
	orders    OrderBackend
	publisher EventPublisher
	metrics   *telemetry.Metrics
	logger    *slog.Logger

	mu    sync.Mutex
	state state

	subMu       sync.Mutex
	nextSubID   int
	subscribers []subscription
}

type subscription struct {
	id int
	fn func(Change)
}

func NewApp(catalog CatalogSource, backend OrderBackend, logger *slog.Logger, opts ...Option) *App {
	a := &App{
		catalog: catalog,
		orders:  backend,
		logger:  logger,
		state:   state{cart: cart.New()},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Subscribe registers fn to be called after every state change. The returned
// function removes the subscription.
func (a *App) Subscribe(fn func(Change)) func() {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	a.nextSubID++
	id := a.nextSubID
	a.subscribers = append(a.subscribers, subscription{id: id, fn: fn})
	return func() {
		a.subMu.Lock()
		defer a.subMu.Unlock()
		a.subscribers = slices.DeleteFunc(a.subscribers, func(s subscription) bool {
			return s.id == id
		})
	}
}

func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.snapshot()
}

// Start performs the initial page load: empty cart render, then catalog and
// orders fetched concurrently. Failures are reported through notices and
// returned joined; the app stays usable.
func (a *App) Start(ctx context.Context) error {
	a.emit(ViewCart)

	var catalogErr, ordersErr error
	var g errgroup.Group
	g.Go(func() error {
		catalogErr = a.Dispatch(ctx, LoadCatalog{})
		return nil
	})
	g.Go(func() error {
		ordersErr = a.Dispatch(ctx, LoadOrders{})
		return nil
	})
	_ = g.Wait()

	return errors.Join(catalogErr, ordersErr)
}

// Dispatch applies cmd. Every error is already reflected in the state as a
// notice; the return value lets callers pick a response code.
func (a *App) Dispatch(ctx context.Context, cmd Command) error {
	switch c := cmd.(type) {
	case LoadCatalog:
		return a.loadCatalog(ctx)
	case AddToCart:
		return a.addToCart(ctx, c)
	case SetQuantity:
		return a.setQuantity(ctx, c)
	case RemoveLine:
		return a.removeLine(ctx, c)
	case ClearCart:
		return a.clearCart(ctx)
	case SubmitOrder:
		return a.submitOrder(ctx, c)
	case LoadOrders:
		return a.loadOrders(ctx, c)
	case UpdateOrderStatus:
		return a.updateOrderStatus(ctx, c)
	case DeleteOrder:
		return a.deleteOrder(ctx, c)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}
}

func (a *App) loadCatalog(ctx context.Context) error {
	a.mu.Lock()
	if a.state.catalogLoading {
		a.mu.Unlock()
		return ErrCatalogLoading
	}
	a.state.catalogLoading = true
	a.mu.Unlock()
	a.emit(ViewCatalog)

	products, err := a.catalog.ListProducts(ctx)

	a.mu.Lock()
	a.state.catalogLoading = false
	if err == nil {
		a.state.products = products
		a.state.catalogNotice = nil
	} else {
		a.state.catalogNotice = errorNotice(msgCatalogFailed)
	}
	a.mu.Unlock()
	a.emit(ViewCatalog)

	if a.metrics != nil {
		a.metrics.CatalogLoaded(ctx, err)
	}
	if err != nil {
		a.logger.Error("failed to load catalog", "error", err)
		return fmt.Errorf("load catalog: %w", err)
	}

	a.logger.Info("catalog loaded", "count", len(products))
	return nil
}

func (a *App) addToCart(ctx context.Context, c AddToCart) error {
	a.mu.Lock()
	var found *domain.Product
	for i := range a.state.products {
		if a.state.products[i].ID == c.ProductID {
			found = &a.state.products[i]
			break
		}
	}
	if found == nil {
		a.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownProduct, c.ProductID)
	}
	a.state.cart.Add(*found)
	a.mu.Unlock()

	a.cartChanged(ctx, "add")
	return nil
}

func (a *App) setQuantity(ctx context.Context, c SetQuantity) error {
	a.mu.Lock()
	_, err := a.state.cart.SetQuantity(c.Index, c.Raw)
	a.mu.Unlock()
	if err != nil {
		return err
	}

	a.cartChanged(ctx, "set_quantity")
	return nil
}

func (a *App) removeLine(ctx context.Context, c RemoveLine) error {
	a.mu.Lock()
	_, err := a.state.cart.Remove(c.Index)
	a.mu.Unlock()
	if err != nil {
		return err
	}

	a.cartChanged(ctx, "remove")
	return nil
}

func (a *App) clearCart(ctx context.Context) error {
	a.mu.Lock()
	a.state.cart.Clear()
	a.mu.Unlock()

	a.cartChanged(ctx, "clear")
	return nil
}

func (a *App) cartChanged(ctx context.Context, operation string) {
	if a.metrics != nil {
		a.metrics.CartMutated(ctx, operation)
	}
	a.emit(ViewCart)
}

func (a *App) submitOrder(ctx context.Context, c SubmitOrder) error {
	a.mu.Lock()
	if a.state.cart.Empty() {
		a.state.checkoutNotice = errorNotice(msgEmptyCart)
		a.mu.Unlock()
		a.emit(ViewCheckout)
		return ErrEmptyCart
	}
	if a.state.submitting {
		a.mu.Unlock()
		return ErrSubmitInProgress
	}
	a.state.submitting = true
	req := orders.CreateOrderRequest{Customer: c.Customer.Trimmed()}
	for _, l := range a.state.cart.Lines() {
		req.Items = append(req.Items, orders.CreateItem{
			ProductID: l.ProductID,
			Title:     l.Title,
			Price:     json.Number(l.Price.String()),
			Quantity:  l.Quantity,
		})
	}
	total := a.state.cart.Total()
	a.mu.Unlock()
	a.emit(ViewCheckout)

	order, err := a.orders.Create(ctx, req)

	a.mu.Lock()
	a.state.submitting = false
	if err != nil {
		a.state.checkoutNotice = errorNotice(backendMessage(err, msgOrderFailed))
	} else {
		a.state.checkoutNotice = successNotice(msgOrderPlaced)
		a.state.cart.Clear()
	}
	a.mu.Unlock()

	if a.metrics != nil {
		a.metrics.OrderSubmitted(ctx, err)
	}
	if err != nil {
		a.logger.Error("failed to submit order", "error", err, "items", len(req.Items))
		a.emit(ViewCheckout)
		return fmt.Errorf("submit order: %w", err)
	}

	a.logger.Info("order submitted", "order_id", order.ID, "items", len(req.Items), "total", total.StringFixed(2))
	a.emit(ViewCheckout, ViewCart)

	event := domain.NewStorefrontEvent(domain.EventOrderSubmitted, order.ID)
	event.Status = order.Status
	event.ItemCount = len(req.Items)
	event.Total = &total
	a.publish(ctx, event)

	// The order went through; a failed reload only affects the order list notice.
	_ = a.reloadOrders(ctx)
	return nil
}

func (a *App) loadOrders(ctx context.Context, c LoadOrders) error {
	var status domain.OrderStatus
	if c.Status != "" {
		s, err := domain.ParseOrderStatus(c.Status)
		if err != nil {
			a.setOrdersNotice(errorNotice(msgInvalidStatus))
			return err
		}
		status = s
	}

	a.mu.Lock()
	a.state.statusFilter = status
	a.mu.Unlock()

	return a.reloadOrders(ctx)
}

// reloadOrders replaces the cached list with whatever the backend returns for
// the current filter.
func (a *App) reloadOrders(ctx context.Context) error {
	a.mu.Lock()
	status := a.state.statusFilter
	a.mu.Unlock()

	list, err := a.orders.List(ctx, status)
	if err != nil {
		a.logger.Error("failed to load orders", "error", err, "status", status)
		a.setOrdersNotice(errorNotice(msgOrdersFailed))
		return fmt.Errorf("load orders: %w", err)
	}

	a.mu.Lock()
	a.state.orders = list
	a.state.ordersNotice = nil
	a.mu.Unlock()
	a.emit(ViewOrders)

	a.logger.Info("orders loaded", "count", len(list), "status", status)
	return nil
}

func (a *App) updateOrderStatus(ctx context.Context, c UpdateOrderStatus) error {
	status, err := domain.ParseOrderStatus(c.Status)
	if err != nil {
		a.setOrdersNotice(errorNotice(msgInvalidStatus))
		return err
	}

	if err := a.orders.UpdateStatus(ctx, c.ID, status); err != nil {
		if a.metrics != nil {
			a.metrics.OrderMutated(ctx, "update_status", err)
		}
		a.logger.Error("failed to update order status", "error", err, "order_id", c.ID, "status", status)
		a.setOrdersNotice(errorNotice(backendMessage(err, msgUpdateFailed)))
		return fmt.Errorf("update order status: %w", err)
	}

	if a.metrics != nil {
		a.metrics.OrderMutated(ctx, "update_status", nil)
	}
	a.logger.Info("order status updated", "order_id", c.ID, "status", status)

	event := domain.NewStorefrontEvent(domain.EventOrderStatusUpdated, c.ID)
	event.Status = status
	a.publish(ctx, event)

	// The update went through; a failed reload only affects the order list notice.
	_ = a.reloadOrders(ctx)
	return nil
}

func (a *App) deleteOrder(ctx context.Context, c DeleteOrder) error {
	if c.Confirm == nil || !c.Confirm.Confirm(ctx, deleteConfirmation) {
		return ErrNotConfirmed
	}

	if err := a.orders.Delete(ctx, c.ID); err != nil {
		if a.metrics != nil {
			a.metrics.OrderMutated(ctx, "delete", err)
		}
		a.logger.Error("failed to delete order", "error", err, "order_id", c.ID)
		a.setOrdersNotice(errorNotice(backendMessage(err, msgDeleteFailed)))
		return fmt.Errorf("delete order: %w", err)
	}

	if a.metrics != nil {
		a.metrics.OrderMutated(ctx, "delete", nil)
	}
	a.logger.Info("order deleted", "order_id", c.ID)

	a.publish(ctx, domain.NewStorefrontEvent(domain.EventOrderDeleted, c.ID))

	_ = a.reloadOrders(ctx)
	return nil
}

func (a *App) setOrdersNotice(n *Notice) {
	a.mu.Lock()
	a.state.ordersNotice = n
	a.mu.Unlock()
	a.emit(ViewOrders)
}

func (a *App) publish(ctx context.Context, event domain.StorefrontEvent) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Publish(ctx, event); err != nil {
		a.logger.Error("failed to publish storefront event", "error", err, "type", event.Type, "order_id", event.OrderID)
	}
}

// emit notifies subscribers, one Change per view, with a fresh snapshot.
func (a *App) emit(views ...View) {
	a.subMu.Lock()
	subs := make([]func(Change), 0, len(a.subscribers))
	for _, s := range a.subscribers {
		subs = append(subs, s.fn)
	}
	a.subMu.Unlock()
	if len(subs) == 0 {
		return
	}

	snap := a.Snapshot()
	for _, v := range views {
		for _, fn := range subs {
			fn(Change{View: v, Snapshot: snap})
		}
	}
}

// backendMessage prefers the backend's own error text over fallback.
func backendMessage(err error, fallback string) string {
	var apiErr *orders.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
