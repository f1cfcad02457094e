package ui

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/joao-fontenele/storefront/internal/cart"
	"github.com/joao-fontenele/storefront/internal/domain"
	"github.com/joao-fontenele/storefront/internal/storefront"
	"github.com/joao-fontenele/storefront/internal/telemetry"
	"github.com/joao-fontenele/storefront/internal/view"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	app      *storefront.App
	renderer *view.Renderer
	logger   *slog.Logger
}

func NewHandler(app *storefront.App, renderer *view.Renderer, logger *slog.Logger) *Handler {
	return &Handler{
		app:      app,
		renderer: renderer,
		logger:   logger,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /catalog", telemetry.WithHTTPRoute(h.HandleCatalog))
	mux.HandleFunc("POST /catalog/refresh", telemetry.WithHTTPRoute(h.HandleRefreshCatalog))
	mux.HandleFunc("GET /cart", telemetry.WithHTTPRoute(h.HandleCart))
	mux.HandleFunc("POST /cart/items", telemetry.WithHTTPRoute(h.HandleAddItem))
	mux.HandleFunc("PUT /cart/items/{index}", telemetry.WithHTTPRoute(h.HandleSetQuantity))
	mux.HandleFunc("DELETE /cart/items/{index}", telemetry.WithHTTPRoute(h.HandleRemoveItem))
	mux.HandleFunc("DELETE /cart", telemetry.WithHTTPRoute(h.HandleClearCart))
	mux.HandleFunc("POST /checkout", telemetry.WithHTTPRoute(h.HandleCheckout))
	mux.HandleFunc("GET /orders", telemetry.WithHTTPRoute(h.HandleOrders))
	mux.HandleFunc("POST /orders/refresh", telemetry.WithHTTPRoute(h.HandleRefreshOrders))
	mux.HandleFunc("PUT /orders/{id}/status", telemetry.WithHTTPRoute(h.HandleUpdateStatus))
	mux.HandleFunc("DELETE /orders/{id}", telemetry.WithHTTPRoute(h.HandleDeleteOrder))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, nil, storefront.ViewCatalog)
}

func (h *Handler) HandleRefreshCatalog(w http.ResponseWriter, r *http.Request) {
	err := h.app.Dispatch(r.Context(), storefront.LoadCatalog{})
	h.respond(w, r, err, storefront.ViewCatalog)
}

func (h *Handler) HandleCart(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, nil, storefront.ViewCart)
}

type addItemRequest struct {
	ProductID int64 `json:"productId"`
}

func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.app.Dispatch(r.Context(), storefront.AddToCart{ProductID: req.ProductID})
	h.respond(w, r, err, storefront.ViewCart)
}

type setQuantityRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

// HandleSetQuantity accepts the quantity as a JSON number or string; anything
// unparseable is coerced to 1 by the cart.
func (h *Handler) HandleSetQuantity(w http.ResponseWriter, r *http.Request) {
	index, ok := h.pathIndex(w, r)
	if !ok {
		return
	}

	var req setQuantityRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.app.Dispatch(r.Context(), storefront.SetQuantity{Index: index, Raw: rawQuantity(req.Quantity)})
	h.respond(w, r, err, storefront.ViewCart)
}

func (h *Handler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	index, ok := h.pathIndex(w, r)
	if !ok {
		return
	}

	err := h.app.Dispatch(r.Context(), storefront.RemoveLine{Index: index})
	h.respond(w, r, err, storefront.ViewCart)
}

func (h *Handler) HandleClearCart(w http.ResponseWriter, r *http.Request) {
	err := h.app.Dispatch(r.Context(), storefront.ClearCart{})
	h.respond(w, r, err, storefront.ViewCart)
}

func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	var customer domain.Customer
	if err := h.decode(w, r, &customer); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.app.Dispatch(r.Context(), storefront.SubmitOrder{Customer: customer})
	h.respond(w, r, err, storefront.ViewCheckout)
}

func (h *Handler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, nil, storefront.ViewOrders)
}

type refreshOrdersRequest struct {
	Status string `json:"status"`
}

// HandleRefreshOrders reloads the order list. The filter comes from the body
// or, failing that, the status query parameter; empty means all orders.
func (h *Handler) HandleRefreshOrders(w http.ResponseWriter, r *http.Request) {
	req := refreshOrdersRequest{Status: r.URL.Query().Get("status")}
	if r.ContentLength > 0 {
		if err := h.decode(w, r, &req); err != nil {
			h.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	err := h.app.Dispatch(r.Context(), storefront.LoadOrders{Status: req.Status})
	h.respond(w, r, err, storefront.ViewOrders)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	var req updateStatusRequest
	if err := h.decode(w, r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.app.Dispatch(r.Context(), storefront.UpdateOrderStatus{ID: domain.OrderID(id), Status: req.Status})
	h.respond(w, r, err, storefront.ViewOrders)
}

// HandleDeleteOrder only proceeds when the request carries confirm=true.
func (h *Handler) HandleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing order id")
		return
	}

	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	err := h.app.Dispatch(r.Context(), storefront.DeleteOrder{
		ID:      domain.OrderID(id),
		Confirm: storefront.ConfirmFunc(func(_ context.Context, _ string) bool {
			return confirmed
		}),
	})
	h.respond(w, r, err, storefront.ViewOrders)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, err error, v storefront.View) {
	snap := h.app.Snapshot()
	if err != nil {
		status := statusFor(err)
		message := err.Error()
		if status == http.StatusBadGateway {
			message = "service unavailable"
			if n := noticeFor(snap, v); n != nil && n.Error {
				message = n.Text
			}
		}
		h.logger.Info("command rejected", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
		h.writeError(w, status, message)
		return
	}

	switch v {
	case storefront.ViewCatalog:
		h.writeJSON(w, http.StatusOK, h.renderer.Catalog(snap))
	case storefront.ViewCart, storefront.ViewCheckout:
		h.writeJSON(w, http.StatusOK, h.renderer.Cart(snap))
	case storefront.ViewOrders:
		h.writeJSON(w, http.StatusOK, h.renderer.Orders(snap))
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, cart.ErrLineNotFound), errors.Is(err, storefront.ErrUnknownProduct):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, storefront.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, storefront.ErrCatalogLoading), errors.Is(err, storefront.ErrSubmitInProgress):
		return http.StatusConflict
	case errors.Is(err, storefront.ErrNotConfirmed):
		return http.StatusPreconditionRequired
	default:
		return http.StatusBadGateway
	}
}

func noticeFor(s storefront.Snapshot, v storefront.View) *storefront.Notice {
	switch v {
	case storefront.ViewCatalog:
		return s.CatalogNotice
	case storefront.ViewCart, storefront.ViewCheckout:
		return s.CheckoutNotice
	case storefront.ViewOrders:
		return s.OrdersNotice
	}
	return nil
}

func rawQuantity(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func (h *Handler) pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid line index")
		return 0, false
	}
	return index, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
