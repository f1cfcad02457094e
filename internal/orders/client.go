// Package orders talks to the orders backend. The backend owns persistence,
// validation and status transitions; this client only relays requests and
// reports whether they succeeded.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/joao-fontenele/storefront/internal/domain"
)

// APIError is an application-level failure: the backend answered, but not with success.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("orders backend returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("orders backend returned status %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, client *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

type CreateOrderRequest struct {
	Customer domain.Customer `json:"customer"`
	Items    []CreateItem    `json:"items"`
}

type CreateItem struct {
	ProductID int64       `json:"productId"`
	Title     string      `json:"title"`
	Price     json.Number `json:"price"`
	Quantity  int         `json:"quantity"`
}

type listResponse struct {
	Items []domain.Order `json:"items"`
}

type updateStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

func (c *Client) Create(ctx context.Context, in CreateOrderRequest) (*domain.Order, error) {
	resp, err := c.do(ctx, http.MethodPost, "/orders", in)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read create order response: %w", err)
	}
	if !success(resp.StatusCode) {
		return nil, apiError(resp.StatusCode, body)
	}

	var order domain.Order
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &order); err != nil {
			return nil, fmt.Errorf("decode created order: %w", err)
		}
	}
	return &order, nil
}

// List fetches orders, constrained to status when it is non-empty. The result
// is exactly what the backend returned; nothing is filtered locally.
func (c *Client) List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	path := "/orders"
	if status != "" {
		q := url.Values{}
		q.Set("status", string(status))
		path += "?" + q.Encode()
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read order list: %w", err)
	}
	if !success(resp.StatusCode) {
		return nil, apiError(resp.StatusCode, body)
	}

	var out listResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode order list: %w", err)
	}
	if out.Items == nil {
		out.Items = []domain.Order{}
	}
	return out.Items, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id domain.OrderID, status domain.OrderStatus) error {
	resp, err := c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(string(id)), updateStatusRequest{Status: status})
	if err != nil {
		return fmt.Errorf("update order %s status: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !success(resp.StatusCode) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return apiError(resp.StatusCode, body)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, id domain.OrderID) error {
	resp, err := c.do(ctx, http.MethodDelete, "/orders/"+url.PathEscape(string(id)), nil)
	if err != nil {
		return fmt.Errorf("delete order %s: %w", id, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !success(resp.StatusCode) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return apiError(resp.StatusCode, body)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	return c.httpClient.Do(req)
}

func success(code int) bool {
	return code >= 200 && code <= 299
}

// apiError pulls the backend's {"error": "..."} message when there is one.
func apiError(code int, body []byte) *APIError {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		return &APIError{StatusCode: code, Message: payload.Error}
	}
	return &APIError{StatusCode: code}
}
