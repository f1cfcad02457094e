package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_ListProducts(t *testing.T) {
	t.Run("decodes the product list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/products" {
				t.Errorf("expected /products, got %s", r.URL.Path)
			}
			if r.Method != http.MethodGet {
				t.Errorf("expected GET, got %s", r.Method)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"id":1,"title":"Backpack","price":109.95,"category":"men's clothing","image":"https://img/1.jpg"},
				{"id":2,"title":"T-Shirt","price":22.3,"category":"men's clothing","image":"https://img/2.jpg"}
			]`))
		}))
		defer server.Close()

		client := NewClient(server.URL+"/", server.Client())
		products, err := client.ListProducts(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(products) != 2 {
			t.Fatalf("expected 2 products, got %d", len(products))
		}
		if products[0].Title != "Backpack" || products[0].Price.String() != "109.95" {
			t.Errorf("unexpected first product: %+v", products[0])
		}
		if products[1].ID != 2 || products[1].Image != "https://img/2.jpg" {
			t.Errorf("unexpected second product: %+v", products[1])
		}
	})

	t.Run("returns StatusError on non-2xx", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("down"))
		}))
		defer server.Close()

		_, err := NewClient(server.URL, server.Client()).ListProducts(context.Background())

		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected StatusError, got %v", err)
		}
		if statusErr.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", statusErr.StatusCode)
		}
		if statusErr.Body != "down" {
			t.Errorf("expected body 'down', got %q", statusErr.Body)
		}
	})

	t.Run("returns error on malformed payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not":"a list"}`))
		}))
		defer server.Close()

		if _, err := NewClient(server.URL, server.Client()).ListProducts(context.Background()); err == nil {
			t.Error("expected decode error")
		}
	})

	t.Run("returns error when catalog unreachable", func(t *testing.T) {
		client := NewClient("http://localhost:99999", &http.Client{})
		if _, err := client.ListProducts(context.Background()); err == nil {
			t.Error("expected transport error")
		}
	})
}
