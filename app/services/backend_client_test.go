package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aurelia-jewels/storefront/app/configs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStubBackend(t *testing.T, handler http.HandlerFunc) (*RestBackendClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewRestBackendClient(server.URL, configs.DefaultEndpoints()), server
}

func TestFetchCartParsesItems(t *testing.T) {
	client, _ := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/cart", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"cart_item_id":"a","product_id":"p1","quantity":2,"product":{"id":"p1","name":"Ring","price":120,"category":"rings"}},
			{"cart_item_id":"b","product_id":"p2","quantity":1,"product_name":"Earrings","price":45.5}
		]}`))
	})

	cart, err := client.FetchCart(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "Ring", cart.Items[0].Product.Name)
	assert.True(t, cart.Items[0].Product.Price.Equal(decimal.NewFromInt(120)))
	assert.Nil(t, cart.Items[1].Product)
	assert.Equal(t, "Earrings", cart.Items[1].ProductName)
}

func TestUpdateLineUsesFallbackPathOnNotFound(t *testing.T) {
	var paths []string
	client, _ := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/api/v1/cart/items/a" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	err := client.UpdateCartLine(context.Background(), "tok", "a", 3)

	require.NoError(t, err, "fallback path success must make the operation succeed")
	assert.Equal(t, []string{"/api/v1/cart/items/a", "/api/v1/cart/a"}, paths)
}

func TestUpdateLineNotFoundOnAllPaths(t *testing.T) {
	var calls int
	client, _ := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.NotFound(w, r)
	})

	err := client.UpdateCartLine(context.Background(), "tok", "a", 3)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, calls, "both candidates must be tried")
}

func TestUpdateLineServerErrorSkipsFallback(t *testing.T) {
	var calls int
	client, _ := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.UpdateCartLine(context.Background(), "tok", "a", 3)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, calls, "only not-found triggers the fallback")
}

func TestDeleteLineFallsBackLikeUpdate(t *testing.T) {
	var paths []string
	client, _ := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		paths = append(paths, r.URL.Path)
		if len(paths) == 1 {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.DeleteCartLine(context.Background(), "tok", "a")

	require.NoError(t, err)
	assert.Equal(t, []string{"/api/v1/cart/items/a", "/api/v1/cart/a"}, paths)
}

func TestUnauthorizedMapsToAuthRequired(t *testing.T) {
	client, _ := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.FetchCart(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrAuthRequired)

	err = client.ClearCart(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestAddCartLineSendsPayload(t *testing.T) {
	client, _ := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/cart", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"product_id":"p1","quantity":2}`, string(body))
		w.WriteHeader(http.StatusCreated)
	})

	err := client.AddCartLine(context.Background(), "tok", "p1", 2)
	require.NoError(t, err)
}

func TestCheckoutReturnsClientSecret(t *testing.T) {
	client, _ := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/orders/checkout", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"client_secret":"cs_123","order":{"id":"o1","total":95,"status":"pending"}}`))
	})

	resp, err := client.Checkout(context.Background(), "tok", ShippingInfo{
		Name: "Ada", Email: "ada@example.com", Phone: "1", AddressLine1: "1 Main",
		City: "Metropolis", State: "NY", PostalCode: "10001", Country: "US",
	})

	require.NoError(t, err)
	assert.Equal(t, "cs_123", resp.ClientSecret)
	assert.Equal(t, "o1", resp.Order.ID)
	assert.True(t, resp.Order.Total.Equal(decimal.NewFromInt(95)))
}

func TestProfileNotFoundBackend(t *testing.T) {
	client, _ := newStubBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := client.Profile(context.Background(), "tok")
	assert.True(t, errors.Is(err, ErrNotFound))
}
