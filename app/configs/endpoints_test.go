package configs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEndpointsDefaults(t *testing.T) {
	eps, err := LoadEndpoints("")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/cart", eps.Cart)
	assert.Equal(t, []string{"/api/v1/cart/items/%s", "/api/v1/cart/%s"}, eps.CartLine)
	assert.Equal(t, "/api/v1/orders/checkout", eps.Checkout)
}

func TestLoadEndpointsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "endpoints.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"cart: /v2/cart\ncart_line:\n  - /v2/cart/items/%s\n"), 0o644))

	eps, err := LoadEndpoints(path)
	require.NoError(t, err)

	assert.Equal(t, "/v2/cart", eps.Cart)
	assert.Equal(t, []string{"/v2/cart/items/%s"}, eps.CartLine)
	// Unset keys keep their defaults.
	assert.Equal(t, "/api/v1/products", eps.Products)
}

func TestLoadEndpointsMissingFile(t *testing.T) {
	_, err := LoadEndpoints(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
