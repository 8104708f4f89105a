package configs

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Endpoints holds the upstream path templates. Line update/delete carry an
// ordered list of candidates because the backend's routing surface is
// inconsistent: the documented path and the swagger path disagree, and which
// one answers depends on the deployment. Candidates are tried in order until
// one does not 404.
type Endpoints struct {
	Cart          string   `yaml:"cart"`
	CartLine      []string `yaml:"cart_line"`
	Products      string   `yaml:"products"`
	Product       string   `yaml:"product"`
	Favorites     string   `yaml:"favorites"`
	Favorite      string   `yaml:"favorite"`
	Orders        string   `yaml:"orders"`
	Checkout      string   `yaml:"checkout"`
	PaymentIntent string   `yaml:"payment_intent"`
	Profile       string   `yaml:"profile"`
	DataExport    string   `yaml:"data_export"`
	DeleteAccount string   `yaml:"delete_account"`
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		Cart:          "/api/v1/cart",
		CartLine:      []string{"/api/v1/cart/items/%s", "/api/v1/cart/%s"},
		Products:      "/api/v1/products",
		Product:       "/api/v1/products/%s",
		Favorites:     "/api/v1/favorites",
		Favorite:      "/api/v1/products/%s/favorite",
		Orders:        "/api/v1/orders",
		Checkout:      "/api/v1/orders/checkout",
		PaymentIntent: "/api/v1/payment/intents/%s",
		Profile:       "/api/v1/user/profile",
		DataExport:    "/user/data-export",
		DeleteAccount: "/user/delete-account",
	}
}

// LoadEndpoints reads path overrides from a YAML file, falling back to the
// defaults for anything unset. An empty path means "use defaults only".
func LoadEndpoints(path string) (Endpoints, error) {
	eps := DefaultEndpoints()
	if path == "" {
		return eps, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return eps, fmt.Errorf("failed to read endpoints file %s: %w", path, err)
	}

	var overrides Endpoints
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return eps, fmt.Errorf("failed to parse endpoints file %s: %w", path, err)
	}

	merge := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	merge(&eps.Cart, overrides.Cart)
	if len(overrides.CartLine) > 0 {
		eps.CartLine = overrides.CartLine
	}
	merge(&eps.Products, overrides.Products)
	merge(&eps.Product, overrides.Product)
	merge(&eps.Favorites, overrides.Favorites)
	merge(&eps.Favorite, overrides.Favorite)
	merge(&eps.Orders, overrides.Orders)
	merge(&eps.Checkout, overrides.Checkout)
	merge(&eps.PaymentIntent, overrides.PaymentIntent)
	merge(&eps.Profile, overrides.Profile)
	merge(&eps.DataExport, overrides.DataExport)
	merge(&eps.DeleteAccount, overrides.DeleteAccount)

	return eps, nil
}
