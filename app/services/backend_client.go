package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aurelia-jewels/storefront/app/configs"
	"github.com/aurelia-jewels/storefront/app/models/other"
	"github.com/go-resty/resty/v2"
)

var (
	// ErrAuthRequired means the upstream rejected the principal credential.
	ErrAuthRequired = errors.New("authentication required")

	// ErrNotFound means the targeted resource does not exist upstream.
	ErrNotFound = errors.New("resource not found")
)

// BackendClient is the single owner of all upstream HTTP traffic.
type BackendClient interface {
	FetchCart(ctx context.Context, token string) (other.UpstreamCart, error)
	AddCartLine(ctx context.Context, token, productID string, quantity int) error
	UpdateCartLine(ctx context.Context, token, lineID string, quantity int) error
	DeleteCartLine(ctx context.Context, token, lineID string) error
	ClearCart(ctx context.Context, token string) error

	ListProducts(ctx context.Context) ([]other.ProductListEntry, error)
	GetProduct(ctx context.Context, productID string) (*other.ProductDetail, error)
	ListFavorites(ctx context.Context, token string) ([]other.ProductListEntry, error)
	AddFavorite(ctx context.Context, token, productID string) error
	RemoveFavorite(ctx context.Context, token, productID string) error

	ListOrders(ctx context.Context, token string) ([]other.OrderSummary, error)
	Checkout(ctx context.Context, token string, shipping ShippingInfo) (*other.CheckoutResponse, error)
	CreatePaymentIntent(ctx context.Context, token, orderID string) (*other.PaymentIntentResponse, error)

	Profile(ctx context.Context, token string) (*other.UpstreamProfile, error)
	RequestDataExport(ctx context.Context, token string) (*other.DataExportResponse, error)
	DeleteAccount(ctx context.Context, token string) error
}

// ShippingInfo is the checkout payload forwarded to the upstream order API.
type ShippingInfo struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required"`
	AddressLine1 string `json:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city" validate:"required"`
	State        string `json:"state" validate:"required"`
	PostalCode   string `json:"postal_code" validate:"required"`
	Country      string `json:"country" validate:"required"`
}

type RestBackendClient struct {
	client    *resty.Client
	endpoints configs.Endpoints
}

func NewRestBackendClient(baseURL string, endpoints configs.Endpoints) *RestBackendClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &RestBackendClient{
		client:    client,
		endpoints: endpoints,
	}
}

func (c *RestBackendClient) request(ctx context.Context, token string) *resty.Request {
	req := c.client.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

// classify maps an upstream response to the client's error taxonomy. A nil
// return means the call succeeded and any SetResult target is populated.
func classify(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: request failed: %w", op, err)
	}
	code := resp.StatusCode()
	switch {
	case code < http.StatusMultipleChoices:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%s: status %d: %w", op, code, ErrAuthRequired)
	case code == http.StatusNotFound:
		return fmt.Errorf("%s: status %d: %w", op, code, ErrNotFound)
	default:
		return fmt.Errorf("%s: backend error: status %d, body: %s", op, code, resp.String())
	}
}

func (c *RestBackendClient) FetchCart(ctx context.Context, token string) (other.UpstreamCart, error) {
	var cart other.UpstreamCart
	resp, err := c.request(ctx, token).
		SetResult(&cart).
		Get(c.endpoints.Cart)
	if err := classify(resp, err, "fetch cart"); err != nil {
		return other.UpstreamCart{}, err
	}
	return cart, nil
}

func (c *RestBackendClient) AddCartLine(ctx context.Context, token, productID string, quantity int) error {
	resp, err := c.request(ctx, token).
		SetBody(other.AddCartLineRequest{ProductID: productID, Quantity: quantity}).
		Post(c.endpoints.Cart)
	return classify(resp, err, "add cart line")
}

// mutateLine tries each configured cart-line path in order, moving to the
// next candidate only when the current one reports not-found. Any other
// outcome, success or failure, is final.
func (c *RestBackendClient) mutateLine(ctx context.Context, token, method, lineID string, body interface{}) error {
	var lastErr error
	for i, tmpl := range c.endpoints.CartLine {
		path := fmt.Sprintf(tmpl, lineID)
		req := c.request(ctx, token)
		if body != nil {
			req.SetBody(body)
		}
		resp, err := req.Execute(method, path)
		lastErr = classify(resp, err, fmt.Sprintf("%s %s", method, path))
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, ErrNotFound) {
			return lastErr
		}
		if i < len(c.endpoints.CartLine)-1 {
			log.Printf("BackendClient.mutateLine: %s %s returned not found, trying fallback path", method, path)
		}
	}
	return lastErr
}

func (c *RestBackendClient) UpdateCartLine(ctx context.Context, token, lineID string, quantity int) error {
	return c.mutateLine(ctx, token, http.MethodPut, lineID, other.QuantityRequest{Quantity: quantity})
}

func (c *RestBackendClient) DeleteCartLine(ctx context.Context, token, lineID string) error {
	return c.mutateLine(ctx, token, http.MethodDelete, lineID, nil)
}

func (c *RestBackendClient) ClearCart(ctx context.Context, token string) error {
	resp, err := c.request(ctx, token).Delete(c.endpoints.Cart)
	return classify(resp, err, "clear cart")
}

func (c *RestBackendClient) ListProducts(ctx context.Context) ([]other.ProductListEntry, error) {
	var products []other.ProductListEntry
	resp, err := c.request(ctx, "").
		SetResult(&products).
		Get(c.endpoints.Products)
	if err := classify(resp, err, "list products"); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *RestBackendClient) GetProduct(ctx context.Context, productID string) (*other.ProductDetail, error) {
	var product other.ProductDetail
	resp, err := c.request(ctx, "").
		SetResult(&product).
		Get(fmt.Sprintf(c.endpoints.Product, productID))
	if err := classify(resp, err, "get product"); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *RestBackendClient) ListFavorites(ctx context.Context, token string) ([]other.ProductListEntry, error) {
	var favorites []other.ProductListEntry
	resp, err := c.request(ctx, token).
		SetResult(&favorites).
		Get(c.endpoints.Favorites)
	if err := classify(resp, err, "list favorites"); err != nil {
		return nil, err
	}
	return favorites, nil
}

func (c *RestBackendClient) AddFavorite(ctx context.Context, token, productID string) error {
	resp, err := c.request(ctx, token).Put(fmt.Sprintf(c.endpoints.Favorite, productID))
	return classify(resp, err, "add favorite")
}

func (c *RestBackendClient) RemoveFavorite(ctx context.Context, token, productID string) error {
	resp, err := c.request(ctx, token).Delete(fmt.Sprintf(c.endpoints.Favorite, productID))
	return classify(resp, err, "remove favorite")
}

func (c *RestBackendClient) ListOrders(ctx context.Context, token string) ([]other.OrderSummary, error) {
	var orders []other.OrderSummary
	resp, err := c.request(ctx, token).
		SetResult(&orders).
		Get(c.endpoints.Orders)
	if err := classify(resp, err, "list orders"); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *RestBackendClient) Checkout(ctx context.Context, token string, shipping ShippingInfo) (*other.CheckoutResponse, error) {
	var result other.CheckoutResponse
	resp, err := c.request(ctx, token).
		SetBody(shipping).
		SetResult(&result).
		Post(c.endpoints.Checkout)
	if err := classify(resp, err, "checkout"); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RestBackendClient) CreatePaymentIntent(ctx context.Context, token, orderID string) (*other.PaymentIntentResponse, error) {
	var result other.PaymentIntentResponse
	resp, err := c.request(ctx, token).
		SetResult(&result).
		Post(fmt.Sprintf(c.endpoints.PaymentIntent, orderID))
	if err := classify(resp, err, "create payment intent"); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RestBackendClient) Profile(ctx context.Context, token string) (*other.UpstreamProfile, error) {
	var profile other.UpstreamProfile
	resp, err := c.request(ctx, token).
		SetResult(&profile).
		Get(c.endpoints.Profile)
	if err := classify(resp, err, "fetch profile"); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *RestBackendClient) RequestDataExport(ctx context.Context, token string) (*other.DataExportResponse, error) {
	var result other.DataExportResponse
	resp, err := c.request(ctx, token).
		SetResult(&result).
		Post(c.endpoints.DataExport)
	if err := classify(resp, err, "request data export"); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *RestBackendClient) DeleteAccount(ctx context.Context, token string) error {
	resp, err := c.request(ctx, token).Delete(c.endpoints.DeleteAccount)
	return classify(resp, err, "delete account")
}
