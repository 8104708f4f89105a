package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aurelia-jewels/storefront/app/models/other"
	"github.com/aurelia-jewels/storefront/app/utils/calc"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var ErrEmptyCart = errors.New("cart is empty")

// OrderService covers order history, checkout submission and the GDPR
// data-management passthroughs.
type OrderService struct {
	api      BackendClient
	validate *validator.Validate
}

func NewOrderService(api BackendClient) *OrderService {
	return &OrderService{
		api:      api,
		validate: validator.New(),
	}
}

func (s *OrderService) ListOrders(ctx context.Context, token string) ([]other.OrderSummary, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}
	orders, err := s.api.ListOrders(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []other.OrderSummary{}
	}
	return orders, nil
}

// Checkout validates the shipping payload against the session's cart and
// forwards it upstream. The response carries the payment client secret the
// browser hands to the processor's elements.
func (s *OrderService) Checkout(ctx context.Context, token string, engine *CartSyncEngine, shipping ShippingInfo) (*other.CheckoutResponse, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}
	if err := s.validate.Struct(shipping); err != nil {
		return nil, fmt.Errorf("invalid shipping info: %w", err)
	}

	cart := engine.State()
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	result, err := s.api.Checkout(ctx, token, shipping)
	if err != nil {
		return nil, fmt.Errorf("checkout failed: %w", err)
	}
	if result.ClientSecret == "" {
		return nil, errors.New("checkout failed: no payment intent received")
	}

	s.crossCheckTotal(result.Order, cart.Total)
	return result, nil
}

// crossCheckTotal warns when the upstream order total disagrees with the
// line items or with what the session was showing. Display-only stale
// prices make small drifts possible; they are logged, never fatal.
func (s *OrderService) crossCheckTotal(order other.OrderSummary, shown decimal.Decimal) {
	subtotals := make([]decimal.Decimal, 0, len(order.Items))
	for _, item := range order.Items {
		subtotals = append(subtotals, item.Subtotal)
	}
	fromItems := calc.SumSubtotals(subtotals)
	if len(order.Items) > 0 && !fromItems.Equal(order.Total) {
		log.Printf("OrderService.crossCheckTotal: order %s total %s does not match item subtotals %s",
			order.ID, order.Total.String(), fromItems.String())
	}
	if !shown.IsZero() && !order.Total.Equal(shown) {
		log.Printf("OrderService.crossCheckTotal: order %s total %s differs from displayed cart total %s",
			order.ID, order.Total.String(), shown.String())
	}
}

// RetryPayment requests a fresh payment intent for an existing order.
func (s *OrderService) RetryPayment(ctx context.Context, token, orderID string) (*other.PaymentIntentResponse, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}
	result, err := s.api.CreatePaymentIntent(ctx, token, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent for order %s: %w", orderID, err)
	}
	if result.ClientSecret == "" {
		return nil, fmt.Errorf("no payment intent received for order %s", orderID)
	}
	return result, nil
}

func (s *OrderService) RequestDataExport(ctx context.Context, token string) (*other.DataExportResponse, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}
	result, err := s.api.RequestDataExport(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to request data export: %w", err)
	}
	return result, nil
}

func (s *OrderService) DeleteAccount(ctx context.Context, token string) error {
	if token == "" {
		return ErrAuthRequired
	}
	if err := s.api.DeleteAccount(ctx, token); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
