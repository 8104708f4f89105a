package services

import (
	"fmt"
	"log"

	"github.com/aurelia-jewels/storefront/app/models/other"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// PaymentService creates gateway transactions for checked-out orders. The
// processor credential never leaves this service; the browser only receives
// the transaction token and redirect URL.
type PaymentService struct {
	snapClient snap.Client
}

func NewPaymentService(serverKey string, env midtrans.EnvironmentType) *PaymentService {
	var client snap.Client
	client.New(serverKey, env)
	return &PaymentService{snapClient: client}
}

type SnapTransaction struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

func (s *PaymentService) CreateSnapTransaction(order other.OrderSummary, customerName, customerEmail string) (*SnapTransaction, error) {
	items := make([]midtrans.ItemDetails, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, midtrans.ItemDetails{
			ID:    item.ProductID,
			Name:  item.ProductName,
			Price: item.Price.Round(0).IntPart(),
			Qty:   int32(item.Quantity),
		})
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.ID,
			GrossAmt: order.Total.Round(0).IntPart(),
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: customerName,
			Email: customerEmail,
		},
		Items: &items,
	}

	resp, snapErr := s.snapClient.CreateTransaction(req)
	if snapErr != nil {
		log.Printf("PaymentService.CreateSnapTransaction: failed for order %s: %v", order.ID, snapErr)
		return nil, fmt.Errorf("failed to create payment transaction for order %s: %w", order.ID, snapErr)
	}

	return &SnapTransaction{
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
	}, nil
}
