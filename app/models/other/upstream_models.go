package other

import "github.com/shopspring/decimal"

// Wire shapes returned by the commerce backend. The cart line shape is not
// consistent across its endpoints: some return an embedded product object,
// others flatten product_name/price onto the line. Both variants are kept
// here and normalized once in models.NormalizeCartLine.

type UpstreamProduct struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
}

type UpstreamCartLine struct {
	CartItemID  string           `json:"cart_item_id"`
	ProductID   string           `json:"product_id"`
	Quantity    int              `json:"quantity"`
	Product     *UpstreamProduct `json:"product,omitempty"`
	ProductName string           `json:"product_name,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
}

type UpstreamCart struct {
	Items []UpstreamCartLine `json:"items"`
}

type AddCartLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

type ProductListEntry struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	Description     string          `json:"description,omitempty"`
	Category        string          `json:"category"`
	StockQuantity   int             `json:"stock_quantity,omitempty"`
	PrimaryImageURL string          `json:"primary_image_url,omitempty"`
}

type ProductImage struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id"`
	ImageURL     string `json:"image_url"`
	IsMain       bool   `json:"is_main"`
	DisplayOrder int    `json:"display_order"`
}

type ProductDetail struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category"`
	StockQuantity int             `json:"stock_quantity,omitempty"`
	Images        []ProductImage  `json:"images"`
}

type UpstreamProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
}

type OrderItemSummary struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderSummary struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	ShippingName string             `json:"shipping_name"`
	Items        []OrderItemSummary `json:"order_items"`
	Total        decimal.Decimal    `json:"total"`
	Status       string             `json:"status"`
	CreatedDate  string             `json:"created_date"`
}

type CheckoutResponse struct {
	ClientSecret string       `json:"client_secret"`
	Order        OrderSummary `json:"order"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
}

type DataExportResponse struct {
	Status      string `json:"status"`
	RequestedAt string `json:"requested_at"`
	DownloadURL string `json:"download_url,omitempty"`
}
