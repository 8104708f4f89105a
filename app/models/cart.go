package models

import (
	"github.com/aurelia-jewels/storefront/app/models/other"
	"github.com/aurelia-jewels/storefront/app/utils/calc"
	"github.com/shopspring/decimal"
)

const UnknownProductName = "Unknown Product"

type CartLine struct {
	LineID      string          `json:"line_id"`
	ProductID   string          `json:"product_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ProductName string          `json:"product_name"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return calc.LineSubtotal(l.UnitPrice, l.Quantity)
}

// CartState is the aggregate the rest of the storefront observes. Total and
// ItemCount are derived from Lines and recomputed after every mutation,
// never patched independently.
type CartState struct {
	Lines     []CartLine      `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

func EmptyCart() CartState {
	return CartState{
		Lines:     []CartLine{},
		Total:     decimal.Zero,
		ItemCount: 0,
	}
}

// NewCartState builds a state from lines with the derived fields filled in.
func NewCartState(lines []CartLine) CartState {
	if lines == nil {
		lines = []CartLine{}
	}
	total := decimal.Zero
	count := 0
	for _, l := range lines {
		total = total.Add(l.Subtotal())
		count += l.Quantity
	}
	return CartState{Lines: lines, Total: total, ItemCount: count}
}

// Clone returns a deep copy, safe to hand out as a snapshot.
func (c CartState) Clone() CartState {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return CartState{Lines: lines, Total: c.Total, ItemCount: c.ItemCount}
}

func (c CartState) FindLine(lineID string) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.LineID == lineID {
			return l, true
		}
	}
	return CartLine{}, false
}

// NormalizeCartLine maps one upstream cart line into the canonical CartLine.
// The backend returns product details either as an embedded product object
// or flattened onto the line; whichever is present wins, with defaults when
// both are missing.
func NormalizeCartLine(raw other.UpstreamCartLine) CartLine {
	line := CartLine{
		LineID:      raw.CartItemID,
		ProductID:   raw.ProductID,
		Quantity:    raw.Quantity,
		UnitPrice:   decimal.Zero,
		ProductName: UnknownProductName,
	}

	if raw.Product != nil {
		if raw.Product.Name != "" {
			line.ProductName = raw.Product.Name
		}
		line.UnitPrice = raw.Product.Price
		if line.ProductID == "" {
			line.ProductID = raw.Product.ID
		}
		return line
	}

	if raw.ProductName != "" {
		line.ProductName = raw.ProductName
	}
	if raw.Price != nil {
		line.UnitPrice = *raw.Price
	}
	return line
}

// NormalizeCart maps a full upstream cart payload into a CartState.
func NormalizeCart(raw other.UpstreamCart) CartState {
	lines := make([]CartLine, 0, len(raw.Items))
	for _, item := range raw.Items {
		lines = append(lines, NormalizeCartLine(item))
	}
	return NewCartState(lines)
}
