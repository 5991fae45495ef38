package cart

import (
	"context"

	"github.com/shopspring/decimal"

	cartsvc "github.com/shophub-io/shophub-backend/internal/cart"
	"github.com/shophub-io/shophub-backend/internal/catalog"
)

// ItemResponse is one basket line with its catalog display fields.
type ItemResponse struct {
	ProductID int64           `json:"product_id"`
	Title     string          `json:"title,omitempty"`
	Slug      string          `json:"slug,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartResponse is the full basket view.
type CartResponse struct {
	Items []ItemResponse  `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// QuantityResponse answers a quantity adjustment.
type QuantityResponse struct {
	Quantity int             `json:"quantity"`
	Total    decimal.Decimal `json:"total"`
}

// newCartResponse joins basket lines with catalog titles. Lines whose
// product no longer exists are shown without display fields rather than
// dropped.
func newCartResponse(ctx context.Context, doc cartsvc.Document, catalogSvc catalog.Service) CartResponse {
	resp := CartResponse{
		Items: make([]ItemResponse, 0, doc.Len()),
		Total: doc.Total(),
	}
	for _, item := range doc.Items() {
		line := ItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Line.Quantity,
			Price:     item.Line.Price,
			LineTotal: item.Line.Price.Mul(decimal.NewFromInt(int64(item.Line.Quantity))),
		}
		if product, err := catalogSvc.GetProductByID(ctx, item.ProductID); err == nil {
			line.Title = product.Title
			line.Slug = product.Slug
		}
		resp.Items = append(resp.Items, line)
	}
	return resp
}
