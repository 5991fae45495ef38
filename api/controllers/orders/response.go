package orders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shophub-io/shophub-backend/pkg/db/models"
)

// AddressResponse is the shipping address attached to an order.
type AddressResponse struct {
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// ItemResponse is one order line with its snapshot price.
type ItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id,omitempty"`
	Title     string          `json:"title,omitempty"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderResponse is the order view returned to its owner.
type OrderResponse struct {
	ID            int64            `json:"id"`
	Paid          bool             `json:"paid"`
	PaymentMethod string           `json:"payment_method"`
	Total         decimal.Decimal  `json:"total"`
	Address       *AddressResponse `json:"address,omitempty"`
	Items         []ItemResponse   `json:"items"`
	CreatedAt     time.Time        `json:"created_at"`
}

// NewOrderResponse maps a system-of-record order, with its preloads attached,
// into the public shape.
func NewOrderResponse(order *models.Order) OrderResponse {
	resp := OrderResponse{
		ID:            order.ID,
		Paid:          order.Paid,
		PaymentMethod: order.PaymentMethod.String(),
		Total:         order.Total,
		Items:         make([]ItemResponse, 0, len(order.Items)),
		CreatedAt:     order.CreatedAt,
	}
	if addr := order.Address; addr != nil {
		resp.Address = &AddressResponse{
			FullName:   addr.FullName,
			Line1:      addr.Line1,
			Line2:      addr.Line2,
			City:       addr.City,
			State:      addr.State,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
		}
	}
	for _, item := range order.Items {
		line := ItemResponse{
			ID:        item.ID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			LineTotal: item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		}
		if item.ProductID != nil {
			line.ProductID = *item.ProductID
		}
		if item.Product != nil {
			line.Title = item.Product.Title
		}
		resp.Items = append(resp.Items, line)
	}
	return resp
}
