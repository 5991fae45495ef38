package mirror

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shophub-io/shophub-backend/pkg/db/models"
)

// ProductDoc is the denormalized catalog document served to listing and
// detail reads. Category is flattened to its display name so reads never
// join back into the system of record.
type ProductDoc struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
	Category    string          `json:"category,omitempty"`
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderItemDoc is one denormalized order line.
type OrderItemDoc struct {
	ProductID int64           `json:"product_id,omitempty"`
	Title     string          `json:"title,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// OrderAddressDoc is the shipping address embedded in an order document.
type OrderAddressDoc struct {
	FullName   string `json:"full_name,omitempty"`
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// OrderDoc is the denormalized order document. The owner is flattened to id
// plus username; the shipping address and line items are embedded.
type OrderDoc struct {
	ID            int64            `json:"id"`
	UserID        int64            `json:"user_id,omitempty"`
	Username      string           `json:"username,omitempty"`
	Address       *OrderAddressDoc `json:"address,omitempty"`
	Paid          bool             `json:"paid"`
	PaymentMethod string           `json:"payment_method"`
	Total         decimal.Decimal  `json:"total"`
	Items         []OrderItemDoc   `json:"items"`
	CreatedAt     time.Time        `json:"created_at"`
}

// NewProductDoc projects a system-of-record product into its mirror document.
func NewProductDoc(product *models.Product) ProductDoc {
	doc := ProductDoc{
		ID:          product.ID,
		Title:       product.Title,
		Slug:        product.Slug,
		Description: product.Description,
		Price:       product.Price,
		Available:   product.Available,
		CreatedAt:   product.CreatedAt,
	}
	if product.ImageURL != nil {
		doc.ImageURL = *product.ImageURL
	}
	if product.Category != nil {
		doc.Category = product.Category.Name
	}
	return doc
}

// NewOrderDoc projects a system-of-record order into its mirror document.
// The user, address and item preloads must already be attached.
func NewOrderDoc(order *models.Order) OrderDoc {
	doc := OrderDoc{
		ID:            order.ID,
		Paid:          order.Paid,
		PaymentMethod: order.PaymentMethod.String(),
		Total:         order.Total,
		Items:         make([]OrderItemDoc, 0, len(order.Items)),
		CreatedAt:     order.CreatedAt,
	}
	if order.UserID != nil {
		doc.UserID = *order.UserID
	}
	if order.User != nil {
		doc.Username = order.User.Username
	}
	if addr := order.Address; addr != nil {
		doc.Address = &OrderAddressDoc{
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
		itemDoc := OrderItemDoc{
			Price:    item.Price,
			Quantity: item.Quantity,
		}
		if item.ProductID != nil {
			itemDoc.ProductID = *item.ProductID
		}
		if item.Product != nil {
			itemDoc.Title = item.Product.Title
		}
		doc.Items = append(doc.Items, itemDoc)
	}
	return doc
}
