package checkout

import "github.com/shophub-io/shophub-backend/internal/checkout"

// PlaceOrderRequest carries the shipping address collected at checkout.
// State and line2 are optional.
type PlaceOrderRequest struct {
	FullName   string `json:"full_name" validate:"required,min=1"`
	Line1      string `json:"line1" validate:"required,min=1"`
	Line2      string `json:"line2"`
	City       string `json:"city" validate:"required,min=1"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" validate:"required,min=1"`
	Country    string `json:"country" validate:"required,min=1"`
}

func (r PlaceOrderRequest) toAddress() checkout.AddressInput {
	return checkout.AddressInput{
		FullName:   r.FullName,
		Line1:      r.Line1,
		Line2:      r.Line2,
		City:       r.City,
		State:      r.State,
		PostalCode: r.PostalCode,
		Country:    r.Country,
	}
}

// GatewayChargeRequest creates a gateway payment reference for the session
// basket total. SourceID is the tokenized payment source minted client-side.
type GatewayChargeRequest struct {
	SourceID string `json:"source_id" validate:"required,min=1"`
	OrderID  int64  `json:"order_id" validate:"omitempty,gt=0"`
}
