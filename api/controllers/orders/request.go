package orders

import "github.com/shophub-io/shophub-backend/internal/checkout"

// AddressUpdateRequest carries optional address field changes; absent fields
// keep their current values.
type AddressUpdateRequest struct {
	FullName   *string `json:"full_name" validate:"omitempty,min=1"`
	Line1      *string `json:"line1" validate:"omitempty,min=1"`
	Line2      *string `json:"line2"`
	City       *string `json:"city" validate:"omitempty,min=1"`
	State      *string `json:"state"`
	PostalCode *string `json:"postal_code" validate:"omitempty,min=1"`
	Country    *string `json:"country" validate:"omitempty,min=1"`
}

// EditOrderRequest updates an unpaid order. Quantities is keyed by order item
// id; a zero quantity removes the item.
type EditOrderRequest struct {
	Address    AddressUpdateRequest `json:"address"`
	Quantities map[int64]int        `json:"quantities" validate:"omitempty,dive,gte=0"`
}

func (r EditOrderRequest) toInput() checkout.EditOrderInput {
	return checkout.EditOrderInput{
		Address: checkout.AddressUpdate{
			FullName:   r.Address.FullName,
			Line1:      r.Address.Line1,
			Line2:      r.Address.Line2,
			City:       r.Address.City,
			State:      r.Address.State,
			PostalCode: r.Address.PostalCode,
			Country:    r.Address.Country,
		},
		Quantities: r.Quantities,
	}
}
