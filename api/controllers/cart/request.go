package cart

// AddItemRequest adds a product to the basket.
type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"omitempty,gt=0"`
}

// QuantityRequest adjusts one basket line.
type QuantityRequest struct {
	Action   string `json:"action" validate:"required,oneof=inc dec set"`
	Quantity int    `json:"quantity" validate:"omitempty,gte=0"`
}
