package models

import "github.com/shopspring/decimal"

// OrderItem captures the snapshot of one line within an order. Price is the
// cart-time snapshot and is never recomputed from the current catalog price.
type OrderItem struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   int64           `gorm:"column:order_id;not null"`
	ProductID *int64          `gorm:"column:product_id"`
	Product   *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
	Quantity  int             `gorm:"column:quantity;not null;default:1"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
}
