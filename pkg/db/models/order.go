package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shophub-io/shophub-backend/pkg/enums"
)

// Order is the system-of-record purchase. User and address references go
// NULL when the owning rows are deleted; the order itself survives.
type Order struct {
	ID            int64               `gorm:"column:id;primaryKey;autoIncrement"`
	UserID        *int64              `gorm:"column:user_id"`
	User          *User               `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	AddressID     *int64              `gorm:"column:address_id"`
	Address       *Address            `gorm:"foreignKey:AddressID;constraint:OnDelete:SET NULL"`
	Paid          bool                `gorm:"column:paid;not null;default:false"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null;default:'cod'"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null;default:0"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
