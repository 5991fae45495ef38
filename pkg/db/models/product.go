package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents the canonical catalog entity in the system of record.
// The read path for listings goes through the mirror; this row is the source
// of truth the mirror is projected from.
type Product struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string          `gorm:"column:title;not null"`
	Slug        string          `gorm:"column:slug;not null;uniqueIndex"`
	Description string          `gorm:"column:description;not null;default:''"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	ImageURL    *string         `gorm:"column:image_url"`
	CategoryID  *int64          `gorm:"column:category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Available   bool            `gorm:"column:available;not null;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
