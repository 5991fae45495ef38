package models

// Category groups products for browsing and filtering.
type Category struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null"`
	Slug string `gorm:"column:slug;not null;uniqueIndex"`
}
