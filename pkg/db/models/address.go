package models

// Address is a shipping address owned by a user.
type Address struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	UserID     int64  `gorm:"column:user_id;not null"`
	FullName   string `gorm:"column:full_name;not null"`
	Line1      string `gorm:"column:line1;not null"`
	Line2      string `gorm:"column:line2;not null;default:''"`
	City       string `gorm:"column:city;not null"`
	State      string `gorm:"column:state;not null;default:''"`
	PostalCode string `gorm:"column:postal_code;not null"`
	Country    string `gorm:"column:country;not null"`
}
