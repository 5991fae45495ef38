package checkout

import (
	"context"

	"gorm.io/gorm"

	"github.com/shophub-io/shophub-backend/pkg/db/models"
)

// Repository implements OrderWriter on gorm.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a checkout repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) OrderWriter {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByIDAndUser loads an order restricted to the owning user, with the
// user, address and items attached.
func (r *Repository) FindByIDAndUser(ctx context.Context, id, userID int64) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Address").
		Preload("Items").
		Preload("Items.Product").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder inserts a new order together with its items.
func (r *Repository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// SaveOrder persists all fields of an existing order. Items and address are
// written through their own calls, not as associations.
func (r *Repository) SaveOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("Items", "Address", "User").Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// SaveItem persists one order item.
func (r *Repository) SaveItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem removes one order item.
func (r *Repository) DeleteItem(ctx context.Context, itemID int64) error {
	return r.db.WithContext(ctx).Delete(&models.OrderItem{}, "id = ?", itemID).Error
}

// CreateAddress inserts a shipping address.
func (r *Repository) CreateAddress(ctx context.Context, address *models.Address) (*models.Address, error) {
	if err := r.db.WithContext(ctx).Create(address).Error; err != nil {
		return nil, err
	}
	return address, nil
}

// SaveAddress persists all fields of an existing address.
func (r *Repository) SaveAddress(ctx context.Context, address *models.Address) (*models.Address, error) {
	if err := r.db.WithContext(ctx).Save(address).Error; err != nil {
		return nil, err
	}
	return address, nil
}
