package checkout

import (
	"context"

	"gorm.io/gorm"

	"github.com/shophub-io/shophub-backend/pkg/db/models"
)

// OrderWriter is the persistence surface the checkout flows need.
type OrderWriter interface {
	WithTx(tx *gorm.DB) OrderWriter
	FindByIDAndUser(ctx context.Context, id, userID int64) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	SaveOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	SaveItem(ctx context.Context, item *models.OrderItem) error
	DeleteItem(ctx context.Context, itemID int64) error
	CreateAddress(ctx context.Context, address *models.Address) (*models.Address, error)
	SaveAddress(ctx context.Context, address *models.Address) (*models.Address, error)
}
