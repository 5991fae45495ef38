package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shophub-io/shophub-backend/internal/cart"
	"github.com/shophub-io/shophub-backend/pkg/db/models"
	"github.com/shophub-io/shophub-backend/pkg/enums"
	pkgerrors "github.com/shophub-io/shophub-backend/pkg/errors"
	"github.com/shophub-io/shophub-backend/pkg/logger"
)

// ErrEmptyCart rejects order placement from an empty basket. It is a
// business-rule outcome, not a failure.
var ErrEmptyCart = pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")

// ErrOrderAlreadyPaid rejects edits to orders that have been paid.
var ErrOrderAlreadyPaid = pkgerrors.New(pkgerrors.CodeStateConflict, "paid orders cannot be edited")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartStore interface {
	Get(ctx context.Context, sessionID string) (cart.Document, error)
	Clear(ctx context.Context, sessionID string) error
}

type productLoader interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

type userLoader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type orderNotifier interface {
	OrderSaved(ctx context.Context, order *models.Order)
}

// AddressInput is the full shipping address collected at checkout.
type AddressInput struct {
	FullName   string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// AddressUpdate carries optional per-field address changes; nil fields keep
// the current value.
type AddressUpdate struct {
	FullName   *string
	Line1      *string
	Line2      *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string
}

// EditOrderInput updates an unpaid order. Quantities is keyed by order item
// id; a zero quantity deletes the item.
type EditOrderInput struct {
	Address    AddressUpdate
	Quantities map[int64]int
}

// Service runs the order placement and edit workflows.
type Service interface {
	PlaceOrder(ctx context.Context, userID int64, sessionID string, address AddressInput) (*models.Order, error)
	EditOrder(ctx context.Context, userID, orderID int64, input EditOrderInput) (*models.Order, error)
}

type service struct {
	repo     OrderWriter
	tx       txRunner
	carts    cartStore
	products productLoader
	users    userLoader
	notifier orderNotifier
	logg     *logger.Logger
}

// NewService builds a checkout service backed by the provided stack.
func NewService(repo OrderWriter, tx txRunner, carts cartStore, products productLoader, users userLoader, notifier orderNotifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order writer required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if users == nil {
		return nil, fmt.Errorf("user loader required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("order notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		carts:    carts,
		products: products,
		users:    users,
		notifier: notifier,
		logg:     logg,
	}, nil
}

// PlaceOrder turns the session basket into a COD order in one transaction:
// address row, order row with the basket total, one item per basket line at
// its snapshot price. After commit the mirror is notified and the basket is
// cleared; neither step can fail the placed order.
func (s *service) PlaceOrder(ctx context.Context, userID int64, sessionID string, address AddressInput) (*models.Order, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}

	doc, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if doc.Len() == 0 {
		return nil, ErrEmptyCart
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		addr, err := repo.CreateAddress(ctx, &models.Address{
			UserID:     userID,
			FullName:   address.FullName,
			Line1:      address.Line1,
			Line2:      address.Line2,
			City:       address.City,
			State:      address.State,
			PostalCode: address.PostalCode,
			Country:    address.Country,
		})
		if err != nil {
			return fmt.Errorf("create address: %w", err)
		}

		items := make([]models.OrderItem, 0, doc.Len())
		lineProducts := make([]*models.Product, 0, doc.Len())
		for _, item := range doc.Items() {
			product, err := s.products.GetProductByID(ctx, item.ProductID)
			if err != nil {
				// The basket may reference products deleted since being
				// added; those lines are dropped, the total is not.
				if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
					continue
				}
				return fmt.Errorf("load product %d: %w", item.ProductID, err)
			}
			productID := product.ID
			items = append(items, models.OrderItem{
				ProductID: &productID,
				Quantity:  item.Line.Quantity,
				Price:     item.Line.Price,
			})
			lineProducts = append(lineProducts, product)
		}

		created, err := repo.CreateOrder(ctx, &models.Order{
			UserID:        &userID,
			AddressID:     &addr.ID,
			PaymentMethod: enums.PaymentMethodCOD,
			Paid:          false,
			Total:         doc.Total(),
			Items:         items,
		})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		// Attach the loaded rows so the mirror projection can flatten the
		// username and item titles without re-reading the record.
		created.User = user
		created.Address = addr
		for i := range created.Items {
			created.Items[i].Product = lineProducts[i]
		}
		order = created
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "place order")
	}

	s.notifier.OrderSaved(ctx, order)
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "order_id", order.ID),
			fmt.Sprintf("clearing cart after order placement failed: %v", err))
	}
	return order, nil
}

// EditOrder updates the shipping address and item quantities of an unpaid
// order, recomputing the total from the surviving items. The mirror is
// re-notified after commit.
func (s *service) EditOrder(ctx context.Context, userID, orderID int64, input EditOrderInput) (*models.Order, error) {
	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.Paid {
		return nil, ErrOrderAlreadyPaid
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		addr := order.Address
		if addr == nil {
			addr = &models.Address{UserID: userID}
		}
		applyAddressUpdate(addr, input.Address)
		var saveErr error
		if addr.ID == 0 {
			addr, saveErr = repo.CreateAddress(ctx, addr)
		} else {
			addr, saveErr = repo.SaveAddress(ctx, addr)
		}
		if saveErr != nil {
			return fmt.Errorf("save address: %w", saveErr)
		}
		order.Address = addr
		order.AddressID = &addr.ID

		total := decimal.Zero
		surviving := make([]models.OrderItem, 0, len(order.Items))
		for _, item := range order.Items {
			qty := item.Quantity
			if requested, ok := input.Quantities[item.ID]; ok {
				if requested < 0 {
					requested = 0
				}
				qty = requested
			}
			if qty == 0 {
				if err := repo.DeleteItem(ctx, item.ID); err != nil {
					return fmt.Errorf("delete item %d: %w", item.ID, err)
				}
				continue
			}
			if qty != item.Quantity {
				item.Quantity = qty
				if err := repo.SaveItem(ctx, &item); err != nil {
					return fmt.Errorf("save item %d: %w", item.ID, err)
				}
			}
			total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(qty))))
			surviving = append(surviving, item)
		}

		order.Items = surviving
		order.Total = total
		if _, err := repo.SaveOrder(ctx, order); err != nil {
			return fmt.Errorf("save order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "edit order")
	}

	s.notifier.OrderSaved(ctx, order)
	return order, nil
}

func applyAddressUpdate(addr *models.Address, update AddressUpdate) {
	if update.FullName != nil {
		addr.FullName = *update.FullName
	}
	if update.Line1 != nil {
		addr.Line1 = *update.Line1
	}
	if update.Line2 != nil {
		addr.Line2 = *update.Line2
	}
	if update.City != nil {
		addr.City = *update.City
	}
	if update.State != nil {
		addr.State = *update.State
	}
	if update.PostalCode != nil {
		addr.PostalCode = *update.PostalCode
	}
	if update.Country != nil {
		addr.Country = *update.Country
	}
}
