package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shophub-io/shophub-backend/pkg/db/models"
	"github.com/shophub-io/shophub-backend/pkg/enums"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL DEFAULT '',
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  phone TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  image_url TEXT,
  category_id INTEGER,
  available INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS addresses (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  full_name TEXT NOT NULL,
  line1 TEXT NOT NULL,
  line2 TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL,
  state TEXT NOT NULL DEFAULT '',
  postal_code TEXT NOT NULL,
  country TEXT NOT NULL
);`,
		`CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER,
  address_id INTEGER,
  paid INTEGER NOT NULL DEFAULT 0,
  payment_method TEXT NOT NULL DEFAULT 'cod',
  total NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL,
  product_id INTEGER,
  quantity INTEGER NOT NULL DEFAULT 1,
  price NUMERIC NOT NULL
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedCheckoutFixtures(t *testing.T, db *gorm.DB) (*models.User, *models.Product) {
	t.Helper()

	user := &models.User{Username: "shopper", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)

	product := &models.Product{
		Title:     "Wireless Headphones",
		Slug:      "wireless-headphones",
		Price:     decimal.RequireFromString("2999.00"),
		Available: true,
	}
	require.NoError(t, db.Create(product).Error)
	return user, product
}

func createTestOrder(t *testing.T, repo *Repository, user *models.User, product *models.Product, quantities ...int) *models.Order {
	t.Helper()

	items := make([]models.OrderItem, 0, len(quantities))
	for _, qty := range quantities {
		items = append(items, models.OrderItem{
			ProductID: &product.ID,
			Quantity:  qty,
			Price:     decimal.RequireFromString("2999.00"),
		})
	}
	order, err := repo.CreateOrder(context.Background(), &models.Order{
		UserID:        &user.ID,
		PaymentMethod: enums.PaymentMethodCOD,
		Total:         decimal.RequireFromString("2999.00"),
		Items:         items,
	})
	require.NoError(t, err)
	require.NotZero(t, order.ID)
	return order
}

func TestFindByIDAndUserAttachesUserForMirror(t *testing.T) {
	db := setupCheckoutTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user, product := seedCheckoutFixtures(t, db)

	address, err := repo.CreateAddress(ctx, &models.Address{
		UserID:     user.ID,
		FullName:   "A Shopper",
		Line1:      "12 MG Road",
		City:       "Pune",
		PostalCode: "411001",
		Country:    "India",
	})
	require.NoError(t, err)

	created := createTestOrder(t, repo, user, product, 2)
	created.AddressID = &address.ID
	_, err = repo.SaveOrder(ctx, created)
	require.NoError(t, err)

	found, err := repo.FindByIDAndUser(ctx, created.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.User, "edit path needs the owner for the mirror username")
	assert.Equal(t, "shopper", found.User.Username)
	require.NotNil(t, found.Address)
	assert.Equal(t, "Pune", found.Address.City)
	require.Len(t, found.Items, 1)
	require.NotNil(t, found.Items[0].Product)
	assert.Equal(t, "Wireless Headphones", found.Items[0].Product.Title)
}

func TestSaveOrderDoesNotRewriteAssociations(t *testing.T) {
	db := setupCheckoutTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user, product := seedCheckoutFixtures(t, db)
	created := createTestOrder(t, repo, user, product, 1)

	created.Total = decimal.RequireFromString("100.00")
	created.Items = nil
	_, err := repo.SaveOrder(ctx, created)
	require.NoError(t, err)

	found, err := repo.FindByIDAndUser(ctx, created.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, found.Total.Equal(decimal.RequireFromString("100.00")))
	assert.Len(t, found.Items, 1, "items must survive an order save")
}

func TestSaveItemAndDeleteItem(t *testing.T) {
	db := setupCheckoutTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user, product := seedCheckoutFixtures(t, db)
	created := createTestOrder(t, repo, user, product, 1, 3)
	require.Len(t, created.Items, 2)

	created.Items[1].Quantity = 5
	require.NoError(t, repo.SaveItem(ctx, &created.Items[1]))
	require.NoError(t, repo.DeleteItem(ctx, created.Items[0].ID))

	found, err := repo.FindByIDAndUser(ctx, created.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 5, found.Items[0].Quantity)
}

func TestSaveAddressPersistsFieldChanges(t *testing.T) {
	db := setupCheckoutTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user, _ := seedCheckoutFixtures(t, db)
	address, err := repo.CreateAddress(ctx, &models.Address{
		UserID:     user.ID,
		FullName:   "A Shopper",
		Line1:      "12 MG Road",
		City:       "Pune",
		PostalCode: "411001",
		Country:    "India",
	})
	require.NoError(t, err)

	address.City = "Mumbai"
	saved, err := repo.SaveAddress(ctx, address)
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", saved.City)

	var reloaded models.Address
	require.NoError(t, db.First(&reloaded, "id = ?", address.ID).Error)
	assert.Equal(t, "Mumbai", reloaded.City)
}
