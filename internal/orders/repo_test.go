package orders

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shophub-io/shophub-backend/pkg/db/models"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
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
		`CREATE TABLE IF NOT EXISTS categories (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE
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

func seedOrderFixtures(t *testing.T, db *gorm.DB) (*models.User, *models.Product) {
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

func TestFindByIDAndUserPreloads(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user, product := seedOrderFixtures(t, db)

	address := &models.Address{
		UserID:     user.ID,
		FullName:   "A Shopper",
		Line1:      "12 MG Road",
		City:       "Pune",
		PostalCode: "411001",
		Country:    "India",
	}
	require.NoError(t, db.Create(address).Error)

	order := &models.Order{
		UserID:    &user.ID,
		AddressID: &address.ID,
		Total:     decimal.RequireFromString("5998.00"),
		Items: []models.OrderItem{
			{ProductID: &product.ID, Quantity: 2, Price: decimal.RequireFromString("2999.00")},
		},
	}
	require.NoError(t, db.Create(order).Error)

	found, err := repo.FindByIDAndUser(ctx, order.ID, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Address)
	assert.Equal(t, "Pune", found.Address.City)
	require.Len(t, found.Items, 1)
	require.NotNil(t, found.Items[0].Product)
	assert.Equal(t, "Wireless Headphones", found.Items[0].Product.Title)
	assert.True(t, found.Total.Equal(decimal.RequireFromString("5998.00")))
}

func TestFindByIDAndUserRejectsOtherOwner(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user, product := seedOrderFixtures(t, db)
	order := &models.Order{
		UserID: &user.ID,
		Total:  decimal.RequireFromString("2999.00"),
		Items: []models.OrderItem{
			{ProductID: &product.ID, Quantity: 1, Price: decimal.RequireFromString("2999.00")},
		},
	}
	require.NoError(t, db.Create(order).Error)

	_, err := repo.FindByIDAndUser(ctx, order.ID, user.ID+1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestListByUserNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user, _ := seedOrderFixtures(t, db)

	older := &models.Order{UserID: &user.ID, CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, db.Create(older).Error)
	newer := &models.Order{UserID: &user.ID, CreatedAt: time.Now()}
	require.NoError(t, db.Create(newer).Error)

	rows, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)
}

func TestListAllPreloadsUserForResync(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	user, product := seedOrderFixtures(t, db)
	order := &models.Order{
		UserID: &user.ID,
		Items: []models.OrderItem{
			{ProductID: &product.ID, Quantity: 1, Price: decimal.RequireFromString("2999.00")},
		},
	}
	require.NoError(t, db.Create(order).Error)

	rows, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].User)
	assert.Equal(t, "shopper", rows[0].User.Username)
	require.Len(t, rows[0].Items, 1)
	require.NotNil(t, rows[0].Items[0].Product)
}
