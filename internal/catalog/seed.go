package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shophub-io/shophub-backend/pkg/db/models"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// SeedItem is one demo-catalog product.
type SeedItem struct {
	Title       string
	Slug        string
	Description string
	Price       decimal.Decimal
}

// SeedCategory groups demo items under a category name.
type SeedCategory struct {
	Name  string
	Items []SeedItem
}

// DemoCatalog is the baseline storefront inventory. Seeding is keyed by slug
// so reruns update drifted rows instead of duplicating them.
func DemoCatalog() []SeedCategory {
	price := decimal.RequireFromString
	return []SeedCategory{
		{Name: "Electronics", Items: []SeedItem{
			{"Smartphone Pro", "smartphone-pro", "Powerful smartphone with stunning display", price("29999.00")},
			{"Wireless Earbuds", "wireless-earbuds", "Noise cancelling earbuds", price("4999.00")},
			{"4K Smart TV", "4k-smart-tv", "Ultra HD LED Smart TV", price("39999.00")},
		}},
		{Name: "Fashion", Items: []SeedItem{
			{"Men's Cotton T-Shirt", "mens-cotton-tshirt", "Comfortable and stylish", price("799.00")},
			{"Classic Jeans", "classic-jeans", "Slim fit denim", price("1999.00")},
			{"Women's Summer Dress", "womens-summer-dress", "Light and breezy", price("1499.00")},
		}},
		{Name: "Home", Items: []SeedItem{
			{"Non-stick Cookware Set", "nonstick-cookware", "Durable kitchen set", price("3499.00")},
			{"Memory Foam Pillow", "memory-foam-pillow", "Orthopedic comfort", price("999.00")},
			{"Air Purifier", "air-purifier", "HEPA filter for clean air", price("6999.00")},
		}},
		{Name: "Books", Items: []SeedItem{
			{"Bestseller Novel", "bestseller-novel", "Award-winning fiction", price("499.00")},
			{"Python Crash Course", "python-crash-course", "Practical Python guide", price("899.00")},
			{"The Pragmatic Programmer", "pragmatic-programmer", "Classic software book", price("1599.00")},
		}},
		{Name: "Sports", Items: []SeedItem{
			{"Football Size 5", "football-size-5", "Match quality ball", price("999.00")},
			{"Yoga Mat", "yoga-mat", "Non-slip exercise mat", price("799.00")},
			{"Dumbbell Set 10kg", "dumbbell-set-10kg", "Rubber coated", price("2499.00")},
		}},
		{Name: "Gaming", Items: []SeedItem{
			{"Gaming Mouse RGB", "gaming-mouse-rgb", "High DPI with RGB", price("1499.00")},
			{"Mechanical Keyboard", "mechanical-keyboard", "Blue switches, RGB", price("3499.00")},
			{"Gaming Headset 7.1", "gaming-headset-71", "Surround sound", price("2999.00")},
		}},
	}
}

// Seeder performs the explicit idempotent demo-catalog seed. It is invoked
// by deployment tooling (cmd/seed), never implicitly at application boot.
type Seeder struct {
	products   *ProductRepository
	categories *CategoryRepository
	tx         txRunner
	notifier   changeNotifier
}

// NewSeeder builds a seeder around the catalog repositories.
func NewSeeder(products *ProductRepository, categories *CategoryRepository, tx txRunner, notifier changeNotifier) (*Seeder, error) {
	if products == nil || categories == nil {
		return nil, fmt.Errorf("catalog repositories required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("change notifier required")
	}
	return &Seeder{products: products, categories: categories, tx: tx, notifier: notifier}, nil
}

// Run ensures every demo category and product exists and is up to date, in
// one transaction. After commit it notifies observers for each ensured
// product so the mirror catches up. Returns the number of products ensured.
func (s *Seeder) Run(ctx context.Context, seed []SeedCategory) (int, error) {
	var ensured []*models.Product

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		categories := s.categories.WithTx(tx)

		for _, group := range seed {
			category, err := ensureCategory(ctx, categories, group.Name)
			if err != nil {
				return err
			}
			for _, item := range group.Items {
				product, err := ensureProduct(ctx, products, category, item)
				if err != nil {
					return err
				}
				ensured = append(ensured, product)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seeding demo catalog: %w", err)
	}

	for _, product := range ensured {
		s.notifier.ProductSaved(ctx, product)
	}
	return len(ensured), nil
}

func ensureCategory(ctx context.Context, repo *CategoryRepository, name string) (*models.Category, error) {
	slug := strings.ToLower(name)
	category, err := repo.FindBySlug(ctx, slug)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return repo.Create(ctx, &models.Category{Name: name, Slug: slug})
}

func ensureProduct(ctx context.Context, repo *ProductRepository, category *models.Category, item SeedItem) (*models.Product, error) {
	product, err := repo.FindBySlug(ctx, item.Slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.Create(ctx, &models.Product{
			Title:       item.Title,
			Slug:        item.Slug,
			Description: item.Description,
			Price:       item.Price,
			CategoryID:  &category.ID,
			Available:   true,
		})
	}
	if err != nil {
		return nil, err
	}

	dirty := false
	if product.Title != item.Title {
		product.Title = item.Title
		dirty = true
	}
	if product.Description != item.Description {
		product.Description = item.Description
		dirty = true
	}
	if !product.Price.Equal(item.Price) {
		product.Price = item.Price
		dirty = true
	}
	if product.CategoryID == nil || *product.CategoryID != category.ID {
		product.CategoryID = &category.ID
		dirty = true
	}
	if !product.Available {
		product.Available = true
		dirty = true
	}
	if !dirty {
		return product, nil
	}
	return repo.Save(ctx, product)
}
