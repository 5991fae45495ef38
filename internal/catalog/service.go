package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shophub-io/shophub-backend/internal/mirror"
	"github.com/shophub-io/shophub-backend/pkg/db/models"
	pkgerrors "github.com/shophub-io/shophub-backend/pkg/errors"
)

type productRepo interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	FindBySlug(ctx context.Context, slug string) (*models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Save(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
}

type categoryRepo interface {
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) (*models.Category, error)
}

type mirrorReader interface {
	GetProducts(ctx context.Context, query mirror.ListQuery) []mirror.ProductDoc
	GetProductBySlug(ctx context.Context, slug string) *mirror.ProductDoc
}

type changeNotifier interface {
	ProductSaved(ctx context.Context, product *models.Product)
	ProductRemoved(ctx context.Context, productID int64)
}

// Service exposes catalog reads and writes. Listing and detail reads are
// served from the mirror; the system of record backs detail misses and all
// writes.
type Service interface {
	ListProducts(ctx context.Context, query mirror.ListQuery) []mirror.ProductDoc
	GetProductDetail(ctx context.Context, slug string) (*ProductDisplay, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	SaveProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type service struct {
	products   productRepo
	categories categoryRepo
	mirror     mirrorReader
	notifier   changeNotifier
}

// NewService builds a catalog service backed by the provided stack.
func NewService(products productRepo, categories categoryRepo, reader mirrorReader, notifier changeNotifier) (Service, error) {
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository required")
	}
	if reader == nil {
		return nil, fmt.Errorf("mirror reader required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("change notifier required")
	}
	return &service{
		products:   products,
		categories: categories,
		mirror:     reader,
		notifier:   notifier,
	}, nil
}

// ListProducts serves the storefront listing from the mirror only. A mirror
// outage yields an empty catalog rather than an error page.
func (s *service) ListProducts(ctx context.Context, query mirror.ListQuery) []mirror.ProductDoc {
	return s.mirror.GetProducts(ctx, query)
}

// GetProductDetail prefers the mirror document, with display defaults
// applied. On a mirror miss it falls back to the system of record without
// defaults, so a stale mirror never hides a real product.
func (s *service) GetProductDetail(ctx context.Context, slug string) (*ProductDisplay, error) {
	if doc := s.mirror.GetProductBySlug(ctx, slug); doc != nil {
		display := ApplyDisplayDefaults(displayFromDoc(*doc))
		return &display, nil
	}

	product, err := s.products.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	display := displayFromModel(product)
	return &display, nil
}

// GetProductByID loads a product from the system of record. The cart add
// path uses this so the snapshot price always comes from the record, not the
// mirror.
func (s *service) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// ListCategories returns all categories from the system of record.
func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.categories.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}

// SaveProduct creates or updates a product in the system of record, then
// notifies mirror observers after the write lands.
func (s *service) SaveProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	}
	if product.Title == "" || product.Slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product title and slug are required")
	}

	var saved *models.Product
	var err error
	if product.ID == 0 {
		saved, err = s.products.Create(ctx, product)
	} else {
		saved, err = s.products.Save(ctx, product)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product")
	}

	s.notifier.ProductSaved(ctx, saved)
	return saved, nil
}

// DeleteProduct removes a product and notifies mirror observers.
func (s *service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	s.notifier.ProductRemoved(ctx, id)
	return nil
}
