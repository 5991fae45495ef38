package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shophub-io/shophub-backend/internal/mirror"
	"github.com/shophub-io/shophub-backend/pkg/db/models"
	pkgerrors "github.com/shophub-io/shophub-backend/pkg/errors"
)

func TestGetProductDetailPrefersMirrorAndAppliesDefaults(t *testing.T) {
	t.Parallel()

	reader := &stubMirrorReader{
		bySlug: map[string]*mirror.ProductDoc{
			"blue-mug": {ID: 1, Title: "Blue Mug", Slug: "blue-mug", Price: decimal.NewFromInt(9), Available: true},
		},
	}
	svc := newTestCatalogService(t, &stubProductRepo{}, reader, &recordingNotifier{})

	display, err := svc.GetProductDetail(context.Background(), "blue-mug")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if display.Brand != "Blue" || display.Maker != "Blue Labs" {
		t.Fatalf("expected display defaults from title, got %+v", display)
	}
	if display.Category != "General" || display.WarrantyMonths != 12 {
		t.Fatalf("expected placeholder category and warranty, got %+v", display)
	}
}

func TestGetProductDetailFallsBackToRecord(t *testing.T) {
	t.Parallel()

	repo := &stubProductRepo{
		bySlug: map[string]*models.Product{
			"lamp": {ID: 2, Title: "Lamp", Slug: "lamp", Price: decimal.NewFromInt(30), Available: true},
		},
	}
	svc := newTestCatalogService(t, repo, &stubMirrorReader{}, &recordingNotifier{})

	display, err := svc.GetProductDetail(context.Background(), "lamp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if display.Title != "Lamp" {
		t.Fatalf("expected record fallback, got %+v", display)
	}
	// The record path does not decorate with placeholders.
	if display.Brand != "" {
		t.Fatalf("expected undecorated fallback, got brand %q", display.Brand)
	}
}

func TestGetProductDetailNotFound(t *testing.T) {
	t.Parallel()

	svc := newTestCatalogService(t, &stubProductRepo{}, &stubMirrorReader{}, &recordingNotifier{})

	_, err := svc.GetProductDetail(context.Background(), "missing")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestSaveProductNotifiesObservers(t *testing.T) {
	t.Parallel()

	notifier := &recordingNotifier{}
	svc := newTestCatalogService(t, &stubProductRepo{}, &stubMirrorReader{}, notifier)

	_, err := svc.SaveProduct(context.Background(), &models.Product{Title: "New", Slug: "new", Price: decimal.NewFromInt(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.saved) != 1 || notifier.saved[0].Slug != "new" {
		t.Fatalf("expected save notification, got %+v", notifier.saved)
	}
}

func TestDeleteProductNotifiesObservers(t *testing.T) {
	t.Parallel()

	notifier := &recordingNotifier{}
	svc := newTestCatalogService(t, &stubProductRepo{}, &stubMirrorReader{}, notifier)

	if err := svc.DeleteProduct(context.Background(), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.removed) != 1 || notifier.removed[0] != 5 {
		t.Fatalf("expected removal notification, got %+v", notifier.removed)
	}
}

func newTestCatalogService(t *testing.T, products productRepo, reader mirrorReader, notifier changeNotifier) Service {
	t.Helper()
	svc, err := NewService(products, &stubCategoryRepo{}, reader, notifier)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

type stubProductRepo struct {
	bySlug map[string]*models.Product
	byID   map[int64]*models.Product
}

func (s *stubProductRepo) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	if p, ok := s.byID[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	if p, ok := s.bySlug[slug]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProductRepo) ListAll(ctx context.Context) ([]models.Product, error) {
	return nil, nil
}

func (s *stubProductRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.ID = 1
	return product, nil
}

func (s *stubProductRepo) Save(ctx context.Context, product *models.Product) (*models.Product, error) {
	return product, nil
}

func (s *stubProductRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

type stubCategoryRepo struct{}

func (stubCategoryRepo) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return nil, gorm.ErrRecordNotFound
}

func (stubCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	return nil, nil
}

func (stubCategoryRepo) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	return category, nil
}

type stubMirrorReader struct {
	bySlug map[string]*mirror.ProductDoc
	list   []mirror.ProductDoc
}

func (s *stubMirrorReader) GetProducts(ctx context.Context, query mirror.ListQuery) []mirror.ProductDoc {
	return s.list
}

func (s *stubMirrorReader) GetProductBySlug(ctx context.Context, slug string) *mirror.ProductDoc {
	return s.bySlug[slug]
}

type recordingNotifier struct {
	saved   []*models.Product
	removed []int64
}

func (r *recordingNotifier) ProductSaved(ctx context.Context, product *models.Product) {
	r.saved = append(r.saved, product)
}

func (r *recordingNotifier) ProductRemoved(ctx context.Context, productID int64) {
	r.removed = append(r.removed, productID)
}
