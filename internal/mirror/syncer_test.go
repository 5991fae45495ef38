package mirror

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/shophub-io/shophub-backend/pkg/db/models"
	"github.com/shophub-io/shophub-backend/pkg/logger"
	"github.com/shophub-io/shophub-backend/pkg/redis"
)

func TestUpsertProductThenGetBySlug(t *testing.T) {
	t.Parallel()

	store := newFakeKV()
	syncer := newTestSyncer(t, store)
	ctx := context.Background()

	syncer.UpsertProduct(ctx, sampleProduct(1, "Blue Mug", "blue-mug", "9.99", true, time.Now()))

	doc := syncer.GetProductBySlug(ctx, "blue-mug")
	if doc == nil {
		t.Fatal("expected mirror document for slug")
	}
	if doc.Title != "Blue Mug" {
		t.Fatalf("unexpected title %q", doc.Title)
	}
	if !doc.Price.Equal(decimal.RequireFromString("9.99")) {
		t.Fatalf("unexpected price %s", doc.Price)
	}
}

func TestUpsertProductFlattensCategory(t *testing.T) {
	t.Parallel()

	store := newFakeKV()
	syncer := newTestSyncer(t, store)
	ctx := context.Background()

	product := sampleProduct(2, "Desk Lamp", "desk-lamp", "24.50", true, time.Now())
	product.Category = &models.Category{ID: 9, Name: "Lighting", Slug: "lighting"}
	syncer.UpsertProduct(ctx, product)

	doc := syncer.GetProductBySlug(ctx, "desk-lamp")
	if doc == nil || doc.Category != "Lighting" {
		t.Fatalf("expected flattened category name, got %+v", doc)
	}
}

func TestRemoveProductClearsIndexes(t *testing.T) {
	t.Parallel()

	store := newFakeKV()
	syncer := newTestSyncer(t, store)
	ctx := context.Background()

	syncer.UpsertProduct(ctx, sampleProduct(3, "Gone", "gone", "1.00", true, time.Now()))
	syncer.RemoveProduct(ctx, 3)

	if doc := syncer.GetProductBySlug(ctx, "gone"); doc != nil {
		t.Fatalf("expected slug lookup miss after removal, got %+v", doc)
	}
	if docs := syncer.GetProducts(ctx, ListQuery{}); len(docs) != 0 {
		t.Fatalf("expected empty listing after removal, got %d", len(docs))
	}
}

func TestGetProductsFiltersAndOrders(t *testing.T) {
	t.Parallel()

	store := newFakeKV()
	syncer := newTestSyncer(t, store)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	older := sampleProduct(1, "Ceramic Mug", "ceramic-mug", "9.99", true, base)
	older.Category = &models.Category{Name: "Kitchen"}
	newer := sampleProduct(2, "Steel Mug", "steel-mug", "14.99", true, base.Add(time.Hour))
	newer.Category = &models.Category{Name: "Kitchen"}
	hidden := sampleProduct(3, "Hidden Mug", "hidden-mug", "4.99", false, base.Add(2*time.Hour))
	lamp := sampleProduct(4, "Lamp", "lamp", "30.00", true, base.Add(3*time.Hour))

	for _, p := range []*models.Product{older, newer, hidden, lamp} {
		syncer.UpsertProduct(ctx, p)
	}

	docs := syncer.GetProducts(ctx, ListQuery{Search: "mug", Category: "Kitchen"})
	if len(docs) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(docs))
	}
	if docs[0].ID != 2 || docs[1].ID != 1 {
		t.Fatalf("expected newest-first order, got %d then %d", docs[0].ID, docs[1].ID)
	}

	docs = syncer.GetProducts(ctx, ListQuery{Limit: 1})
	if len(docs) != 1 || docs[0].ID != 4 {
		t.Fatalf("expected limit to keep newest product, got %+v", docs)
	}
}

func TestGetProductsDegradesToEmptyOnFailure(t *testing.T) {
	t.Parallel()

	store := newFakeKV()
	store.failAll = true
	syncer := newTestSyncer(t, store)

	docs := syncer.GetProducts(context.Background(), ListQuery{})
	if docs == nil || len(docs) != 0 {
		t.Fatalf("expected non-nil empty slice, got %v", docs)
	}
}

func TestWriteFailuresAreSwallowed(t *testing.T) {
	t.Parallel()

	store := newFakeKV()
	store.failAll = true
	syncer := newTestSyncer(t, store)
	ctx := context.Background()

	// Must not panic or surface errors.
	syncer.UpsertProduct(ctx, sampleProduct(1, "X", "x", "1.00", true, time.Now()))
	syncer.RemoveProduct(ctx, 1)
	syncer.SaveOrder(ctx, &models.Order{ID: 1, Total: decimal.NewFromInt(5)})
}

func TestSaveOrderEmbedsAddressAndItems(t *testing.T) {
	t.Parallel()

	store := newFakeKV()
	syncer := newTestSyncer(t, store)
	ctx := context.Background()

	userID := int64(11)
	productID := int64(7)
	order := &models.Order{
		ID:     42,
		UserID: &userID,
		User:   &models.User{ID: userID, Username: "asha"},
		Address: &models.Address{
			FullName:   "Asha Rao",
			Line1:      "12 Hill Rd",
			City:       "Pune",
			PostalCode: "411001",
			Country:    "IN",
		},
		PaymentMethod: "cod",
		Total:         decimal.RequireFromString("19.98"),
		Items: []models.OrderItem{
			{
				ProductID: &productID,
				Product:   &models.Product{ID: productID, Title: "Ceramic Mug"},
				Quantity:  2,
				Price:     decimal.RequireFromString("9.99"),
			},
		},
	}
	syncer.SaveOrder(ctx, order)

	doc := syncer.GetOrder(ctx, 42)
	if doc == nil {
		t.Fatal("expected order document")
	}
	if doc.Username != "asha" {
		t.Fatalf("expected flattened username, got %+v", doc)
	}
	if doc.Address == nil || doc.Address.FullName != "Asha Rao" || doc.Address.City != "Pune" {
		t.Fatalf("expected embedded address, got %+v", doc.Address)
	}
	if len(doc.Items) != 1 || doc.Items[0].Quantity != 2 || doc.Items[0].Title != "Ceramic Mug" {
		t.Fatalf("expected embedded items with titles, got %+v", doc.Items)
	}
}

func newTestSyncer(t *testing.T, store kv) *Syncer {
	t.Helper()
	logg := logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard})
	syncer, err := NewSyncer(store, logg, nil)
	if err != nil {
		t.Fatalf("building syncer: %v", err)
	}
	return syncer
}

func sampleProduct(id int64, title, slug, price string, available bool, createdAt time.Time) *models.Product {
	return &models.Product{
		ID:        id,
		Title:     title,
		Slug:      slug,
		Price:     decimal.RequireFromString(price),
		Available: available,
		CreatedAt: createdAt,
	}
}

type fakeKV struct {
	values  map[string]string
	sets    map[string]map[string]struct{}
	failAll bool
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]string{}, sets: map[string]map[string]struct{}{}}
}

func (f *fakeKV) MirrorKey(parts ...string) string {
	return "sh:mirror:" + strings.Join(parts, ":")
}

func (f *fakeKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if f.failAll {
		return errors.New("redis down")
	}
	switch v := value.(type) {
	case string:
		f.values[key] = v
	case []byte:
		f.values[key] = string(v)
	default:
		return errors.New("unsupported value type")
	}
	return nil
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	if f.failAll {
		return "", errors.New("redis down")
	}
	value, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeKV) Del(ctx context.Context, keys ...string) error {
	if f.failAll {
		return errors.New("redis down")
	}
	for _, key := range keys {
		delete(f.values, key)
	}
	return nil
}

func (f *fakeKV) SAdd(ctx context.Context, key string, members ...any) error {
	if f.failAll {
		return errors.New("redis down")
	}
	set, ok := f.sets[key]
	if !ok {
		set = map[string]struct{}{}
		f.sets[key] = set
	}
	for _, member := range members {
		set[toString(member)] = struct{}{}
	}
	return nil
}

func (f *fakeKV) SRem(ctx context.Context, key string, members ...any) error {
	if f.failAll {
		return errors.New("redis down")
	}
	set := f.sets[key]
	for _, member := range members {
		delete(set, toString(member))
	}
	return nil
}

func (f *fakeKV) SMembers(ctx context.Context, key string) ([]string, error) {
	if f.failAll {
		return nil, errors.New("redis down")
	}
	out := make([]string, 0, len(f.sets[key]))
	for member := range f.sets[key] {
		out = append(out, member)
	}
	return out, nil
}

func toString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case []byte:
		return string(value)
	default:
		return ""
	}
}
