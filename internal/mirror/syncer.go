package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shophub-io/shophub-backend/pkg/db/models"
	"github.com/shophub-io/shophub-backend/pkg/logger"
	"github.com/shophub-io/shophub-backend/pkg/metrics"
	"github.com/shophub-io/shophub-backend/pkg/redis"
)

const (
	entityProduct = "product"
	entityOrder   = "order"

	productIndexKey = "products"
	slugIndexPart   = "product_slug"
)

type kv interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SAdd(ctx context.Context, key string, members ...any) error
	SRem(ctx context.Context, key string, members ...any) error
	SMembers(ctx context.Context, key string) ([]string, error)
	MirrorKey(parts ...string) string
}

// ListQuery narrows a mirror product listing.
type ListQuery struct {
	// Search is matched case-insensitively against title and description.
	Search string
	// Category filters on the exact flattened category name.
	Category string
	// Limit caps the result count; 0 means no cap.
	Limit int
}

// Syncer is the write-through side of the read mirror plus its read API.
// Every write is best-effort: failures are logged and counted, never
// returned, so the system of record remains the only commit authority.
type Syncer struct {
	store   kv
	logg    *logger.Logger
	metrics *metrics.MirrorMetrics
}

// NewSyncer builds a mirror syncer. Metrics may be nil in tests.
func NewSyncer(store kv, logg *logger.Logger, m *metrics.MirrorMetrics) (*Syncer, error) {
	if store == nil {
		return nil, fmt.Errorf("mirror store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Syncer{store: store, logg: logg, metrics: m}, nil
}

// ProductSaved implements Observer.
func (s *Syncer) ProductSaved(ctx context.Context, product *models.Product) {
	s.UpsertProduct(ctx, product)
}

// ProductRemoved implements Observer.
func (s *Syncer) ProductRemoved(ctx context.Context, productID int64) {
	s.RemoveProduct(ctx, productID)
}

// OrderSaved implements Observer.
func (s *Syncer) OrderSaved(ctx context.Context, order *models.Order) {
	s.SaveOrder(ctx, order)
}

// UpsertProduct replaces the mirror document for a product and refreshes the
// id and slug indexes.
func (s *Syncer) UpsertProduct(ctx context.Context, product *models.Product) {
	if product == nil {
		return
	}
	doc := NewProductDoc(product)
	raw, err := json.Marshal(doc)
	if err != nil {
		s.swallow(ctx, entityProduct, product.ID, fmt.Errorf("encode product doc: %w", err))
		return
	}

	id := strconv.FormatInt(product.ID, 10)
	if err := s.store.Set(ctx, s.store.MirrorKey(entityProduct, id), raw, 0); err != nil {
		s.swallow(ctx, entityProduct, product.ID, err)
		return
	}
	if err := s.store.SAdd(ctx, s.store.MirrorKey(productIndexKey), id); err != nil {
		s.swallow(ctx, entityProduct, product.ID, err)
		return
	}
	if err := s.store.Set(ctx, s.store.MirrorKey(slugIndexPart, product.Slug), id, 0); err != nil {
		s.swallow(ctx, entityProduct, product.ID, err)
		return
	}
	s.metrics.IncSyncSuccess(entityProduct)
}

// RemoveProduct deletes the mirror document and its index entries.
func (s *Syncer) RemoveProduct(ctx context.Context, productID int64) {
	id := strconv.FormatInt(productID, 10)

	// Fetch first so the slug index entry can be cleaned up too.
	if doc := s.getProductByID(ctx, productID); doc != nil {
		if err := s.store.Del(ctx, s.store.MirrorKey(slugIndexPart, doc.Slug)); err != nil {
			s.swallow(ctx, entityProduct, productID, err)
			return
		}
	}
	if err := s.store.Del(ctx, s.store.MirrorKey(entityProduct, id)); err != nil {
		s.swallow(ctx, entityProduct, productID, err)
		return
	}
	if err := s.store.SRem(ctx, s.store.MirrorKey(productIndexKey), id); err != nil {
		s.swallow(ctx, entityProduct, productID, err)
		return
	}
	s.metrics.IncSyncSuccess(entityProduct)
}

// SaveOrder replaces the mirror document for an order.
func (s *Syncer) SaveOrder(ctx context.Context, order *models.Order) {
	if order == nil {
		return
	}
	doc := NewOrderDoc(order)
	raw, err := json.Marshal(doc)
	if err != nil {
		s.swallow(ctx, entityOrder, order.ID, fmt.Errorf("encode order doc: %w", err))
		return
	}
	id := strconv.FormatInt(order.ID, 10)
	if err := s.store.Set(ctx, s.store.MirrorKey(entityOrder, id), raw, 0); err != nil {
		s.swallow(ctx, entityOrder, order.ID, err)
		return
	}
	s.metrics.IncSyncSuccess(entityOrder)
}

// GetProducts lists mirror products: available only, optional exact category,
// optional case-insensitive substring over title and description, newest
// first. Any storage failure degrades to an empty slice.
func (s *Syncer) GetProducts(ctx context.Context, query ListQuery) []ProductDoc {
	ids, err := s.store.SMembers(ctx, s.store.MirrorKey(productIndexKey))
	if err != nil {
		s.readFallback(ctx, entityProduct, err)
		return []ProductDoc{}
	}

	needle := strings.ToLower(strings.TrimSpace(query.Search))
	docs := make([]ProductDoc, 0, len(ids))
	for _, rawID := range ids {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			continue
		}
		doc := s.getProductByID(ctx, id)
		if doc == nil {
			continue
		}
		if !doc.Available {
			continue
		}
		if query.Category != "" && doc.Category != query.Category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(doc.Title), needle) &&
			!strings.Contains(strings.ToLower(doc.Description), needle) {
			continue
		}
		docs = append(docs, *doc)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	if query.Limit > 0 && len(docs) > query.Limit {
		docs = docs[:query.Limit]
	}
	return docs
}

// GetProductBySlug returns the mirror document for a slug, nil on miss or
// any failure.
func (s *Syncer) GetProductBySlug(ctx context.Context, slug string) *ProductDoc {
	rawID, err := s.store.Get(ctx, s.store.MirrorKey(slugIndexPart, slug))
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		s.readFallback(ctx, entityProduct, err)
		return nil
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil
	}
	return s.getProductByID(ctx, id)
}

// GetOrder returns the mirror document for an order id, nil on miss or failure.
func (s *Syncer) GetOrder(ctx context.Context, orderID int64) *OrderDoc {
	raw, err := s.store.Get(ctx, s.store.MirrorKey(entityOrder, strconv.FormatInt(orderID, 10)))
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		s.readFallback(ctx, entityOrder, err)
		return nil
	}
	var doc OrderDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		s.readFallback(ctx, entityOrder, err)
		return nil
	}
	return &doc
}

func (s *Syncer) getProductByID(ctx context.Context, productID int64) *ProductDoc {
	raw, err := s.store.Get(ctx, s.store.MirrorKey(entityProduct, strconv.FormatInt(productID, 10)))
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		s.readFallback(ctx, entityProduct, err)
		return nil
	}
	var doc ProductDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		s.readFallback(ctx, entityProduct, err)
		return nil
	}
	return &doc
}

func (s *Syncer) swallow(ctx context.Context, entity string, id int64, err error) {
	s.metrics.IncSyncFailure(entity)
	ctx = s.logg.WithFields(ctx, map[string]any{"entity": entity, "id": id})
	s.logg.Warn(ctx, fmt.Sprintf("mirror sync failed: %v", err))
}

func (s *Syncer) readFallback(ctx context.Context, entity string, err error) {
	s.metrics.IncReadFailure(entity)
	ctx = s.logg.WithFields(ctx, map[string]any{"entity": entity})
	s.logg.Warn(ctx, fmt.Sprintf("mirror read failed: %v", err))
}
