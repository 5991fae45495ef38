package chatbot

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shophub-io/shophub-backend/internal/cart"
	"github.com/shophub-io/shophub-backend/internal/checkout"
	"github.com/shophub-io/shophub-backend/internal/mirror"
	"github.com/shophub-io/shophub-backend/pkg/db/models"
	"github.com/shophub-io/shophub-backend/pkg/logger"
)

const suggestionCount = 5

type mirrorReader interface {
	GetProducts(ctx context.Context, query mirror.ListQuery) []mirror.ProductDoc
}

type cartReader interface {
	Get(ctx context.Context, sessionID string) (cart.Document, error)
}

type orderPlacer interface {
	PlaceOrder(ctx context.Context, userID int64, sessionID string, address checkout.AddressInput) (*models.Order, error)
}

type slotStore interface {
	Get(ctx context.Context, sessionID, name string, dst any) error
	Put(ctx context.Context, sessionID, name string, value any) error
	Delete(ctx context.Context, sessionID, name string) error
}

// Request is one inbound chat message with its session context. UserID is 0
// for unauthenticated visitors.
type Request struct {
	SessionID string
	UserID    int64
	Message   string
}

// Service answers chat messages through an ordered intent table: the first
// intent whose predicate matches the lower-cased message handles it.
type Service interface {
	HandleMessage(ctx context.Context, req Request) (string, error)
}

type intent struct {
	name   string
	match  func(text string) bool
	handle func(ctx context.Context, text string, req Request) (string, error)
}

type service struct {
	mirror  mirrorReader
	carts   cartReader
	orders  orderPlacer
	slots   slotStore
	logg    *logger.Logger
	baseURL string
	intents []intent
}

// NewService builds the conversational agent.
func NewService(reader mirrorReader, carts cartReader, orders orderPlacer, slots slotStore, logg *logger.Logger, baseURL string) (Service, error) {
	if reader == nil {
		return nil, fmt.Errorf("mirror reader required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order placer required")
	}
	if slots == nil {
		return nil, fmt.Errorf("slot store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	s := &service{
		mirror:  reader,
		carts:   carts,
		orders:  orders,
		slots:   slots,
		logg:    logg,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	s.intents = []intent{
		{
			name:   "about",
			match:  containsAny("about", "website", "what can", "shophub"),
			handle: s.handleAbout,
		},
		{
			name:   "cheapest",
			match:  containsAny("cheap", "lowest"),
			handle: s.handleCheapest,
		},
		{
			name:   "best",
			match:  containsAny("best", "top", "premium"),
			handle: s.handleBest,
		},
		{
			name:   "place-order",
			match:  containsAny("place order", "checkout", "buy for me"),
			handle: s.handlePlaceOrder,
		},
		{
			name:   "fallback",
			match:  func(string) bool { return true },
			handle: s.handleFallback,
		},
	}
	return s, nil
}

// HandleMessage lower-cases the message and dispatches to the first matching
// intent. A message mid slot-collection that matches no earlier intent still
// reaches the place-order handler through the key:value capture below.
func (s *service) HandleMessage(ctx context.Context, req Request) (string, error) {
	text := strings.ToLower(strings.TrimSpace(req.Message))

	// Slot answers like "city: Pune" should continue the collection flow
	// even though they contain no order keyword.
	if s.isSlotAnswer(ctx, req, text) {
		return s.handlePlaceOrder(ctx, text, req)
	}

	for _, it := range s.intents {
		if it.match(text) {
			return it.handle(ctx, text, req)
		}
	}
	return s.handleFallback(ctx, text, req)
}

func containsAny(keywords ...string) func(string) bool {
	return func(text string) bool {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	}
}

func (s *service) handleAbout(ctx context.Context, text string, req Request) (string, error) {
	return "I'm ShopHub Assistant. I can show you the cheapest or best products, " +
		"help with checkout by collecting your address, and answer basic site questions. " +
		"Try typing: 'cheapest', 'best', or 'place order'.", nil
}

func (s *service) handleCheapest(ctx context.Context, text string, req Request) (string, error) {
	docs := s.mirror.GetProducts(ctx, mirror.ListQuery{})
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Price.LessThan(docs[j].Price) })
	if len(docs) > suggestionCount {
		docs = docs[:suggestionCount]
	}
	return "Here are some of the cheapest picks:\n" + s.productListReply(docs), nil
}

func (s *service) handleBest(ctx context.Context, text string, req Request) (string, error) {
	docs := s.mirror.GetProducts(ctx, mirror.ListQuery{})
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Price.GreaterThan(docs[j].Price) })
	if len(docs) > suggestionCount {
		docs = docs[:suggestionCount]
	}
	return "Top premium picks:\n" + s.productListReply(docs), nil
}

func (s *service) handleFallback(ctx context.Context, text string, req Request) (string, error) {
	return "I can help with: 'cheapest', 'best', 'place order', or 'about'.", nil
}

func (s *service) productListReply(docs []mirror.ProductDoc) string {
	if len(docs) == 0 {
		return "No products found."
	}
	lines := make([]string, 0, len(docs))
	for _, doc := range docs {
		url := ""
		if doc.Slug != "" {
			url = fmt.Sprintf("%s/api/v1/products/%s", s.baseURL, doc.Slug)
		}
		lines = append(lines, fmt.Sprintf("- %s (₹%s) → %s", doc.Title, doc.Price, url))
	}
	return strings.Join(lines, "\n")
}
