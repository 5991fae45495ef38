package chatbot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/shophub-io/shophub-backend/internal/cart"
	"github.com/shophub-io/shophub-backend/internal/checkout"
	"github.com/shophub-io/shophub-backend/internal/mirror"
	"github.com/shophub-io/shophub-backend/pkg/db/models"
	"github.com/shophub-io/shophub-backend/pkg/logger"
	"github.com/shophub-io/shophub-backend/pkg/session"
)

func TestAboutIntentWinsOverLaterKeywords(t *testing.T) {
	t.Parallel()

	env := newBotEnv()
	svc := newTestBot(t, env)

	// "about" appears before "cheapest" in the intent table, so a message
	// containing both routes to about.
	reply, err := svc.HandleMessage(context.Background(), Request{SessionID: "s1", Message: "Tell me ABOUT the cheapest stuff"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "ShopHub Assistant") {
		t.Fatalf("expected about reply, got %q", reply)
	}
}

func TestCheapestIntentListsFiveAscending(t *testing.T) {
	t.Parallel()

	env := newBotEnv()
	for i := 1; i <= 7; i++ {
		env.mirror.docs = append(env.mirror.docs, mirror.ProductDoc{
			ID:    int64(i),
			Title: fmt.Sprintf("P%d", i),
			Slug:  fmt.Sprintf("p%d", i),
			Price: decimal.NewFromInt(int64(i * 100)),
		})
	}
	svc := newTestBot(t, env)

	reply, err := svc.HandleMessage(context.Background(), Request{SessionID: "s1", Message: "show me cheap things"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(reply, "\n")
	// Header plus five suggestions.
	if len(lines) != 6 {
		t.Fatalf("expected 5 suggestions, got %d lines: %q", len(lines), reply)
	}
	if !strings.Contains(lines[1], "P1") || !strings.Contains(lines[5], "P5") {
		t.Fatalf("expected ascending price order, got %q", reply)
	}
	if !strings.Contains(lines[1], "/api/v1/products/p1") {
		t.Fatalf("expected absolute product link, got %q", lines[1])
	}
}

func TestBestIntentListsDescending(t *testing.T) {
	t.Parallel()

	env := newBotEnv()
	env.mirror.docs = []mirror.ProductDoc{
		{ID: 1, Title: "Cheap", Slug: "cheap", Price: decimal.NewFromInt(10)},
		{ID: 2, Title: "Pricey", Slug: "pricey", Price: decimal.NewFromInt(900)},
	}
	svc := newTestBot(t, env)

	reply, err := svc.HandleMessage(context.Background(), Request{SessionID: "s1", Message: "what are the best products"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(reply, "\n")
	if !strings.Contains(lines[1], "Pricey") {
		t.Fatalf("expected descending order, got %q", reply)
	}
}

func TestPlaceOrderRequiresLogin(t *testing.T) {
	t.Parallel()

	env := newBotEnv()
	svc := newTestBot(t, env)

	reply, err := svc.HandleMessage(context.Background(), Request{SessionID: "s1", Message: "place order"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "log in first") {
		t.Fatalf("expected login prompt, got %q", reply)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	t.Parallel()

	env := newBotEnv()
	svc := newTestBot(t, env)

	reply, err := svc.HandleMessage(context.Background(), Request{SessionID: "s1", UserID: 1, Message: "place order"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "cart is empty") {
		t.Fatalf("expected empty-cart reply, got %q", reply)
	}
}

func TestGuidedOrderFlowCollectsSlotsAndPlacesOrder(t *testing.T) {
	t.Parallel()

	env := newBotEnv()
	env.carts.doc = cart.Document{7: {Quantity: 1, Price: decimal.NewFromInt(100)}}
	svc := newTestBot(t, env)
	ctx := context.Background()
	req := func(msg string) Request { return Request{SessionID: "s1", UserID: 1, Message: msg} }

	reply, err := svc.HandleMessage(ctx, req("place order"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "full name") {
		t.Fatalf("expected full name prompt, got %q", reply)
	}

	steps := []struct{ answer, nextPrompt string }{
		{"full name: Asha Rao", "address line 1"},
		{"line1: 12 Hill Rd", "city"},
		{"city: Pune", "State (optional"},
		{"state: skip", "Postal code"},
		{"postal code: 411001", "Country"},
	}
	for _, step := range steps {
		reply, err = svc.HandleMessage(ctx, req(step.answer))
		if err != nil {
			t.Fatalf("step %q: unexpected error: %v", step.answer, err)
		}
		if !strings.Contains(reply, step.nextPrompt) {
			t.Fatalf("step %q: expected prompt containing %q, got %q", step.answer, step.nextPrompt, reply)
		}
	}

	reply, err = svc.HandleMessage(ctx, req("country: IN"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "Order placed successfully") || !strings.Contains(reply, "/api/v1/orders/42") {
		t.Fatalf("expected completion reply with order link, got %q", reply)
	}

	if env.orders.placed == nil {
		t.Fatal("expected order placement")
	}
	if env.orders.placed.FullName != "Asha Rao" || env.orders.placed.State != "" {
		t.Fatalf("expected collected address with skipped state, got %+v", env.orders.placed)
	}
	// Slots are cleared after completion.
	var state map[string]string
	if err := env.slots.Get(ctx, "s1", session.KeyBot, &state); err == nil {
		t.Fatalf("expected slots cleared, got %v", state)
	}
}

func TestGuidedOrderFlowResumesNotRestarts(t *testing.T) {
	t.Parallel()

	env := newBotEnv()
	env.carts.doc = cart.Document{7: {Quantity: 1, Price: decimal.NewFromInt(100)}}
	svc := newTestBot(t, env)
	ctx := context.Background()

	if _, err := svc.HandleMessage(ctx, Request{SessionID: "s1", UserID: 1, Message: "place order"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.HandleMessage(ctx, Request{SessionID: "s1", UserID: 1, Message: "full name: Asha Rao"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Saying "place order" again must not wipe collected fields.
	reply, err := svc.HandleMessage(ctx, Request{SessionID: "s1", UserID: 1, Message: "place order"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "address line 1") {
		t.Fatalf("expected resume at line1, got %q", reply)
	}
}

func TestFallbackReply(t *testing.T) {
	t.Parallel()

	env := newBotEnv()
	svc := newTestBot(t, env)

	reply, err := svc.HandleMessage(context.Background(), Request{SessionID: "s1", Message: "weather today?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "'cheapest', 'best', 'place order', or 'about'") {
		t.Fatalf("expected fallback help, got %q", reply)
	}
}

type botEnv struct {
	mirror *stubBotMirror
	carts  *stubBotCart
	orders *stubOrderPlacer
	slots  *fakeSlotStore
}

func newBotEnv() *botEnv {
	return &botEnv{
		mirror: &stubBotMirror{},
		carts:  &stubBotCart{doc: cart.Document{}},
		orders: &stubOrderPlacer{},
		slots:  newFakeSlotStore(),
	}
}

func newTestBot(t *testing.T, env *botEnv) Service {
	t.Helper()
	logg := logger.New(logger.Options{Level: zerolog.ErrorLevel, Output: io.Discard})
	svc, err := NewService(env.mirror, env.carts, env.orders, env.slots, logg, "http://localhost:8080")
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

type stubBotMirror struct {
	docs []mirror.ProductDoc
}

func (s *stubBotMirror) GetProducts(ctx context.Context, query mirror.ListQuery) []mirror.ProductDoc {
	out := make([]mirror.ProductDoc, len(s.docs))
	copy(out, s.docs)
	return out
}

type stubBotCart struct {
	doc cart.Document
}

func (s *stubBotCart) Get(ctx context.Context, sessionID string) (cart.Document, error) {
	return s.doc, nil
}

type stubOrderPlacer struct {
	placed *checkout.AddressInput
}

func (s *stubOrderPlacer) PlaceOrder(ctx context.Context, userID int64, sessionID string, address checkout.AddressInput) (*models.Order, error) {
	s.placed = &address
	return &models.Order{ID: 42}, nil
}

type fakeSlotStore struct {
	values map[string][]byte
}

func newFakeSlotStore() *fakeSlotStore {
	return &fakeSlotStore{values: map[string][]byte{}}
}

func (f *fakeSlotStore) key(sessionID, name string) string {
	return sessionID + "/" + name
}

func (f *fakeSlotStore) Get(ctx context.Context, sessionID, name string, dst any) error {
	raw, ok := f.values[f.key(sessionID, name)]
	if !ok {
		return session.ErrNotFound
	}
	return json.Unmarshal(raw, dst)
}

func (f *fakeSlotStore) Put(ctx context.Context, sessionID, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.values[f.key(sessionID, name)] = raw
	return nil
}

func (f *fakeSlotStore) Delete(ctx context.Context, sessionID, name string) error {
	delete(f.values, f.key(sessionID, name))
	return nil
}
