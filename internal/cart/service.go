package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shophub-io/shophub-backend/pkg/session"
)

type store interface {
	Get(ctx context.Context, sessionID, name string, dst any) error
	Put(ctx context.Context, sessionID, name string, value any) error
	Delete(ctx context.Context, sessionID, name string) error
}

// Service persists the session basket document. Every mutation loads the
// current document, applies the change, and writes the whole document back;
// concurrent requests from one session are last-write-wins.
type Service interface {
	Get(ctx context.Context, sessionID string) (Document, error)
	Add(ctx context.Context, sessionID string, productID int64, price decimal.Decimal, qty int) (Document, error)
	Remove(ctx context.Context, sessionID string, productID int64) (Document, error)
	SetQuantity(ctx context.Context, sessionID string, productID int64, qty int) (Document, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	sessions store
}

// NewService builds a cart service backed by the session store.
func NewService(sessions store) (Service, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	return &service{sessions: sessions}, nil
}

// Get loads the basket, returning an empty document when none exists yet.
func (s *service) Get(ctx context.Context, sessionID string) (Document, error) {
	doc := Document{}
	err := s.sessions.Get(ctx, sessionID, session.KeyCart, &doc)
	if errors.Is(err, session.ErrNotFound) {
		return Document{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading cart: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	return doc, nil
}

// Add merges qty into an existing line or creates one with the given price
// snapshot. Adding an existing product keeps the original snapshot price.
func (s *service) Add(ctx context.Context, sessionID string, productID int64, price decimal.Decimal, qty int) (Document, error) {
	if qty <= 0 {
		qty = 1
	}
	doc, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if line, ok := doc[productID]; ok {
		line.Quantity += qty
		doc[productID] = line
	} else {
		doc[productID] = Line{Quantity: qty, Price: price}
	}
	if err := s.save(ctx, sessionID, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Remove drops a line. Absent product ids are a no-op.
func (s *service) Remove(ctx context.Context, sessionID string, productID int64) (Document, error) {
	doc, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if _, ok := doc[productID]; !ok {
		return doc, nil
	}
	delete(doc, productID)
	if err := s.save(ctx, sessionID, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SetQuantity replaces a line quantity. qty <= 0 deletes the line; absent
// product ids are a no-op so stale clients cannot resurrect removed lines.
func (s *service) SetQuantity(ctx context.Context, sessionID string, productID int64, qty int) (Document, error) {
	doc, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	line, ok := doc[productID]
	if !ok {
		return doc, nil
	}
	if qty <= 0 {
		delete(doc, productID)
	} else {
		line.Quantity = qty
		doc[productID] = line
	}
	if err := s.save(ctx, sessionID, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Clear drops the whole basket document.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID, session.KeyCart); err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}

func (s *service) save(ctx context.Context, sessionID string, doc Document) error {
	if err := s.sessions.Put(ctx, sessionID, session.KeyCart, doc); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}
