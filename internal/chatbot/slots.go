package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shophub-io/shophub-backend/internal/checkout"
	pkgerrors "github.com/shophub-io/shophub-backend/pkg/errors"
	"github.com/shophub-io/shophub-backend/pkg/session"
)

// slotField is one address field collected by the guided order flow.
type slotField struct {
	key      string
	prompt   string
	optional bool
}

// Collection order is fixed; the flow always prompts for the first missing
// field. Line2 is never prompted, it stays blank on chatbot orders.
var slotFields = []slotField{
	{key: "full_name", prompt: "Please provide your full name."},
	{key: "line1", prompt: "Provide address line 1."},
	{key: "city", prompt: "Which city?"},
	{key: "state", prompt: "State (optional, say skip to leave blank).", optional: true},
	{key: "postal_code", prompt: "Postal code?"},
	{key: "country", prompt: "Country?"},
}

// slotState is persisted in the session between messages. A key present with
// an empty value means the visitor explicitly skipped an optional field.
type slotState map[string]string

func (s *service) handlePlaceOrder(ctx context.Context, text string, req Request) (string, error) {
	if req.UserID <= 0 {
		return fmt.Sprintf("Please log in first: %s/api/v1/auth/login", s.baseURL), nil
	}

	doc, err := s.carts.Get(ctx, req.SessionID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if doc.Len() == 0 {
		return "Your cart is empty. Add some products first.", nil
	}

	state := s.loadSlots(ctx, req.SessionID)
	captureSlot(state, text)

	for _, field := range slotFields {
		value, answered := state[field.key]
		if field.optional {
			if answered {
				continue
			}
		} else if value != "" {
			continue
		}
		if err := s.slots.Put(ctx, req.SessionID, session.KeyBot, state); err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save order slots")
		}
		hint := strings.ReplaceAll(field.key, "_", " ")
		return fmt.Sprintf("%s You can answer like: '%s: <your answer>'", field.prompt, hint), nil
	}

	order, err := s.orders.PlaceOrder(ctx, req.UserID, req.SessionID, checkout.AddressInput{
		FullName:   state["full_name"],
		Line1:      state["line1"],
		City:       state["city"],
		State:      state["state"],
		PostalCode: state["postal_code"],
		Country:    state["country"],
	})
	if err != nil {
		return "", err
	}

	if err := s.slots.Delete(ctx, req.SessionID, session.KeyBot); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "order_id", order.ID),
			fmt.Sprintf("clearing order slots failed: %v", err))
	}
	orderURL := fmt.Sprintf("%s/api/v1/orders/%d", s.baseURL, order.ID)
	return fmt.Sprintf("Done! Order placed successfully. View your order: %s", orderURL), nil
}

// isSlotAnswer reports whether the message is a key:value answer for a field
// of an in-progress collection flow.
func (s *service) isSlotAnswer(ctx context.Context, req Request, text string) bool {
	if !strings.Contains(text, ":") {
		return false
	}
	key := normalizeSlotKey(text)
	if !isSlotKey(key) {
		return false
	}
	if req.UserID <= 0 {
		return false
	}
	var state slotState
	err := s.slots.Get(ctx, req.SessionID, session.KeyBot, &state)
	return err == nil
}

func (s *service) loadSlots(ctx context.Context, sessionID string) slotState {
	state := slotState{}
	if err := s.slots.Get(ctx, sessionID, session.KeyBot, &state); err != nil && !errors.Is(err, session.ErrNotFound) {
		s.logg.Warn(s.logg.WithSessionID(ctx, sessionID),
			fmt.Sprintf("loading order slots failed: %v", err))
	}
	if state == nil {
		state = slotState{}
	}
	return state
}

// captureSlot records a "key: value" answer. "skip" or an empty value marks
// an optional field as skipped and clears a mandatory one so it is prompted
// again.
func captureSlot(state slotState, text string) {
	if !strings.Contains(text, ":") {
		return
	}
	key := normalizeSlotKey(text)
	if !isSlotKey(key) {
		return
	}
	value := strings.TrimSpace(text[strings.Index(text, ":")+1:])
	if value != "" && value != "skip" {
		state[key] = value
		return
	}
	if fieldFor(key).optional {
		state[key] = ""
		return
	}
	delete(state, key)
}

func normalizeSlotKey(text string) string {
	key := strings.TrimSpace(strings.SplitN(text, ":", 2)[0])
	return strings.ReplaceAll(key, " ", "_")
}

func isSlotKey(key string) bool {
	for _, field := range slotFields {
		if field.key == key {
			return true
		}
	}
	return false
}

func fieldFor(key string) slotField {
	for _, field := range slotFields {
		if field.key == key {
			return field
		}
	}
	return slotField{}
}
