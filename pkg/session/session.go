package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/shophub-io/shophub-backend/pkg/config"
	"github.com/shophub-io/shophub-backend/pkg/redis"
)

// Well-known value names stored under a session.
const (
	KeyCart = "cart"
	KeyBot  = "bot"
	KeyUser = "user"
)

// ErrNotFound is returned when a session value does not exist.
var ErrNotFound = errors.New("session: value not found")

// Store persists per-session JSON values in Redis. Every write refreshes the
// value TTL so active sessions stay alive.
type Store struct {
	client *redis.Client
	cfg    config.SessionConfig
}

func NewStore(client *redis.Client, cfg config.SessionConfig) (*Store, error) {
	if client == nil {
		return nil, errors.New("session: redis client is required")
	}
	return &Store{client: client, cfg: cfg}, nil
}

// NewID mints a fresh opaque session identifier.
func NewID() string {
	return uuid.NewString()
}

// Get unmarshals the value stored under (sessionID, name) into dst.
func (s *Store) Get(ctx context.Context, sessionID, name string, dst any) error {
	raw, err := s.client.Get(ctx, s.client.SessionKey(sessionID, name))
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("session get %q: %w", name, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("session decode %q: %w", name, err)
	}
	return nil
}

// Put marshals value and stores it under (sessionID, name) with the session TTL.
func (s *Store) Put(ctx context.Context, sessionID, name string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session encode %q: %w", name, err)
	}
	if err := s.client.Set(ctx, s.client.SessionKey(sessionID, name), raw, s.ttl()); err != nil {
		return fmt.Errorf("session put %q: %w", name, err)
	}
	return nil
}

// Delete removes the value stored under (sessionID, name).
func (s *Store) Delete(ctx context.Context, sessionID, name string) error {
	if err := s.client.Del(ctx, s.client.SessionKey(sessionID, name)); err != nil {
		return fmt.Errorf("session delete %q: %w", name, err)
	}
	return nil
}

func (s *Store) ttl() time.Duration {
	if s.cfg.TTL > 0 {
		return s.cfg.TTL
	}
	return 14 * 24 * time.Hour
}

// Cookie builds the session cookie carrying sessionID.
func (s *Store) Cookie(sessionID string) *http.Cookie {
	return &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(s.ttl() / time.Second),
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// CookieName returns the configured cookie name.
func (s *Store) CookieName() string {
	return s.cfg.CookieName
}
