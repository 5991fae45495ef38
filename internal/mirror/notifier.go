package mirror

import (
	"context"
	"sync"

	"github.com/shophub-io/shophub-backend/pkg/db/models"
)

// Observer receives change notifications after the system of record has
// committed. Implementations must not return errors and must not assume the
// write that triggered them can be rolled back.
type Observer interface {
	ProductSaved(ctx context.Context, product *models.Product)
	ProductRemoved(ctx context.Context, productID int64)
	OrderSaved(ctx context.Context, order *models.Order)
}

// Notifier is an explicit observer registry. Services call the Notify
// methods after their transaction commits; the notifier fans out to every
// registered observer synchronously, in registration order.
type Notifier struct {
	mu        sync.RWMutex
	observers []Observer
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

// Register adds an observer. Nil observers are ignored.
func (n *Notifier) Register(obs Observer) {
	if obs == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.observers = append(n.observers, obs)
}

// ProductSaved fans out a product create/update notification.
func (n *Notifier) ProductSaved(ctx context.Context, product *models.Product) {
	if n == nil || product == nil {
		return
	}
	for _, obs := range n.snapshot() {
		obs.ProductSaved(ctx, product)
	}
}

// ProductRemoved fans out a product delete notification.
func (n *Notifier) ProductRemoved(ctx context.Context, productID int64) {
	if n == nil {
		return
	}
	for _, obs := range n.snapshot() {
		obs.ProductRemoved(ctx, productID)
	}
}

// OrderSaved fans out an order create/update notification.
func (n *Notifier) OrderSaved(ctx context.Context, order *models.Order) {
	if n == nil || order == nil {
		return
	}
	for _, obs := range n.snapshot() {
		obs.OrderSaved(ctx, order)
	}
}

func (n *Notifier) snapshot() []Observer {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]Observer, len(n.observers))
	copy(out, n.observers)
	return out
}
