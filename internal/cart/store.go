package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"optique-store/internal/model"

	"github.com/rs/zerolog"
)

// Subscriber is notified with a snapshot of a cart after every mutation.
// Notification runs synchronously inside the mutating call.
type Subscriber func(cart model.Cart)

// Store is the single owner of in-progress shopper selections. Carts are
// held in memory keyed by session id, written through to the Repository on
// every mutation, and lazily restored from it on first touch of a session.
// No other component mutates cart items directly.
type Store struct {
	mu          sync.Mutex
	carts       map[string]model.Cart
	repo        Repository
	subscribers []Subscriber
	logger      zerolog.Logger
}

// NewStore creates a cart store backed by the given repository.
func NewStore(repo Repository, logger zerolog.Logger) *Store {
	return &Store{
		carts:  make(map[string]model.Cart),
		repo:   repo,
		logger: logger.With().Str("component", "cart-store").Logger(),
	}
}

// Subscribe registers a subscriber for cart change notifications.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Get returns a snapshot of the session's cart, restoring it from the
// repository if this instance has not seen the session yet.
func (s *Store) Get(ctx context.Context, sessionID string) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.loadLocked(ctx, sessionID)
	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// Add puts an item into the cart. If an item with the same product id is
// already present its quantity is incremented by the requested amount;
// otherwise the item is appended. A zero quantity on the request defaults
// to one. No stock check happens here; displayed stock is advisory and the
// authoritative check is server-side at order-item creation.
func (s *Store) Add(ctx context.Context, sessionID string, item model.CartItem) error {
	if item.ProductID == "" {
		return fmt.Errorf("product id is required")
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	if item.Quantity < 0 {
		return model.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.loadLocked(ctx, sessionID)
	if err != nil {
		return err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}

	s.logger.Debug().
		Str("session_id", sessionID).
		Str("product_id", item.ProductID).
		Int("quantity", item.Quantity).
		Bool("merged", merged).
		Msg("item added to cart")

	return s.commitLocked(ctx, cart)
}

// UpdateQuantity sets the quantity of an item. A quantity of zero or less
// removes the item; it is never retained at zero. Updating a product that
// is not in the cart is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.loadLocked(ctx, sessionID)
	if err != nil {
		return err
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID != productID {
			continue
		}
		if quantity <= 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		} else {
			cart.Items[i].Quantity = quantity
		}
		return s.commitLocked(ctx, cart)
	}

	return nil
}

// Remove deletes an item from the cart unconditionally.
func (s *Store) Remove(ctx context.Context, sessionID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.loadLocked(ctx, sessionID)
	if err != nil {
		return err
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return s.commitLocked(ctx, cart)
		}
	}

	return nil
}

// Clear empties the cart. Called exactly once after a successful order
// submission, and available to the shopper directly.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.loadLocked(ctx, sessionID)
	if err != nil {
		return err
	}

	cart.Items = nil
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return err
	}
	cart.UpdatedAt = time.Now()
	s.carts[sessionID] = cart
	s.notifyLocked(cart)

	s.logger.Debug().Str("session_id", sessionID).Msg("cart cleared")
	return nil
}

// loadLocked returns a mutable snapshot of the session's cart, pulling it
// from the repository on first access. The snapshot keeps in-place edits
// off the installed cart until commitLocked persists them. Callers must
// hold s.mu.
func (s *Store) loadLocked(ctx context.Context, sessionID string) (model.Cart, error) {
	if cart, ok := s.carts[sessionID]; ok {
		return snapshot(cart), nil
	}

	stored, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return model.Cart{}, err
	}

	cart := model.Cart{SessionID: sessionID}
	if stored != nil {
		cart = *stored
	}
	s.carts[sessionID] = cart
	return snapshot(cart), nil
}

// commitLocked persists the cart, installs it and notifies subscribers.
// The in-memory state is only advanced once the write succeeded, so a
// failed persist leaves the previous selections intact for a retry.
func (s *Store) commitLocked(ctx context.Context, cart model.Cart) error {
	cart.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, cart); err != nil {
		return err
	}
	s.carts[cart.SessionID] = cart
	s.notifyLocked(cart)
	return nil
}

func (s *Store) notifyLocked(cart model.Cart) {
	snap := snapshot(cart)
	for _, fn := range s.subscribers {
		fn(snap)
	}
}

// snapshot copies a cart so callers cannot alias the store's item slice.
func snapshot(cart model.Cart) model.Cart {
	items := make([]model.CartItem, len(cart.Items))
	copy(items, cart.Items)
	cart.Items = items
	return cart
}
