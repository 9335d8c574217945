package service

import (
	"context"
	"sync"

	"github.com/bigbestmart/bnbmart-backend/internal/app/model"
	"github.com/bigbestmart/bnbmart-backend/internal/app/repository"
	"github.com/bigbestmart/bnbmart-backend/pkg/logger"
)

// CartService is the single source of truth for cart contents and the only
// component permitted to mutate them.
//
// Mutations never fail from the caller's point of view: out-of-range and
// not-found conditions resolve to no-ops, and every operation returns the
// resulting snapshot so callers can observe what (if anything) changed.
// Storage problems are logged and absorbed; they never surface as errors.
type CartService interface {
	GetCart(ctx context.Context, clientID string) []model.CartLine
	AddToCart(ctx context.Context, clientID string, item model.CartLine) []model.CartLine
	RemoveFromCart(ctx context.Context, clientID string, item model.CartLine) []model.CartLine
	DeleteFromCart(ctx context.Context, clientID string, item model.CartLine) []model.CartLine
	ClearCart(ctx context.Context, clientID string) []model.CartLine
	UpdateQuantity(ctx context.Context, clientID string, productID uint, quantity, maxStock int) []model.CartLine
	IncreaseQuantity(ctx context.Context, clientID string, productID uint, maxStock int) []model.CartLine
	DecreaseQuantity(ctx context.Context, clientID string, productID uint) []model.CartLine
	GetItemQuantity(ctx context.Context, clientID string, productID uint) int
	IsItemInCart(ctx context.Context, clientID string, productID uint) bool
}

// clientCart is one client's in-memory cart plus its hydration flag.
// Writes to storage are suppressed until the one-time hydration has run, so
// an empty initial state can never clobber a persisted snapshot.
type clientCart struct {
	lines    []model.CartLine
	hydrated bool
}

type cartService struct {
	repo            repository.CartRepository
	notifier        CartNotifier
	defaultMaxStock int

	mu    sync.Mutex
	carts map[string]*clientCart
}

func NewCartService(repo repository.CartRepository, notifier CartNotifier, defaultMaxStock int) CartService {
	if defaultMaxStock <= 0 {
		defaultMaxStock = 999
	}
	return &cartService{
		repo:            repo,
		notifier:        notifier,
		defaultMaxStock: defaultMaxStock,
		carts:           make(map[string]*clientCart),
	}
}

// hydrate returns the client's cart, loading the persisted snapshot on
// first access. The cart counts as hydrated even when the load fails:
// the stored value was either absent, discarded as corrupt, or unreachable,
// and in every case the session continues from what we have in memory.
func (s *cartService) hydrate(ctx context.Context, clientID string) *clientCart {
	cart, ok := s.carts[clientID]
	if !ok {
		cart = &clientCart{}
		s.carts[clientID] = cart
	}
	if cart.hydrated {
		return cart
	}

	lines, err := s.repo.Load(ctx, clientID)
	if err != nil {
		logger.Warn("Cart hydration failed, starting empty", map[string]interface{}{
			"client_id": clientID,
			"error":     err.Error(),
		})
	} else {
		cart.lines = lines
	}
	cart.hydrated = true
	return cart
}

// persist writes the current snapshot through the persistence adapter.
// Nothing is written before hydration has completed.
func (s *cartService) persist(ctx context.Context, clientID string, cart *clientCart) {
	if !cart.hydrated {
		return
	}
	// Failures are logged inside the repository; the in-memory cart stays
	// authoritative for this session either way.
	_ = s.repo.Save(ctx, clientID, cart.lines)
}

func snapshot(lines []model.CartLine) []model.CartLine {
	out := make([]model.CartLine, len(lines))
	copy(out, lines)
	return out
}

func (s *cartService) GetCart(ctx context.Context, clientID string) []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.hydrate(ctx, clientID).lines)
}

func (s *cartService) AddToCart(ctx context.Context, clientID string, item model.CartLine) []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	cart := s.hydrate(ctx, clientID)

	// Regular additions merge into the first matching line. Bulk additions
	// always append a new line, even when an identical bulk line exists.
	if !item.IsBulkOrder {
		for i := range cart.lines {
			if cart.lines[i].SameLine(item) {
				cart.lines[i].Quantity += item.Quantity
				s.persist(ctx, clientID, cart)

				logger.Info("Cart line quantity merged", map[string]interface{}{
					"client_id":  clientID,
					"product_id": item.ProductID,
					"quantity":   cart.lines[i].Quantity,
				})
				s.publish(CartEvent{ClientID: clientID, Type: CartEventUpdated, Name: item.Name})
				return snapshot(cart.lines)
			}
		}
	}

	cart.lines = append(cart.lines, item)
	s.persist(ctx, clientID, cart)

	logger.Info("Cart line added", map[string]interface{}{
		"client_id":  clientID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
		"is_bulk":    item.IsBulkOrder,
	})

	name := item.Name
	if item.IsBulkOrder {
		name += " (Bulk)"
	}
	s.publish(CartEvent{ClientID: clientID, Type: CartEventAdded, Name: name})
	return snapshot(cart.lines)
}

// RemoveFromCart decrements the matching line by one unit, deleting the
// line outright when its quantity was 1. Absent lines are a no-op.
func (s *cartService) RemoveFromCart(ctx context.Context, clientID string, item model.CartLine) []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.hydrate(ctx, clientID)
	for i := range cart.lines {
		if !cart.lines[i].SameLine(item) {
			continue
		}
		if cart.lines[i].Quantity <= 1 {
			cart.lines = append(cart.lines[:i], cart.lines[i+1:]...)
		} else {
			cart.lines[i].Quantity--
		}
		s.persist(ctx, clientID, cart)

		logger.Info("Cart line decremented", map[string]interface{}{
			"client_id":  clientID,
			"product_id": item.ProductID,
		})
		return snapshot(cart.lines)
	}
	return snapshot(cart.lines)
}

// DeleteFromCart removes every line matching the item's identity regardless
// of quantity. Deleting an absent line is idempotent.
func (s *cartService) DeleteFromCart(ctx context.Context, clientID string, item model.CartLine) []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.hydrate(ctx, clientID)
	kept := cart.lines[:0:0]
	for _, line := range cart.lines {
		if !line.SameLine(item) {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(cart.lines) {
		return snapshot(cart.lines)
	}

	cart.lines = kept
	s.persist(ctx, clientID, cart)

	logger.Info("Cart line deleted", map[string]interface{}{
		"client_id":  clientID,
		"product_id": item.ProductID,
	})
	return snapshot(cart.lines)
}

func (s *cartService) ClearCart(ctx context.Context, clientID string) []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.hydrate(ctx, clientID)
	cart.lines = nil
	s.persist(ctx, clientID, cart)

	logger.Info("Cart cleared", map[string]interface{}{
		"client_id": clientID,
	})
	return nil
}

// UpdateQuantity sets the quantity of the first line matching the product
// ID. Values below 1 or above maxStock are rejected silently; a maxStock
// of zero or less falls back to the configured default.
func (s *cartService) UpdateQuantity(ctx context.Context, clientID string, productID uint, quantity, maxStock int) []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateQuantityLocked(ctx, clientID, productID, quantity, maxStock)
}

func (s *cartService) updateQuantityLocked(ctx context.Context, clientID string, productID uint, quantity, maxStock int) []model.CartLine {
	if maxStock <= 0 {
		maxStock = s.defaultMaxStock
	}

	cart := s.hydrate(ctx, clientID)
	if quantity < 1 || quantity > maxStock {
		logger.Debug("Quantity update rejected", map[string]interface{}{
			"client_id":  clientID,
			"product_id": productID,
			"quantity":   quantity,
			"max_stock":  maxStock,
		})
		return snapshot(cart.lines)
	}

	for i := range cart.lines {
		if cart.lines[i].ProductID == productID {
			cart.lines[i].Quantity = quantity
			s.persist(ctx, clientID, cart)

			logger.Info("Cart line quantity set", map[string]interface{}{
				"client_id":  clientID,
				"product_id": productID,
				"quantity":   quantity,
			})
			break
		}
	}
	return snapshot(cart.lines)
}

func (s *cartService) IncreaseQuantity(ctx context.Context, clientID string, productID uint, maxStock int) []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	if maxStock <= 0 {
		maxStock = s.defaultMaxStock
	}

	cart := s.hydrate(ctx, clientID)
	current := itemQuantity(cart.lines, productID)
	if current >= maxStock {
		return snapshot(cart.lines)
	}
	return s.updateQuantityLocked(ctx, clientID, productID, current+1, maxStock)
}

// DecreaseQuantity steps the line's quantity down by one; at quantity 1 the
// line is deleted entirely rather than left at zero.
func (s *cartService) DecreaseQuantity(ctx context.Context, clientID string, productID uint) []model.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.hydrate(ctx, clientID)
	current := itemQuantity(cart.lines, productID)
	switch {
	case current > 1:
		return s.updateQuantityLocked(ctx, clientID, productID, current-1, 0)
	case current == 1:
		for _, line := range cart.lines {
			if line.ProductID == productID {
				return s.deleteLineLocked(ctx, clientID, cart, line)
			}
		}
	}
	return snapshot(cart.lines)
}

func (s *cartService) deleteLineLocked(ctx context.Context, clientID string, cart *clientCart, item model.CartLine) []model.CartLine {
	kept := cart.lines[:0:0]
	for _, line := range cart.lines {
		if !line.SameLine(item) {
			kept = append(kept, line)
		}
	}
	cart.lines = kept
	s.persist(ctx, clientID, cart)
	return snapshot(cart.lines)
}

func (s *cartService) GetItemQuantity(ctx context.Context, clientID string, productID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return itemQuantity(s.hydrate(ctx, clientID).lines, productID)
}

func (s *cartService) IsItemInCart(ctx context.Context, clientID string, productID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range s.hydrate(ctx, clientID).lines {
		if line.ProductID == productID {
			return true
		}
	}
	return false
}

func itemQuantity(lines []model.CartLine, productID uint) int {
	for _, line := range lines {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

func (s *cartService) publish(event CartEvent) {
	if s.notifier != nil {
		s.notifier.Publish(event)
	}
}
