package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bigbestmart/bnbmart-backend/internal/app/model"
	"github.com/bigbestmart/bnbmart-backend/internal/app/repository"
	"github.com/bigbestmart/bnbmart-backend/internal/storage"
)

// recordingNotifier captures published events synchronously.
type recordingNotifier struct {
	mu     sync.Mutex
	events []CartEvent
}

func (n *recordingNotifier) Publish(event CartEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []CartEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]CartEvent, len(n.events))
	copy(out, n.events)
	return out
}

func setupCartServiceTest(t *testing.T) (CartService, *recordingNotifier, storage.KVStore) {
	t.Helper()

	kv := storage.NewMemoryKV()
	notifier := &recordingNotifier{}
	cartRepo := repository.NewCartRepository(kv, "cart")
	cartService := NewCartService(cartRepo, notifier, 999)

	return cartService, notifier, kv
}

func line(productID uint, name string, price float64, qty int) model.CartLine {
	return model.CartLine{
		ProductID: productID,
		Name:      name,
		Price:     price,
		Quantity:  qty,
	}
}

func TestCartService_AddToCart_NewLine(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	lines := cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 2))

	assert.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartService_AddToCart_MergesRegularLines(t *testing.T) {
	cartService, notifier, _ := setupCartServiceTest(t)
	ctx := context.Background()

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 2))
	lines := cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 3))

	assert.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)

	events := notifier.Events()
	assert.Len(t, events, 2)
	assert.Equal(t, CartEventAdded, events[0].Type)
	assert.Equal(t, CartEventUpdated, events[1].Type)
}

func TestCartService_AddToCart_VariationsKeepLinesSeparate(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	small := line(1, "T-Shirt", 100, 1)
	small.Variations = []model.Variation{{Name: "size", Value: "S"}}
	large := line(1, "T-Shirt", 100, 1)
	large.Variations = []model.Variation{{Name: "size", Value: "L"}}

	cartService.AddToCart(ctx, "client-1", small)
	lines := cartService.AddToCart(ctx, "client-1", large)

	assert.Len(t, lines, 2)
}

func TestCartService_AddToCart_VariationOrderDoesNotSplitLines(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	first := line(1, "T-Shirt", 100, 1)
	first.Variations = []model.Variation{
		{Name: "size", Value: "M"},
		{Name: "color", Value: "blue"},
	}
	second := line(1, "T-Shirt", 100, 1)
	second.Variations = []model.Variation{
		{Name: "color", Value: "blue"},
		{Name: "size", Value: "M"},
	}

	cartService.AddToCart(ctx, "client-1", first)
	lines := cartService.AddToCart(ctx, "client-1", second)

	assert.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartService_AddToCart_BulkNeverMerges(t *testing.T) {
	cartService, notifier, _ := setupCartServiceTest(t)
	ctx := context.Background()

	bulk := line(1, "Rice 5kg", 100, 10)
	bulk.IsBulkOrder = true

	cartService.AddToCart(ctx, "client-1", bulk)
	lines := cartService.AddToCart(ctx, "client-1", bulk)

	assert.Len(t, lines, 2)
	assert.Equal(t, 10, lines[0].Quantity)
	assert.Equal(t, 10, lines[1].Quantity)

	events := notifier.Events()
	assert.Len(t, events, 2)
	assert.Equal(t, CartEventAdded, events[0].Type)
	assert.Equal(t, CartEventAdded, events[1].Type)
	assert.Equal(t, "Rice 5kg (Bulk)", events[0].Name)
}

func TestCartService_AddToCart_BulkDoesNotMergeIntoRegular(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 1))

	bulk := line(1, "Rice 5kg", 100, 10)
	bulk.IsBulkOrder = true
	lines := cartService.AddToCart(ctx, "client-1", bulk)

	assert.Len(t, lines, 2)
}

func TestCartService_AddToCart_NonPositiveQuantityDefaultsToOne(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	lines := cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 0))
	assert.Equal(t, 1, lines[0].Quantity)

	lines = cartService.AddToCart(ctx, "client-2", line(1, "Rice 5kg", 100, -3))
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestCartService_RemoveFromCart_DecrementsByOne(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 3))
	lines := cartService.RemoveFromCart(ctx, "client-1", line(1, "Rice 5kg", 100, 0))

	assert.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartService_RemoveFromCart_DropsLineAtQuantityOne(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 1))
	lines := cartService.RemoveFromCart(ctx, "client-1", line(1, "Rice 5kg", 100, 0))

	assert.Empty(t, lines)
}

func TestCartService_RemoveFromCart_AbsentLineIsNoOp(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 2))
	lines := cartService.RemoveFromCart(ctx, "client-1", line(99, "Ghost", 1, 0))

	assert.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartService_DeleteFromCart_RemovesWholeLine(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 5))
	cartService.AddToCart(ctx, "client-1", line(2, "Soap", 20, 1))

	lines := cartService.DeleteFromCart(ctx, "client-1", line(1, "Rice 5kg", 100, 0))

	assert.Len(t, lines, 1)
	assert.Equal(t, uint(2), lines[0].ProductID)
}

func TestCartService_DeleteFromCart_Idempotent(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 1))
	cartService.DeleteFromCart(ctx, "client-1", line(1, "Rice 5kg", 100, 0))
	lines := cartService.DeleteFromCart(ctx, "client-1", line(1, "Rice 5kg", 100, 0))

	assert.Empty(t, lines)
}

func TestCartService_DeleteFromCart_OnlyMatchingBulkFlag(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 2))
	bulk := line(1, "Rice 5kg", 100, 10)
	bulk.IsBulkOrder = true
	cartService.AddToCart(ctx, "client-1", bulk)

	lines := cartService.DeleteFromCart(ctx, "client-1", bulk)

	assert.Len(t, lines, 1)
	assert.False(t, lines[0].IsBulkOrder)
}

func TestCartService_ClearCart(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 2))
	cartService.AddToCart(ctx, "client-1", line(2, "Soap", 20, 1))

	lines := cartService.ClearCart(ctx, "client-1")
	assert.Empty(t, lines)
	assert.Empty(t, cartService.GetCart(ctx, "client-1"))
}

func TestCartService_UpdateQuantity(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 2))
	lines := cartService.UpdateQuantity(ctx, "client-1", 1, 7, 10)

	assert.Equal(t, 7, lines[0].Quantity)
}

func TestCartService_UpdateQuantity_RejectsOutOfRange(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 2))

	lines := cartService.UpdateQuantity(ctx, "client-1", 1, 0, 10)
	assert.Equal(t, 2, lines[0].Quantity)

	lines = cartService.UpdateQuantity(ctx, "client-1", 1, 11, 10)
	assert.Equal(t, 2, lines[0].Quantity)

	lines = cartService.UpdateQuantity(ctx, "client-1", 1, -5, 10)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartService_UpdateQuantity_UnknownProductIsNoOp(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 2))
	lines := cartService.UpdateQuantity(ctx, "client-1", 99, 5, 10)

	assert.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartService_IncreaseQuantity_CappedAtStock(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 2))

	lines := cartService.IncreaseQuantity(ctx, "client-1", 1, 3)
	assert.Equal(t, 3, lines[0].Quantity)

	// At the ceiling the increase is a silent no-op.
	lines = cartService.IncreaseQuantity(ctx, "client-1", 1, 3)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestCartService_DecreaseQuantity(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 2))

	lines := cartService.DecreaseQuantity(ctx, "client-1", 1)
	assert.Equal(t, 1, lines[0].Quantity)

	// Decreasing from 1 removes the line entirely.
	lines = cartService.DecreaseQuantity(ctx, "client-1", 1)
	assert.Empty(t, lines)

	// Decreasing an absent line is a no-op.
	lines = cartService.DecreaseQuantity(ctx, "client-1", 1)
	assert.Empty(t, lines)
}

func TestCartService_GetItemQuantity(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	assert.Equal(t, 0, cartService.GetItemQuantity(ctx, "client-1", 1))

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 4))
	assert.Equal(t, 4, cartService.GetItemQuantity(ctx, "client-1", 1))
}

func TestCartService_IsItemInCart(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	assert.False(t, cartService.IsItemInCart(ctx, "client-1", 1))

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 1))
	assert.True(t, cartService.IsItemInCart(ctx, "client-1", 1))
	assert.False(t, cartService.IsItemInCart(ctx, "client-1", 2))
}

func TestCartService_CartsAreIsolatedPerClient(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 2))
	cartService.AddToCart(ctx, "client-2", line(2, "Soap", 20, 1))

	assert.Len(t, cartService.GetCart(ctx, "client-1"), 1)
	assert.Equal(t, uint(1), cartService.GetCart(ctx, "client-1")[0].ProductID)
	assert.Equal(t, uint(2), cartService.GetCart(ctx, "client-2")[0].ProductID)
}

func TestCartService_SnapshotsAreDetached(t *testing.T) {
	cartService, _, _ := setupCartServiceTest(t)
	ctx := context.Background()

	lines := cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 2))
	lines[0].Quantity = 999

	assert.Equal(t, 2, cartService.GetCart(ctx, "client-1")[0].Quantity)
}

func TestCartService_RehydratesFromStorage(t *testing.T) {
	cartService, _, kv := setupCartServiceTest(t)
	ctx := context.Background()

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 2))
	cartService.AddToCart(ctx, "client-1", line(2, "Soap", 20, 1))

	// A fresh service sharing the same storage sees the persisted cart.
	cartRepo := repository.NewCartRepository(kv, "cart")
	fresh := NewCartService(cartRepo, nil, 999)

	lines := fresh.GetCart(ctx, "client-1")
	assert.Len(t, lines, 2)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartService_CorruptSnapshotStartsEmpty(t *testing.T) {
	cartService, _, kv := setupCartServiceTest(t)
	ctx := context.Background()

	err := kv.Set(ctx, "cart:client-1", "{not json")
	assert.NoError(t, err)

	lines := cartService.GetCart(ctx, "client-1")
	assert.Empty(t, lines)

	// The corrupt value is gone; the cart works normally afterwards.
	_, err = kv.Get(ctx, "cart:client-1")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	lines = cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 1))
	assert.Len(t, lines, 1)
}

func TestCartService_MutationPersistsSnapshot(t *testing.T) {
	cartService, _, kv := setupCartServiceTest(t)
	ctx := context.Background()

	cartService.AddToCart(ctx, "client-1", line(1, "Rice 5kg", 100, 2))

	raw, err := kv.Get(ctx, "cart:client-1")
	assert.NoError(t, err)
	assert.Contains(t, raw, `"product_id":1`)
	assert.Contains(t, raw, `"quantity":2`)
}
