package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bigbestmart/bnbmart-backend/internal/app/model"
	"github.com/bigbestmart/bnbmart-backend/internal/storage"
	"github.com/bigbestmart/bnbmart-backend/pkg/logger"
)

// CartRepository persists cart snapshots per client. It is the only
// component allowed to touch the cart keys in the KV store.
type CartRepository interface {
	// Load reads the persisted snapshot. A missing key yields an empty
	// cart. An unparseable value is discarded (the key is deleted) and an
	// empty cart is returned without error; only storage failures surface.
	Load(ctx context.Context, clientID string) ([]model.CartLine, error)
	Save(ctx context.Context, clientID string, lines []model.CartLine) error
	Delete(ctx context.Context, clientID string) error
}

type cartRepository struct {
	kv     storage.KVStore
	prefix string
}

func NewCartRepository(kv storage.KVStore, prefix string) CartRepository {
	if prefix == "" {
		prefix = "cart"
	}
	return &cartRepository{kv: kv, prefix: prefix}
}

func (r *cartRepository) key(clientID string) string {
	return fmt.Sprintf("%s:%s", r.prefix, clientID)
}

func (r *cartRepository) Load(ctx context.Context, clientID string) ([]model.CartLine, error) {
	raw, err := r.kv.Get(ctx, r.key(clientID))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Error("Failed to read cart snapshot", err, map[string]interface{}{
			"client_id": clientID,
		})
		return nil, err
	}

	var lines []model.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		// Corrupt snapshot: drop it and start from an empty cart.
		logger.Warn("Discarding corrupt cart snapshot", map[string]interface{}{
			"client_id": clientID,
			"error":     err.Error(),
		})
		if delErr := r.kv.Delete(ctx, r.key(clientID)); delErr != nil {
			logger.Error("Failed to delete corrupt cart snapshot", delErr, map[string]interface{}{
				"client_id": clientID,
			})
		}
		return nil, nil
	}

	logger.Debug("Cart snapshot loaded", map[string]interface{}{
		"client_id": clientID,
		"lines":     len(lines),
	})
	return lines, nil
}

func (r *cartRepository) Save(ctx context.Context, clientID string, lines []model.CartLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		logger.Error("Failed to serialize cart snapshot", err, map[string]interface{}{
			"client_id": clientID,
		})
		return err
	}

	if err := r.kv.Set(ctx, r.key(clientID), string(data)); err != nil {
		logger.Error("Failed to write cart snapshot", err, map[string]interface{}{
			"client_id": clientID,
			"lines":     len(lines),
		})
		return err
	}

	logger.Debug("Cart snapshot saved", map[string]interface{}{
		"client_id": clientID,
		"lines":     len(lines),
	})
	return nil
}

func (r *cartRepository) Delete(ctx context.Context, clientID string) error {
	if err := r.kv.Delete(ctx, r.key(clientID)); err != nil {
		logger.Error("Failed to delete cart snapshot", err, map[string]interface{}{
			"client_id": clientID,
		})
		return err
	}
	return nil
}
