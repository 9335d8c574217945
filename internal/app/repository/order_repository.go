package repository

import (
	"time"

	"github.com/bigbestmart/bnbmart-backend/internal/app/model"
	"github.com/bigbestmart/bnbmart-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindByClientID(clientID string) ([]model.Order, error)
	FindByID(id uint) (*model.Order, error)
	FindBulkOrdersBetween(from, to time.Time) ([]model.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order and its items inside the caller's transaction.
// Pass nil to use the repository's own connection.
func (r *orderRepository) Create(tx *gorm.DB, order *model.Order) error {
	db := tx
	if db == nil {
		db = r.db
	}

	if err := db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"client_id": order.ClientID,
			"type":      order.Type,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"type":         order.Type,
	})
	return nil
}

func (r *orderRepository) FindByClientID(clientID string) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.Where("client_id = ?", clientID).
		Preload("OrderItems").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to list orders by client in database", err, map[string]interface{}{
			"client_id": clientID,
		})
		return nil, err
	}

	return orders, nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("OrderItems").First(&order, id).Error
	if err != nil {
		logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}

	return &order, nil
}

func (r *orderRepository) FindBulkOrdersBetween(from, to time.Time) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.
		Where("type = ? AND created_at >= ? AND created_at < ?", model.OrderTypeBulk, from, to).
		Preload("OrderItems").
		Order("created_at").
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to list bulk orders in database", err, map[string]interface{}{
			"from": from,
			"to":   to,
		})
		return nil, err
	}

	return orders, nil
}
