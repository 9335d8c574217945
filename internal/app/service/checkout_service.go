package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bigbestmart/bnbmart-backend/internal/app/model"
	"github.com/bigbestmart/bnbmart-backend/internal/app/repository"
	"github.com/bigbestmart/bnbmart-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// CheckoutService consumes the finalized cart. Lines flagged as bulk are
// routed to the bulk submission path that bypasses payment capture; regular
// lines go through the standard payment path. The bulk flag on the line is
// the sole signal for that branching.
type CheckoutService interface {
	Checkout(ctx context.Context, clientID string) ([]model.Order, error)
	GetClientOrders(clientID string) ([]model.Order, error)
	GetOrderByID(clientID string, orderID uint) (*model.Order, error)
}

type checkoutService struct {
	cart      CartService
	orderRepo repository.OrderRepository
	db        *gorm.DB
}

func NewCheckoutService(cart CartService, orderRepo repository.OrderRepository, db *gorm.DB) CheckoutService {
	return &checkoutService{
		cart:      cart,
		orderRepo: orderRepo,
		db:        db,
	}
}

// Checkout partitions the cart by the bulk flag, creates one order per
// non-empty partition inside a transaction, decrements stock for regular
// lines and clears the cart on success.
func (s *checkoutService) Checkout(ctx context.Context, clientID string) ([]model.Order, error) {
	lines := s.cart.GetCart(ctx, clientID)
	if len(lines) == 0 {
		logger.Warn("Cannot check out: cart is empty", map[string]interface{}{
			"client_id": clientID,
		})
		return nil, ErrEmptyCart
	}

	logger.Info("Checking out cart", map[string]interface{}{
		"client_id": clientID,
		"lines":     len(lines),
		"has_bulk":  HasBulkLines(lines),
	})

	var regular, bulk []model.CartLine
	for _, line := range lines {
		if line.IsBulkOrder {
			bulk = append(bulk, line)
		} else {
			regular = append(regular, line)
		}
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during checkout, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"client_id": clientID,
			})
		}
	}()

	var orders []model.Order

	if len(regular) > 0 {
		if err := s.reserveStock(tx, regular); err != nil {
			tx.Rollback()
			return nil, err
		}

		order := buildOrder(clientID, model.OrderTypeRegular, regular)
		if err := s.orderRepo.Create(tx, &order); err != nil {
			tx.Rollback()
			return nil, err
		}
		orders = append(orders, order)
	}

	if len(bulk) > 0 {
		order := buildOrder(clientID, model.OrderTypeBulk, bulk)
		if err := s.orderRepo.Create(tx, &order); err != nil {
			tx.Rollback()
			return nil, err
		}
		orders = append(orders, order)
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit checkout transaction", err, map[string]interface{}{
			"client_id": clientID,
		})
		return nil, err
	}

	s.cart.ClearCart(ctx, clientID)

	logger.Info("Checkout completed", map[string]interface{}{
		"client_id": clientID,
		"orders":    len(orders),
	})
	return orders, nil
}

// reserveStock locks each regular line's product row and decrements stock.
// Bulk lines are fulfilled out of band after review and do not reserve
// stock here.
func (s *checkoutService) reserveStock(tx *gorm.DB, lines []model.CartLine) error {
	for _, line := range lines {
		var product model.Product
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, line.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Product disappeared before checkout", map[string]interface{}{
					"product_id": line.ProductID,
				})
				return ErrProductNotFound
			}
			return err
		}

		if product.StockQuantity < line.Quantity {
			logger.Warn("Insufficient stock at checkout", map[string]interface{}{
				"product_id": line.ProductID,
				"requested":  line.Quantity,
				"available":  product.StockQuantity,
			})
			return ErrInsufficientStock
		}

		product.StockQuantity -= line.Quantity
		if err := tx.Save(&product).Error; err != nil {
			return err
		}
	}
	return nil
}

func buildOrder(clientID string, orderType model.OrderType, lines []model.CartLine) model.Order {
	summary := Summarize(lines)

	order := model.Order{
		OrderNumber:   newOrderNumber(),
		ClientID:      clientID,
		Type:          orderType,
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusPending,
		ItemsTotal:    summary.Subtotal - summary.ShippingTotal,
		ShippingTotal: summary.ShippingTotal,
		TaxAmount:     summary.TaxAmount,
		TotalAmount:   summary.GrandTotal,
	}

	// Bulk submissions skip payment capture and wait for manual review.
	if orderType == model.OrderTypeBulk {
		order.Status = model.OrderStatusPendingReview
		order.PaymentStatus = model.PaymentStatusNotRequired
	}

	for _, line := range lines {
		order.OrderItems = append(order.OrderItems, model.OrderItem{
			ProductID:  line.ProductID,
			Name:       line.Name,
			UnitPrice:  line.EffectivePrice(),
			Shipping:   line.ShippingAmount,
			Quantity:   line.Quantity,
			IsBulk:     line.IsBulkOrder,
			Variations: marshalVariations(line.Variations),
		})
	}
	return order
}

func newOrderNumber() string {
	return "BNB-" + strings.ToUpper(uuid.NewString()[:8])
}

func marshalVariations(variations []model.Variation) string {
	if len(variations) == 0 {
		return ""
	}
	data, err := json.Marshal(variations)
	if err != nil {
		return ""
	}
	return string(data)
}

func (s *checkoutService) GetClientOrders(clientID string) ([]model.Order, error) {
	orders, err := s.orderRepo.FindByClientID(clientID)
	if err != nil {
		logger.Error("Failed to fetch client orders", err, map[string]interface{}{
			"client_id": clientID,
		})
		return nil, err
	}
	return orders, nil
}

func (s *checkoutService) GetOrderByID(clientID string, orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.ClientID != clientID {
		logger.Warn("Order access denied: ownership mismatch", map[string]interface{}{
			"client_id": clientID,
			"order_id":  orderID,
			"owner_id":  order.ClientID,
		})
		return nil, ErrOrderNotFound
	}
	return order, nil
}
