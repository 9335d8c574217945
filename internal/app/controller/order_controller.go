package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bigbestmart/bnbmart-backend/internal/app/service"
	apperrors "github.com/bigbestmart/bnbmart-backend/internal/errors"
	"github.com/bigbestmart/bnbmart-backend/internal/middleware"
)

type OrderController struct {
	checkoutService service.CheckoutService
}

func NewOrderController(checkoutService service.CheckoutService) *OrderController {
	return &OrderController{
		checkoutService: checkoutService,
	}
}

// Checkout converts the client's cart into orders. Bulk and regular lines
// ship as separate orders because they move through different fulfilment
// pipelines.
// POST /api/v1/checkout
func (ctrl *OrderController) Checkout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	clientID := middleware.GetClientID(c)

	orders, err := ctrl.checkoutService.Checkout(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			log.Warn("Checkout attempted with empty cart", map[string]interface{}{
				"client_id": clientID,
			})
			apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
			return
		}
		if errors.Is(err, service.ErrInsufficientStock) {
			log.Warn("Checkout failed due to insufficient stock", map[string]interface{}{
				"client_id": clientID,
			})
			apperrors.Conflict(c, apperrors.ProductOutOfStock, "One or more items are out of stock")
			return
		}
		log.Error("Checkout failed", err, map[string]interface{}{
			"client_id": clientID,
		})
		apperrors.InternalError(c, "Checkout failed")
		return
	}

	log.Info("Checkout completed", map[string]interface{}{
		"client_id": clientID,
		"orders":    len(orders),
	})

	c.JSON(http.StatusCreated, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrders lists the client's orders, newest first
// GET /api/v1/orders
func (ctrl *OrderController) GetOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	clientID := middleware.GetClientID(c)

	orders, err := ctrl.checkoutService.GetClientOrders(clientID)
	if err != nil {
		log.Error("Failed to fetch orders", err, map[string]interface{}{
			"client_id": clientID,
		})
		info := apperrors.ParseError(err, "order")
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder returns one of the client's orders by ID
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	clientID := middleware.GetClientID(c)

	id, ok := parseUintParam(c, "id")
	if !ok {
		log.Warn("Invalid order ID format", map[string]interface{}{
			"client_id": clientID,
			"id":        c.Param("id"),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid order ID")
		return
	}

	order, err := ctrl.checkoutService.GetOrderByID(clientID, id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			log.Warn("Order not found", map[string]interface{}{
				"client_id": clientID,
				"order_id":  id,
			})
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"client_id": clientID,
			"order_id":  id,
		})
		info := apperrors.ParseError(err, "order")
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order": order,
	})
}
