package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bigbestmart/bnbmart-backend/internal/app/model"
	"github.com/bigbestmart/bnbmart-backend/internal/app/service"
	apperrors "github.com/bigbestmart/bnbmart-backend/internal/errors"
	"github.com/bigbestmart/bnbmart-backend/internal/middleware"
)

type CartController struct {
	cartService    service.CartService
	catalogService service.CatalogService
}

func NewCartController(cartService service.CartService, catalogService service.CatalogService) *CartController {
	return &CartController{
		cartService:    cartService,
		catalogService: catalogService,
	}
}

type AddToCartRequest struct {
	ProductID   uint              `json:"product_id" binding:"required"`
	Quantity    int               `json:"quantity"`
	IsBulkOrder bool              `json:"is_bulk_order"`
	Variations  []model.Variation `json:"variations"`
}

// LineRefRequest identifies an existing cart line for remove/delete.
type LineRefRequest struct {
	ProductID   uint              `json:"product_id" binding:"required"`
	IsBulkOrder bool              `json:"is_bulk_order"`
	Variations  []model.Variation `json:"variations"`
}

type UpdateQuantityRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type ProductRefRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// cartResponse renders a cart snapshot together with its derived totals.
// Every cart endpoint returns this shape so the storefront never has to
// recompute totals itself.
func cartResponse(lines []model.CartLine) gin.H {
	return gin.H{
		"cart_items":  lines,
		"count":       len(lines),
		"total_items": service.TotalItems(lines),
		"total":       service.CartTotal(lines),
		"summary":     service.Summarize(lines),
	}
}

// GetCart returns the client's cart with derived totals
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	clientID := middleware.GetClientID(c)

	lines := ctrl.cartService.GetCart(c.Request.Context(), clientID)

	log.Debug("Cart fetched", map[string]interface{}{
		"client_id": clientID,
		"count":     len(lines),
	})

	c.JSON(http.StatusOK, cartResponse(lines))
}

// AddToCart adds a product line to the client's cart
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	clientID := middleware.GetClientID(c)

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"client_id": clientID,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	product, err := ctrl.catalogService.GetProduct(req.ProductID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			log.Warn("Product not found for cart", map[string]interface{}{
				"client_id":  clientID,
				"product_id": req.ProductID,
			})
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to load product for cart", err, map[string]interface{}{
			"client_id":  clientID,
			"product_id": req.ProductID,
		})
		apperrors.InternalError(c, "")
		return
	}

	line := model.CartLine{
		ProductID:      product.ID,
		Name:           product.Name,
		Price:          product.Price,
		OldPrice:       product.OldPrice,
		ShippingAmount: product.ShippingAmount,
		Quantity:       req.Quantity,
		IsBulkOrder:    req.IsBulkOrder,
		Variations:     req.Variations,
	}

	if req.IsBulkOrder {
		if product.BulkTier == nil || !product.BulkTier.IsBulkEnabled {
			log.Warn("Bulk order requested for non-bulk product", map[string]interface{}{
				"client_id":  clientID,
				"product_id": req.ProductID,
			})
			apperrors.BadRequest(c, apperrors.ProductBulkDisabled, "Product is not available for bulk orders")
			return
		}
		bulkPrice := product.BulkTier.BulkPrice
		line.BulkPrice = &bulkPrice
		if line.Quantity < product.BulkTier.MinQuantity {
			line.Quantity = product.BulkTier.MinQuantity
		}
	}

	lines := ctrl.cartService.AddToCart(c.Request.Context(), clientID, line)

	log.Info("Item added to cart", map[string]interface{}{
		"client_id":  clientID,
		"product_id": req.ProductID,
		"is_bulk":    req.IsBulkOrder,
		"quantity":   line.Quantity,
	})

	c.JSON(http.StatusCreated, cartResponse(lines))
}

// RemoveFromCart decrements one unit from the matching line
// POST /api/v1/cart/remove
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	clientID := middleware.GetClientID(c)

	var req LineRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid remove from cart request", map[string]interface{}{
			"client_id": clientID,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	lines := ctrl.cartService.RemoveFromCart(c.Request.Context(), clientID, model.CartLine{
		ProductID:   req.ProductID,
		IsBulkOrder: req.IsBulkOrder,
		Variations:  req.Variations,
	})

	log.Debug("Cart line decremented", map[string]interface{}{
		"client_id":  clientID,
		"product_id": req.ProductID,
	})

	c.JSON(http.StatusOK, cartResponse(lines))
}

// DeleteFromCart removes the matching line entirely
// POST /api/v1/cart/delete
func (ctrl *CartController) DeleteFromCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	clientID := middleware.GetClientID(c)

	var req LineRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid delete from cart request", map[string]interface{}{
			"client_id": clientID,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	lines := ctrl.cartService.DeleteFromCart(c.Request.Context(), clientID, model.CartLine{
		ProductID:   req.ProductID,
		IsBulkOrder: req.IsBulkOrder,
		Variations:  req.Variations,
	})

	log.Debug("Cart line deleted", map[string]interface{}{
		"client_id":  clientID,
		"product_id": req.ProductID,
	})

	c.JSON(http.StatusOK, cartResponse(lines))
}

// ClearCart empties the client's cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	clientID := middleware.GetClientID(c)

	lines := ctrl.cartService.ClearCart(c.Request.Context(), clientID)

	log.Info("Cart cleared", map[string]interface{}{
		"client_id": clientID,
	})

	c.JSON(http.StatusOK, cartResponse(lines))
}

// UpdateQuantity sets the quantity of a product's line, clamped to stock
// PUT /api/v1/cart/quantity
func (ctrl *CartController) UpdateQuantity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	clientID := middleware.GetClientID(c)

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid update quantity request", map[string]interface{}{
			"client_id": clientID,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	maxStock := ctrl.catalogService.MaxStock(req.ProductID)
	lines := ctrl.cartService.UpdateQuantity(c.Request.Context(), clientID, req.ProductID, req.Quantity, maxStock)

	log.Debug("Cart quantity updated", map[string]interface{}{
		"client_id":  clientID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
		"max_stock":  maxStock,
	})

	c.JSON(http.StatusOK, cartResponse(lines))
}

// IncreaseQuantity adds one unit to a product's line, capped at stock
// POST /api/v1/cart/increase
func (ctrl *CartController) IncreaseQuantity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	clientID := middleware.GetClientID(c)

	var req ProductRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid increase quantity request", map[string]interface{}{
			"client_id": clientID,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	maxStock := ctrl.catalogService.MaxStock(req.ProductID)
	lines := ctrl.cartService.IncreaseQuantity(c.Request.Context(), clientID, req.ProductID, maxStock)

	c.JSON(http.StatusOK, cartResponse(lines))
}

// DecreaseQuantity removes one unit from a product's line, dropping the
// line when it hits zero
// POST /api/v1/cart/decrease
func (ctrl *CartController) DecreaseQuantity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	clientID := middleware.GetClientID(c)

	var req ProductRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid decrease quantity request", map[string]interface{}{
			"client_id": clientID,
			"error":     err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	lines := ctrl.cartService.DecreaseQuantity(c.Request.Context(), clientID, req.ProductID)

	c.JSON(http.StatusOK, cartResponse(lines))
}

// GetItemStatus reports whether a product is in the cart and at what quantity
// GET /api/v1/cart/items/:id
func (ctrl *CartController) GetItemStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	clientID := middleware.GetClientID(c)

	productID, ok := parseUintParam(c, "id")
	if !ok {
		log.Warn("Invalid product ID for cart item status", map[string]interface{}{
			"client_id": clientID,
			"id":        c.Param("id"),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	ctx := c.Request.Context()
	c.JSON(http.StatusOK, gin.H{
		"product_id": productID,
		"in_cart":    ctrl.cartService.IsItemInCart(ctx, clientID, productID),
		"quantity":   ctrl.cartService.GetItemQuantity(ctx, clientID, productID),
	})
}
