package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bigbestmart/bnbmart-backend/internal/app/service"
	apperrors "github.com/bigbestmart/bnbmart-backend/internal/errors"
	"github.com/bigbestmart/bnbmart-backend/internal/middleware"
)

type ProductController struct {
	catalogService service.CatalogService
}

func NewProductController(catalogService service.CatalogService) *ProductController {
	return &ProductController{
		catalogService: catalogService,
	}
}

// ListProducts returns the full catalog with bulk tiers preloaded
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.catalogService.ListProducts()
	if err != nil {
		log.Error("Failed to list products", err, nil)
		info := apperrors.ParseError(err, "product")
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct returns one product by ID
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseUintParam(c, "id")
	if !ok {
		log.Warn("Invalid product ID format", map[string]interface{}{
			"id": c.Param("id"),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.catalogService.GetProduct(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			log.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		info := apperrors.ParseError(err, "product")
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}
