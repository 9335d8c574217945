package service

import (
	"errors"
	"math"

	"github.com/bigbestmart/bnbmart-backend/internal/app/model"
	"github.com/bigbestmart/bnbmart-backend/internal/app/repository"
	"github.com/bigbestmart/bnbmart-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// CatalogService is the pricing collaborator the cart consumes: product
// data, stock ceilings and bulk tiers. The cart itself never queries it at
// mutation time; controllers resolve stock ceilings through it before
// quantity updates.
type CatalogService interface {
	ListProducts() ([]model.Product, error)
	GetProduct(id uint) (*model.Product, error)
	MaxStock(id uint) int
	RefreshBulkPrices() (int, error)
}

type catalogService struct {
	productRepo     repository.ProductRepository
	defaultMaxStock int
}

func NewCatalogService(productRepo repository.ProductRepository, defaultMaxStock int) CatalogService {
	if defaultMaxStock <= 0 {
		defaultMaxStock = 999
	}
	return &catalogService{
		productRepo:     productRepo,
		defaultMaxStock: defaultMaxStock,
	}
}

func (s *catalogService) ListProducts() ([]model.Product, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list products", err, nil)
		return nil, err
	}

	logger.Debug("Products listed", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (s *catalogService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

// MaxStock returns the quantity ceiling for a product. Unknown products and
// products without a recorded stock level fall back to the default ceiling,
// so a catalog miss never blocks a quantity update outright.
func (s *catalogService) MaxStock(id uint) int {
	product, err := s.productRepo.FindByID(id)
	if err != nil || product.StockQuantity <= 0 {
		return s.defaultMaxStock
	}
	return product.StockQuantity
}

// RefreshBulkPrices recomputes the bulk price of every enabled tier from
// its discount percentage and the product's current price. Returns how many
// tiers changed.
func (s *catalogService) RefreshBulkPrices() (int, error) {
	products, err := s.productRepo.FindBulkEnabled()
	if err != nil {
		logger.Error("Failed to load bulk-enabled products for refresh", err, nil)
		return 0, err
	}

	updated := 0
	for _, product := range products {
		tier := product.BulkTier
		if tier == nil || tier.DiscountPercentage <= 0 {
			continue
		}

		newPrice := roundPrice(product.Price * (1 - tier.DiscountPercentage/100))
		if newPrice == tier.BulkPrice {
			continue
		}

		tier.BulkPrice = newPrice
		if err := s.productRepo.UpdateBulkTier(tier); err != nil {
			return updated, err
		}
		updated++
	}

	logger.Info("Bulk prices refreshed", map[string]interface{}{
		"products_checked": len(products),
		"tiers_updated":    updated,
	})
	return updated, nil
}

func roundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}
