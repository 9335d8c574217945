package repository

import (
	"github.com/bigbestmart/bnbmart-backend/internal/app/model"
	"github.com/bigbestmart/bnbmart-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindBulkEnabled() ([]model.Product, error)
	Update(product *model.Product) error
	UpdateBulkTier(tier *model.BulkTier) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("BulkTier").
		Order("id").
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to list products from database", err, nil)
		return nil, err
	}

	logger.Debug("Products listed from database", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("BulkTier").First(&product, id).Error
	if err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	return &product, nil
}

func (r *productRepository) FindBulkEnabled() ([]model.Product, error) {
	var products []model.Product
	err := r.db.
		Joins("BulkTier").
		Where("\"BulkTier\".\"is_bulk_enabled\" = ?", true).
		Find(&products).Error
	if err != nil {
		logger.Error("Failed to list bulk-enabled products from database", err, nil)
		return nil, err
	}

	return products, nil
}

func (r *productRepository) Update(product *model.Product) error {
	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) UpdateBulkTier(tier *model.BulkTier) error {
	if err := r.db.Save(tier).Error; err != nil {
		logger.Error("Failed to update bulk tier in database", err, map[string]interface{}{
			"bulk_tier_id": tier.ID,
			"product_id":   tier.ProductID,
		})
		return err
	}

	logger.Debug("Bulk tier updated in database", map[string]interface{}{
		"bulk_tier_id": tier.ID,
		"product_id":   tier.ProductID,
		"bulk_price":   tier.BulkPrice,
	})
	return nil
}
