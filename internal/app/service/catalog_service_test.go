package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bigbestmart/bnbmart-backend/internal/app/model"
	"github.com/bigbestmart/bnbmart-backend/internal/app/repository"
	"github.com/bigbestmart/bnbmart-backend/internal/db"
)

func setupCatalogServiceTest(t *testing.T) (CatalogService, *gorm.DB) {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	return NewCatalogService(productRepo, 999), testDB
}

func createProduct(t *testing.T, testDB *gorm.DB, name string, price float64, stock int) *model.Product {
	t.Helper()

	product := &model.Product{
		Name:          name,
		Price:         price,
		Category:      model.CategoryGrocery,
		StockQuantity: stock,
	}
	require.NoError(t, testDB.Create(product).Error)
	return product
}

func TestCatalogService_GetProduct(t *testing.T) {
	catalogService, testDB := setupCatalogServiceTest(t)
	product := createProduct(t, testDB, "Rice 5kg", 100, 10)

	found, err := catalogService.GetProduct(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Rice 5kg", found.Name)
}

func TestCatalogService_GetProduct_NotFound(t *testing.T) {
	catalogService, _ := setupCatalogServiceTest(t)

	_, err := catalogService.GetProduct(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_ListProducts_PreloadsBulkTier(t *testing.T) {
	catalogService, testDB := setupCatalogServiceTest(t)
	product := createProduct(t, testDB, "Rice 5kg", 100, 10)

	tier := &model.BulkTier{
		ProductID:     product.ID,
		MinQuantity:   10,
		BulkPrice:     80,
		IsBulkEnabled: true,
	}
	require.NoError(t, testDB.Create(tier).Error)

	products, err := catalogService.ListProducts()
	assert.NoError(t, err)
	require.Len(t, products, 1)
	require.NotNil(t, products[0].BulkTier)
	assert.Equal(t, 80.0, products[0].BulkTier.BulkPrice)
}

func TestCatalogService_MaxStock(t *testing.T) {
	catalogService, testDB := setupCatalogServiceTest(t)

	product := createProduct(t, testDB, "Rice 5kg", 100, 42)
	assert.Equal(t, 42, catalogService.MaxStock(product.ID))

	// Unknown products and zero-stock products fall back to the default.
	assert.Equal(t, 999, catalogService.MaxStock(9999))

	empty := createProduct(t, testDB, "Soap", 20, 0)
	assert.Equal(t, 999, catalogService.MaxStock(empty.ID))
}

func TestCatalogService_RefreshBulkPrices(t *testing.T) {
	catalogService, testDB := setupCatalogServiceTest(t)

	product := createProduct(t, testDB, "Rice 5kg", 100, 10)
	tier := &model.BulkTier{
		ProductID:          product.ID,
		MinQuantity:        10,
		BulkPrice:          95, // stale; 20% off 100 should be 80
		DiscountPercentage: 20,
		IsBulkEnabled:      true,
	}
	require.NoError(t, testDB.Create(tier).Error)

	updated, err := catalogService.RefreshBulkPrices()
	assert.NoError(t, err)
	assert.Equal(t, 1, updated)

	var refreshed model.BulkTier
	require.NoError(t, testDB.First(&refreshed, tier.ID).Error)
	assert.Equal(t, 80.0, refreshed.BulkPrice)
}

func TestCatalogService_RefreshBulkPrices_SkipsCurrentAndDisabled(t *testing.T) {
	catalogService, testDB := setupCatalogServiceTest(t)

	current := createProduct(t, testDB, "Rice 5kg", 100, 10)
	require.NoError(t, testDB.Create(&model.BulkTier{
		ProductID:          current.ID,
		MinQuantity:        10,
		BulkPrice:          80, // already at 20% off
		DiscountPercentage: 20,
		IsBulkEnabled:      true,
	}).Error)

	disabled := createProduct(t, testDB, "Soap", 20, 10)
	require.NoError(t, testDB.Create(&model.BulkTier{
		ProductID:          disabled.ID,
		MinQuantity:        10,
		BulkPrice:          50,
		DiscountPercentage: 20,
		IsBulkEnabled:      false,
	}).Error)

	updated, err := catalogService.RefreshBulkPrices()
	assert.NoError(t, err)
	assert.Zero(t, updated)
}
