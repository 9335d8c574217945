package db

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bigbestmart/bnbmart-backend/internal/app/model"
)

// SetupTestDB opens an in-memory SQLite database with the full schema
// migrated. The pool is pinned to a single connection: each SQLite
// in-memory connection is its own database, so a second pooled connection
// would see no tables.
func SetupTestDB() (*gorm.DB, error) {
	testDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get test database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := testDB.AutoMigrate(
		&model.Product{},
		&model.BulkTier{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return testDB, nil
}

// CleanupTestDB closes the test database.
func CleanupTestDB(testDB *gorm.DB) {
	sqlDB, err := testDB.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables empties every table, children before parents.
func TruncateAllTables(testDB *gorm.DB) error {
	tables := []string{"order_items", "orders", "bulk_tiers", "products"}
	for _, table := range tables {
		if err := testDB.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}
