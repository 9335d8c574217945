package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bigbestmart/bnbmart-backend/config"
	appLogger "github.com/bigbestmart/bnbmart-backend/pkg/logger"
)

const (
	maxIdleConns    = 10
	maxOpenConns    = 100
	connMaxLifetime = time.Hour
)

var DB *gorm.DB

// Initialize opens the Postgres connection and configures the pool.
// SQL-level logging stays silent; query problems surface through the
// application logger instead.
func Initialize(cfg *config.DatabaseConfig) error {
	appLogger.Info("Connecting to database", map[string]interface{}{
		"host":     cfg.Host,
		"port":     cfg.Port,
		"database": cfg.DBName,
		"user":     cfg.User,
	})

	var err error
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	appLogger.Info("Database connection established successfully", map[string]interface{}{
		"max_idle_conns": maxIdleConns,
		"max_open_conns": maxOpenConns,
	})
	return nil
}

// Close closes the underlying connection pool.
func Close() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB returns the shared database handle.
func GetDB() *gorm.DB {
	return DB
}
