package config

import (
	"fmt"
	"time"

	"launchpad/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewDB opens the postgres connection, configures the pool and bootstraps the
// schema. The handle is returned to the caller; no package-level database
// state is kept.
func NewDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(50)
	sqlDB.SetMaxOpenConns(200)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&models.Token{},
		&models.PendingClaim{},
		&models.ClaimedRewardsHistory{},
		&models.CreatorFee{},
		&models.ProjectConfig{},
		&models.PendingProjectConfig{},
		&models.PendingProjectToken{},
		&models.MintKeypair{},
		&models.AuthNonce{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}
