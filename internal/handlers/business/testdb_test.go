package business

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"launchpad/internal/models"
)

// testDB opens an in-memory sqlite database with the claim tables migrated.
// TranslateError maps sqlite unique violations onto gorm.ErrDuplicatedKey,
// matching what the postgres driver reports in production.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// The in-memory database exists per connection; keep exactly one.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Token{},
		&models.PendingClaim{},
		&models.ClaimedRewardsHistory{},
		&models.CreatorFee{},
	))
	return db
}
