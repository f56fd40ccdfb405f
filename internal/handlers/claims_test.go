package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"launchpad/internal/middleware"
	"launchpad/internal/models"
)

func claimsTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Token{}, &models.PendingClaim{}))
	return db
}

func prepareClaimContext(t *testing.T, wallet, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/rewards/prepare-claim", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.ContextWalletKey, wallet)
	return c, w
}

func TestPrepareClaimRejectsNonCreator(t *testing.T) {
	db := claimsTestDB(t)
	require.NoError(t, db.Create(&models.Token{
		Mint: "mint", Symbol: "TKN", Name: "Token", Creator: "walletA",
	}).Error)
	h := &Handler{DB: db}

	c, w := prepareClaimContext(t, "walletB", `{"token_address":"mint"}`)
	h.PrepareClaim(c)

	// The creator check runs before any chain read or intent write, so the
	// rejection needs neither an RPC client nor an aggregator.
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "not_creator")

	var intents int64
	require.NoError(t, db.Model(&models.PendingClaim{}).Count(&intents).Error)
	assert.Zero(t, intents)
}

func TestPrepareClaimUnknownToken(t *testing.T) {
	h := &Handler{DB: claimsTestDB(t)}

	c, w := prepareClaimContext(t, "walletA", `{"token_address":"missing"}`)
	h.PrepareClaim(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "token_not_found")
}
