package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPendingClaimExpiryBoundary(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	intent := PendingClaim{ExpiresAt: created.Add(10 * time.Minute)}

	assert.False(t, intent.Expired(created.Add(9*time.Minute+59*time.Second)))
	assert.True(t, intent.Expired(created.Add(10*time.Minute+1*time.Second)))
}
