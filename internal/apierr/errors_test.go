package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPassesThroughAPIErrors(t *testing.T) {
	orig := NotFound("claim_not_found", "claim not found")
	got := From(fmt.Errorf("looking up claim: %w", orig))
	require.NotNil(t, got)
	assert.Equal(t, http.StatusNotFound, got.Status)
	assert.Equal(t, "claim_not_found", got.Code)
}

func TestFromWrapsUnknownErrorsAsInternal(t *testing.T) {
	got := From(errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	assert.Equal(t, "internal_error", got.Code)
	// The cause must not appear in the client-facing message.
	assert.Equal(t, "internal server error", got.Message)
}

func TestWithCauseDoesNotMutateOriginal(t *testing.T) {
	base := Validation("nothing_to_claim", "no fees available")
	wrapped := base.WithCause(errors.New("rpc timeout"))
	assert.Nil(t, base.Unwrap())
	assert.NotNil(t, wrapped.Unwrap())
	assert.Equal(t, base.Code, wrapped.Code)
}

func TestWithFieldAccumulates(t *testing.T) {
	err := Validation("invalid_request", "bad input").
		WithField("tokenAddress", "required").
		WithField("name", "too long")
	assert.Equal(t, "too long", err.Fields["name"])
	assert.Equal(t, "required", err.Fields["tokenAddress"])
}
