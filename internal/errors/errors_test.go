package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/address-guard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantCategory ErrorCategory
		wantStatus   int
	}{
		{
			name:         "categorized error is returned as-is",
			err:          NewInvalidParameterError("address", "empty"),
			wantCategory: CategoryValidation,
			wantStatus:   http.StatusBadRequest,
		},
		{
			name:         "wrapped categorized error is unwrapped",
			err:          fmt.Errorf("analyze: %w", NewHashingUnavailableError("self-test failed", nil)),
			wantCategory: CategoryIntegrity,
			wantStatus:   http.StatusServiceUnavailable,
		},
		{
			name:         "service error not found",
			err:          &types.ServiceError{Code: "TRUST_ENTRY_NOT_FOUND", Message: "missing"},
			wantCategory: CategoryNotFound,
			wantStatus:   http.StatusNotFound,
		},
		{
			name:         "plain error becomes internal",
			err:          stderrors.New("boom"),
			wantCategory: CategorySystem,
			wantStatus:   http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categorize(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantStatus, GetHTTPStatusCode(tt.err))
		})
	}

	assert.Nil(t, Categorize(nil))
}

func TestErrorClassifiers(t *testing.T) {
	hashErr := NewHashingUnavailableError("probe failed", nil)
	assert.True(t, IsBlocking(hashErr))
	assert.True(t, IsSystemError(hashErr))
	assert.False(t, IsRetryable(hashErr))

	persistErr := NewPersistenceError(types.BackendRedis, "save history", stderrors.New("conn refused"))
	assert.True(t, IsRetryable(persistErr))
	assert.False(t, IsBlocking(persistErr))
	assert.ErrorContains(t, persistErr, "conn refused")

	paramErr := NewInvalidParameterError("gridSize", "must be positive")
	assert.True(t, IsUserError(paramErr))
	assert.False(t, IsSystemError(paramErr))

	stale := NewStaleAnalysisError(3, 5)
	assert.Equal(t, http.StatusConflict, stale.StatusCode)
	assert.Equal(t, "STALE_ANALYSIS", stale.ToServiceError().Code)
}
