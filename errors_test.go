package pandey

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	verr := NewValidationError()
	assert.NoError(t, verr.Err())

	verr.Add("price", "must not be negative")
	verr.Add("name", "is required")
	verr.Add("name", "ignored second message")

	err := verr.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation failed: name: is required, price: must not be negative", err.Error())

	wrapped := fmt.Errorf("saving product: %w", Invalid("slug", "is taken"))
	assert.ErrorIs(t, wrapped, ErrValidation)
}

func TestErrFromService(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{Invalid("name", "is required"), http.StatusBadRequest},
		{fmt.Errorf("%w: brand 4", ErrRecordNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: slug in use", ErrConflict), http.StatusConflict},
		{ErrForbidden, http.StatusForbidden},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		resp, ok := ErrFromService(tt.err).(*ErrResponse)
		require.True(t, ok)
		assert.Equal(t, tt.status, resp.HTTPStatusCode, tt.err.Error())
	}
}

func TestErrResponseHidesInternalErrors(t *testing.T) {
	resp := ErrFromService(errors.New("pq: password authentication failed")).(*ErrResponse)
	assert.Equal(t, "something went wrong", resp.ErrorText)

	resp = ErrInvalidRequest(Invalid("limit", "must be between 1 and 100")).(*ErrResponse)
	assert.Equal(t, map[string]string{"limit": "must be between 1 and 100"}, resp.Fields)
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(fmt.Errorf("x: %w", ErrConflict)))
	assert.True(t, IsClientError(Invalid("a", "b")))
	assert.False(t, IsClientError(errors.New("boom")))
}
