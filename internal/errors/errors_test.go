package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode string
		expectedHTTP int
	}{
		{"duplicate email", ErrDuplicateEmail, "DUPLICATE_EMAIL", http.StatusConflict},
		{"wrapped not found", fmt.Errorf("load receiver: %w", ErrProfileNotFound), "NOT_FOUND", http.StatusNotFound},
		{"banned actor", ErrActorBanned, "ACTOR_BANNED", http.StatusForbidden},
		{"invalid transition", ErrInvalidTransition, "INVALID_TRANSITION", http.StatusConflict},
		{"unknown error", fmt.Errorf("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.expectedHTTP, httpErr.StatusCode)
			assert.Equal(t, tt.expectedCode, httpErr.ToErrorResponse().Code)
		})
	}
}

func TestMapErrorToHTTP_HidesInternalMessages(t *testing.T) {
	httpErr := MapErrorToHTTP(fmt.Errorf("dial tcp 10.0.0.1:3306: refused"))
	assert.Equal(t, "internal server error", httpErr.Message)
}
