package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validationf("title is required"), http.StatusBadRequest},
		{"unauthorized", Unauthorizedf("invalid token"), http.StatusUnauthorized},
		{"conflict", Conflictf("email already registered"), http.StatusConflict},
		{"not found", NotFoundf("transaction not found"), http.StatusNotFound},
		{"wrapped", fmt.Errorf("update: %w", NotFoundf("transaction not found")), http.StatusNotFound},
		{"sentinel", ErrConflict, http.StatusConflict},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.want {
				t.Errorf("Status() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMessageHidesInternalErrors(t *testing.T) {
	if got := Message(errors.New("pq: relation \"transactions\" does not exist")); got != "internal server error" {
		t.Errorf("Expected generic message, got %q", got)
	}
	if got := Message(fmt.Errorf("create: %w", Validationf("amount is required"))); got != "amount is required" {
		t.Errorf("Expected 'amount is required', got %q", got)
	}
}
