package cmd

import (
	"context"
	"fmt"
	"testing"

	clierrors "github.com/roastkit/plus-cli/internal/errors"
	"github.com/roastkit/plus-cli/internal/plus"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"canceled", context.Canceled, ExitCanceled},
		{"wrapped canceled", fmt.Errorf("op: %w", context.Canceled), ExitCanceled},
		{"api 404", &plus.APIError{StatusCode: 404}, ExitNotFound},
		{"api 401", &plus.APIError{StatusCode: 401}, ExitAuth},
		{"api 403", &plus.APIError{StatusCode: 403}, ExitAuth},
		{"api 422", &plus.APIError{StatusCode: 422}, ExitUser},
		{"api 500", &plus.APIError{StatusCode: 500}, ExitSystem},
		{"auth error", clierrors.AuthRequiredError(nil), ExitAuth},
		{"transport error", &clierrors.TransportError{Err: fmt.Errorf("refused")}, ExitTemp},
		{"wrapped transport", clierrors.WrapContext("GET", "u", 0, &clierrors.TransportError{Err: fmt.Errorf("x")}), ExitTemp},
		{"user error", clierrors.NewUserError("bad flag", ""), ExitUser},
		{"generic", fmt.Errorf("boom"), ExitSystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
