package cmd

import (
	"context"
	"errors"
	"net/http"

	clierrors "github.com/statflow/devkit/internal/errors"
	"github.com/statflow/devkit/internal/forge"
)

const (
	ExitOK        = 0
	ExitSystem    = 1
	ExitUser      = 2
	ExitAuth      = 3
	ExitNotFound  = 4
	ExitRateLimit = 5
	ExitCanceled  = 130
)

// ExitCode maps a command error to a stable process exit code for automation.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, context.Canceled) {
		return ExitCanceled
	}

	var apiErr *forge.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusNotFound {
			return ExitNotFound
		}
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return ExitRateLimit
		}
		if apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden {
			return ExitAuth
		}
		// Forge errors caused by invalid input are still "user" in most
		// cases; anything in the server class is a system failure.
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return ExitUser
		}
		return ExitSystem
	}

	if clierrors.IsAuthError(err) {
		return ExitAuth
	}
	if clierrors.IsValidationError(err) || clierrors.IsUserError(err) || clierrors.IsEnvironmentError(err) {
		return ExitUser
	}

	return ExitSystem
}
