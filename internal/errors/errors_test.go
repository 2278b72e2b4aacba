package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{
		Field:   "repo",
		Message: "must be an owner/name slug",
	}

	expected := "validation error for repo: must be an owner/name slug"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}

	if !IsValidationError(err) {
		t.Error("IsValidationError should return true for ValidationError")
	}
}

func TestAuthError(t *testing.T) {
	err := &AuthError{
		Reason: "invalid forge token",
	}

	expected := "authentication error: invalid forge token"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}

	if !IsAuthError(err) {
		t.Error("IsAuthError should return true for AuthError")
	}
}

func TestAuthRequiredError(t *testing.T) {
	base := errors.New("no token in keyring")
	err := AuthRequiredError(base)

	if !IsAuthError(err) {
		t.Error("AuthRequiredError should be an AuthError")
	}
	if !errors.Is(err, base) {
		t.Error("AuthRequiredError should unwrap to the base error")
	}
	if got := UserSuggestion(err); !strings.Contains(got, "sfdev auth set-token") {
		t.Errorf("UserSuggestion() = %q, want set-token hint", got)
	}
}

func TestEnvironmentError(t *testing.T) {
	err := EnvironmentNotReadyError()

	if !IsEnvironmentError(err) {
		t.Error("IsEnvironmentError should return true for EnvironmentError")
	}
	if got := UserSuggestion(err); !strings.Contains(got, "sfdev setup") {
		t.Errorf("UserSuggestion() = %q, want setup hint", got)
	}
}

func TestTypeCheckers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checker func(error) bool
		want    bool
	}{
		{
			name:    "generic error",
			err:     errors.New("generic error"),
			checker: IsValidationError,
			want:    false,
		},
		{
			name:    "nil error",
			err:     nil,
			checker: IsValidationError,
			want:    false,
		},
		{
			name:    "wrapped user error",
			err:     WrapUserError(errors.New("inner"), "outer", ""),
			checker: IsUserError,
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.checker(tt.err); got != tt.want {
				t.Errorf("checker() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserError(t *testing.T) {
	base := errors.New("missing token")
	err := WrapUserError(base, "authentication required", "Run 'sfdev auth set-token'")

	if !IsUserError(err) {
		t.Error("IsUserError should return true for UserError")
	}

	if got := UserSuggestion(err); got != "Run 'sfdev auth set-token'" {
		t.Errorf("UserSuggestion() = %q, want %q", got, "Run 'sfdev auth set-token'")
	}

	expected := "authentication required: missing token"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}
