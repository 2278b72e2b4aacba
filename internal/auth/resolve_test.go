package auth

import (
	"os"
	"testing"

	"github.com/statflow/devkit/internal/config"
)

func TestResolveToken_EnvSource(t *testing.T) {
	cleanup := setupNoKeyring()
	defer cleanup()

	_ = os.Setenv("SFDEV_TEST_TOKEN", "forge_from_env")
	defer func() { _ = os.Unsetenv("SFDEV_TEST_TOKEN") }()

	cfg := &config.Config{TokenSource: "env:SFDEV_TEST_TOKEN"}
	token, err := ResolveToken(cfg)
	if err != nil {
		t.Fatalf("ResolveToken() error = %v", err)
	}
	if token != "forge_from_env" {
		t.Errorf("ResolveToken() = %q, want forge_from_env", token)
	}
}

func TestResolveToken_EnvSourceUnset(t *testing.T) {
	cleanup := setupNoKeyring()
	defer cleanup()

	_ = os.Unsetenv("SFDEV_TEST_TOKEN")

	cfg := &config.Config{TokenSource: "env:SFDEV_TEST_TOKEN"}
	if _, err := ResolveToken(cfg); err == nil {
		t.Error("ResolveToken() should error when env var is not set")
	}
}

func TestResolveToken_DirectValue(t *testing.T) {
	cleanup := setupNoKeyring()
	defer cleanup()

	cfg := &config.Config{TokenSource: "forge_direct_token"}
	token, err := ResolveToken(cfg)
	if err != nil {
		t.Fatalf("ResolveToken() error = %v", err)
	}
	if token != "forge_direct_token" {
		t.Errorf("ResolveToken() = %q, want forge_direct_token", token)
	}
}

func TestResolveToken_KeyringDefault(t *testing.T) {
	cleanup := setupMockKeyring()
	defer cleanup()

	_ = os.Unsetenv(EnvVarName)

	if err := StoreToken("forge_from_keyring"); err != nil {
		t.Fatalf("StoreToken() error = %v", err)
	}

	for _, source := range []string{"", "keyring"} {
		cfg := &config.Config{TokenSource: source}
		token, err := ResolveToken(cfg)
		if err != nil {
			t.Fatalf("ResolveToken(%q) error = %v", source, err)
		}
		if token != "forge_from_keyring" {
			t.Errorf("ResolveToken(%q) = %q, want forge_from_keyring", source, token)
		}
	}
}

func TestResolveToken_NilConfig(t *testing.T) {
	cleanup := setupNoKeyring()
	defer cleanup()

	_ = os.Setenv(EnvVarName, "forge_env_fallback")
	defer func() { _ = os.Unsetenv(EnvVarName) }()

	token, err := ResolveToken(nil)
	if err != nil {
		t.Fatalf("ResolveToken(nil) error = %v", err)
	}
	if token != "forge_env_fallback" {
		t.Errorf("ResolveToken(nil) = %q, want forge_env_fallback", token)
	}
}
