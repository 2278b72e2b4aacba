package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/statflow/devkit/internal/config"
)

// ResolveToken gets the forge token based on the config's token_source.
// Token source can be:
//   - "keyring" or empty - get from system keyring / env fallback (default)
//   - "env:VAR_NAME" - get from environment variable
//   - Any other value - treat as direct token
func ResolveToken(cfg *config.Config) (string, error) {
	if cfg == nil {
		return GetToken()
	}

	source := cfg.TokenSource
	if source == "" || source == "keyring" {
		return GetToken()
	}

	if strings.HasPrefix(source, "env:") {
		varName := strings.TrimPrefix(source, "env:")
		token := os.Getenv(varName)
		if token == "" {
			return "", fmt.Errorf("environment variable %s is not set", varName)
		}
		return token, nil
	}

	// Treat as direct token value
	return source, nil
}
