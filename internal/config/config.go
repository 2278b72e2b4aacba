package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration
type Config struct {
	// Root directory of the development environment (companion repos,
	// example data, HTML assets). Defaults to ~/statflow-dev when empty.
	Root string `yaml:"root,omitempty"`

	// Base URL of the code forge API (for testing/self-hosted forges)
	ForgeURL string `yaml:"forge_url,omitempty"`

	// Token source: "keyring", "env:VAR_NAME", or direct token value
	TokenSource string `yaml:"token_source,omitempty"`

	// Command used to install packages (defaults to "R")
	InstallerCommand string `yaml:"installer_command,omitempty"`

	// Extra arguments passed to the installer command
	InstallerArgs []string `yaml:"installer_args,omitempty"`

	// Default output format (text, json, table, yaml)
	Output string `yaml:"output,omitempty"`

	// Default color mode (auto, always, never)
	Color string `yaml:"color,omitempty"`
}

// configPathFunc is the function used to get the default config path
// It can be overridden for testing
var configPathFunc = defaultConfigPath

// SetConfigPathFunc sets the config path function for testing.
// Returns the original function so it can be restored.
func SetConfigPathFunc(fn func() (string, error)) func() (string, error) {
	orig := configPathFunc
	configPathFunc = fn
	return orig
}

// defaultConfigPath returns ~/.config/sfdev/config.yaml
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "sfdev", "config.yaml"), nil
}

// DefaultConfigPath returns ~/.config/sfdev/config.yaml
func DefaultConfigPath() (string, error) {
	return configPathFunc()
}

// Load loads config from the default path, returns empty config if not found
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return &Config{}, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil // Return empty config if file doesn't exist
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	return &cfg, nil
}

// Save saves config to the default path
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveToPath(path)
}

// SaveToPath saves config to a specific path
func (c *Config) SaveToPath(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// GetRoot returns the effective environment root, falling back to
// ~/statflow-dev when unset.
func (c *Config) GetRoot() (string, error) {
	if c.Root != "" {
		return c.Root, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "statflow-dev"), nil
}

// GetInstallerCommand returns the configured installer command or "R"
func (c *Config) GetInstallerCommand() string {
	if c.InstallerCommand != "" {
		return c.InstallerCommand
	}
	return "R"
}

// GetOutput returns the effective output format (config default or empty)
func (c *Config) GetOutput() string {
	return c.Output
}

// GetColor returns the effective color mode (config default or empty)
func (c *Config) GetColor() string {
	return c.Color
}

// Keys returns the configuration keys addressable via Get and Set,
// sorted for consistent output.
func Keys() []string {
	keys := []string{"root", "forge_url", "token_source", "installer_command", "output", "color"}
	sort.Strings(keys)
	return keys
}

// Get returns the raw value of a configuration key
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "root":
		return c.Root, nil
	case "forge_url":
		return c.ForgeURL, nil
	case "token_source":
		return c.TokenSource, nil
	case "installer_command":
		return c.InstallerCommand, nil
	case "output":
		return c.Output, nil
	case "color":
		return c.Color, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set sets a configuration key to a raw value
func (c *Config) Set(key, value string) error {
	switch key {
	case "root":
		c.Root = value
	case "forge_url":
		c.ForgeURL = value
	case "token_source":
		c.TokenSource = value
	case "installer_command":
		c.InstallerCommand = value
	case "output":
		switch value {
		case "", "text", "json", "table", "yaml":
		default:
			return fmt.Errorf("invalid output format %q", value)
		}
		c.Output = value
	case "color":
		switch value {
		case "", "auto", "always", "never":
		default:
			return fmt.Errorf("invalid color mode %q", value)
		}
		c.Color = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}
