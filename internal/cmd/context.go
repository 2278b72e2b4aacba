package cmd

import (
	"context"

	"github.com/statflow/devkit/internal/config"
)

type (
	errorFormatKey struct{}
	configKey      struct{}
	yesKey         struct{}
)

// WithErrorFormat stores the error format in the context.
func WithErrorFormat(ctx context.Context, format string) context.Context {
	return context.WithValue(ctx, errorFormatKey{}, format)
}

// ErrorFormatFromContext retrieves the error format from context.
func ErrorFormatFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(errorFormatKey{}).(string); ok {
		return v
	}
	return ""
}

// WithConfig stores loaded CLI config in context for downstream helpers.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// ConfigFromContext retrieves CLI config from context.
func ConfigFromContext(ctx context.Context) *config.Config {
	if v, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return v
	}
	return nil
}

// WithAssumeYes stores the --yes flag in context.
func WithAssumeYes(ctx context.Context, yes bool) context.Context {
	return context.WithValue(ctx, yesKey{}, yes)
}

// AssumeYesFromContext reports whether confirmation prompts are skipped.
func AssumeYesFromContext(ctx context.Context) bool {
	if v, ok := ctx.Value(yesKey{}).(bool); ok {
		return v
	}
	return false
}
