package config

import (
	"context"

	"github.com/fitlog/fitctl/internal/client"
)

type contextKey string

const configKey contextKey = "fitctl-config"

// GlobalConfig holds shared state for all fitctl commands. It is injected
// into the cobra command context by the root command's PersistentPreRunE
// hook and consumed by all subcommands.
type GlobalConfig struct {
	Config         Config
	NonInteractive bool
	Provider       *client.Provider
}

// InjectConfig adds config to the cobra command context.
func InjectConfig(ctx context.Context, cfg *GlobalConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from the cobra command context.
// Returns (nil, false) if config is not present.
func FromContext(ctx context.Context) (*GlobalConfig, bool) {
	cfg, ok := ctx.Value(configKey).(*GlobalConfig)
	return cfg, ok
}

// MustFromContext retrieves config from context or panics. It should only
// be used in command RunE functions, where the root command is known to
// have injected it.
func MustFromContext(ctx context.Context) *GlobalConfig {
	cfg, ok := FromContext(ctx)
	if !ok {
		panic("fitctl: config not found in context - this is a bug in fitctl")
	}
	return cfg
}
