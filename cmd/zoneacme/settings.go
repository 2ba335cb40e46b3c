package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kompox/zoneacme/config/zoneenv"
	"github.com/kompox/zoneacme/internal/logging"
)

// settings is the effective configuration of one invocation.
// Each value is taken from the flag, the ZONEACME_* environment variable,
// config.yml or the built-in default, in that order.
type settings struct {
	Env                *zoneenv.Env
	StoreURL           string
	KubeconfigTemplate string
	ZoneResource       string
	PropagationDelay   time.Duration
	Log                logging.LogConfig
}

type settingsKey struct{}

func withSettings(ctx context.Context, s *settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

func settingsFromContext(ctx context.Context) (*settings, error) {
	s, ok := ctx.Value(settingsKey{}).(*settings)
	if !ok || s == nil {
		return nil, fmt.Errorf("settings are not initialized")
	}
	return s, nil
}

// pick returns the flag value when set on the command line, else the
// environment variable, else the config value, else def.
func pick(cmd *cobra.Command, flagName, envKey, configValue, def string) string {
	if f := findFlag(cmd, flagName); f != nil && f.Changed {
		return f.Value.String()
	}
	if envKey != "" {
		if v := os.Getenv(envKey); v != "" {
			return v
		}
	}
	if configValue != "" {
		return configValue
	}
	return def
}

// loadSettings resolves the home directory and merges flags, environment and config.yml.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	env, err := zoneenv.Resolve(pick(cmd, "home", zoneenv.HomeEnvKey, "", ""))
	if err != nil {
		return nil, err
	}
	s := &settings{
		Env:                env,
		StoreURL:           pick(cmd, "store-url", zoneenv.StoreURLEnvKey, env.StoreURL(), ""),
		KubeconfigTemplate: pick(cmd, "kubeconfig-template", zoneenv.KubeconfigTemplateEnvKey, env.KubeconfigTemplate(), ""),
		ZoneResource:       pick(cmd, "zone-resource", zoneenv.ZoneResourceEnvKey, env.ZoneResource(), ""),
		Log: logging.LogConfig{
			Format:        pick(cmd, "log-format", "ZONEACME_LOG_FORMAT", env.Logging.Format, "human"),
			Level:         pick(cmd, "log-level", "ZONEACME_LOG_LEVEL", env.Logging.Level, "INFO"),
			Output:        pick(cmd, "log-output", "ZONEACME_LOG_OUTPUT", "", "-"),
			Dir:           env.LogDir(),
			RetentionDays: env.Logging.RetentionDays,
		},
	}
	if s.Log.RetentionDays == 0 {
		s.Log.RetentionDays = 7
	}
	delay := pick(cmd, "propagation-delay", zoneenv.PropagationDelayEnvKey, "", "")
	if delay == "" {
		s.PropagationDelay = env.PropagationDelayDuration()
	} else if s.PropagationDelay, err = time.ParseDuration(delay); err != nil {
		return nil, fmt.Errorf("invalid propagation delay %q: %w", delay, err)
	}
	return s, nil
}
