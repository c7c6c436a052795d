package gallery

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/zeusync/weaponsim/internal/core/observability/log"
)

// EnvOverrides are environment variables that take precedence over the
// config file. Unset variables leave the file value alone.
type EnvOverrides struct {
	LogLevel  *log.Level    `env:"WEAPONSIM_LOG_LEVEL"`
	Weapon    string        `env:"WEAPONSIM_WEAPON"`
	Catalog   string        `env:"WEAPONSIM_CATALOG"`
	Duration  time.Duration `env:"WEAPONSIM_DURATION"`
	FeedAddr  string        `env:"WEAPONSIM_FEED_ADDR"`
	FeedToken string        `env:"WEAPONSIM_FEED_TOKEN"`
	Feed      *bool         `env:"WEAPONSIM_FEED"`
}

// ApplyEnv reads EnvOverrides from the process environment into c and
// revalidates it.
func (c *Config) ApplyEnv() error {
	var o EnvOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	if o.Weapon != "" {
		c.Weapon = o.Weapon
	}
	if o.Catalog != "" {
		c.Catalog = o.Catalog
	}
	if o.Duration != 0 {
		c.Duration = o.Duration
	}
	if o.FeedAddr != "" {
		c.Feed.ListenAddr = o.FeedAddr
	}
	if o.FeedToken != "" {
		c.Feed.Token = o.FeedToken
	}
	if o.Feed != nil {
		c.FeedEnabled = *o.Feed
	}
	return c.Validate()
}
