package common

import (
	"time"

	"github.com/mstoykov/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/guregu/null.v3"

	"github.com/driverkit/webdriver/wire"
)

// Config holds session creation options. Zero-value fields fall back to the
// defaults from NewConfig.
//
//nolint:lll
type Config struct {
	// URL is the WebDriver endpoint commands are dispatched against.
	URL null.String `json:"url" envconfig:"WEBDRIVER_URL"`
	// RequestTimeout bounds every command round trip, in milliseconds.
	RequestTimeout null.Int `json:"requestTimeout" envconfig:"WEBDRIVER_REQUEST_TIMEOUT"`
	// StartupDelay is how long to wait after the fallback driver launch
	// before retrying session creation, in milliseconds. A tunable settle
	// delay, not a correctness constant.
	StartupDelay null.Int `json:"startupDelay" envconfig:"WEBDRIVER_STARTUP_DELAY"`
	// DriverPath overrides the driver executable used by the fallback launch.
	DriverPath null.String `json:"driverPath" envconfig:"WEBDRIVER_DRIVER_PATH"`
	// Headless requests a browser without a visible UI surface.
	Headless null.Bool `json:"headless" envconfig:"WEBDRIVER_HEADLESS"`
}

// NewConfig creates a Config with default values.
func NewConfig() Config {
	return Config{
		URL:            null.NewString(wire.DefaultBaseURL, false),
		RequestTimeout: null.NewInt(int64(wire.DefaultTimeout/time.Millisecond), false),
		StartupDelay:   null.NewInt(200, false),
	}
}

// Apply overlays the set fields of cfg on top of c and returns the result.
func (c Config) Apply(cfg Config) Config {
	if cfg.URL.Valid {
		c.URL = cfg.URL
	}
	if cfg.RequestTimeout.Valid {
		c.RequestTimeout = cfg.RequestTimeout
	}
	if cfg.StartupDelay.Valid {
		c.StartupDelay = cfg.StartupDelay
	}
	if cfg.DriverPath.Valid {
		c.DriverPath = cfg.DriverPath
	}
	if cfg.Headless.Valid {
		c.Headless = cfg.Headless
	}
	return c
}

// NewConfigFromEnv returns the defaults overridden by WEBDRIVER_* environment
// variables.
func NewConfigFromEnv() (Config, error) {
	cfg := NewConfig()
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, errors.Wrap(err, "reading environment config")
	}
	return cfg, nil
}

func (c Config) requestTimeout() time.Duration {
	return time.Duration(c.RequestTimeout.Int64) * time.Millisecond
}

func (c Config) startupDelay() time.Duration {
	return time.Duration(c.StartupDelay.Int64) * time.Millisecond
}
