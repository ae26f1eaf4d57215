// Package config loads the runtime configuration from ejection.toml, EJECTION_* environment
// variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ChristopherRabotin/ejection"
	"github.com/spf13/viper"
)

// BodyAltitude selects the altitude stored with each body.
const BodyAltitude = -1.0

// Catalog selects where the bodies are read from.
type Catalog struct {
	Driver string `mapstructure:"driver"` // toml, sqlite or mysql
	Path   string `mapstructure:"path"`   // TOML file, empty for the built-in catalog
	DSN    string `mapstructure:"dsn"`    // SQLite file or MySQL DSN
	Watch  bool   `mapstructure:"watch"`  // reload the TOML file on change
}

// Transfer holds the default parking and target orbit altitudes in meters.
type Transfer struct {
	ParkingAltitude float64 `mapstructure:"parking_altitude"`
	TargetAltitude  float64 `mapstructure:"target_altitude"`
}

// Log configures the logger.
type Log struct {
	Format string `mapstructure:"format"` // logfmt or json
	Level  string `mapstructure:"level"`  // debug, info, warn or error
}

// Server configures the HTTP server.
type Server struct {
	Addr  string  `mapstructure:"addr"`
	Rate  float64 `mapstructure:"rate"` // requests per second per client, 0 disables the limit
	Burst int     `mapstructure:"burst"`
}

// Config holds all runtime configuration.
type Config struct {
	Catalog  Catalog  `mapstructure:"catalog"`
	Transfer Transfer `mapstructure:"transfer"`
	Log      Log      `mapstructure:"log"`
	Server   Server   `mapstructure:"server"`
}

// BindEnv maps EJECTION_* environment variables to the configuration keys, e.g.
// EJECTION_CATALOG_DRIVER to catalog.driver.
func BindEnv() {
	viper.SetEnvPrefix("EJECTION")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load reads the configuration from viper, applying defaults for any value not set by the
// config file, the environment or flags.
func Load() (Config, error) {
	viper.SetDefault("catalog.driver", "toml")
	viper.SetDefault("catalog.path", "")
	viper.SetDefault("catalog.dsn", "ejection.db")
	viper.SetDefault("catalog.watch", false)
	viper.SetDefault("transfer.parking_altitude", BodyAltitude)
	viper.SetDefault("transfer.target_altitude", BodyAltitude)
	viper.SetDefault("log.format", "logfmt")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.rate", 10.0)
	viper.SetDefault("server.burst", 20)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated values and bounds.
func (c Config) Validate() error {
	var errs []error
	switch c.Catalog.Driver {
	case "toml":
		if c.Catalog.Watch && c.Catalog.Path == "" {
			errs = append(errs, errors.New("catalog.watch requires catalog.path"))
		}
	case "sqlite", "mysql":
		if c.Catalog.DSN == "" {
			errs = append(errs, fmt.Errorf("catalog.dsn is required by the %s driver", c.Catalog.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown catalog.driver %q", c.Catalog.Driver))
	}
	if alt := c.Transfer.ParkingAltitude; !validAltitude(alt) {
		errs = append(errs, fmt.Errorf("transfer.parking_altitude=%g must be finite and positive or %g", alt, BodyAltitude))
	}
	if alt := c.Transfer.TargetAltitude; !validAltitude(alt) {
		errs = append(errs, fmt.Errorf("transfer.target_altitude=%g must be finite and positive or %g", alt, BodyAltitude))
	}
	switch c.Log.Format {
	case "logfmt", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log.level %q", c.Log.Level))
	}
	if c.Server.Rate < 0 || c.Server.Burst < 0 {
		errs = append(errs, errors.New("server.rate and server.burst must be positive"))
	}
	if c.Server.Rate > 0 && c.Server.Burst == 0 {
		errs = append(errs, errors.New("server.burst must be at least 1 when server.rate is set"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func validAltitude(alt float64) bool {
	if math.IsNaN(alt) || math.IsInf(alt, 0) {
		return false
	}
	return alt >= 0 || alt == BodyAltitude
}

// Altitude returns the altitude to use around the body: the configured one, or the body's own
// altitude when set to BodyAltitude.
func Altitude(configured float64, b *ejection.Body) float64 {
	if configured == BodyAltitude {
		return b.Altitude()
	}
	return configured
}

// AltitudeFunc returns the survey altitude function for the configured altitude.
func AltitudeFunc(configured float64) ejection.AltitudeFunc {
	return func(b *ejection.Body) float64 {
		return Altitude(configured, b)
	}
}
