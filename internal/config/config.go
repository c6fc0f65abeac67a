// Package config provides functionality for managing configuration options
// of the DevHub dev backend using command-line flags, a JSON config file and
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"
)

// Options holds the configuration values for the server.
type Options struct {
	// Port defines the server's listening address (ip:port).
	Port string `json:"address"`

	// DatabaseDSN holds the database connection string.
	DatabaseDSN string `json:"database_dsn"`

	// Config is the path to the config file.
	Config string `json:"-"`

	// JWTSecret signs access and refresh tokens.
	JWTSecret string `json:"jwt_secret"`

	// AccessTTL is the lifetime of an access token.
	AccessTTL Duration `json:"access_ttl"`

	// RefreshTTL is the lifetime of a refresh token.
	RefreshTTL Duration `json:"refresh_ttl"`

	// CleanupInterval is how often expired refresh tokens are purged.
	CleanupInterval Duration `json:"cleanup_interval"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`

	// LogLevel is the zap level name.
	LogLevel string `json:"log_level"`
}

// Duration is a time.Duration read from JSON as a string like "5m".
type Duration struct {
	time.Duration
}

// UnmarshalJSON accepts "90s"-style strings.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Defaults.
const (
	DefaultAddress         = "localhost:8080"
	DefaultAccessTTL       = 5 * time.Minute
	DefaultRefreshTTL      = 24 * time.Hour
	DefaultCleanupInterval = time.Hour
)

// ErrNoSecret is returned when no JWT signing secret is configured.
var ErrNoSecret = errors.New("jwt secret is required (-s flag or JWT_SECRET)")

// Parse reads flags from args, then the config file, then the environment.
// Later sources win for the fields they set.
func Parse(fs *flag.FlagSet, args []string, getenv func(string) string) (*Options, error) {
	opts := &Options{}
	var accessTTL, refreshTTL, cleanup time.Duration

	fs.StringVar(&opts.Port, "a", DefaultAddress, "run on ip:port server")
	fs.StringVar(&opts.DatabaseDSN, "d", "", "db address")
	fs.StringVar(&opts.Config, "config", "config.json", "path to config file")
	fs.StringVar(&opts.Config, "c", "config.json", "path to config file (shorthand)")
	fs.StringVar(&opts.JWTSecret, "s", "", "jwt signing secret")
	fs.DurationVar(&accessTTL, "access-ttl", DefaultAccessTTL, "access token lifetime")
	fs.DurationVar(&refreshTTL, "refresh-ttl", DefaultRefreshTTL, "refresh token lifetime")
	fs.DurationVar(&cleanup, "cleanup-interval", DefaultCleanupInterval, "expired token purge interval")
	fs.StringVar(&opts.TLSCert, "tls-cert", "", "TLS certificate file")
	fs.StringVar(&opts.TLSKey, "tls-key", "", "TLS key file")
	fs.StringVar(&opts.LogLevel, "l", "info", "log level")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.AccessTTL.Duration = accessTTL
	opts.RefreshTTL.Duration = refreshTTL
	opts.CleanupInterval.Duration = cleanup

	if configPath := getenv("CONFIG"); configPath != "" {
		opts.Config = configPath
	}

	if opts.Config != "" {
		if _, err := os.Stat(opts.Config); err == nil {
			data, err := os.ReadFile(opts.Config)
			if err != nil {
				return nil, fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, opts); err != nil {
				return nil, fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	if serverAddress := getenv("SERVER_ADDRESS"); serverAddress != "" {
		opts.Port = serverAddress
	}
	if dsn := getenv("DATABASE_DSN"); dsn != "" {
		opts.DatabaseDSN = dsn
	}
	if secret := getenv("JWT_SECRET"); secret != "" {
		opts.JWTSecret = secret
	}

	if opts.JWTSecret == "" {
		return nil, ErrNoSecret
	}
	if opts.AccessTTL.Duration <= 0 || opts.RefreshTTL.Duration <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	if opts.CleanupInterval.Duration <= 0 {
		opts.CleanupInterval.Duration = DefaultCleanupInterval
	}
	return opts, nil
}
