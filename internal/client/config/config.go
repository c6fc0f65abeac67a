// Package config resolves the DevHub client settings from the YAML config
// file in the client home directory and DEVHUB_* environment variables.
// Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the name of the config file inside the home directory.
const File = "config.yaml"

// Defaults.
const (
	DefaultAPIURL   = "http://localhost:8080/api/v1/"
	DefaultLogLevel = "warn"
	DefaultTimeout  = 30 * time.Second
)

// Config holds the client settings.
type Config struct {
	// Home is the directory holding config.yaml and credentials.yaml.
	Home string `yaml:"-"`
	// APIURL is the backend base URL.
	APIURL string `yaml:"api_url"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// Timeout bounds each HTTP request; zero disables it.
	Timeout time.Duration `yaml:"timeout"`
	// CAFile is an extra PEM root trusted for an HTTPS backend, typically the
	// self-signed certificate of a local dev server.
	CAFile string `yaml:"ca_file"`
}

// DefaultHome returns ~/.devhub.
func DefaultHome() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(dir, ".devhub"), nil
}

// Load reads <home>/config.yaml when present, then applies environment
// overrides. A missing file yields the defaults.
func Load(home string, getenv func(string) string) (Config, error) {
	cfg := Config{
		Home:     home,
		APIURL:   DefaultAPIURL,
		LogLevel: DefaultLogLevel,
		Timeout:  DefaultTimeout,
	}

	data, err := os.ReadFile(filepath.Join(home, File))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv("DEVHUB_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := getenv("DEVHUB_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := getenv("DEVHUB_CA_FILE"); v != "" {
		cfg.CAFile = v
	}
	if v := getenv("DEVHUB_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("DEVHUB_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	if cfg.Timeout < 0 {
		return cfg, errors.New("timeout must not be negative")
	}
	return cfg, nil
}
