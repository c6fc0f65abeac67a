package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(kv map[string]string) func(string) string {
	return func(k string) string { return kv[k] }
}

func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("devhub-server", flag.ContinueOnError)
}

func TestParse_Defaults(t *testing.T) {
	opts, err := Parse(newFlagSet(), []string{"-s", "k", "-c", ""}, env(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultAddress, opts.Port)
	assert.Equal(t, DefaultAccessTTL, opts.AccessTTL.Duration)
	assert.Equal(t, DefaultRefreshTTL, opts.RefreshTTL.Duration)
	assert.Equal(t, DefaultCleanupInterval, opts.CleanupInterval.Duration)
	assert.Equal(t, "info", opts.LogLevel)
}

func TestParse_RequiresSecret(t *testing.T) {
	_, err := Parse(newFlagSet(), []string{"-c", ""}, env(nil))
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestParse_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"address": ":9000",
		"database_dsn": "postgres://file",
		"jwt_secret": "from-file",
		"access_ttl": "90s"
	}`), 0o600))

	opts, err := Parse(newFlagSet(), nil, env(map[string]string{
		"CONFIG":       path,
		"DATABASE_DSN": "postgres://env",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9000", opts.Port)
	assert.Equal(t, "postgres://env", opts.DatabaseDSN)
	assert.Equal(t, "from-file", opts.JWTSecret)
	assert.Equal(t, 90*time.Second, opts.AccessTTL.Duration)

	opts, err = Parse(newFlagSet(), nil, env(map[string]string{
		"CONFIG":         path,
		"SERVER_ADDRESS": ":7000",
		"JWT_SECRET":     "from-env",
	}))
	require.NoError(t, err)
	assert.Equal(t, ":7000", opts.Port)
	assert.Equal(t, "from-env", opts.JWTSecret)
}

func TestParse_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"access_ttl": 5}`), 0o600))

	_, err := Parse(newFlagSet(), []string{"-c", path, "-s", "k"}, env(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error while parsing config file")
}

func TestParse_RejectsNonPositiveTTL(t *testing.T) {
	_, err := Parse(newFlagSet(), []string{"-c", "", "-s", "k", "-access-ttl", "0s"}, env(nil))
	assert.Error(t, err)
}
