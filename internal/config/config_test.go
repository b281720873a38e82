package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServerDefaults(t *testing.T) {
	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "Go Calculator", cfg.AppName)
	assert.Equal(t, "1.0.0", cfg.AppVersion)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.TelemetryEnabled)
}

func TestLoadServerFromEnv(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("APP_VERSION", "2.1.0")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("SHUTDOWN_TIMEOUT", "250ms")
	t.Setenv("TELEMETRY_ENABLED", "true")

	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "2.1.0", cfg.AppVersion)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 250*time.Millisecond, cfg.ShutdownTimeout)
	assert.True(t, cfg.TelemetryEnabled)
}

func TestLoadServerRejectsNonPositiveShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "0s")

	_, err := LoadServer()
	require.Error(t, err)
}

func TestLoadClientDefaults(t *testing.T) {
	cfg, err := LoadClient(nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.False(t, cfg.StrictInput)
	assert.Empty(t, cfg.LogFile)
}

func TestLoadClientFlagsOverrideEnv(t *testing.T) {
	t.Setenv("CALC_SERVER_URL", "http://env.test")
	t.Setenv("CALC_LOG_FILE", "/tmp/env.log")

	flags := pflag.NewFlagSet("calc", pflag.ContinueOnError)
	flags.String("server", "", "")
	flags.Bool("strict", false, "")
	flags.String("log-file", "", "")
	require.NoError(t, flags.Parse([]string{"--server", "http://flag.test", "--strict"}))

	cfg, err := LoadClient(flags)
	require.NoError(t, err)

	assert.Equal(t, "http://flag.test", cfg.ServerURL)
	assert.True(t, cfg.StrictInput)
	assert.Equal(t, "/tmp/env.log", cfg.LogFile)
}
