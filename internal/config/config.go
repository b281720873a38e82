// Package config loads service and client settings from the environment,
// an optional .env file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Server holds the calculator service settings.
type Server struct {
	ListenAddr       string        `mapstructure:"LISTEN_ADDR"`
	AppName          string        `mapstructure:"APP_NAME"`
	AppVersion       string        `mapstructure:"APP_VERSION"`
	Debug            bool          `mapstructure:"DEBUG"`
	CORSOrigins      []string      `mapstructure:"CORS_ALLOWED_ORIGINS"`
	ShutdownTimeout  time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	TelemetryEnabled bool          `mapstructure:"TELEMETRY_ENABLED"`
}

// Client holds the settings of the terminal calculator.
type Client struct {
	ServerURL        string `mapstructure:"CALC_SERVER_URL"`
	StrictInput      bool   `mapstructure:"CALC_STRICT_INPUT"`
	LogFile          string `mapstructure:"CALC_LOG_FILE"`
	TelemetryEnabled bool   `mapstructure:"TELEMETRY_ENABLED"`
}

// ClientFlags maps flag names to the client keys they override.
var ClientFlags = map[string]string{
	"server":   "CALC_SERVER_URL",
	"strict":   "CALC_STRICT_INPUT",
	"log-file": "CALC_LOG_FILE",
}

// LoadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// LoadServer reads the service settings.
func LoadServer() (Server, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("LISTEN_ADDR", ":8080")
	v.SetDefault("APP_NAME", "Go Calculator")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("DEBUG", false)
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SHUTDOWN_TIMEOUT", "5s")
	v.SetDefault("TELEMETRY_ENABLED", false)

	var cfg Server
	if err := v.Unmarshal(&cfg); err != nil {
		return Server{}, fmt.Errorf("decode server config: %w", err)
	}

	if cfg.ShutdownTimeout <= 0 {
		return Server{}, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", cfg.ShutdownTimeout)
	}

	return cfg, nil
}

// LoadClient reads the client settings. Flags that were set on the command
// line take precedence over the environment.
func LoadClient(flags *pflag.FlagSet) (Client, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("CALC_SERVER_URL", "http://localhost:8080")
	v.SetDefault("CALC_STRICT_INPUT", false)
	v.SetDefault("CALC_LOG_FILE", "")
	v.SetDefault("TELEMETRY_ENABLED", false)

	if flags != nil {
		for name, key := range ClientFlags {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Client{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Client
	if err := v.Unmarshal(&cfg); err != nil {
		return Client{}, fmt.Errorf("decode client config: %w", err)
	}

	if cfg.ServerURL == "" {
		return Client{}, errors.New("CALC_SERVER_URL is not set")
	}

	return cfg, nil
}
