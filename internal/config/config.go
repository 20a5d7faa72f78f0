// Package config loads portdash settings from a TOML file under the user
// config directory, with PORTDASH_* environment overrides.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"portdash/internal/netcheck"
)

// Config holds every tunable of the discovery pipeline and the dashboard.
type Config struct {
	Addr         string        `mapstructure:"addr"`
	ExternalURL  string        `mapstructure:"external_url"`
	EchoURL      string        `mapstructure:"echo_url"`
	EchoTimeout  time.Duration `mapstructure:"echo_timeout"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
	CPUWindow    time.Duration `mapstructure:"cpu_window"`
	Workers      int           `mapstructure:"workers"`
	StopTimeout  time.Duration `mapstructure:"stop_timeout"`
}

// defaultValues feeds both viper defaults and the written-out config file.
// Durations are stored as strings so the TOML stays human-editable.
func defaultValues() map[string]any {
	return map[string]any{
		"addr":          ":8000",
		"external_url":  "",
		"echo_url":      netcheck.DefaultEchoURL,
		"echo_timeout":  netcheck.DefaultEchoTimeout.String(),
		"probe_timeout": time.Second.String(),
		"cpu_window":    (100 * time.Millisecond).String(),
		"workers":       8,
		"stop_timeout":  (5 * time.Second).String(),
	}
}

// Path returns the config file location.
func Path() string {
	return filepath.Join(xdg.ConfigHome, "portdash", "config.toml")
}

func dir() string {
	return filepath.Dir(Path())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(dir())
	v.SetEnvPrefix("PORTDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, val := range defaultValues() {
		v.SetDefault(key, val)
	}
	return v
}

// Load reads the config file, falling back to defaults when it does not
// exist. A malformed file returns the defaults along with the parse error.
func Load() (*Config, error) {
	v := newViper()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return defaults(), err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return defaults(), err
	}
	return &cfg, nil
}

// Reset writes a config file populated with defaults.
func Reset() error {
	if err := os.MkdirAll(dir(), 0o755); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("toml")
	for key, val := range defaultValues() {
		v.Set(key, val)
	}
	return v.WriteConfigAs(Path())
}

func defaults() *Config {
	cfg := &Config{}
	v := viper.New()
	for key, val := range defaultValues() {
		v.Set(key, val)
	}
	// Defaults are statically known to unmarshal cleanly.
	_ = v.Unmarshal(cfg)
	return cfg
}
