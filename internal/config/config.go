// Package config loads the settings of one onectl invocation.
//
// Configuration is merged from, highest priority first:
//  1. bound command line flags
//  2. environment variables (ONE_URL, ONE_USERNAME, ONE_PASSWORD and
//     ONECTL_* for everything else, e.g. ONECTL_WAIT_TIMEOUT)
//  3. an optional onectl.yaml file
//  4. default values
//
// Every call to Load builds a fresh viper instance, so no settings are
// shared between invocations.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jbweber/onectl/internal/one"
)

// Config is the root configuration structure. It is read-only after Load.
type Config struct {
	APIURL        string        `mapstructure:"api_url"`
	APIUsername   string        `mapstructure:"api_username"`
	APIPassword   string        `mapstructure:"api_password"`
	ValidateCerts bool          `mapstructure:"validate_certs"`
	WaitTimeout   time.Duration `mapstructure:"wait_timeout"`
	RetryInterval time.Duration `mapstructure:"retry_interval"`
	Log           LogConfig     `mapstructure:"log"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// Options controls where Load looks for settings.
type Options struct {
	// File is an explicit config file. If empty, onectl.yaml is searched
	// for in the working directory and /etc/onectl, and is optional.
	File string

	// Flags are bound by name, see flagKeys. Other flags are ignored.
	Flags *pflag.FlagSet
}

// envBindings maps keys to the variables OpenNebula tooling reads.
var envBindings = map[string]string{
	"api_url":      "ONE_URL",
	"api_username": "ONE_USERNAME",
	"api_password": "ONE_PASSWORD",
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"api-url":        "api_url",
	"api-username":   "api_username",
	"api-password":   "api_password",
	"validate-certs": "validate_certs",
	"wait-timeout":   "wait_timeout",
	"retry-interval": "retry_interval",
	"log-level":      "log.level",
	"log-format":     "log.format",
}

// Load reads configuration from flags, environment, file and defaults.
func Load(opts Options) (*Config, error) {
	v := viper.New()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("onectl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/onectl")
	}

	v.SetEnvPrefix("ONECTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	setDefaults(v)

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file is optional, use defaults and env vars
	}

	// Registered after reading so file values under an alias move to the key
	v.RegisterAlias("api_endpoint", "api_url")
	v.RegisterAlias("api_token", "api_password")

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		secondsToDurationHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", "")
	v.SetDefault("api_username", "")
	v.SetDefault("api_password", "")
	v.SetDefault("validate_certs", true)
	v.SetDefault("wait_timeout", "300s")
	v.SetDefault("retry_interval", "1s")

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// secondsToDurationHook reads bare numbers as seconds, so "wait_timeout: 300"
// means five minutes.
func secondsToDurationHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		if to != durationType || from == durationType {
			return data, nil
		}
		switch from.Kind() {
		case reflect.String:
			if n, err := strconv.Atoi(reflect.ValueOf(data).String()); err == nil {
				return time.Duration(n) * time.Second, nil
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return time.Duration(reflect.ValueOf(data).Int()) * time.Second, nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return time.Duration(reflect.ValueOf(data).Uint()) * time.Second, nil
		case reflect.Float32, reflect.Float64:
			return time.Duration(reflect.ValueOf(data).Float() * float64(time.Second)), nil
		}
		return data, nil
	}
}

// Validate checks for critical configuration errors.
func (c *Config) Validate() error {
	if c.WaitTimeout <= 0 {
		return fmt.Errorf("wait_timeout must be > 0, got %s", c.WaitTimeout)
	}
	if c.RetryInterval <= 0 {
		return fmt.Errorf("retry_interval must be > 0, got %s", c.RetryInterval)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// Client returns the connection settings for the remote client.
func (c *Config) Client() one.Config {
	return one.Config{
		URL:           c.APIURL,
		Username:      c.APIUsername,
		Password:      c.APIPassword,
		ValidateCerts: c.ValidateCerts,
		RetryInterval: c.RetryInterval,
	}
}
