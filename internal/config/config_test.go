package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ONE_URL", "ONE_USERNAME", "ONE_PASSWORD",
		"ONECTL_WAIT_TIMEOUT", "ONECTL_RETRY_INTERVAL", "ONECTL_VALIDATE_CERTS",
		"ONECTL_LOG_LEVEL", "ONECTL_LOG_FORMAT",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "onectl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Empty(t, cfg.APIURL)
	assert.True(t, cfg.ValidateCerts)
	assert.Equal(t, 300*time.Second, cfg.WaitTimeout)
	assert.Equal(t, time.Second, cfg.RetryInterval)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ONE_URL", "https://one.example.com:2633/RPC2")
	t.Setenv("ONE_USERNAME", "oneadmin")
	t.Setenv("ONE_PASSWORD", "secret")
	t.Setenv("ONECTL_WAIT_TIMEOUT", "60")
	t.Setenv("ONECTL_LOG_FORMAT", "json")

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "https://one.example.com:2633/RPC2", cfg.APIURL)
	assert.Equal(t, "oneadmin", cfg.APIUsername)
	assert.Equal(t, "secret", cfg.APIPassword)
	assert.Equal(t, 60*time.Second, cfg.WaitTimeout, "bare numbers are seconds")
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
api_endpoint: http://one:2633/RPC2
api_username: alice
api_token: token
validate_certs: false
wait_timeout: 120
retry_interval: 500ms
log:
  level: debug
`)

	cfg, err := Load(Options{File: path})
	require.NoError(t, err)

	assert.Equal(t, "http://one:2633/RPC2", cfg.APIURL, "api_endpoint is an alias")
	assert.Equal(t, "token", cfg.APIPassword, "api_token is an alias")
	assert.False(t, cfg.ValidateCerts)
	assert.Equal(t, 120*time.Second, cfg.WaitTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryInterval)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("ONE_USERNAME", "from-env")
	path := writeFile(t, "api_username: from-file\n")

	cfg, err := Load(Options{File: path})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.APIUsername)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ONE_URL", "http://env:2633/RPC2")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("api-url", "", "")
	fs.Duration("wait-timeout", 0, "")
	fs.String("log-level", "info", "")
	fs.Bool("unrelated", false, "")
	require.NoError(t, fs.Parse([]string{"--api-url", "http://flag:2633/RPC2", "--wait-timeout", "10s"}))

	cfg, err := Load(Options{Flags: fs})
	require.NoError(t, err)
	assert.Equal(t, "http://flag:2633/RPC2", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.WaitTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(Options{File: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "wait_timeout: 0\n")

	_, err := Load(Options{File: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wait_timeout must be > 0")
}

func TestValidate(t *testing.T) {
	valid := Config{WaitTimeout: time.Second, RetryInterval: time.Second, Log: LogConfig{Format: "json"}}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "negative timeout", modify: func(c *Config) { c.WaitTimeout = -time.Second }, wantErr: "wait_timeout"},
		{name: "zero retry", modify: func(c *Config) { c.RetryInterval = 0 }, wantErr: "retry_interval"},
		{name: "bad format", modify: func(c *Config) { c.Log.Format = "xml" }, wantErr: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Client(t *testing.T) {
	cfg := Config{
		APIURL:        "http://one:2633/RPC2",
		APIUsername:   "alice",
		APIPassword:   "secret",
		ValidateCerts: true,
		RetryInterval: 2 * time.Second,
	}

	c := cfg.Client()
	assert.Equal(t, "http://one:2633/RPC2", c.URL)
	assert.Equal(t, "alice", c.Username)
	assert.Equal(t, "secret", c.Password)
	assert.True(t, c.ValidateCerts)
	assert.Equal(t, 2*time.Second, c.RetryInterval)
}
