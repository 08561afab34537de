package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/synsekit/synse-go/synse"
)

// Config is the root configuration structure for synsectl.
// All configuration is loaded from YAML and can be overridden by environment
// variables.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig identifies the Synse Server instance to talk to.
type ServerConfig struct {
	// Address is the server as "host" or "host:port". A bare host uses the
	// default Synse port (5000).
	Address string `yaml:"address"`

	// Timeout is the per-request timeout in seconds.
	Timeout int `yaml:"timeout"`

	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig contains TLS settings for the server connection.
type TLSConfig struct {
	Enabled    bool   `yaml:"enabled"`
	SkipVerify bool   `yaml:"skip_verify"`
	CertFile   string `yaml:"cert_file"`
	KeyFile    string `yaml:"key_file"`
}

// WebSocketConfig contains WebSocket keepalive settings, used by commands
// that hold a persistent connection (watch).
type WebSocketConfig struct {
	PingInterval   int `yaml:"ping_interval"`
	PongTimeout    int `yaml:"pong_timeout"`
	MaxMessageSize int `yaml:"max_message_size"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment
// variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: SYNSE_SECTION_KEY.
// For example: SYNSE_SERVER_ADDRESS, SYNSE_SERVER_TIMEOUT.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// DefaultPath is the config file used when none is named explicitly.
const DefaultPath = "synsectl.yaml"

// LoadOrDefault loads the named config file when path is non-empty,
// otherwise the default config file when one exists, otherwise plain
// defaults. Environment overrides apply in every case.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return Load(DefaultPath)
	}

	cfg := Default()
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Default returns a Config with sensible defaults: a local Synse Server on
// its default port, 10s request timeout, text logs to stderr at warn level
// (a CLI's primary output channel is stdout, so logs stay out of its way).
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "localhost:5000",
			Timeout: 10,
		},
		WebSocket: WebSocketConfig{
			PingInterval:   30,
			PongTimeout:    60,
			MaxMessageSize: 2 * 1024 * 1024,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SYNSE_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("SYNSE_SERVER_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Timeout = n
		}
	}
	if v := os.Getenv("SYNSE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Address == "" {
		errs = append(errs, "server.address is required")
	}
	if c.Server.Timeout < 0 {
		errs = append(errs, "server.timeout must not be negative")
	}
	if (c.Server.TLS.CertFile == "") != (c.Server.TLS.KeyFile == "") {
		errs = append(errs, "server.tls.cert_file and server.tls.key_file must be set together")
	}
	if c.WebSocket.PingInterval < 0 || c.WebSocket.PongTimeout < 0 {
		errs = append(errs, "websocket intervals must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// ClientOptions converts the configuration into client options for the
// synse package.
func (c *Config) ClientOptions() *synse.Options {
	return &synse.Options{
		Address: c.Server.Address,
		Timeout: time.Duration(c.Server.Timeout) * time.Second,
		TLS: synse.TLSOptions{
			Enabled:    c.Server.TLS.Enabled,
			SkipVerify: c.Server.TLS.SkipVerify,
			CertFile:   c.Server.TLS.CertFile,
			KeyFile:    c.Server.TLS.KeyFile,
		},
		WebSocket: synse.WebSocketOptions{
			PingInterval:   time.Duration(c.WebSocket.PingInterval) * time.Second,
			PongTimeout:    time.Duration(c.WebSocket.PongTimeout) * time.Second,
			MaxMessageSize: int64(c.WebSocket.MaxMessageSize),
		},
	}
}
