// Package config handles configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Embedding EmbeddingConfig `mapstructure:"embedding" yaml:"embedding"`
	Bridge    BridgeConfig    `mapstructure:"bridge" yaml:"bridge"`
	Demo      DemoConfig      `mapstructure:"demo" yaml:"demo"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// DatabaseConfig contains the direct MySQL-protocol connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	User            string        `mapstructure:"user" yaml:"user"`
	Password        string        `mapstructure:"password" yaml:"password"`
	Name            string        `mapstructure:"name" yaml:"name"`                           // database name
	Params          string        `mapstructure:"params" yaml:"params"`                       // extra DSN parameters
	MaxOpenConns    int           `mapstructure:"max_open_conns" yaml:"max_open_conns"`       // connection pool size
	MaxIdleConns    int           `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`       // idle connections kept
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"` // e.g., "5m"
	ConnectAttempts int           `mapstructure:"connect_attempts" yaml:"connect_attempts"`   // initial connect retries
	ConnectBackoff  time.Duration `mapstructure:"connect_backoff" yaml:"connect_backoff"`     // delay between retries
}

// EmbeddingConfig contains embedding provider configuration.
type EmbeddingConfig struct {
	Provider        string `mapstructure:"provider" yaml:"provider"`                   // bedrock, openai
	Model           string `mapstructure:"model" yaml:"model"`                         // model id
	Region          string `mapstructure:"region" yaml:"region"`                       // AWS region
	AccessKeyID     string `mapstructure:"access_key_id" yaml:"access_key_id"`         // AWS access key
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key"` // AWS secret key
	Endpoint        string `mapstructure:"endpoint" yaml:"endpoint"`                   // OpenAI-compatible endpoint
	APIKey          string `mapstructure:"api_key" yaml:"api_key"`                     // OpenAI API key
	Dimensions      int    `mapstructure:"dimensions" yaml:"dimensions"`               // expected vector size, 0 = model default
	BatchSize       int    `mapstructure:"batch_size" yaml:"batch_size"`               // texts per batch
}

// BridgeConfig contains the MCP bridge settings. When enabled, queries go
// through an MCP tool taking a SQL string instead of the direct connection.
type BridgeConfig struct {
	Enabled    bool          `mapstructure:"enabled" yaml:"enabled"`
	ServerName string        `mapstructure:"server_name" yaml:"server_name"` // logical server name
	Tool       string        `mapstructure:"tool" yaml:"tool"`               // tool taking {"query": sql}
	Command    string        `mapstructure:"command" yaml:"command"`         // stdio server command
	Args       []string      `mapstructure:"args" yaml:"args"`
	Env        []string      `mapstructure:"env" yaml:"env"` // extra KEY=VALUE entries
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Simulate   bool          `mapstructure:"simulate" yaml:"simulate"` // canned results, no server
}

// DemoConfig contains demo and query defaults.
type DemoConfig struct {
	Table string `mapstructure:"table" yaml:"table"` // property table name
	Limit int    `mapstructure:"limit" yaml:"limit"` // default result limit
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text, json
}

// DefaultConfig returns the default configuration. The defaults target a
// local OceanBase MySQL-mode instance so the binary runs with no config file.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:            "127.0.0.1",
			Port:            2881,
			User:            "root@test",
			Password:        "",
			Name:            "real_estate_investments",
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
			ConnectAttempts: 3,
			ConnectBackoff:  2 * time.Second,
		},
		Embedding: EmbeddingConfig{
			Provider:  "bedrock",
			Model:     "amazon.titan-embed-text-v2:0",
			Region:    "us-east-1",
			BatchSize: 16,
		},
		Bridge: BridgeConfig{
			Enabled:    false,
			ServerName: "oceanbase",
			Tool:       "execute_sql",
			Timeout:    30 * time.Second,
		},
		Demo: DemoConfig{
			Table: "property_listings",
			Limit: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ConfigDir returns the path to the .homequery directory.
func ConfigDir(projectRoot string) string {
	return filepath.Join(projectRoot, ".homequery")
}

// ConfigPath returns the path to config.yaml.
func ConfigPath(projectRoot string) string {
	return filepath.Join(ConfigDir(projectRoot), "config.yaml")
}

// Load loads configuration from file, falling back to defaults. Environment
// overrides are applied here so no other component reads the environment.
func Load(projectRoot string) (*Config, []string, error) {
	cfg := DefaultConfig()
	warnings := []string{}

	configPath := ConfigPath(projectRoot)

	// Check if config exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		warnings = append(warnings, "No config file found, using defaults")
		applyEnvOverrides(cfg)
		return cfg, warnings, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Apply defaults for missing values
	if cfg.Database.Host == "" {
		cfg.Database.Host = "127.0.0.1"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 2881
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "real_estate_investments"
		warnings = append(warnings, "Using default database name: real_estate_investments")
	}
	if cfg.Database.ConnectAttempts == 0 {
		cfg.Database.ConnectAttempts = 3
	}
	if cfg.Database.ConnectBackoff == 0 {
		cfg.Database.ConnectBackoff = 2 * time.Second
	}

	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "bedrock"
		warnings = append(warnings, "Using default embedding provider: bedrock")
	}
	if cfg.Embedding.Model == "" {
		cfg.Embedding.Model = "amazon.titan-embed-text-v2:0"
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 16
	}

	if cfg.Bridge.ServerName == "" {
		cfg.Bridge.ServerName = "oceanbase"
	}
	if cfg.Bridge.Tool == "" {
		cfg.Bridge.Tool = "execute_sql"
	}
	if cfg.Bridge.Timeout == 0 {
		cfg.Bridge.Timeout = 30 * time.Second
	}

	if cfg.Demo.Table == "" {
		cfg.Demo.Table = "property_listings"
	}
	if cfg.Demo.Limit == 0 {
		cfg.Demo.Limit = 10
	}

	applyEnvOverrides(cfg)

	return cfg, warnings, nil
}

// applyEnvOverrides applies documented environment variables on top of the
// loaded configuration:
//
//	HOMEQUERY_DB_HOST, HOMEQUERY_DB_PORT, HOMEQUERY_DB_USER,
//	HOMEQUERY_DB_PASSWORD, HOMEQUERY_DB_NAME
//	AWS_REGION, AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY
//	OPENAI_API_KEY
//	HOMEQUERY_BRIDGE_SERVER, HOMEQUERY_BRIDGE_TOOL, HOMEQUERY_BRIDGE_COMMAND
func applyEnvOverrides(cfg *Config) {
	envString("HOMEQUERY_DB_HOST", &cfg.Database.Host)
	envInt("HOMEQUERY_DB_PORT", &cfg.Database.Port)
	envString("HOMEQUERY_DB_USER", &cfg.Database.User)
	envString("HOMEQUERY_DB_PASSWORD", &cfg.Database.Password)
	envString("HOMEQUERY_DB_NAME", &cfg.Database.Name)

	envString("AWS_REGION", &cfg.Embedding.Region)
	envString("AWS_ACCESS_KEY_ID", &cfg.Embedding.AccessKeyID)
	envString("AWS_SECRET_ACCESS_KEY", &cfg.Embedding.SecretAccessKey)
	envString("OPENAI_API_KEY", &cfg.Embedding.APIKey)

	envString("HOMEQUERY_BRIDGE_SERVER", &cfg.Bridge.ServerName)
	envString("HOMEQUERY_BRIDGE_TOOL", &cfg.Bridge.Tool)
	envString("HOMEQUERY_BRIDGE_COMMAND", &cfg.Bridge.Command)
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Save saves configuration to file.
func Save(projectRoot string, cfg *Config) error {
	configDir := ConfigDir(projectRoot)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(ConfigPath(projectRoot))
	v.SetConfigType("yaml")

	// Set all values
	v.Set("database", cfg.Database)
	v.Set("embedding", cfg.Embedding)
	v.Set("bridge", cfg.Bridge)
	v.Set("demo", cfg.Demo)
	v.Set("logging", cfg.Logging)

	return v.WriteConfig()
}

// Validate validates the configuration.
func Validate(cfg *Config) []error {
	var errs []error

	if cfg.Database.Host == "" {
		errs = append(errs, fmt.Errorf("database host is required"))
	}
	if cfg.Database.Port < 1 || cfg.Database.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid database port: %d", cfg.Database.Port))
	}
	if cfg.Database.Name == "" {
		errs = append(errs, fmt.Errorf("database name is required"))
	}

	validEmbeddingProviders := map[string]bool{
		"bedrock": true, "openai": true,
	}
	if !validEmbeddingProviders[cfg.Embedding.Provider] {
		errs = append(errs, fmt.Errorf("invalid embedding provider: %s (valid: bedrock, openai)", cfg.Embedding.Provider))
	}
	if cfg.Embedding.Provider == "bedrock" && cfg.Embedding.Region == "" {
		errs = append(errs, fmt.Errorf("bedrock embedding requires a region"))
	}

	if cfg.Bridge.Enabled && !cfg.Bridge.Simulate && cfg.Bridge.Command == "" {
		errs = append(errs, fmt.Errorf("bridge is enabled but no command is configured"))
	}

	if cfg.Demo.Table == "" {
		errs = append(errs, fmt.Errorf("demo table name is required"))
	}
	if cfg.Demo.Limit < 1 {
		errs = append(errs, fmt.Errorf("demo limit must be positive: %d", cfg.Demo.Limit))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		errs = append(errs, fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", cfg.Logging.Level))
	}
	validLogFormats := map[string]bool{
		"text": true, "json": true, "": true,
	}
	if !validLogFormats[cfg.Logging.Format] {
		errs = append(errs, fmt.Errorf("invalid log format: %s (valid: text, json)", cfg.Logging.Format))
	}

	return errs
}

// DSN builds the go-sql-driver DSN for the direct connection.
func (c *Config) DSN() string {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
	if c.Database.Params != "" {
		dsn += "&" + c.Database.Params
	}
	return dsn
}

// Copy creates a deep copy of the config.
// Used for runtime modifications without affecting the original.
func (c *Config) Copy() *Config {
	copy := *c

	// Deep copy slices
	if c.Bridge.Args != nil {
		copy.Bridge.Args = make([]string, len(c.Bridge.Args))
		for i, v := range c.Bridge.Args {
			copy.Bridge.Args[i] = v
		}
	}
	if c.Bridge.Env != nil {
		copy.Bridge.Env = make([]string, len(c.Bridge.Env))
		for i, v := range c.Bridge.Env {
			copy.Bridge.Env[i] = v
		}
	}

	return &copy
}
