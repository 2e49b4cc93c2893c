// Package config loads PartnerDesk settings from defaults, a YAML file, a .env
// file and PARTNERDESK_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PARTNERDESK_API_BASE_URL.
const EnvPrefix = "PARTNERDESK"

// Config represents the full PartnerDesk configuration
type Config struct {
	API      APIConfig      `yaml:"api" mapstructure:"api"`
	Session  SessionConfig  `yaml:"session" mapstructure:"session"`
	Transfer TransferConfig `yaml:"transfer" mapstructure:"transfer"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Storage  StorageConfig  `yaml:"storage" mapstructure:"storage"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// APIConfig points the client at the REST collaborator
type APIConfig struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Token   string        `yaml:"token" mapstructure:"token"`
}

// SessionConfig locates the persisted login
type SessionConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// TransferConfig selects how transfers update balances
type TransferConfig struct {
	Strategy string `yaml:"strategy" mapstructure:"strategy"`
}

// ServerConfig configures the collaborator server
type ServerConfig struct {
	HTTPAddr       string        `yaml:"http_addr" mapstructure:"http_addr"`
	GRPCAddr       string        `yaml:"grpc_addr" mapstructure:"grpc_addr"`
	APIToken       string        `yaml:"api_token" mapstructure:"api_token"`
	Seed           bool          `yaml:"seed" mapstructure:"seed"`
	HealthInterval time.Duration `yaml:"health_interval" mapstructure:"health_interval"`
}

// StorageConfig selects the server's storage backend
type StorageConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// Dir returns the per-user PartnerDesk directory, $HOME/.partnerdesk.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".partnerdesk"
	}
	return filepath.Join(home, ".partnerdesk")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:3000")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("api.token", "")
	v.SetDefault("session.path", filepath.Join(Dir(), "session.json"))
	v.SetDefault("transfer.strategy", "compensated")
	v.SetDefault("server.http_addr", ":3000")
	v.SetDefault("server.grpc_addr", ":50051")
	v.SetDefault("server.api_token", "")
	v.SetDefault("server.seed", true)
	v.SetDefault("server.health_interval", 15*time.Second)
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.dsn", filepath.Join("data", "partnerdesk.db"))
	v.SetDefault("log.level", "info")
}

// Load reads the configuration. When configFile is empty, partnerdesk.yaml is
// searched in the working directory and then in Dir(); a missing file is not an
// error. A .env file in the working directory is loaded first.
func Load(configFile string) (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("log.level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind LOG_LEVEL: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("partnerdesk")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(Dir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is ignored.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url must be set")
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	if c.Server.HealthInterval <= 0 {
		return errors.New("server.health_interval must be positive")
	}
	switch c.Storage.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("storage.driver must be sqlite or postgres, got %q", c.Storage.Driver)
	}
	switch c.Transfer.Strategy {
	case "", "compensated", "concurrent":
	default:
		return fmt.Errorf("transfer.strategy must be compensated or concurrent, got %q", c.Transfer.Strategy)
	}
	return nil
}
