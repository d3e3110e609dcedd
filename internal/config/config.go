// Package config loads the runtime settings for the database client and the
// command line tool from config files, .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/stuck-lehnert/cloud/runtime/client"
)

// AppFs is the filesystem used to probe for config and .env files.
var AppFs = afero.NewOsFs()

// Config holds the application configuration.
type Config struct {
	DatabaseURL      string        `mapstructure:"database_url"`
	Provider         string        `mapstructure:"provider"`
	MaxOpenConns     int           `mapstructure:"max_open_conns"`
	MaxIdleConns     int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime  time.Duration `mapstructure:"conn_max_lifetime"`
	QueryTimeout     time.Duration `mapstructure:"query_timeout"`
	Debug            bool          `mapstructure:"debug"`
	BatchConcurrency int           `mapstructure:"batch_concurrency"`
}

// Load reads the configuration. An explicit file path wins over the search
// path (., $HOME, $HOME/.config/cloud). Environment variables prefixed with
// CLOUD_ override file values; DATABASE_URL and POSTGRES_DSN are accepted
// for the connection string.
func Load(file string) (*Config, error) {
	v := viper.New()
	v.SetFs(AppFs)

	v.SetDefault("provider", "postgres")
	v.SetDefault("max_open_conns", 10)
	v.SetDefault("max_idle_conns", 3)
	v.SetDefault("conn_max_lifetime", 30*time.Minute)
	v.SetDefault("query_timeout", 30*time.Second)
	v.SetDefault("debug", false)
	v.SetDefault("batch_concurrency", 4)

	loadDotEnv()

	v.SetEnvPrefix("CLOUD")
	v.AutomaticEnv()
	if err := v.BindEnv("database_url", "CLOUD_DATABASE_URL", "DATABASE_URL", "POSTGRES_DSN"); err != nil {
		return nil, err
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, err
		}

		v.SetConfigName(".cloud")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(home)
		v.AddConfigPath(filepath.Join(home, ".config", "cloud"))

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
	return cfg, nil
}

// loadDotEnv loads .env and then .env.local, the latter overriding.
// Missing or unreadable files are skipped.
func loadDotEnv() {
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}
}

// Validate reports settings the client cannot start with.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database_url is not set (use --database-url, CLOUD_DATABASE_URL or DATABASE_URL)")
	}
	if _, err := client.DriverName(c.Provider); err != nil {
		return err
	}
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("batch_concurrency must be at least 1, got %d", c.BatchConcurrency)
	}
	return nil
}

// ClientOptions translates the configuration into client options.
func (c *Config) ClientOptions() []client.Option {
	return []client.Option{
		client.WithProvider(c.Provider),
		client.WithDatabaseURL(c.DatabaseURL),
		client.WithMaxOpenConns(c.MaxOpenConns),
		client.WithMaxIdleConns(c.MaxIdleConns),
		client.WithConnMaxLifetime(c.ConnMaxLifetime),
		client.WithQueryTimeout(c.QueryTimeout),
	}
}
