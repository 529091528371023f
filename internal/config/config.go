package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the main structure mapping the entire application configuration.
// This struct uses mapstructure tags to map YAML/JSON keys to Go struct fields.
type Config struct {
	// Server configuration section containing HTTP server settings
	Server struct {
		Port    int    `mapstructure:"port"`     // HTTP server port (default: 8080)
		BaseURL string `mapstructure:"base_url"` // Base URL for generating share links
	} `mapstructure:"server"`

	// Store configuration: which snapshot backend to use and where it lives
	Store struct {
		Backend string `mapstructure:"backend"` // "file", "sqlite" or "memory"
		Path    string `mapstructure:"path"`    // Backing file for the file backend
	} `mapstructure:"store"`

	// Database configuration used by the sqlite backend and 'migrate'
	Database struct {
		Name string `mapstructure:"name"` // SQLite database file name
	} `mapstructure:"database"`

	// Retention configuration: how long snippets live after creation
	Retention struct {
		Days int `mapstructure:"days"` // Retention window in days (default: 30)
	} `mapstructure:"retention"`

	// Sweeper configuration for the periodic retention sweep
	Sweeper struct {
		IntervalMinutes int `mapstructure:"interval_minutes"` // Sweep interval in minutes, 0 disables
	} `mapstructure:"sweeper"`

	// Notify configuration for outbound contact form delivery
	Notify struct {
		Endpoint    string `mapstructure:"endpoint"`     // Outbound notification URL, empty disables
		BufferSize  int    `mapstructure:"buffer_size"`  // Size of the contact event channel buffer
		WorkerCount int    `mapstructure:"worker_count"` // Number of delivery worker goroutines
	} `mapstructure:"notify"`
}

// LoadConfig loads the application configuration using Viper.
// It supports environment variable overrides and YAML configuration files.
// Returns a populated Config struct or an error if configuration loading fails.
func LoadConfig() (*Config, error) {
	// Enable automatic environment variable binding
	viper.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	// e.g., "store.path" becomes "STORE_PATH"
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.AddConfigPath("./configs")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Defaults are used when no config file is found or keys are missing
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.base_url", "http://localhost:8080")
	viper.SetDefault("store.backend", "file")
	viper.SetDefault("store.path", "data/snippets.json")
	viper.SetDefault("database.name", "texttide.db")
	viper.SetDefault("retention.days", 30)
	viper.SetDefault("sweeper.interval_minutes", 60)
	viper.SetDefault("notify.endpoint", "")
	viper.SetDefault("notify.buffer_size", 100)
	viper.SetDefault("notify.worker_count", 2)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Not fatal - run on defaults
			log.Println("Config file not found, using default values")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
