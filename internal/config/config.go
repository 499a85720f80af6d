// Package config provides configuration management for go-pugtodo.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var AppVersion = "-unset-" // will be set at build time

const (
	// Default web settings
	DefaultListenPort      = 8000
	DefaultShutdownTimeout = 10 * time.Second

	// Default database settings
	DefaultConnectString  = "data/todo.sq3"
	DefaultMongoDatabase  = "todo"
	DefaultConnectTimeout = 10 * time.Second
	DefaultMaxOpenConns   = 16
	DefaultMaxIdleConns   = 4

	// EnvConnectString is the environment variable holding the store connection string
	EnvConnectString = "DB_CONNECT"
)

// MainConfig holds the main configuration for go-pugtodo
type MainConfig struct {
	// Web interface settings
	Web WebConfig `json:"web" yaml:"web"`

	// Database settings
	Database DatabaseConfig `json:"database" yaml:"database"`

	AppVersion string `json:"app_version" yaml:"-"` // Application version, set at build time
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenPort      int           `json:"listen_port" yaml:"listen_port"`
	SSL             bool          `json:"ssl" yaml:"ssl"`
	CertFile        string        `json:"cert_file,omitempty" yaml:"cert_file,omitempty"`
	KeyFile         string        `json:"key_file,omitempty" yaml:"key_file,omitempty"`
	Minify          bool          `json:"minify" yaml:"minify"`         // minify rendered HTML
	AccessLog       bool          `json:"access_log" yaml:"access_log"` // Apache style request log
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	Debug           bool          `json:"debug" yaml:"debug"` // gin debug mode
}

// DatabaseConfig holds database configuration.
// ConnectString selects the backend: mongodb:// or mongodb+srv:// for MongoDB,
// anything else is treated as a SQLite path or DSN.
// MongoDatabase is used when the URI carries no database name.
type DatabaseConfig struct {
	ConnectString  string        `json:"connect_string" yaml:"connect_string"`
	MongoDatabase  string        `json:"mongo_database" yaml:"mongo_database"`
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout"`

	// SQLite connection pool settings
	MaxOpenConns int    `json:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns" yaml:"max_idle_conns"`
	WALMode      bool   `json:"wal_mode" yaml:"wal_mode"`   // Write-Ahead Logging
	SyncMode     string `json:"sync_mode" yaml:"sync_mode"` // OFF, NORMAL, FULL
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *MainConfig {
	return &MainConfig{
		AppVersion: AppVersion,
		Web: WebConfig{
			ListenPort:      DefaultListenPort,
			SSL:             false,
			Minify:          true,
			AccessLog:       true,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Database: DatabaseConfig{
			ConnectString:  DefaultConnectString,
			MongoDatabase:  DefaultMongoDatabase,
			ConnectTimeout: DefaultConnectTimeout,
			MaxOpenConns:   DefaultMaxOpenConns,
			MaxIdleConns:   DefaultMaxIdleConns,
			WALMode:        true,
			SyncMode:       "NORMAL",
		},
	}
}

// LoadFile reads a YAML config file on top of the defaults.
// A missing file is not an error: the defaults are returned.
// Zero timeouts in the file fall back to their defaults.
func LoadFile(path string) (*MainConfig, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("[CONFIG]: no config file at %s, using defaults", path)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.AppVersion = AppVersion
	cfg.applyDefaults()
	return cfg, nil
}

// Validate checks the configuration for values the server cannot start with
func (c *MainConfig) Validate() error {
	if c.Web.ListenPort < 1 || c.Web.ListenPort > 65535 {
		return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", c.Web.ListenPort)
	}
	if c.Web.SSL && (c.Web.CertFile == "" || c.Web.KeyFile == "") {
		return errors.New("SSL enabled but cert_file or key_file not specified in config")
	}
	if strings.TrimSpace(c.Database.ConnectString) == "" {
		return fmt.Errorf("database connect string is empty (set %s)", EnvConnectString)
	}
	if c.Database.ConnectTimeout <= 0 {
		return fmt.Errorf("invalid connect timeout: %s", c.Database.ConnectTimeout)
	}
	if c.Web.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %s", c.Web.ShutdownTimeout)
	}
	return nil
}

// applyDefaults fills timeouts a config file left unset or zero
func (c *MainConfig) applyDefaults() {
	if c.Database.ConnectTimeout <= 0 {
		c.Database.ConnectTimeout = DefaultConnectTimeout
	}
	if c.Web.ShutdownTimeout <= 0 {
		c.Web.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// IsMongo reports whether the connect string points at a MongoDB deployment
func (d *DatabaseConfig) IsMongo() bool {
	cs := strings.ToLower(strings.TrimSpace(d.ConnectString))
	return strings.HasPrefix(cs, "mongodb://") || strings.HasPrefix(cs, "mongodb+srv://")
}
