// Package config loads application configuration from file and environment
// variables via viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Storage configuration
	Storage StorageConfig `mapstructure:"storage"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// StorageConfig holds graph persistence configuration
type StorageConfig struct {
	// Path is the graph JSON file. Relative paths resolve against the
	// working directory.
	Path string `mapstructure:"path"`

	// BackupDir defaults to the directory containing Path.
	BackupDir string `mapstructure:"backup_dir"`

	// MaxBackups caps timestamped backup files, oldest pruned first.
	MaxBackups int `mapstructure:"max_backups"`

	// CaseFoldObservations makes observation dedup case-insensitive.
	CaseFoldObservations bool `mapstructure:"case_fold_observations"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Storage defaults
	viper.SetDefault("storage.path", DefaultGraphPath())
	viper.SetDefault("storage.backup_dir", "")
	viper.SetDefault("storage.max_backups", 10)
	viper.SetDefault("storage.case_fold_observations", false)
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	if path := os.Getenv("GRAPHMEM_PATH"); path != "" {
		config.Storage.Path = path
	}
	if dir := os.Getenv("GRAPHMEM_BACKUP_DIR"); dir != "" {
		config.Storage.BackupDir = dir
	}
	if level := os.Getenv("GRAPHMEM_LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}
}

// DefaultGraphPath is ~/.graphmem/graph.json, falling back to the working
// directory when the home directory cannot be resolved.
func DefaultGraphPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "graph.json"
	}
	return filepath.Join(home, ".graphmem", "graph.json")
}

// ResolveGraphPath expands a leading ~ and makes the path absolute. An empty
// path resolves to the default location.
func ResolveGraphPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultGraphPath()
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot expand ~ in path %q: %w", path, err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("cannot resolve path %q: %w", path, err)
	}
	return abs, nil
}
