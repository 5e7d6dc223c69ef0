package domain

import "time"

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Download DownloadConfig `mapstructure:"download"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// StorageConfig contains asset-root and persistence configuration
type StorageConfig struct {
	AppDir      string `mapstructure:"app_dir"`
	HistoryPath string `mapstructure:"history_path"`
}

// DownloadConfig contains download-related configuration
type DownloadConfig struct {
	ConcurrentLimit int           `mapstructure:"concurrent_limit"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Storage: StorageConfig{
			AppDir:      "$HOME/.musicvault",
			HistoryPath: "$HOME/.musicvault/history.db",
		},
		Download: DownloadConfig{
			ConcurrentLimit: 3,
			FetchTimeout:    2 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
