package config

import (
	"os"
	"strconv"

	"proteoportal/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Data          DataConfig
	Log           LogConfig
	Visualization VisualizationConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds the location of the CSV result tables and loading settings
type DataConfig struct {
	Dir             string
	LoadConcurrency int
	InferNumbers    bool
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
	File  string
	JSON  bool
}

// VisualizationConfig holds the figure derivation limits
type VisualizationConfig struct {
	ForestRowLimit int
	HeatmapTopN    int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:        *loadServerConfig(),
		Data:          *loadDataConfig(),
		Log:           *loadLogConfig(),
		Visualization: *loadVisualizationConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		Dir:             getEnvOrDefault("DATA_DIR", "public/data"),
		LoadConcurrency: getEnvIntOrDefault("LOAD_CONCURRENCY", 4),
		InferNumbers:    getEnvBoolOrDefault("INFER_NUMBERS", true),
	}
}

func loadLogConfig() *LogConfig {
	return &LogConfig{
		Level: getEnvOrDefault("LOG_LEVEL", "INFO"),
		File:  getEnvOrDefault("LOG_FILE", ""),
		JSON:  getEnvBoolOrDefault("LOG_JSON", false),
	}
}

func loadVisualizationConfig() *VisualizationConfig {
	return &VisualizationConfig{
		ForestRowLimit: getEnvIntOrDefault("FOREST_ROW_LIMIT", 20),
		HeatmapTopN:    getEnvIntOrDefault("HEATMAP_TOP_N", 12),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Data.Dir == "" {
		return errors.ConfigInvalid("data directory is required")
	}
	if config.Data.LoadConcurrency < 1 {
		return errors.ConfigInvalid("LOAD_CONCURRENCY must be at least 1")
	}
	if config.Visualization.ForestRowLimit < 1 {
		return errors.ConfigInvalid("FOREST_ROW_LIMIT must be at least 1")
	}
	if config.Visualization.HeatmapTopN < 1 {
		return errors.ConfigInvalid("HEATMAP_TOP_N must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
