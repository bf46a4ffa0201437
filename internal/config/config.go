// Package config loads converter configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/openctemio/inspectcode/pkg/parsers/inspectcode"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Log       LogConfig
	Converter ConverterConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Name  string
	Env   string
	Debug bool
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodySize     int64
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// ConverterConfig holds report conversion defaults. Each field can be
// overridden per request or per CLI invocation.
type ConverterConfig struct {
	Encoding      string
	MessageFormat string
	MinPriority   string
	MaxIssues     int
}

// Load reads configuration from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:  getEnv("INSPECTCODE_APP_NAME", "inspectcode-converter"),
			Env:   getEnv("INSPECTCODE_ENV", "development"),
			Debug: getEnvBool("INSPECTCODE_DEBUG", false),
		},
		Server: ServerConfig{
			Host:            getEnv("INSPECTCODE_SERVER_HOST", "0.0.0.0"),
			Port:            getEnvInt("INSPECTCODE_SERVER_PORT", 8080),
			ReadTimeout:     getEnvDuration("INSPECTCODE_SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvDuration("INSPECTCODE_SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvDuration("INSPECTCODE_SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			MaxBodySize:     getEnvInt64("INSPECTCODE_SERVER_MAX_BODY_SIZE", 32<<20),
		},
		Log: LogConfig{
			Level:  getEnv("INSPECTCODE_LOG_LEVEL", "info"),
			Format: getEnv("INSPECTCODE_LOG_FORMAT", "json"),
		},
		Converter: ConverterConfig{
			Encoding:      getEnv("INSPECTCODE_REPORT_ENCODING", ""),
			MessageFormat: getEnv("INSPECTCODE_MESSAGE_FORMAT", string(inspectcode.MessageFormatPlain)),
			MinPriority:   getEnv("INSPECTCODE_MIN_PRIORITY", ""),
			MaxIssues:     getEnvInt("INSPECTCODE_MAX_ISSUES", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := []string{"debug", "info", "warn", "warning", "error"}
	if !slices.Contains(validLevels, strings.ToLower(c.Log.Level)) {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	validFormats := []string{"json", "text"}
	if !slices.Contains(validFormats, strings.ToLower(c.Log.Format)) {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	if !inspectcode.Priority(c.Converter.MinPriority).IsValid() {
		return fmt.Errorf("invalid min priority: %s", c.Converter.MinPriority)
	}

	if !inspectcode.MessageFormat(c.Converter.MessageFormat).IsValid() {
		return fmt.Errorf("invalid message format: %s", c.Converter.MessageFormat)
	}

	if c.Converter.MaxIssues < 0 {
		return fmt.Errorf("invalid max issues: %d", c.Converter.MaxIssues)
	}

	return nil
}

// ParserOptions builds parser options from the converter defaults.
func (c *ConverterConfig) ParserOptions() *inspectcode.Options {
	return &inspectcode.Options{
		Encoding:      c.Encoding,
		MessageFormat: inspectcode.MessageFormat(c.MessageFormat),
		MinPriority:   inspectcode.Priority(c.MinPriority),
		MaxIssues:     c.MaxIssues,
	}
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsProduction returns true when running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
