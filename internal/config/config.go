package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Log       LogConfig
	Printer   PrinterConfig
	Print     PrintConfig
	HTTP      HTTPConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
	JobNode   int64
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

// PrinterConfig controls how printers are reached.
type PrinterConfig struct {
	Driver             string
	DefaultPort        int
	CharWidth          int
	ConnectAttempts    int
	AttemptTimeout     time.Duration
	RetryDelay         time.Duration
	WriteTimeout       time.Duration
	RemoveSpecialChars bool
}

// PrintConfig controls how documents are rendered.
type PrintConfig struct {
	Timezone         string
	AlwaysShowChange bool
}

type HTTPConfig struct {
	MaxBodySize int64
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Duration int
}

type MetricsConfig struct {
	Enabled bool
}

func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env file. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:  v.GetString("APP_NAME"),
			Env:   v.GetString("APP_ENV"),
			Port:  v.GetString("APP_PORT"),
			Debug: v.GetBool("APP_DEBUG"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			Output: v.GetString("LOG_OUTPUT"),
		},
		Printer: PrinterConfig{
			Driver:             strings.ToLower(v.GetString("PRINTER_DRIVER")),
			DefaultPort:        v.GetInt("PRINTER_PORT"),
			CharWidth:          v.GetInt("PRINTER_CHAR_WIDTH"),
			ConnectAttempts:    v.GetInt("PRINTER_CONNECT_ATTEMPTS"),
			AttemptTimeout:     v.GetDuration("PRINTER_ATTEMPT_TIMEOUT"),
			RetryDelay:         v.GetDuration("PRINTER_RETRY_DELAY"),
			WriteTimeout:       v.GetDuration("PRINTER_WRITE_TIMEOUT"),
			RemoveSpecialChars: v.GetBool("PRINTER_REMOVE_SPECIAL_CHARS"),
		},
		Print: PrintConfig{
			Timezone:         v.GetString("PRINT_TIMEZONE"),
			AlwaysShowChange: v.GetBool("PRINT_ALWAYS_SHOW_CHANGE"),
		},
		HTTP: HTTPConfig{
			MaxBodySize: v.GetInt64("HTTP_MAX_BODY_SIZE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			AllowedMethods: splitList(v.GetString("CORS_ALLOWED_METHODS")),
			AllowedHeaders: splitList(v.GetString("CORS_ALLOWED_HEADERS")),
		},
		RateLimit: RateLimitConfig{
			Enabled:  v.GetBool("RATE_LIMIT_ENABLED"),
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
		JobNode: v.GetInt64("SNOWFLAKE_NODE"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "pos-print-server")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "3003")
	v.SetDefault("APP_DEBUG", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_OUTPUT", "stdout")
	v.SetDefault("PRINTER_DRIVER", "network")
	v.SetDefault("PRINTER_PORT", 9100)
	v.SetDefault("PRINTER_CHAR_WIDTH", 48)
	v.SetDefault("PRINTER_CONNECT_ATTEMPTS", 4)
	v.SetDefault("PRINTER_ATTEMPT_TIMEOUT", "5s")
	v.SetDefault("PRINTER_RETRY_DELAY", "1s")
	v.SetDefault("PRINTER_WRITE_TIMEOUT", "10s")
	v.SetDefault("PRINTER_REMOVE_SPECIAL_CHARS", true)
	v.SetDefault("PRINT_TIMEZONE", "America/El_Salvador")
	v.SetDefault("PRINT_ALWAYS_SHOW_CHANGE", false)
	v.SetDefault("HTTP_MAX_BODY_SIZE", 50<<20)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("CORS_ALLOWED_METHODS", "")
	v.SetDefault("CORS_ALLOWED_HEADERS", "")
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_REQUESTS", 120)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("SNOWFLAKE_NODE", 1)
}

func (c *Config) validate() error {
	var errs []error
	if c.Printer.CharWidth <= 0 {
		errs = append(errs, errors.New("PRINTER_CHAR_WIDTH must be positive"))
	}
	if c.Printer.DefaultPort <= 0 || c.Printer.DefaultPort > 65535 {
		errs = append(errs, fmt.Errorf("PRINTER_PORT %d out of range", c.Printer.DefaultPort))
	}
	if c.Printer.ConnectAttempts < 1 {
		errs = append(errs, errors.New("PRINTER_CONNECT_ATTEMPTS must be at least 1"))
	}
	if c.Printer.AttemptTimeout <= 0 {
		errs = append(errs, errors.New("PRINTER_ATTEMPT_TIMEOUT must be positive"))
	}
	if c.Printer.RetryDelay < 0 {
		errs = append(errs, errors.New("PRINTER_RETRY_DELAY must not be negative"))
	}
	if c.Printer.WriteTimeout < 0 {
		errs = append(errs, errors.New("PRINTER_WRITE_TIMEOUT must not be negative"))
	}
	switch c.Printer.Driver {
	case "network", "none":
	default:
		errs = append(errs, fmt.Errorf("PRINTER_DRIVER %q is not supported", c.Printer.Driver))
	}
	if c.HTTP.MaxBodySize <= 0 {
		errs = append(errs, errors.New("HTTP_MAX_BODY_SIZE must be positive"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Duration <= 0) {
		errs = append(errs, errors.New("RATE_LIMIT_REQUESTS and RATE_LIMIT_DURATION must be positive"))
	}
	if c.JobNode < 0 || c.JobNode > 1023 {
		errs = append(errs, fmt.Errorf("SNOWFLAKE_NODE %d out of range 0-1023", c.JobNode))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}
