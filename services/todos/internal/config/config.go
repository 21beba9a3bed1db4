package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	flags "github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Host            string        `yaml:"host" toml:"host"`
	Port            string        `yaml:"port" toml:"port"`
	LogLevel        string        `yaml:"log_level" toml:"log_level"`
	MetricsEnabled  bool          `yaml:"metrics_enabled" toml:"metrics_enabled"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins" toml:"cors_origins"`
}

// Options - флаги командной строки, перекрывают файл и переменные окружения
type Options struct {
	Config   string `short:"f" long:"config" description:"Path to YAML or TOML configuration file"`
	Host     string `long:"host" description:"Interface to listen on"`
	Port     string `short:"p" long:"port" description:"Port to listen on"`
	LogLevel string `long:"log-level" description:"Log level (trace, debug, info, warn, error)"`
}

func Default() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            "8000",
		LogLevel:        "info",
		MetricsEnabled:  true,
		ShutdownTimeout: 5 * time.Second,
		CORSOrigins:     []string{"*"},
	}
}

// Load собирает конфигурацию: значения по умолчанию -> файл -> ENV -> флаги
func Load(args []string) (*Config, error) {
	var opts Options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	cfg := Default()

	path := opts.Config
	if path == "" {
		path = os.Getenv("TODOS_CONFIG")
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	if opts.Host != "" {
		cfg.Host = opts.Host
	}
	if opts.Port != "" {
		cfg.Port = opts.Port
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsHelp сообщает, что пользователь запросил --help
func IsHelp(err error) bool {
	var flagsErr *flags.Error
	return errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	default:
		return fmt.Errorf("unsupported config file format %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	cfg.Host = getEnv("TODOS_HOST", cfg.Host)
	cfg.Port = getEnv("TODOS_PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if v := os.Getenv("TODOS_METRICS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid TODOS_METRICS_ENABLED %q: %w", v, err)
		}
		cfg.MetricsEnabled = enabled
	}
	if v := os.Getenv("TODOS_SHUTDOWN_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TODOS_SHUTDOWN_TIMEOUT %q: %w", v, err)
		}
		cfg.ShutdownTimeout = timeout
	}
	if v := os.Getenv("TODOS_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		cfg.CORSOrigins = origins
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// Addr возвращает адрес для http.Server
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}
