package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Env      string         `yaml:"env"`      // Env is the current environment: local, development, production.
	HTTP     HTTPConfig     `yaml:"http"`     // HTTP holds the REST server configuration.
	Postgres PostgresConfig `yaml:"postgres"` // Postgres holds the database configuration.
}

// HTTPConfig struct holds the configuration of the REST server.
type HTTPConfig struct {
	Address         string        `yaml:"address"`          // Address is the listen address, e.g. `:8080`.
	BasePath        string        `yaml:"base_path"`        // BasePath prefixes every employee route, e.g. `/api`.
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // ReadTimeout bounds reading a whole request.
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // WriteTimeout bounds writing a response.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // ShutdownTimeout bounds graceful shutdown.
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Dbname   string `yaml:"db_name"`  // Dbname is the name of the database.
	SSLMode  string `yaml:"ssl_mode"` // SSLMode is passed to the driver as `sslmode`.
}

var envBindings = map[string]string{
	"env":                   "APP_ENV",
	"http.address":          "HTTP_ADDRESS",
	"http.base_path":        "HTTP_BASE_PATH",
	"http.read_timeout":     "HTTP_READ_TIMEOUT",
	"http.write_timeout":    "HTTP_WRITE_TIMEOUT",
	"http.shutdown_timeout": "HTTP_SHUTDOWN_TIMEOUT",
	"postgres.host":         "DB_HOST",
	"postgres.port":         "DB_PORT",
	"postgres.user":         "DB_USERNAME",
	"postgres.password":     "DB_PASSWORD",
	"postgres.db_name":      "DB_NAME",
	"postgres.ssl_mode":     "DB_SSLMODE",
}

// MustLoad loads the configuration from the YAML file named by CONFIG_PATH (optional)
// and the environment, and panics if it is invalid.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic("config error: " + err.Error())
	}

	return cfg
}

// Load reads the configuration. Environment variables take precedence over the file.
func Load(configPath string) (*Config, error) {
	vpr := viper.New()

	vpr.SetDefault("env", "local")
	vpr.SetDefault("http.address", ":8080")
	vpr.SetDefault("http.read_timeout", "10s")
	vpr.SetDefault("http.write_timeout", "10s")
	vpr.SetDefault("http.shutdown_timeout", "10s")
	vpr.SetDefault("postgres.port", "5432")
	vpr.SetDefault("postgres.ssl_mode", "disable")

	for key, env := range envBindings {
		if err := vpr.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configPath)
		}

		vpr.SetConfigFile(configPath)
		vpr.SetConfigType("yaml")
		if err := vpr.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	httpCfg, err := loadHTTP(vpr)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Env:  vpr.GetString("env"),
		HTTP: httpCfg,
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
			SSLMode:  vpr.GetString("postgres.ssl_mode"),
		},
	}

	if err = cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadHTTP(vpr *viper.Viper) (HTTPConfig, error) {
	durations := map[string]*time.Duration{}
	httpCfg := HTTPConfig{
		Address:  vpr.GetString("http.address"),
		BasePath: normalizeBasePath(vpr.GetString("http.base_path")),
	}
	durations["http.read_timeout"] = &httpCfg.ReadTimeout
	durations["http.write_timeout"] = &httpCfg.WriteTimeout
	durations["http.shutdown_timeout"] = &httpCfg.ShutdownTimeout

	for key, target := range durations {
		parsed, err := time.ParseDuration(vpr.GetString(key))
		if err != nil {
			return HTTPConfig{}, fmt.Errorf("%w: failed to parse %s: %w", ErrInvalidConfig, key, err)
		}
		*target = parsed
	}

	return httpCfg, nil
}

func (c *Config) validate() error {
	required := map[string]string{
		"postgres.host":    c.Postgres.Host,
		"postgres.user":    c.Postgres.User,
		"postgres.db_name": c.Postgres.Dbname,
		"http.address":     c.HTTP.Address,
	}
	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s must be set", ErrInvalidConfig, key)
		}
	}

	return nil
}

func normalizeBasePath(raw string) string {
	trimmed := strings.Trim(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return ""
	}

	return "/" + trimmed
}
