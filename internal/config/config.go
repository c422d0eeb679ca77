package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported values for Database.Driver.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Database holds the externally supplied connection parameters.
type Database struct {
	Driver       string
	URL          string
	User         string
	Password     string
	MaxOpenConns int
	AutoMigrate  bool
}

// Config is the application configuration.
type Config struct {
	Database    Database
	AppPort     string
	RabbitMQURL string
	HistoryFile string
	SessionTTL  time.Duration
}

// New returns a viper instance with defaults and environment binding set up.
// DB_URL, DB_USER, APP_PORT, RABBITMQ_URL and friends override the file.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("db.driver", DriverMySQL)
	v.SetDefault("db.url", "localhost:3306/catalogo")
	v.SetDefault("db.user", "root")
	v.SetDefault("db.password", "")
	v.SetDefault("db.max_open_conns", 4)
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("app.port", ":8080")
	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("form.history_file", "")
	v.SetDefault("form.session_ttl", "30m")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional .env file and config file into v and returns the
// resulting Config. An empty path searches catalogo.yaml in the working directory.
func Load(v *viper.Viper, path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("catalogo")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		log.Printf("Using config file %s", v.ConfigFileUsed())
	}

	cfg := &Config{
		Database: Database{
			Driver:       strings.ToLower(v.GetString("db.driver")),
			URL:          v.GetString("db.url"),
			User:         v.GetString("db.user"),
			Password:     v.GetString("db.password"),
			MaxOpenConns: v.GetInt("db.max_open_conns"),
			AutoMigrate:  v.GetBool("db.auto_migrate"),
		},
		AppPort:     v.GetString("app.port"),
		RabbitMQURL: v.GetString("rabbitmq.url"),
		HistoryFile: v.GetString("form.history_file"),
		SessionTTL:  v.GetDuration("form.session_ttl"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
		if c.Database.URL == "" {
			return fmt.Errorf("db.url is required for driver %s", c.Database.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported db.driver %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("db.max_open_conns must be positive, got %d", c.Database.MaxOpenConns)
	}
	return nil
}
