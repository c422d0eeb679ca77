package database

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"catalogo/internal/config"
	"catalogo/internal/models"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database and returns the shared pool.
// The caller owns the returned handle and must release it with Close.
func Open(cfg config.Database) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxOpenConns)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	log.Printf("Connected to %s database", cfg.Driver)
	return db, nil
}

// Migrate creates or updates the productos table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close releases every connection of the pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		dsn, err := MySQLDSN(cfg)
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		dsn, err := PostgresDSN(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(SQLiteDSN(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// MySQLDSN builds a go-sql-driver DSN from a URL such as
// "localhost:3306/catalogo", "mysql://host/db?charset=utf8mb4" or the
// JDBC form "jdbc:mysql://host:3306/db".
func MySQLDSN(cfg config.Database) (string, error) {
	u, err := parseURL(cfg.URL, "mysql")
	if err != nil {
		return "", err
	}

	mc := mysqldriver.NewConfig()
	mc.Net = "tcp"
	mc.Addr = u.Host
	mc.DBName = strings.TrimPrefix(u.Path, "/")
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.ParseTime = true
	mc.Loc = time.Local
	// Report matched rows instead of changed rows so an UPDATE that keeps
	// the same values is not mistaken for a missing product.
	mc.ClientFoundRows = true

	q := u.Query()
	// JDBC URLs carry serverTimezone; the session location covers it.
	q.Del("serverTimezone")
	if len(q) > 0 {
		mc.Params = make(map[string]string, len(q))
		for k := range q {
			mc.Params[k] = q.Get(k)
		}
	}
	if mc.DBName == "" {
		return "", fmt.Errorf("database name missing in url %q", cfg.URL)
	}
	return mc.FormatDSN(), nil
}

// PostgresDSN builds a connection URL, injecting user and password unless
// the URL already carries credentials.
func PostgresDSN(cfg config.Database) (string, error) {
	u, err := parseURL(cfg.URL, "postgres")
	if err != nil {
		return "", err
	}
	u.Scheme = "postgres"
	if u.User == nil && cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	if strings.TrimPrefix(u.Path, "/") == "" {
		return "", fmt.Errorf("database name missing in url %q", cfg.URL)
	}
	return u.String(), nil
}

// SQLiteDSN returns the file path (or memory DSN) for the sqlite driver.
func SQLiteDSN(cfg config.Database) string {
	return strings.TrimPrefix(cfg.URL, "sqlite://")
}

func parseURL(raw, scheme string) (*url.URL, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "jdbc:")
	if !strings.Contains(raw, "://") {
		raw = scheme + "://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid database url: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("host missing in database url %q", raw)
	}
	return u, nil
}
