package app

import (
	"errors"
	"fmt"
	"log"
	"time"

	"catalogo/internal/config"
	"catalogo/internal/database"
	"catalogo/internal/handlers"
	"catalogo/internal/repositories"
	"catalogo/internal/services"
	"catalogo/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

// App owns the long lived resources: the database pool, the optional
// RabbitMQ client and the services built on them.
type App struct {
	Config  *config.Config
	DB      *gorm.DB
	Repo    repositories.ProductRepository
	Service *services.ProductService

	mq *rabbitmq.Client
}

// New opens the configured storage and event publisher and wires the
// product service on top of them.
func New(cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	if cfg.Database.Driver == config.DriverMemory {
		log.Println("Using in-memory product storage")
		a.Repo = repositories.NewMemoryProductRepository()
	} else {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		a.DB = db
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(db); err != nil {
				a.Close()
				return nil, err
			}
		}
		a.Repo = repositories.NewGORMProductRepository(db)
	}

	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		a.mq = mq
		publisher = mq
	} else {
		log.Println("RabbitMQ URL not configured. Product events are disabled.")
	}

	a.Service = services.NewProductService(a.Repo, publisher)
	return a, nil
}

// Events returns the RabbitMQ client, or nil when events are disabled.
func (a *App) Events() *rabbitmq.Client {
	return a.mq
}

// Ping checks the storage backend.
func (a *App) Ping() error {
	if a.DB == nil {
		return nil
	}
	return database.Ping(a.DB)
}

// NewServer builds the Fiber app with the product and form routes.
func (a *App) NewServer() *fiber.App {
	server := fiber.New()
	server.Use(logger.New())

	server.Get("/health", func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK
		dbStatus := "connected"
		if err := a.Ping(); err != nil {
			log.Printf("Health check failed: %v", err)
			status, code, dbStatus = "unhealthy", fiber.StatusServiceUnavailable, "unreachable"
		}
		events := "disabled"
		if a.mq != nil {
			events = "enabled"
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().Format(time.RFC3339),
			"database": dbStatus,
			"events":   events,
		})
	})

	apiV1 := server.Group("/api/v1")
	handlers.NewProductHandler(a.Service).RegisterRoutes(apiV1)
	handlers.NewFormHandler(a.Service, a.Config.SessionTTL).RegisterRoutes(apiV1)
	return server
}

// Close releases the RabbitMQ client and the database pool.
func (a *App) Close() error {
	var errs []error
	if a.mq != nil {
		if err := a.mq.Close(); err != nil {
			errs = append(errs, err)
		}
		a.mq = nil
	}
	if a.DB != nil {
		if err := database.Close(a.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
		a.DB = nil
	}
	return errors.Join(errs...)
}
