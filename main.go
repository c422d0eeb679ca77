package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"catalogo/internal/app"
	"catalogo/internal/config"
	"catalogo/internal/console"
	"catalogo/internal/database"
	"catalogo/internal/form"
	"catalogo/internal/services"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd(config.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree on top of v so tests can inspect it.
func newRootCmd(v *viper.Viper) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "catalogo",
		Short:         "Manage the product catalog",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./catalogo.yaml)")
	root.PersistentFlags().String("db-driver", "", "database driver: mysql, postgres, sqlite or memory")
	root.PersistentFlags().String("db-url", "", "database URL, e.g. localhost:3306/catalogo")
	root.PersistentFlags().String("db-user", "", "database user")
	root.PersistentFlags().String("db-password", "", "database password")
	root.PersistentFlags().String("rabbitmq-url", "", "RabbitMQ URL for product events")
	bindFlags(v, root.PersistentFlags(), map[string]string{
		"db.driver":    "db-driver",
		"db.url":       "db-url",
		"db.user":      "db-user",
		"db.password":  "db-password",
		"rabbitmq.url": "rabbitmq-url",
	})

	load := func() (*app.App, error) {
		cfg, err := config.Load(v, configPath)
		if err != nil {
			return nil, err
		}
		return app.New(cfg)
	}

	root.AddCommand(
		newServeCmd(v, load),
		newFormCmd(load),
		newMigrateCmd(v, &configPath),
		newEventsCmd(load),
	)
	return root
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			log.Fatalf("Failed to bind flag %s: %v", name, err)
		}
	}
}

func newServeCmd(v *viper.Viper, load func() (*app.App, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the product API and remote forms over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			server := a.NewServer()
			appPort := a.Config.AppPort
			log.Printf("Starting server on port %s", appPort)

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Listen(appPort)
			}()

			select {
			case err := <-errCh:
				return fmt.Errorf("server failed to start: %w", err)
			case <-quit:
			}

			log.Println("Shutting down server...")
			if err := server.Shutdown(); err != nil {
				log.Printf("Error during Fiber shutdown: %v", err)
			}
			log.Println("Server gracefully stopped")
			return nil
		},
	}
	cmd.Flags().String("port", "", "listen address, e.g. :8080")
	bindFlags(v, cmd.Flags(), map[string]string{"app.port": "port"})
	return cmd
}

func newFormCmd(load func() (*app.App, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "form",
		Short: "Open the interactive product form",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			ctrl := form.NewController(a.Service, form.NewImagePicker())
			session, err := console.NewSession(ctrl, console.Options{HistoryFile: a.Config.HistoryFile})
			if err != nil {
				return err
			}
			defer session.Close()
			return session.Run()
		},
	}
}

func newMigrateCmd(v *viper.Viper, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the productos table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, *configPath)
			if err != nil {
				return err
			}
			if cfg.Database.Driver == config.DriverMemory {
				return fmt.Errorf("nothing to migrate for the memory driver")
			}
			db, err := database.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Println("Migration completed")
			return nil
		},
	}
}

func newEventsCmd(load func() (*app.App, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Print product events published to RabbitMQ",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := load()
			if err != nil {
				return err
			}
			defer a.Close()

			mq := a.Events()
			if mq == nil {
				return fmt.Errorf("rabbitmq.url is not configured")
			}
			done, err := mq.ConsumeProductEvents(func(event services.ProductEvent) error {
				log.Printf("Received %s for product %s at %s", event.Type, event.Code, event.OccurredAt.Format("2006-01-02 15:04:05"))
				return nil
			})
			if err != nil {
				return err
			}

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-quit:
			case <-done:
				log.Println("RabbitMQ stopped delivering events")
			}
			return nil
		},
	}
}
