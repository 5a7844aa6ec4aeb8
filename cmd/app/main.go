package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dispatch/cmd"
	"dispatch/internal/adapters/out/postgres"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:          "dispatch",
		Short:        "Delivery group allocation service",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment is read")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API and the capacity audit",
			RunE: func(c *cobra.Command, _ []string) error {
				config, err := cmd.LoadConfig(viper.New(), envFile)
				if err != nil {
					return err
				}
				return serve(c.Context(), config)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the PostgreSQL schema",
			RunE: func(_ *cobra.Command, _ []string) error {
				config, err := cmd.LoadConfig(viper.New(), envFile)
				if err != nil {
					return err
				}
				return migrate(config)
			},
		},
	)
	return rootCmd
}

func serve(ctx context.Context, config cmd.Config) error {
	logger := cmd.NewLogger(config.LogLevel)

	app, err := cmd.NewCompositionRoot(config, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("close resources", "error", err)
		}
	}()

	e, err := app.NewRouter()
	if err != nil {
		return err
	}

	jobManager := app.NewJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "port", config.HTTPPort)
		serverErr <- e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort))
	}()

	select {
	case err = <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func migrate(config cmd.Config) error {
	logger := cmd.NewLogger(config.LogLevel)
	if config.Storage != cmd.StoragePostgres {
		logger.Info("nothing to migrate", "storage", config.Storage)
		return nil
	}

	db, err := cmd.OpenDatabase(config)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err = postgres.Migrate(db); err != nil {
		return err
	}
	logger.Info("schema migrated", "database", config.DBName)
	return nil
}
