package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fieldservice/cmd"
	httpin "fieldservice/internal/adapters/in/http"
	"fieldservice/internal/adapters/out/postgres/jobrepo"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Fatalf("fieldservice: %v", err)
	}
}

func newRootCommand() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "fieldservice",
		Short:         "Field-service job coordination service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&envFile, "env", "e", ".env", "env file path")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API, the Kafka consumers and the scheduled jobs",
			RunE: func(c *cobra.Command, _ []string) error {
				return serve(c.Context(), envFile)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the job tables",
			RunE: func(_ *cobra.Command, _ []string) error {
				config, err := cmd.LoadConfig(envFile)
				if err != nil {
					return err
				}
				db, err := openDB(config)
				if err != nil {
					return err
				}
				return jobrepo.Migrate(db)
			},
		},
	)

	return root
}

func openDB(config cmd.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(config.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func serve(ctx context.Context, envFile string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	config, err := cmd.LoadConfig(envFile)
	if err != nil {
		return err
	}
	db, err := openDB(config)
	if err != nil {
		return err
	}

	app, err := cmd.NewCompositionRoot(config, db, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.Error("Shutdown failed", "error", closeErr)
		}
	}()

	e, err := httpin.NewRouter(app.CreateHTTPServer())
	if err != nil {
		return err
	}

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort))
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	for _, consumer := range app.CreateConsumers() {
		g.Go(func() error {
			return consumer.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	logger.InfoContext(ctx, "Field service started", "port", config.HTTPPort)
	return g.Wait()
}
