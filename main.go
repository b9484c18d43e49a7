package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"trustscore/api"
	"trustscore/config"
	"trustscore/metrics"
	"trustscore/services"
	"trustscore/storage"
	"trustscore/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	logger = utils.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	metrics.Register(prometheus.DefaultRegisterer)

	app := &cli.App{
		Name:           "trustscore",
		Usage:          "score marketplace sellers and flag suspicious reviews",
		DefaultCommand: "score",
		Commands: []*cli.Command{
			{
				Name:  "score",
				Usage: "run one scoring pass, print the report and export it as CSV",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "no-csv", Usage: "skip the CSV export"},
				},
				Action: func(c *cli.Context) error {
					return runScore(c.Context, cfg, logger, !c.Bool("no-csv"))
				},
			},
			{
				Name:  "serve",
				Usage: "serve the dashboard API",
				Action: func(c *cli.Context) error {
					return runServe(cfg, logger)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("%v", err)
		if errors.Is(err, services.ErrUpstreamUnavailable) {
			logger.Error("Make sure the database is reachable (DATABASE_URL / POSTGRES_*) or set DATA_SOURCE=csv")
		}
		os.Exit(1)
	}
}

func openSource(cfg *config.Config) (storage.SnapshotSource, error) {
	switch strings.ToLower(cfg.DataSource) {
	case "postgres":
		return storage.NewPostgresSource(cfg.DSN())
	case "csv":
		return storage.NewCSVSource(cfg.CSVDataDir), nil
	default:
		return nil, fmt.Errorf("unknown DATA_SOURCE %q (want postgres or csv)", cfg.DataSource)
	}
}

func newTrustService(cfg *config.Config, source storage.SnapshotSource, logger *utils.Logger) *services.TrustService {
	return services.NewTrustService(source, services.Options{
		Workers:        cfg.MaxConcurrency,
		MaxRetries:     cfg.MaxRetries,
		RetryBaseDelay: time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond,
	}, logger)
}

func runScore(ctx context.Context, cfg *config.Config, logger *utils.Logger, exportCSV bool) error {
	logger.Info("=== Seller Trust Score run starting ===")
	logger.Info("Config: source %s | concurrency %d | retries %d", cfg.DataSource, cfg.MaxConcurrency, cfg.MaxRetries)

	source, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer source.Close()

	report, err := newTrustService(cfg, source, logger).Run(ctx)
	if err != nil {
		return err
	}

	services.NewReportPrinter(os.Stdout).Print(report)

	if !exportCSV {
		return nil
	}
	csvWriter, err := storage.NewCSVWriter(cfg.ReportCSVPath)
	if err != nil {
		return fmt.Errorf("create CSV writer: %w", err)
	}
	defer csvWriter.Close()

	if err := csvWriter.WriteScores(report.Cards); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}
	logger.Info("Scores saved to %s", cfg.ReportCSVPath)
	return nil
}

func runServe(cfg *config.Config, logger *utils.Logger) error {
	source, err := openSource(cfg)
	if err != nil {
		return err
	}
	defer source.Close()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(newTrustService(cfg, source, logger), api.RouterOptions{
		Production:     cfg.IsProduction(),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, logger)

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on :%s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("Shutting down HTTP API")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("HTTP API stopped")
	return nil
}
