package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/tablesplit/internal/calculator"
	"github.com/mmynk/tablesplit/internal/menu"
	"github.com/mmynk/tablesplit/internal/metrics"
	"github.com/mmynk/tablesplit/internal/service"
	"github.com/mmynk/tablesplit/internal/storage/sqlite"
	"github.com/mmynk/tablesplit/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

type config struct {
	port     int
	dbPath   string
	taxRate  float64
	policy   calculator.AssignmentPolicy
	seedMenu bool
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func loadConfig() (config, error) {
	var cfg config
	var err error

	if cfg.port, err = strconv.Atoi(getEnv("PORT", "8080")); err != nil {
		return cfg, fmt.Errorf("invalid PORT: %w", err)
	}
	cfg.dbPath = getEnv("DB_PATH", "./data/tablesplit.db")
	if cfg.taxRate, err = strconv.ParseFloat(getEnv("TAX_RATE", strconv.FormatFloat(service.DefaultTaxRate, 'f', -1, 64)), 64); err != nil {
		return cfg, fmt.Errorf("invalid TAX_RATE: %w", err)
	}
	if err := service.ValidateTaxRate(cfg.taxRate); err != nil {
		return cfg, fmt.Errorf("invalid TAX_RATE: %w", err)
	}
	if cfg.policy, err = calculator.ParseAssignmentPolicy(getEnv("ASSIGNMENT_POLICY", "full")); err != nil {
		return cfg, fmt.Errorf("invalid ASSIGNMENT_POLICY: %w", err)
	}
	if cfg.seedMenu, err = strconv.ParseBool(getEnv("SEED_MENU", "true")); err != nil {
		return cfg, fmt.Errorf("invalid SEED_MENU: %w", err)
	}
	return cfg, nil
}

func main() {
	logging.Setup()

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config) error {
	store, err := sqlite.New(cfg.dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.dbPath)

	if cfg.seedMenu {
		if err := menu.Seed(ctx, store, menu.DefaultCatalog()); err != nil {
			return err
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	svc := service.NewTableService(store, m,
		service.WithDefaultTaxRate(cfg.taxRate),
		service.WithAssignmentPolicy(cfg.policy),
	)

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(newRouter(svc, m, reg), &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h2cHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting",
			"address", addr,
			"url", fmt.Sprintf("http://localhost%s", addr),
			"tax_rate", cfg.taxRate,
			"policy", cfg.policy.String(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
