package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/synthdata/internal/config"
	"github.com/JonMunkholm/synthdata/internal/core"
	"github.com/JonMunkholm/synthdata/internal/logging"
	"github.com/JonMunkholm/synthdata/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	flushLogs := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.SeqURL)
	defer flushLogs()

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"max_rows", cfg.Generation.MaxRows,
		"max_columns", cfg.Generation.MaxColumns,
		"gen_max_concurrent", cfg.Generation.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"audit_db", cfg.Database.Enabled(),
	)

	ctx := context.Background()

	var recorder core.AuditRecorder = core.NewLogAudit(nil)
	if cfg.Database.Enabled() {
		pool, err := connectDB(ctx, &cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			flushLogs()
			os.Exit(1)
		}
		defer pool.Close()

		audit := core.NewPostgresAudit(pool)
		if err := audit.EnsureSchema(ctx); err != nil {
			slog.Error("failed to prepare audit table", "error", err)
			flushLogs()
			os.Exit(1)
		}
		recorder = audit
	}

	service := core.NewService(cfg.Generation, recorder)
	server := web.NewServer(cfg, service)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Let running generations finish before closing connections
		if status := service.LimiterStatus(); status.Active > 0 {
			slog.Info("waiting for generations to complete", "active", status.Active)
			if err := service.WaitForGenerations(shutdownCtx); err != nil {
				slog.Warn("generations did not complete in time", "error", err)
			} else {
				slog.Info("all generations completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		slog.Error("server stopped", "error", err)
		flushLogs()
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// connectDB opens the audit pool with the configured limits and checks
// that the database answers.
func connectDB(ctx context.Context, dc *config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dc.URL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(dc.MaxConns)
	poolConfig.MinConns = int32(dc.MinConns)
	poolConfig.MaxConnLifetime = dc.MaxConnLifetime
	poolConfig.MaxConnIdleTime = dc.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if u, err := url.Parse(dc.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
