package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/fastplan/internal/api"
	"github.com/hyperengineering/fastplan/internal/config"
	"github.com/hyperengineering/fastplan/internal/genai"
	"github.com/hyperengineering/fastplan/internal/library"
	"github.com/hyperengineering/fastplan/internal/plan"
	"github.com/hyperengineering/fastplan/internal/standards"
	"github.com/hyperengineering/fastplan/internal/wizard"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "fastplan",
	Short: "FAST Framework lesson planning service",
	RunE:  run,
}

func run(cmd *cobra.Command, args []string) error {
	// 1. Signal handling
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// 2. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// 3. Initialize logger
	logger := slog.New(newLogHandler(cfg.Log))
	slog.SetDefault(logger)
	slog.Info("logger initialized", "level", cfg.Log.Level)

	// 4. Open the lesson library (migrations, demo seeding)
	lib, err := library.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	slog.Info("library opened", "path", cfg.Database.Path)

	// 5. Initialize generation client
	gen := genai.NewOpenAI(cfg.Generation.APIKey, cfg.Generation.Model,
		time.Duration(cfg.Generation.RequestTimeout))
	slog.Info("generator initialized", "model", cfg.Generation.Model)

	// 6. Wire domain services
	planStore := plan.NewStore()
	resolver := standards.NewResolver(gen)
	wizards := wizard.NewManager(gen, resolver,
		time.Duration(cfg.Wizard.StandardsDebounce))

	// 7. Initialize HTTP router
	handler := api.NewHandler(wizards, planStore, lib, gen, cfg.Generation.Model, Version)
	router := api.NewRouter(handler)
	slog.Info("router initialized")

	// 8. Configure HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout),
	}

	// 9. Start HTTP server in goroutine
	go func() {
		slog.Info("server starting", "address", addr)
		// ErrServerClosed is the expected error when Shutdown() is called gracefully.
		// Any other error indicates an actual server failure that should trigger shutdown.
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			cancel() // Trigger shutdown on server failure
		}
	}()

	// 10. Block until signal received
	<-ctx.Done()
	slog.Info("shutdown initiated")

	// 11. Graceful shutdown sequence
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout))
	defer shutdownCancel()

	// 11a. Stop HTTP server (drains in-flight requests)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// 11b. Close the library
	if err := lib.Close(); err != nil {
		slog.Error("library close error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

func newLogHandler(cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if cfg.Format == "text" {
		return slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.NewJSONHandler(os.Stdout, opts)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
