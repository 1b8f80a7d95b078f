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

	"github.com/cmlabs-hris/shift-attendance/internal/bootstrap"
	"github.com/cmlabs-hris/shift-attendance/internal/config"
	appHTTP "github.com/cmlabs-hris/shift-attendance/internal/handler/http"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/cron"
	"github.com/cmlabs-hris/shift-attendance/internal/pkg/jwt"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger, level, err := bootstrap.NewLogger(cfg, version)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := bootstrap.OpenRepositories(ctx, cfg, policy)
	if err != nil {
		return err
	}
	defer repos.Close()

	services := bootstrap.NewServices(repos, policy, time.Now)
	JWTService := jwt.NewJWTService(cfg.JWT.Secret)

	scheduler := cron.NewScheduler(ctx)
	if cfg.Shift.AutoClose {
		cron.NewShiftJobs(services.Shift, policy, time.Now).RegisterJobs(scheduler, cfg.Shift.AutoCloseInterval)
	}
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(services.Attendance, services.Roster)
	shiftHandler := appHTTP.NewShiftHandler(services.Shift)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			AllowedOrigins: cfg.App.FrontendURLs,
			LogLevel:       level,
		},
		JWTService,
		attendanceHandler,
		shiftHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "storage", cfg.App.StorageDriver, "timezone", cfg.Shift.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
