// Package main starts the DevHub dev backend: it wires configuration,
// logging, PostgreSQL, repositories, services and the HTTP router, and shuts
// down gracefully on SIGINT/SIGTERM.
package main

import (
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/DevHub/internal/config"
	"github.com/atinyakov/DevHub/internal/db"
	"github.com/atinyakov/DevHub/internal/logger"
	"github.com/atinyakov/DevHub/internal/repository"
	"github.com/atinyakov/DevHub/internal/server/handler/http"
	"github.com/atinyakov/DevHub/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

func main() {
	options, err := config.Parse(flag.CommandLine, os.Args[1:], os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	postgresDB, err := db.InitPostgres(ctx, options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	db.StartExpiredTokenCleaner(ctx, postgresDB, options.CleanupInterval.Duration, zapLogger)

	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	profileRepo := repository.NewPostgresProfileRepository(postgresDB)

	tokens := service.NewTokenIssuer(options.JWTSecret, options.AccessTTL.Duration, options.RefreshTTL.Duration)
	authService := service.NewAuthService(authRepo, tokens)
	profileService := service.NewProfileService(profileRepo)

	router := http.NewRouter(
		&http.AuthHandler{AuthService: authService, Log: zapLogger},
		&http.ProfileHandler{Profiles: profileService, Log: zapLogger},
		authService,
		zapLogger,
	)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		tls := options.TLSCert != "" && options.TLSKey != ""
		zapLogger.Info("starting server", zap.String("addr", options.Port), zap.Bool("tls", tls))
		if tls {
			errCh <- server.ListenAndServeTLS(options.TLSCert, options.TLSKey)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
