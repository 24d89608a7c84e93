package main

import (
	"context"
	"contactform/contact"
	"contactform/dynamodb"
	"contactform/httpserver"
	"contactform/pkg/config"
	"contactform/pkg/sentry"
	"contactform/postgres"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygo "github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Cannot load config", "error", err)
		os.Exit(1)
	}

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		slog.Error("Cannot init sentry", "error", err)
		os.Exit(1)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openRepository(ctx, cfg)
	if err != nil {
		slog.Error("Cannot open submission storage", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}

	opts := []contact.UsecaseOption{
		contact.WithLogger(logger),
		contact.WithSubmitTimeout(cfg.SubmitTimeout),
	}
	if repo != nil {
		opts = append(opts, contact.WithRepository(repo))
	}

	server := httpserver.Default(cfg)
	server.ContactService = contact.NewUsecase(opts...)
	server.Addr = fmt.Sprintf(":%d", cfg.Port)
	if cfg.Auth.JWTSecret == "" {
		slog.Warn("AUTH_JWT_SECRET is empty, staff routes will reject every request")
	}

	go func() {
		slog.Info("server started!", "addr", server.Addr, "storage", cfg.StorageDriver)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped with error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.SubmitTimeout+5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}

// openRepository returns nil for the log driver: submissions are only logged.
func openRepository(ctx context.Context, cfg *config.Config) (contact.Repository, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := postgres.NewConnection(postgres.Options{
			DBName:   cfg.DB.Name,
			DBUser:   cfg.DB.User,
			Password: cfg.DB.Pass,
			Host:     cfg.DB.Host,
			Port:     fmt.Sprintf("%d", cfg.DB.Port),
			SSLMode:  cfg.DB.EnableSSL,
		})
		if err != nil {
			return nil, err
		}
		return postgres.NewContactRepository(db), nil
	case config.StorageDynamoDB:
		repo, err := dynamodb.Open(ctx, dynamodb.Options{
			Region:        cfg.DynamoDB.Region,
			Endpoint:      cfg.DynamoDB.Endpoint,
			AccessKey:     cfg.DynamoDB.AccessKey,
			SecretKey:     cfg.DynamoDB.SecretKey,
			SessionToken:  cfg.DynamoDB.SessionToken,
			ContactsTable: cfg.DynamoDB.ContactsTable,
		})
		if err != nil {
			return nil, err
		}
		return repo, nil
	}
	return nil, nil
}
