package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/server"
	"github.com/mmynk/splitledger/internal/storage/sqlstore"
	"github.com/mmynk/splitledger/pkg/logging"
)

func main() {
	cfg := config.MustLoad()

	log := logging.Setup(cfg.Env, cfg.Log.Level, os.Stdout)
	log.Info("Starting application",
		slog.String("env", cfg.Env),
		slog.String("addr", cfg.HTTP.Addr()),
		slog.String("storage", cfg.Storage.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		log.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	m := metrics.New()
	l := ledger.New(store,
		ledger.WithOpTimeout(cfg.Storage.OpTimeout),
		ledger.WithReadRetries(cfg.Storage.ReadRetries, cfg.Storage.RetryBase),
		ledger.WithMetrics(m),
		ledger.WithLogger(log),
	)

	apiServer := server.New(&cfg.HTTP, log, server.Deps{
		Store:         store,
		Ledger:        l,
		Metrics:       m,
		JWT:           auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Authenticator: auth.NewPasswordAuthenticator(store.Repos().Users()),
	})

	go apiServer.MustStart()

	<-ctx.Done()
	log.Info("Got signal to shutdown server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("Stopping server error", "error", err)
	}
}

func openStore(ctx context.Context, cfg config.Storage) (*sqlstore.Store, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlstore.OpenSQLite(ctx, cfg.Path)
	case "postgres":
		return sqlstore.OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
