package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"clipvault/internal/app/server/api"
	"clipvault/internal/config"
	"clipvault/internal/crypto"
	"clipvault/internal/domain/note"
	"clipvault/internal/infrastructure/migration"
	"clipvault/internal/infrastructure/storage/sqlite"
	"clipvault/internal/utils/logger"
)

const shutdownTimeout = 5 * time.Second

func main() {
	conf := config.New()
	log := logger.New(conf.Env)

	if err := run(conf, log); err != nil {
		log.Error("daemon failed", "error", err)
		os.Exit(1)
	}
}

func run(conf *config.Config, log *slog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(conf.DB.Path), 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	mg := migration.NewMigration(conf.DB.Path, migration.DefaultEngine)
	if err := mg.Up(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	storage, err := sqlite.New(conf.DB.Path)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer storage.Close()

	keys, err := crypto.NewKeyring(conf.Vault.KeyPath)
	if err != nil {
		return fmt.Errorf("open keyring: %w", err)
	}

	repo := sqlite.NewNoteRepository(storage, log)
	service := note.NewService(repo, keys, log)

	if err := service.Open(context.Background()); err != nil {
		return fmt.Errorf("open note store: %w", err)
	}

	srv := &http.Server{
		Addr:    conf.Server.RunAddress,
		Handler: api.New(service, log),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("daemon listening", "address", conf.Server.RunAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
