// Package app wires configuration, storage backends and services into the
// two HTTP servers, and handles graceful shutdown on OS signals.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/stockjournal/internal/config"
	"github.com/dmitrijs2005/stockjournal/internal/httpapi"
	"github.com/dmitrijs2005/stockjournal/internal/logging"
	"github.com/dmitrijs2005/stockjournal/internal/quotes"
	"github.com/dmitrijs2005/stockjournal/internal/repositories/repomanager"
	"github.com/dmitrijs2005/stockjournal/internal/services"
	"github.com/dmitrijs2005/stockjournal/internal/storage"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   repomanager.RepositoryManager
	journal *services.Journal
	notes   *services.Notes
	quotes  *quotes.Client
}

// New builds the shared application core: database handle with migrations
// applied, blob store, and both services. The store connection is probed
// once so a misconfigured backend is visible at startup.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewDefault()

	repos, err := repomanager.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	blobs, err := storage.NewS3Store(ctx, storage.Config{
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Region:        cfg.S3Region,
		Bucket:        cfg.S3Bucket,
		BaseEndpoint:  cfg.S3BaseEndpoint,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	journal := services.NewJournal(repos.Trades(), blobs)
	notes := services.NewNotes(repos.DailyNotes())

	if err := journal.TestConnection(ctx); err != nil {
		logger.Warn(ctx, "store connection test failed", "err", err)
	}

	return &App{
		config:  cfg,
		logger:  logger,
		repos:   repos,
		journal: journal,
		notes:   notes,
		quotes:  quotes.NewClient(cfg.QuoteBaseURL),
	}, nil
}

func (a *App) Close() error {
	return a.repos.Close()
}

// RunJournal serves the full journal API until the context is cancelled
// or a termination signal arrives.
func (a *App) RunJournal(ctx context.Context) error {
	api := httpapi.NewJournalAPI(a.journal, a.quotes, a.logger.With("component", "journal"))
	return a.serve(ctx, a.config.JournalAddr, api.Router())
}

// RunNotes serves the daily-notes subset API.
func (a *App) RunNotes(ctx context.Context) error {
	api := httpapi.NewNotesAPI(a.notes, a.journal, a.logger.With("component", "notes"))
	return a.serve(ctx, a.config.NotesAddr, api.Router())
}

func (a *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (a *App) serve(ctx context.Context, addr string, handler http.Handler) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	a.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error(shutdownCtx, "server shutdown error", "err", err)
		}
	}()

	a.logger.Info(ctx, "listening", "addr", addr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
