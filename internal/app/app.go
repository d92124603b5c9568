// Package app is the composition root. It turns a config.Config into the
// wired object graph every entry point uses:
//
//	KV (sqlite | memory) → draft.Store ─┐
//	TokenSource → remote.Client ────────┼→ service.ResumeService → editor.Session
//	upload.Client (optional)            │
//
// The local API server and the one-shot CLI commands build the same graph,
// so a draft written by one is read by the other.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zadnan82/newcv-sub002/internal/auth"
	"github.com/zadnan82/newcv-sub002/internal/config"
	"github.com/zadnan82/newcv-sub002/internal/draft"
	"github.com/zadnan82/newcv-sub002/internal/editor"
	"github.com/zadnan82/newcv-sub002/internal/remote"
	"github.com/zadnan82/newcv-sub002/internal/repository"
	"github.com/zadnan82/newcv-sub002/internal/repository/memory"
	"github.com/zadnan82/newcv-sub002/internal/repository/sqlite"
	"github.com/zadnan82/newcv-sub002/internal/service"
	"github.com/zadnan82/newcv-sub002/internal/upload"
)

// App holds the long-lived dependencies of one process.
type App struct {
	Config   config.Config
	Tokens   *auth.TokenSource
	Drafts   *draft.Store
	Remote   *remote.Client
	Service  *service.ResumeService
	Session  *editor.Session
	Uploader *upload.Client // nil when no image host is configured

	logger *slog.Logger
	closer io.Closer // the sqlite pool, if any
}

// New wires an App. Close must be called to flush the autosave and release
// the database.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	kv, closer, err := openStorage(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Tokens: auth.NewTokenSource(cfg.Token),
		logger: logger,
		closer: closer,
	}
	a.Drafts = draft.NewStore(kv, logger)
	a.Remote = remote.New(cfg.APIURL, a.Tokens, logger)
	a.Service = service.NewResumeService(a.Remote, a.Drafts, logger, service.Options{
		LoadingCeiling:   cfg.LoadingCeiling,
		DeferLocalWrites: true,
	})
	a.Session = editor.NewSession(a.Service, cfg.AutosaveDelay, logger)

	if cfg.UploadURL != "" {
		a.Uploader = upload.New(cfg.UploadURL, cfg.UploadPreset, logger)
	}
	return a, nil
}

func openStorage(cfg config.Config) (repository.KV, io.Closer, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return memory.New(), nil, nil
	case config.StorageSQLite, "":
		if dir := filepath.Dir(cfg.DBPath); dir != "." && cfg.DBPath != ":memory:" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("app: creating database directory: %w", err)
			}
		}
		db, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("app: opening draft storage: %w", err)
		}
		return db, db, nil
	}
	return nil, nil, fmt.Errorf("app: unknown storage %q", cfg.Storage)
}

// Close writes any pending autosave and closes storage.
func (a *App) Close() error {
	a.Session.Close(false)
	if a.closer == nil {
		return nil
	}
	if err := a.closer.Close(); err != nil {
		return fmt.Errorf("app: closing storage: %w", err)
	}
	a.logger.Debug("draft storage closed")
	return nil
}
