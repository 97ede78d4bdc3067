package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/offtherecordapp/otr-server/internal/config"
	"github.com/offtherecordapp/otr-server/internal/logger"
	"github.com/offtherecordapp/otr-server/internal/scanner"
	"github.com/offtherecordapp/otr-server/internal/scanner/audio"
	"github.com/offtherecordapp/otr-server/internal/search"
	"github.com/offtherecordapp/otr-server/internal/service"
	"github.com/offtherecordapp/otr-server/internal/watcher"
)

// ProvideScanner provides the local music folder scanner.
func ProvideScanner(i do.Injector) (*scanner.Scanner, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Library.MusicPath == "" {
		log.Info("No music folder configured, library endpoints serve an empty list")
	}

	return scanner.New(cfg.Library.MusicPath, audio.NewFFprobe(), log.Logger), nil
}

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory library search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(log.Logger)
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{Index: index}, nil
}

// FileWatcherHandle wraps the music folder watcher with shutdown capability.
type FileWatcherHandle struct {
	*watcher.Watcher
}

// Shutdown implements do.Shutdownable.
func (h *FileWatcherHandle) Shutdown() error {
	return h.Stop()
}

// ProvideFileWatcher provides the music folder watcher. Changes on disk
// trigger a debounced library rescan.
func ProvideFileWatcher(i do.Injector) (*FileWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	library := do.MustInvoke[*service.LibraryService](i)

	w := watcher.New(cfg.Library.MusicPath, func(ctx context.Context) {
		if _, err := library.Rescan(ctx); err != nil {
			log.Warn("Rescan after folder change failed", "error", err)
		}
	}, log.Logger)

	if err := w.Start(); err != nil {
		// The library still works without live updates; rescans can be
		// triggered through the API.
		log.Warn("File watcher unavailable", "error", err, "path", cfg.Library.MusicPath)
		return &FileWatcherHandle{Watcher: w}, nil
	}

	if cfg.Library.MusicPath != "" {
		log.Info("Watching music folder", "path", cfg.Library.MusicPath)
	}

	return &FileWatcherHandle{Watcher: w}, nil
}
