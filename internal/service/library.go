package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/offtherecordapp/otr-server/internal/domain"
	domainerrors "github.com/offtherecordapp/otr-server/internal/errors"
	"github.com/offtherecordapp/otr-server/internal/scanner"
	"github.com/offtherecordapp/otr-server/internal/search"
)

// LibraryService exposes the scanned local music library and its search
// index. Scans rebuild both the track snapshot and the index.
type LibraryService struct {
	scanner *scanner.Scanner
	index   *search.Index
	logger  *slog.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(sc *scanner.Scanner, index *search.Index, logger *slog.Logger) *LibraryService {
	return &LibraryService{scanner: sc, index: index, logger: logger}
}

// Tracks returns the current library snapshot.
func (s *LibraryService) Tracks() []*domain.Track {
	return s.scanner.Tracks()
}

// LastScan returns when the library was last scanned.
func (s *LibraryService) LastScan() time.Time {
	return s.scanner.LastScan()
}

// Search runs a full-text query over the library.
func (s *LibraryService) Search(ctx context.Context, query string, limit int) ([]search.Hit, error) {
	hits, err := s.index.Search(ctx, query, limit)
	if err != nil {
		return nil, domainerrors.Internal("search library").WithCause(err)
	}
	return hits, nil
}

// Rescan rebuilds the snapshot from disk and reindexes it.
func (s *LibraryService) Rescan(ctx context.Context) (*scanner.ScanResult, error) {
	result, err := s.scanner.Scan(ctx)
	if err != nil {
		return nil, domainerrors.Internal("scan library").WithCause(err)
	}

	if err := s.index.Reindex(s.scanner.Tracks()); err != nil {
		// The snapshot is fresh even if indexing failed; searches will
		// serve stale results until the next successful rescan.
		s.logger.Error("reindex after scan failed", "error", err)
	}

	return result, nil
}
