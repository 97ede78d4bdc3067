package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offtherecordapp/otr-server/internal/scanner"
	"github.com/offtherecordapp/otr-server/internal/scanner/audio"
	"github.com/offtherecordapp/otr-server/internal/search"
)

// nopProber leaves tags empty so filename fallbacks apply.
type nopProber struct{}

func (nopProber) Probe(context.Context, string) (*audio.Metadata, error) {
	return &audio.Metadata{}, nil
}

func newTestLibraryService(t *testing.T, musicDir string) *LibraryService {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	idx, err := search.NewIndex(logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	sc := scanner.New(musicDir, nopProber{}, logger)
	return NewLibraryService(sc, idx, logger)
}

func TestRescan_PopulatesTracksAndSearch(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"M83 - Midnight City.mp3", "Daft Punk - Around The World.flac"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	svc := newTestLibraryService(t, dir)
	ctx := context.Background()

	result, err := svc.Rescan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Tracks)
	assert.False(t, svc.LastScan().IsZero())

	tracks := svc.Tracks()
	require.Len(t, tracks, 2)

	hits, err := svc.Search(ctx, "midnight", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "M83 - Midnight City.mp3", hits[0].FileName)
}

func TestRescan_RemovedFileDisappearsFromSearch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "M83 - Midnight City.mp3")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	svc := newTestLibraryService(t, dir)
	ctx := context.Background()

	_, err := svc.Rescan(ctx)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	_, err = svc.Rescan(ctx)
	require.NoError(t, err)

	assert.Empty(t, svc.Tracks())
	hits, err := svc.Search(ctx, "midnight", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestTracks_EmptyLibrary(t *testing.T) {
	svc := newTestLibraryService(t, "")

	_, err := svc.Rescan(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, svc.Tracks())
	assert.Empty(t, svc.Tracks())
}
