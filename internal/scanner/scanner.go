// Package scanner discovers playable files in the local music folder and
// keeps an in-memory snapshot of the library. Metadata comes from ffprobe
// when available, with filename-derived fallbacks so every file remains
// listable even without tags.
package scanner

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/offtherecordapp/otr-server/internal/domain"
	"github.com/offtherecordapp/otr-server/internal/scanner/audio"
)

// audioExtensions are the file types served from the music folder.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".flac": true,
	".m4a":  true,
	".ogg":  true,
}

// ScanResult summarizes a completed library scan.
type ScanResult struct {
	JobID    string
	Tracks   int
	Skipped  int
	Duration time.Duration
}

// Scanner walks the music folder and maintains the track snapshot.
type Scanner struct {
	musicPath string
	prober    audio.Prober
	logger    *slog.Logger

	mu       sync.RWMutex
	tracks   []*domain.Track
	lastScan time.Time

	scanMu sync.Mutex // serializes Scan calls
}

// New creates a scanner for the given music folder. An empty path yields a
// scanner whose snapshot stays empty.
func New(musicPath string, prober audio.Prober, logger *slog.Logger) *Scanner {
	return &Scanner{
		musicPath: musicPath,
		prober:    prober,
		logger:    logger,
		tracks:    []*domain.Track{},
	}
}

// Tracks returns the current snapshot, sorted by file name.
// The returned slice is shared; callers must not mutate it.
func (s *Scanner) Tracks() []*domain.Track {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tracks
}

// LastScan returns when the snapshot was last rebuilt, zero before the
// first scan completes.
func (s *Scanner) LastScan() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastScan
}

// Scan rebuilds the snapshot from the music folder. Concurrent calls are
// serialized; the snapshot swaps atomically once the walk completes.
func (s *Scanner) Scan(ctx context.Context) (*ScanResult, error) {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	jobID := uuid.NewString()
	started := time.Now()

	if s.musicPath == "" {
		s.swap(nil)
		return &ScanResult{JobID: jobID}, nil
	}

	entries, err := os.ReadDir(s.musicPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("music folder missing, serving empty library", "path", s.musicPath)
			s.swap(nil)
			return &ScanResult{JobID: jobID}, nil
		}
		return nil, err
	}

	var tracks []*domain.Track
	skipped := 0

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			skipped++
			continue
		}
		if !audioExtensions[strings.ToLower(filepath.Ext(name))] {
			skipped++
			continue
		}

		tracks = append(tracks, s.buildTrack(ctx, name))
	}

	sort.Slice(tracks, func(i, j int) bool {
		return tracks[i].FileName < tracks[j].FileName
	})

	s.swap(tracks)

	result := &ScanResult{
		JobID:    jobID,
		Tracks:   len(tracks),
		Skipped:  skipped,
		Duration: time.Since(started),
	}
	s.logger.Info("library scan complete",
		"job_id", result.JobID,
		"tracks", result.Tracks,
		"skipped", result.Skipped,
		"took", result.Duration,
	)
	return result, nil
}

// buildTrack probes a file and fills gaps from its name.
func (s *Scanner) buildTrack(ctx context.Context, fileName string) *domain.Track {
	track := &domain.Track{
		FileName:   fileName,
		StreamPath: "/music/" + url.PathEscape(fileName),
	}

	if s.prober != nil {
		meta, err := s.prober.Probe(ctx, filepath.Join(s.musicPath, fileName))
		if err != nil {
			s.logger.Debug("probe failed, using filename metadata", "file", fileName, "error", err)
		} else {
			track.Title = meta.Title
			track.Artist = meta.Artist
			track.Duration = meta.Duration
			track.Format = meta.Format
			track.Bitrate = meta.Bitrate
		}
	}

	fillFromFileName(track)
	return track
}

// fillFromFileName derives title and artist from the file name when tags
// are absent. "Artist - Title.mp3" splits into both fields; anything else
// becomes the title with an unknown artist.
func fillFromFileName(track *domain.Track) {
	if track.Title != "" && track.Artist != "" {
		return
	}

	stem := strings.TrimSuffix(track.FileName, filepath.Ext(track.FileName))
	artist, title, found := strings.Cut(stem, " - ")

	if track.Title == "" {
		if found {
			track.Title = strings.TrimSpace(title)
		} else {
			track.Title = strings.TrimSpace(stem)
		}
	}
	if track.Artist == "" {
		if found {
			track.Artist = strings.TrimSpace(artist)
		} else {
			track.Artist = "Unknown Artist"
		}
	}
}

func (s *Scanner) swap(tracks []*domain.Track) {
	if tracks == nil {
		tracks = []*domain.Track{}
	}
	s.mu.Lock()
	s.tracks = tracks
	s.lastScan = time.Now()
	s.mu.Unlock()
}
