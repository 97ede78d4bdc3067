package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/offtherecordapp/otr-server/internal/domain"
)

// Index is a rebuildable in-memory track index.
//
// All methods are safe for concurrent use; the mutex guards the index
// swap during Reindex.
type Index struct {
	mu     sync.RWMutex
	index  bleve.Index
	logger *slog.Logger
}

// Hit is a single search match.
type Hit struct {
	FileName string  `json:"file_name"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Score    float64 `json:"score"`
}

// NewIndex creates an empty in-memory index.
func NewIndex(logger *slog.Logger) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create track index: %w", err)
	}
	return &Index{index: idx, logger: logger}, nil
}

// Close releases the index.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.index.Close()
}

// Reindex replaces the index contents with the given tracks. A fresh
// index is built off to the side and swapped in, so searches keep
// working against the old snapshot during the rebuild.
func (i *Index) Reindex(tracks []*domain.Track) error {
	fresh, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create track index: %w", err)
	}

	batch := fresh.NewBatch()
	for _, track := range tracks {
		doc := DocumentFromTrack(track)
		if err := batch.Index(doc.FileName, doc.toMap()); err != nil {
			fresh.Close()
			return fmt.Errorf("index %s: %w", doc.FileName, err)
		}
	}
	if err := fresh.Batch(batch); err != nil {
		fresh.Close()
		return fmt.Errorf("commit index batch: %w", err)
	}

	i.mu.Lock()
	old := i.index
	i.index = fresh
	i.mu.Unlock()

	if err := old.Close(); err != nil {
		i.logger.Warn("close stale track index", "error", err)
	}

	i.logger.Debug("track index rebuilt", "tracks", len(tracks))
	return nil
}

// Search matches q against titles and artists. Limit caps results;
// non-positive means 20.
func (i *Index) Search(ctx context.Context, q string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 20
	}

	i.mu.RLock()
	defer i.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildQuery(q), limit, 0, false)
	req.Fields = []string{"file_name", "title", "artist"}
	req.SortBy([]string{"-_score", "file_name"})

	result, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute track search: %w", err)
	}

	hits := make([]Hit, 0, len(result.Hits))
	for _, match := range result.Hits {
		hit := Hit{Score: match.Score}
		if v, ok := match.Fields["file_name"].(string); ok {
			hit.FileName = v
		}
		if v, ok := match.Fields["title"].(string); ok {
			hit.Title = v
		}
		if v, ok := match.Fields["artist"].(string); ok {
			hit.Artist = v
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// buildQuery combines exact, folded, fuzzy, and prefix matching so both
// typos and accented names find their track.
func buildQuery(q string) query.Query {
	q = strings.TrimSpace(q)
	if q == "" {
		return bleve.NewMatchAllQuery()
	}

	var parts []query.Query

	titleMatch := bleve.NewMatchQuery(q)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)
	parts = append(parts, titleMatch)

	artistMatch := bleve.NewMatchQuery(q)
	artistMatch.SetField("artist")
	artistMatch.SetBoost(2.0)
	parts = append(parts, artistMatch)

	folded := Fold(q)
	titleFolded := bleve.NewMatchQuery(folded)
	titleFolded.SetField("title_folded")
	titleFolded.SetBoost(2.5)
	parts = append(parts, titleFolded)

	artistFolded := bleve.NewMatchQuery(folded)
	artistFolded.SetField("artist_folded")
	artistFolded.SetBoost(1.5)
	parts = append(parts, artistFolded)

	fuzzy := bleve.NewFuzzyQuery(folded)
	fuzzy.SetFuzziness(1)
	fuzzy.SetField("title_folded")
	fuzzy.SetBoost(0.8)
	parts = append(parts, fuzzy)

	if len(q) >= 2 {
		prefix := bleve.NewPrefixQuery(strings.ToLower(folded))
		prefix.SetField("title_folded")
		prefix.SetBoost(0.5)
		parts = append(parts, prefix)
	}

	return bleve.NewDisjunctionQuery(parts...)
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = simple.Name

	docMapping := bleve.NewDocumentMapping()

	fileNameMapping := bleve.NewTextFieldMapping()
	fileNameMapping.Analyzer = keyword.Name
	fileNameMapping.Store = true
	docMapping.AddFieldMappingsAt("file_name", fileNameMapping)

	for _, field := range []string{"title", "artist", "title_folded", "artist_folded"} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = simple.Name
		fm.Store = field == "title" || field == "artist"
		docMapping.AddFieldMappingsAt(field, fm)
	}

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}
