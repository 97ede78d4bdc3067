package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/offtherecordapp/otr-server/internal/domain"
)

func (s *Server) registerSongRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-songs",
		Method:      http.MethodGet,
		Path:        "/api/v1/songs",
		Summary:     "List local songs",
		Description: "Returns the scanned contents of the local music folder.",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSongs)

	huma.Register(s.api, huma.Operation{
		OperationID: "search-songs",
		Method:      http.MethodGet,
		Path:        "/api/v1/songs/search",
		Summary:     "Search local songs",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchSongs)

	huma.Register(s.api, huma.Operation{
		OperationID: "scan-library",
		Method:      http.MethodPost,
		Path:        "/api/v1/songs/scan",
		Summary:     "Rescan the music folder",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleScanLibrary)
}

// === DTOs ===

// TrackResponse is a single local library entry.
type TrackResponse struct {
	FileName   string `json:"file_name" doc:"File name within the music folder"`
	Title      string `json:"title" doc:"Track title"`
	Artist     string `json:"artist" doc:"Track artist"`
	Duration   int64  `json:"duration_seconds,omitempty" doc:"Duration in seconds"`
	StreamPath string `json:"stream_path" doc:"URL path the file is served under"`
	Format     string `json:"format,omitempty" doc:"Container format"`
	Bitrate    int    `json:"bitrate,omitempty" doc:"Bitrate in bits per second"`
}

// ListSongsResponse contains the library snapshot.
type ListSongsResponse struct {
	Songs     []TrackResponse `json:"songs" doc:"Library tracks"`
	Total     int             `json:"total" doc:"Number of tracks"`
	ScannedAt time.Time       `json:"scanned_at,omitzero" doc:"When the library was last scanned"`
}

// ListSongsOutput wraps the list response for Huma.
type ListSongsOutput struct {
	Body ListSongsResponse
}

// SearchSongsInput carries the search query.
type SearchSongsInput struct {
	Query string `query:"q" doc:"Search query over titles and artists"`
	Limit int    `query:"limit" doc:"Maximum results (default 20)"`
}

// SearchHitResponse is a single search match.
type SearchHitResponse struct {
	FileName string  `json:"file_name" doc:"File name within the music folder"`
	Title    string  `json:"title" doc:"Track title"`
	Artist   string  `json:"artist" doc:"Track artist"`
	Score    float64 `json:"score" doc:"Relevance score"`
}

// SearchSongsResponse contains search results.
type SearchSongsResponse struct {
	Query string              `json:"query" doc:"Echoed query"`
	Hits  []SearchHitResponse `json:"hits" doc:"Matching tracks"`
}

// SearchSongsOutput wraps the search response for Huma.
type SearchSongsOutput struct {
	Body SearchSongsResponse
}

// ScanResponse reports a completed rescan.
type ScanResponse struct {
	JobID  string `json:"job_id" doc:"Scan job identifier"`
	Tracks int    `json:"tracks" doc:"Tracks found"`
}

// ScanOutput wraps the scan response for Huma.
type ScanOutput struct {
	Body ScanResponse
}

// === Handlers ===

func (s *Server) handleListSongs(ctx context.Context, _ *struct{}) (*ListSongsOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	tracks := s.services.Library.Tracks()
	songs := make([]TrackResponse, 0, len(tracks))
	for _, track := range tracks {
		songs = append(songs, mapTrack(track))
	}

	return &ListSongsOutput{Body: ListSongsResponse{
		Songs:     songs,
		Total:     len(songs),
		ScannedAt: s.services.Library.LastScan(),
	}}, nil
}

func (s *Server) handleSearchSongs(ctx context.Context, input *SearchSongsInput) (*SearchSongsOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	hits, err := s.services.Library.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}

	results := make([]SearchHitResponse, 0, len(hits))
	for _, hit := range hits {
		results = append(results, SearchHitResponse{
			FileName: hit.FileName,
			Title:    hit.Title,
			Artist:   hit.Artist,
			Score:    hit.Score,
		})
	}

	return &SearchSongsOutput{Body: SearchSongsResponse{Query: input.Query, Hits: results}}, nil
}

func (s *Server) handleScanLibrary(ctx context.Context, _ *struct{}) (*ScanOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	result, err := s.services.Library.Rescan(ctx)
	if err != nil {
		return nil, err
	}

	return &ScanOutput{Body: ScanResponse{JobID: result.JobID, Tracks: result.Tracks}}, nil
}

func mapTrack(track *domain.Track) TrackResponse {
	return TrackResponse{
		FileName:   track.FileName,
		Title:      track.Title,
		Artist:     track.Artist,
		Duration:   int64(track.Duration.Seconds()),
		StreamPath: track.StreamPath,
		Format:     track.Format,
		Bitrate:    track.Bitrate,
	}
}
