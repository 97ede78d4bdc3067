package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/offtherecordapp/otr-server/internal/service"
)

func (s *Server) registerStreamRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "resolve-stream",
		Method:      http.MethodPost,
		Path:        "/api/v1/stream",
		Summary:     "Resolve a playable stream",
		Description: "Resolves a source page URL to a direct audio stream URL with metadata.",
		Tags:        []string{"Streaming"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleResolveStream)
}

// === DTOs ===

// ResolveStreamRequest names the source URL to resolve.
type ResolveStreamRequest struct {
	URL string `json:"url" doc:"Source page URL"`
}

// ResolveStreamInput wraps the resolve request for Huma.
type ResolveStreamInput struct {
	Body ResolveStreamRequest
}

// ResolveStreamResponse carries the playable stream and metadata.
type ResolveStreamResponse struct {
	ExternalID   string `json:"external_id" doc:"Source platform song ID"`
	StreamURL    string `json:"stream_url" doc:"Direct audio stream URL"`
	Title        string `json:"title" doc:"Song title"`
	Artist       string `json:"artist" doc:"Song artist"`
	ThumbnailURL string `json:"thumbnail_url,omitempty" doc:"Cover image URL"`
}

// ResolveStreamOutput wraps the resolve response for Huma.
type ResolveStreamOutput struct {
	Body ResolveStreamResponse
}

// === Handlers ===

func (s *Server) handleResolveStream(ctx context.Context, input *ResolveStreamInput) (*ResolveStreamOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	resolution, err := s.services.Stream.Resolve(ctx, service.ResolveRequest{URL: input.Body.URL})
	if err != nil {
		return nil, err
	}

	return &ResolveStreamOutput{Body: ResolveStreamResponse{
		ExternalID:   resolution.ExternalID,
		StreamURL:    resolution.StreamURL,
		Title:        resolution.Title,
		Artist:       resolution.Artist,
		ThumbnailURL: resolution.ThumbnailURL,
	}}, nil
}
