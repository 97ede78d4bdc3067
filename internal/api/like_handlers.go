package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/offtherecordapp/otr-server/internal/service"
)

func (s *Server) registerLikeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "like-song",
		Method:      http.MethodPost,
		Path:        "/api/v1/likes",
		Summary:     "Like a song",
		Description: "Records a like. Re-liking an already-liked song succeeds without change.",
		Tags:        []string{"Likes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLikeSong)

	huma.Register(s.api, huma.Operation{
		OperationID: "list-likes",
		Method:      http.MethodGet,
		Path:        "/api/v1/likes",
		Summary:     "List liked songs",
		Description: "Returns the user's liked songs, most recently liked first.",
		Tags:        []string{"Likes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLikes)
}

// === DTOs ===

// LikeSongRequest identifies the song being liked.
type LikeSongRequest struct {
	ExternalID   string `json:"external_id" doc:"Source platform song ID"`
	Title        string `json:"title,omitempty" doc:"Song title"`
	Artist       string `json:"artist,omitempty" doc:"Song artist"`
	ThumbnailURL string `json:"thumbnail_url,omitempty" doc:"Cover image URL"`
}

// LikeSongInput wraps the like request for Huma.
type LikeSongInput struct {
	Body LikeSongRequest
}

// LikeSongResponse reports the catalog entry the like points at.
type LikeSongResponse struct {
	SongID     string `json:"song_id" doc:"Catalog song ID"`
	ExternalID string `json:"external_id" doc:"Source platform song ID"`
}

// LikeSongOutput wraps the like response for Huma.
type LikeSongOutput struct {
	Status int
	Body   LikeSongResponse
}

// LikedSongResponse is one entry in the liked list.
type LikedSongResponse struct {
	ExternalID   string    `json:"external_id" doc:"Source platform song ID"`
	Title        string    `json:"title" doc:"Song title"`
	Artist       string    `json:"artist" doc:"Song artist"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty" doc:"Cover image URL"`
	LikedAt      time.Time `json:"liked_at" doc:"When the song was liked"`
}

// ListLikesResponse contains the user's liked songs.
type ListLikesResponse struct {
	Songs []LikedSongResponse `json:"songs" doc:"Liked songs, newest first"`
	Total int                 `json:"total" doc:"Number of liked songs"`
}

// ListLikesOutput wraps the list response for Huma.
type ListLikesOutput struct {
	Body ListLikesResponse
}

// === Handlers ===

func (s *Server) handleLikeSong(ctx context.Context, input *LikeSongInput) (*LikeSongOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.services.Likes.Like(ctx, userID, service.LikeRequest{
		ExternalID:   input.Body.ExternalID,
		Title:        input.Body.Title,
		Artist:       input.Body.Artist,
		ThumbnailURL: input.Body.ThumbnailURL,
	})
	if err != nil {
		return nil, err
	}

	return &LikeSongOutput{
		Status: http.StatusCreated,
		Body: LikeSongResponse{
			SongID:     resp.SongID,
			ExternalID: resp.ExternalID,
		},
	}, nil
}

func (s *Server) handleListLikes(ctx context.Context, _ *struct{}) (*ListLikesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	liked, err := s.services.Likes.ListLiked(ctx, userID)
	if err != nil {
		return nil, err
	}

	songs := make([]LikedSongResponse, 0, len(liked))
	for _, song := range liked {
		songs = append(songs, LikedSongResponse{
			ExternalID:   song.ExternalID,
			Title:        song.Title,
			Artist:       song.Artist,
			ThumbnailURL: song.ThumbnailURL,
			LikedAt:      song.LikedAt,
		})
	}

	return &ListLikesOutput{Body: ListLikesResponse{Songs: songs, Total: len(songs)}}, nil
}
