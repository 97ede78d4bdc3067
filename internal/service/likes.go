package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/offtherecordapp/otr-server/internal/domain"
	domainerrors "github.com/offtherecordapp/otr-server/internal/errors"
	"github.com/offtherecordapp/otr-server/internal/id"
	"github.com/offtherecordapp/otr-server/internal/store"
)

// LikeService manages each user's liked-songs ledger.
type LikeService struct {
	store  store.Store
	logger *slog.Logger
}

// NewLikeService creates a new like service.
func NewLikeService(st store.Store, logger *slog.Logger) *LikeService {
	return &LikeService{store: st, logger: logger}
}

// LikeRequest identifies the song being liked. Metadata rides along so the
// catalog entry can be created on first like; later likes of the same
// external ID keep the original metadata.
type LikeRequest struct {
	ExternalID   string `json:"external_id" validate:"required,max=200"`
	Title        string `json:"title" validate:"max=500"`
	Artist       string `json:"artist" validate:"max=500"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url,max=1000"`
}

// LikeResponse reports the catalog song the like now points at.
type LikeResponse struct {
	SongID     string `json:"song_id"`
	ExternalID string `json:"external_id"`
}

// Like records a like for the user. Liking an already-liked song is a
// no-op that still succeeds.
func (s *LikeService) Like(ctx context.Context, userID string, req LikeRequest) (*LikeResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	songID, err := id.Generate("song")
	if err != nil {
		return nil, domainerrors.Internal("generate song ID").WithCause(err)
	}

	song := &domain.Song{
		ID:           songID,
		ExternalID:   req.ExternalID,
		Title:        displayOr(req.Title, "Unknown Title"),
		Artist:       displayOr(req.Artist, "Unknown Artist"),
		ThumbnailURL: req.ThumbnailURL,
		CreatedAt:    time.Now(),
	}

	storedID, err := s.store.LikeSong(ctx, userID, song)
	if err != nil {
		return nil, storeUnavailable("like song", err)
	}

	s.logger.Info("song liked", "user_id", userID, "song_id", storedID, "external_id", req.ExternalID)

	return &LikeResponse{SongID: storedID, ExternalID: req.ExternalID}, nil
}

// ListLiked returns the user's liked songs, most recently liked first.
func (s *LikeService) ListLiked(ctx context.Context, userID string) ([]*domain.LikedSong, error) {
	liked, err := s.store.ListLikedSongs(ctx, userID)
	if err != nil {
		return nil, storeUnavailable("list liked songs", err)
	}
	return liked, nil
}

func displayOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
