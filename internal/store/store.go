// Package store defines the persistence interface for the Off The Record server.
package store

import (
	"context"
	"errors"

	"github.com/offtherecordapp/otr-server/internal/domain"
)

// Sentinel errors returned by Store implementations. Any other error means
// the backing engine failed; callers surface it as storage unavailability.
var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
)

// Store defines all persistence operations. Implementations rely on the
// backing engine's transaction discipline; no method retries internally.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// Song catalog. UpsertSong inserts song or, when its external_id already
	// exists, returns the existing row's id without touching the row
	// (first-write-wins). Atomic with respect to concurrent upserts of the
	// same external_id.
	UpsertSong(ctx context.Context, song *domain.Song) (string, error)
	GetSongByExternalID(ctx context.Context, externalID string) (*domain.Song, error)

	// Like ledger. LikeSong upserts the song and records the like in one
	// transaction; re-liking is a success no-op. Returns the canonical song id.
	LikeSong(ctx context.Context, userID string, song *domain.Song) (string, error)
	// ListLikedSongs returns the user's liked songs, newest like first.
	ListLikedSongs(ctx context.Context, userID string) ([]*domain.LikedSong, error)
}
