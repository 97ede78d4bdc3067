package domain

import "time"

// Song is a deduplicated catalog entry for an externally sourced track,
// keyed by the source's video identifier. Rows are created on first like and
// never rewritten afterwards (first-write-wins).
type Song struct {
	ID           string    `json:"id"`
	ExternalID   string    `json:"external_id"`
	Title        string    `json:"title"`
	Artist       string    `json:"artist"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Like associates a user with a song. At most one row exists per
// (user, song) pair; re-liking is a no-op.
type Like struct {
	UserID    string    `json:"user_id"`
	SongID    string    `json:"song_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LikedSong is a song summary joined with its like timestamp, as returned
// by the liked-songs listing (newest like first).
type LikedSong struct {
	ExternalID   string    `json:"external_id"`
	Title        string    `json:"title"`
	Artist       string    `json:"artist"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	LikedAt      time.Time `json:"liked_at"`
}
