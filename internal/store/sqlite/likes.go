package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/offtherecordapp/otr-server/internal/domain"
)

// LikeSong records that a user liked a song. The catalog upsert and the
// ledger insert share one transaction: either both commit or neither is
// visible. Liking an already-liked song succeeds as a no-op.
func (s *Store) LikeSong(ctx context.Context, userID string, song *domain.Song) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	songID, err := upsertSong(ctx, tx, song)
	if err != nil {
		return "", fmt.Errorf("upsert song: %w", err)
	}

	// OR IGNORE makes the re-like a no-op instead of a constraint error.
	// The user_id foreign key still fires for unknown users.
	_, err = tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO liked_songs (user_id, song_id, created_at)
		VALUES (?, ?, ?)`,
		userID, songID, formatTime(time.Now()),
	)
	if err != nil {
		return "", fmt.Errorf("insert like: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return songID, nil
}

// ListLikedSongs returns every song the user has liked, newest like first.
// Users who have liked nothing get an empty slice.
func (s *Store) ListLikedSongs(ctx context.Context, userID string) ([]*domain.LikedSong, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.external_id, s.title, s.artist, s.thumbnail_url, ls.created_at
		FROM songs s
		JOIN liked_songs ls ON s.id = ls.song_id
		WHERE ls.user_id = ?
		ORDER BY ls.created_at DESC, ls.rowid DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	liked := []*domain.LikedSong{}
	for rows.Next() {
		var (
			song      domain.LikedSong
			thumbnail sql.NullString
			likedAt   string
		)
		if err := rows.Scan(&song.ExternalID, &song.Title, &song.Artist, &thumbnail, &likedAt); err != nil {
			return nil, err
		}
		song.ThumbnailURL = thumbnail.String
		if song.LikedAt, err = parseTime(likedAt); err != nil {
			return nil, err
		}
		liked = append(liked, &song)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return liked, nil
}
