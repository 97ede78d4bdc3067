package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/offtherecordapp/otr-server/internal/domain"
	"github.com/offtherecordapp/otr-server/internal/store"
)

// execer covers *sql.DB and *sql.Tx so the upsert can run standalone or
// inside the like transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// UpsertSong inserts the song or, when its external_id already exists,
// returns the existing row's id. Existing rows are never rewritten.
func (s *Store) UpsertSong(ctx context.Context, song *domain.Song) (string, error) {
	return upsertSong(ctx, s.db, song)
}

// upsertSong relies on the unique index on songs.external_id: the INSERT is
// a no-op on conflict, and the follow-up SELECT observes whichever writer
// won. Run inside a transaction when composed with other writes.
func upsertSong(ctx context.Context, q execer, song *domain.Song) (string, error) {
	_, err := q.ExecContext(ctx, `
		INSERT INTO songs (id, external_id, title, artist, thumbnail_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO NOTHING`,
		song.ID,
		song.ExternalID,
		song.Title,
		song.Artist,
		nullString(song.ThumbnailURL),
		formatTime(song.CreatedAt),
	)
	if err != nil {
		return "", err
	}

	var songID string
	err = q.QueryRowContext(ctx,
		`SELECT id FROM songs WHERE external_id = ?`, song.ExternalID).Scan(&songID)
	if err != nil {
		return "", err
	}
	return songID, nil
}

// GetSongByExternalID retrieves a catalog entry by its source identifier.
// Returns store.ErrNotFound when the song has never been liked.
func (s *Store) GetSongByExternalID(ctx context.Context, externalID string) (*domain.Song, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, external_id, title, artist, thumbnail_url, created_at
		FROM songs WHERE external_id = ?`, externalID)

	var (
		song      domain.Song
		thumbnail sql.NullString
		createdAt string
	)
	err := row.Scan(&song.ID, &song.ExternalID, &song.Title, &song.Artist, &thumbnail, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	song.ThumbnailURL = thumbnail.String
	if song.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &song, nil
}
