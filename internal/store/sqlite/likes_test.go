package sqlite

import (
	"context"
	"testing"
	"time"
)

func TestLikeSong_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "alice")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	song := makeTestSong("song-1", "abc", "Song A")
	id1, err := s.LikeSong(ctx, "user-1", song)
	if err != nil {
		t.Fatalf("LikeSong: %v", err)
	}

	id2, err := s.LikeSong(ctx, "user-1", makeTestSong("song-other", "abc", "Song A"))
	if err != nil {
		t.Fatalf("LikeSong (repeat): %v", err)
	}
	if id1 != id2 {
		t.Errorf("song ids differ across re-like: %q vs %q", id1, id2)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM liked_songs WHERE user_id = 'user-1'").Scan(&count); err != nil {
		t.Fatalf("count likes: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly 1 like row, got %d", count)
	}
}

func TestLikeSong_UnknownUserFailsClosed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.LikeSong(ctx, "user-ghost", makeTestSong("song-1", "abc", "Song A"))
	if err == nil {
		t.Fatal("expected foreign key violation for unknown user")
	}

	// The transaction must have rolled back the catalog upsert too.
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM songs").Scan(&count); err != nil {
		t.Fatalf("count songs: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no songs after rollback, got %d", count)
	}
}

func TestListLikedSongs_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "alice")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if _, err := s.LikeSong(ctx, "user-1", makeTestSong("song-a", "ext-a", "Song A")); err != nil {
		t.Fatalf("like A: %v", err)
	}
	// Ensure distinct created_at values.
	time.Sleep(2 * time.Millisecond)
	if _, err := s.LikeSong(ctx, "user-1", makeTestSong("song-b", "ext-b", "Song B")); err != nil {
		t.Fatalf("like B: %v", err)
	}

	liked, err := s.ListLikedSongs(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListLikedSongs: %v", err)
	}
	if len(liked) != 2 {
		t.Fatalf("expected 2 liked songs, got %d", len(liked))
	}
	if liked[0].ExternalID != "ext-b" || liked[1].ExternalID != "ext-a" {
		t.Errorf("expected [ext-b, ext-a], got [%s, %s]", liked[0].ExternalID, liked[1].ExternalID)
	}
}

func TestListLikedSongs_EmptyForNewUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "alice")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	liked, err := s.ListLikedSongs(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListLikedSongs: %v", err)
	}
	if len(liked) != 0 {
		t.Errorf("expected empty list, got %d entries", len(liked))
	}
}

func TestListLikedSongs_ScopedToUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "alice")); err != nil {
		t.Fatalf("CreateUser alice: %v", err)
	}
	if err := s.CreateUser(ctx, makeTestUser("user-2", "bob")); err != nil {
		t.Fatalf("CreateUser bob: %v", err)
	}

	if _, err := s.LikeSong(ctx, "user-1", makeTestSong("song-a", "ext-a", "Song A")); err != nil {
		t.Fatalf("like: %v", err)
	}

	bobLiked, err := s.ListLikedSongs(ctx, "user-2")
	if err != nil {
		t.Fatalf("ListLikedSongs: %v", err)
	}
	if len(bobLiked) != 0 {
		t.Errorf("bob should not see alice's likes, got %d entries", len(bobLiked))
	}
}
