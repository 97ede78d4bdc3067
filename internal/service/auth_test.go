package service

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offtherecordapp/otr-server/internal/auth"
	"github.com/offtherecordapp/otr-server/internal/domain"
	domainerrors "github.com/offtherecordapp/otr-server/internal/errors"
	"github.com/offtherecordapp/otr-server/internal/store"
	"github.com/offtherecordapp/otr-server/internal/store/sqlite"
)

// fakeStore is an in-memory store.Store for service tests.
type fakeStore struct {
	usersByID   map[string]*domain.User
	usersByName map[string]*domain.User
	songsByExt  map[string]*domain.Song
	likes       map[string][]*domain.LikedSong

	failWith error // when set, every call fails with this error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		usersByID:   map[string]*domain.User{},
		usersByName: map[string]*domain.User{},
		songsByExt:  map[string]*domain.Song{},
		likes:       map[string][]*domain.LikedSong{},
	}
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) CreateUser(_ context.Context, user *domain.User) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.usersByName[user.Username]; ok {
		return store.ErrAlreadyExists
	}
	f.usersByID[user.ID] = user
	f.usersByName[user.Username] = user
	return nil
}

func (f *fakeStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if u, ok := f.usersByID[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if u, ok := f.usersByName[username]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) UpsertSong(_ context.Context, song *domain.Song) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	if existing, ok := f.songsByExt[song.ExternalID]; ok {
		return existing.ID, nil
	}
	f.songsByExt[song.ExternalID] = song
	return song.ID, nil
}

func (f *fakeStore) GetSongByExternalID(_ context.Context, externalID string) (*domain.Song, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if s, ok := f.songsByExt[externalID]; ok {
		return s, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) LikeSong(ctx context.Context, userID string, song *domain.Song) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	songID, err := f.UpsertSong(ctx, song)
	if err != nil {
		return "", err
	}
	canonical := f.songsByExt[song.ExternalID]
	for _, liked := range f.likes[userID] {
		if liked.ExternalID == song.ExternalID {
			return songID, nil
		}
	}
	// Prepend: newest like first.
	f.likes[userID] = append([]*domain.LikedSong{{
		ExternalID:   canonical.ExternalID,
		Title:        canonical.Title,
		Artist:       canonical.Artist,
		ThumbnailURL: canonical.ThumbnailURL,
		LikedAt:      time.Now(),
	}}, f.likes[userID]...)
	return songID, nil
}

func (f *fakeStore) ListLikedSongs(_ context.Context, userID string) ([]*domain.LikedSong, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	liked := f.likes[userID]
	if liked == nil {
		liked = []*domain.LikedSong{}
	}
	return liked, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeStore) {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)

	tokens, err := auth.NewTokenService(key, 24*time.Hour)
	require.NoError(t, err)

	st := newFakeStore()
	return NewAuthService(st, tokens, testLogger()), st
}

func TestRegister(t *testing.T) {
	svc, st := newTestAuthService(t)

	resp, err := svc.Register(context.Background(), RegisterRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.UserID)
	assert.Equal(t, "alice", resp.Username)

	stored := st.usersByName["alice"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret", stored.PasswordHash, "password must be stored hashed")
	assert.True(t, auth.VerifyPassword(stored.PasswordHash, "secret"))
}

func TestRegister_PersistsTimestamps(t *testing.T) {
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, 24*time.Hour)
	require.NoError(t, err)

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	svc := NewAuthService(st, tokens, testLogger())

	resp, err := svc.Register(context.Background(), RegisterRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	// Round-trip through the real store: rows must carry a real creation
	// time, not the zero value.
	stored, err := st.GetUser(context.Background(), resp.UserID)
	require.NoError(t, err)
	assert.False(t, stored.CreatedAt.IsZero(), "created_at must be stamped at signup")
	assert.False(t, stored.UpdatedAt.IsZero(), "updated_at must be stamped at signup")
	assert.WithinDuration(t, time.Now(), stored.CreatedAt, time.Minute)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "alice", Password: "other"})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "", Password: "pw"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Contains(t, err.Error(), "username")

	_, err = svc.Register(ctx, RegisterRequest{Username: "alice", Password: ""})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Contains(t, err.Error(), "password")
}

func TestRegister_StoreDown(t *testing.T) {
	svc, st := newTestAuthService(t)
	st.failWith = errors.New("disk on fire")

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "alice", Password: "pw"})
	assert.ErrorIs(t, err, domainerrors.ErrUnavailable)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, LoginRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, reg.UserID, resp.UserID)
	assert.Equal(t, int64((24*time.Hour).Seconds()), resp.ExpiresIn)

	claims, err := svc.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestLogin_SameErrorForUnknownUserAndWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Password: "secret"})
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, LoginRequest{Username: "nobody", Password: "secret"})
	_, wrongErr := svc.Login(ctx, LoginRequest{Username: "alice", Password: "wrong"})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.ErrorIs(t, unknownErr, domainerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, domainerrors.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error(),
		"responses must not reveal whether the account exists")
}

func TestLogin_StoreDown(t *testing.T) {
	svc, st := newTestAuthService(t)
	st.failWith = errors.New("connection refused")

	_, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "pw"})
	assert.ErrorIs(t, err, domainerrors.ErrUnavailable)
}

func TestVerifyToken_Invalid(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.VerifyToken("v4.local.garbage")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}
