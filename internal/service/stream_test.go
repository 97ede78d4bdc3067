package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offtherecordapp/otr-server/internal/cache"
	domainerrors "github.com/offtherecordapp/otr-server/internal/errors"
	"github.com/offtherecordapp/otr-server/internal/ratelimit"
	"github.com/offtherecordapp/otr-server/internal/ytdlp"
)

// fakeResolver counts calls and returns a canned resolution or error.
type fakeResolver struct {
	calls      int
	resolution *ytdlp.Resolution
	err        error
}

func (f *fakeResolver) Resolve(context.Context, string) (*ytdlp.Resolution, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resolution, nil
}

func newTestStreamService(t *testing.T, resolver Resolver) *StreamService {
	t.Helper()
	c, err := cache.Open(t.TempDir(), time.Minute, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return NewStreamService(resolver, c, ratelimit.New(100, 100), testLogger())
}

func TestResolve(t *testing.T) {
	resolver := &fakeResolver{resolution: &ytdlp.Resolution{
		ExternalID: "abc",
		StreamURL:  "https://cdn.example/audio",
		Title:      "Song A",
		Artist:     "Artist A",
	}}
	svc := newTestStreamService(t, resolver)

	res, err := svc.Resolve(context.Background(), ResolveRequest{URL: "https://tube.example/watch?v=abc"})
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example/audio", res.StreamURL)
	assert.Equal(t, "Song A", res.Title)
	assert.Equal(t, 1, resolver.calls)
}

func TestResolve_SecondCallServedFromCache(t *testing.T) {
	resolver := &fakeResolver{resolution: &ytdlp.Resolution{ExternalID: "abc", StreamURL: "https://cdn.example/a"}}
	svc := newTestStreamService(t, resolver)
	ctx := context.Background()

	req := ResolveRequest{URL: "https://tube.example/watch?v=abc"}
	_, err := svc.Resolve(ctx, req)
	require.NoError(t, err)

	res, err := svc.Resolve(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/a", res.StreamURL)
	assert.Equal(t, 1, resolver.calls, "second resolve must not hit the resolver")
}

func TestResolve_Validation(t *testing.T) {
	svc := newTestStreamService(t, &fakeResolver{})
	ctx := context.Background()

	_, err := svc.Resolve(ctx, ResolveRequest{})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.Resolve(ctx, ResolveRequest{URL: "not a url"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestResolve_NoStreamMapsToNotFound(t *testing.T) {
	svc := newTestStreamService(t, &fakeResolver{err: ytdlp.ErrNoStream})

	_, err := svc.Resolve(context.Background(), ResolveRequest{URL: "https://tube.example/watch?v=gone"})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestResolve_ResolverFailure(t *testing.T) {
	resolver := &fakeResolver{err: errors.New("yt-dlp exited 1")}
	svc := newTestStreamService(t, resolver)

	_, err := svc.Resolve(context.Background(), ResolveRequest{URL: "https://tube.example/watch?v=abc"})
	assert.ErrorIs(t, err, domainerrors.ErrResolutionFailed)

	// Failures are not cached.
	resolver.err = nil
	resolver.resolution = &ytdlp.Resolution{ExternalID: "abc", StreamURL: "https://cdn.example/a"}
	_, err = svc.Resolve(context.Background(), ResolveRequest{URL: "https://tube.example/watch?v=abc"})
	require.NoError(t, err)
	assert.Equal(t, 2, resolver.calls)
}
