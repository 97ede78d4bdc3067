package service

import (
	"context"
	"log/slog"

	"github.com/offtherecordapp/otr-server/internal/cache"
	domainerrors "github.com/offtherecordapp/otr-server/internal/errors"
	"github.com/offtherecordapp/otr-server/internal/ratelimit"
	"github.com/offtherecordapp/otr-server/internal/ytdlp"
)

// resolverKey is the single rate-limit bucket for outbound yt-dlp calls.
const resolverKey = "resolver"

// Resolver turns a source page URL into a playable stream.
type Resolver interface {
	Resolve(ctx context.Context, sourceURL string) (*ytdlp.Resolution, error)
}

// StreamService resolves source URLs to direct audio streams, caching
// results for the TTL window upstream URLs stay valid.
type StreamService struct {
	resolver Resolver
	cache    *cache.Cache
	limiter  *ratelimit.KeyedLimiter
	logger   *slog.Logger
}

// NewStreamService creates a new stream service.
func NewStreamService(resolver Resolver, c *cache.Cache, limiter *ratelimit.KeyedLimiter, logger *slog.Logger) *StreamService {
	return &StreamService{
		resolver: resolver,
		cache:    c,
		limiter:  limiter,
		logger:   logger,
	}
}

// ResolveRequest names the source to resolve.
type ResolveRequest struct {
	URL string `json:"url" validate:"required,url,max=2000"`
}

// Resolve returns a playable stream for the source URL, from cache when
// possible. Outbound resolver calls share a global rate budget.
func (s *StreamService) Resolve(ctx context.Context, req ResolveRequest) (*ytdlp.Resolution, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	cacheKey := "stream:" + req.URL

	var cached ytdlp.Resolution
	if err := s.cache.Get(cacheKey, &cached); err == nil {
		s.logger.Debug("stream cache hit", "url", req.URL)
		return &cached, nil
	} else if !domainerrors.Is(err, cache.ErrMiss) {
		s.logger.Warn("stream cache read failed", "error", err)
	}

	if err := s.limiter.Wait(ctx, resolverKey); err != nil {
		return nil, domainerrors.Unavailable("resolver budget exhausted").WithCause(err)
	}

	resolution, err := s.resolver.Resolve(ctx, req.URL)
	if err != nil {
		if domainerrors.Is(err, ytdlp.ErrNoStream) {
			return nil, domainerrors.NotFound("no playable stream for this source")
		}
		return nil, domainerrors.ResolutionFailed("stream resolution failed").WithCause(err)
	}

	if err := s.cache.Set(cacheKey, resolution); err != nil {
		s.logger.Warn("stream cache write failed", "error", err)
	}

	s.logger.Info("stream resolved", "url", req.URL, "external_id", resolution.ExternalID)
	return resolution, nil
}
