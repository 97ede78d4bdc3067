package providers

import (
	"github.com/samber/do/v2"

	"github.com/offtherecordapp/otr-server/internal/cache"
	"github.com/offtherecordapp/otr-server/internal/config"
	"github.com/offtherecordapp/otr-server/internal/logger"
	"github.com/offtherecordapp/otr-server/internal/ytdlp"
)

// CacheHandle wraps the stream URL cache with shutdown capability.
type CacheHandle struct {
	*cache.Cache
}

// Shutdown implements do.Shutdownable.
func (h *CacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideStreamCache provides the TTL cache for resolved stream URLs.
// Direct URLs from source platforms expire, so cached entries must too.
func ProvideStreamCache(i do.Injector) (*CacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	c, err := cache.Open(cfg.StreamCachePath(), cfg.Resolver.CacheTTL, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Stream cache opened",
		"path", cfg.StreamCachePath(),
		"ttl", cfg.Resolver.CacheTTL,
	)

	return &CacheHandle{Cache: c}, nil
}

// ProvideResolver provides the yt-dlp stream resolver client.
func ProvideResolver(i do.Injector) (*ytdlp.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return ytdlp.NewClient(cfg.Resolver.YtdlpPath, cfg.Resolver.Timeout), nil
}
