package providers

import (
	"github.com/samber/do/v2"

	"github.com/offtherecordapp/otr-server/internal/auth"
	"github.com/offtherecordapp/otr-server/internal/logger"
	"github.com/offtherecordapp/otr-server/internal/ratelimit"
	"github.com/offtherecordapp/otr-server/internal/scanner"
	"github.com/offtherecordapp/otr-server/internal/service"
	"github.com/offtherecordapp/otr-server/internal/ytdlp"
)

// Resolver invocations are expensive subprocess calls, so the whole
// server shares one small budget regardless of how many users ask.
const (
	resolverRPS   = 1.0
	resolverBurst = 3
)

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideLikeService provides the liked songs service.
func ProvideLikeService(i do.Injector) (*service.LikeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLikeService(storeHandle.Store, log.Logger), nil
}

// ProvideLibraryService provides the local music library service.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	sc := do.MustInvoke[*scanner.Scanner](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLibraryService(sc, indexHandle.Index, log.Logger), nil
}

// ProvideStreamService provides the stream resolution service.
func ProvideStreamService(i do.Injector) (*service.StreamService, error) {
	resolver := do.MustInvoke[*ytdlp.Client](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	limiter := ratelimit.New(resolverRPS, resolverBurst)

	return service.NewStreamService(resolver, cacheHandle.Cache, limiter, log.Logger), nil
}
