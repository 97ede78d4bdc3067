// Package di provides dependency injection configuration for the
// Off The Record server.
package di

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/offtherecordapp/otr-server/internal/auth"
	"github.com/offtherecordapp/otr-server/internal/config"
	"github.com/offtherecordapp/otr-server/internal/di/providers"
	"github.com/offtherecordapp/otr-server/internal/logger"
	"github.com/offtherecordapp/otr-server/internal/scanner"
	"github.com/offtherecordapp/otr-server/internal/service"
	"github.com/offtherecordapp/otr-server/internal/ytdlp"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Library layer
	do.Provide(injector, providers.ProvideScanner)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Stream resolution layer
	do.Provide(injector, providers.ProvideStreamCache)
	do.Provide(injector, providers.ProvideResolver)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideLikeService)
	do.Provide(injector, providers.ProvideLibraryService)
	do.Provide(injector, providers.ProvideStreamService)

	// Workers
	do.Provide(injector, providers.ProvideFileWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMDNSService)

	return injector
}

// Bootstrap initializes all services. This triggers lazy initialization
// of everything registered in the container, then kicks off the initial
// library scan in the background.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	log := do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*scanner.Scanner](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.CacheHandle](injector)
	_ = do.MustInvoke[*ytdlp.Client](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.LikeService](injector)
	library := do.MustInvoke[*service.LibraryService](injector)
	_ = do.MustInvoke[*service.StreamService](injector)

	// Workers
	_ = do.MustInvoke[*providers.FileWatcherHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)
	_ = do.MustInvoke[*providers.MDNSServiceHandle](injector)

	// Initial library scan, off the startup path so a large folder does
	// not delay the server accepting requests.
	go func() {
		result, err := library.Rescan(context.Background())
		if err != nil {
			log.Warn("Initial library scan failed", "error", err)
			return
		}
		log.Info("Initial library scan complete",
			"tracks", result.Tracks,
			"skipped", result.Skipped,
			"duration", result.Duration,
		)
	}()

	return nil
}
