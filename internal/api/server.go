// Package api provides the HTTP surface of the Off The Record server:
// auth and likes under /api/v1, stream resolution, and static serving of
// the local music folder under /music.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/offtherecordapp/otr-server/internal/ratelimit"
)

// apiVersion is reported by the health endpoint and the OpenAPI spec.
const apiVersion = "1.0.0"

// Options configures the HTTP server.
type Options struct {
	ServerName  string
	MusicPath   string
	CORSOrigins []string
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services    Services
	router      *chi.Mux
	api         huma.API
	authLimiter *ratelimit.KeyedLimiter
	musicPath   string
	serverName  string
	logger      *slog.Logger
	startedAt   time.Time
}

// NewServer creates an HTTP server with all routes configured.
func NewServer(services Services, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		services: services,
		router:   chi.NewRouter(),
		// 10 signup/login attempts per minute per IP, small burst.
		authLimiter: ratelimit.New(10.0/60.0, 5),
		musicPath:   opts.MusicPath,
		serverName:  opts.ServerName,
		logger:      logger,
		startedAt:   time.Now(),
	}

	s.setupMiddleware(opts.CORSOrigins)

	humaConfig := huma.DefaultConfig(opts.ServerName+" API", apiVersion)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerSongRoutes()
	s.registerLikeRoutes()
	s.registerStreamRoutes()
	s.setupMusicRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware(corsOrigins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(authMiddleware(s.services.Auth))
}

// setupMusicRoutes serves library files directly from disk. Range
// requests work out of the box, which players rely on for seeking.
func (s *Server) setupMusicRoutes() {
	if s.musicPath == "" {
		return
	}

	fileServer := http.StripPrefix("/music/", http.FileServer(http.Dir(s.musicPath)))
	s.router.Get("/music/*", func(w http.ResponseWriter, r *http.Request) {
		fileServer.ServeHTTP(w, r)
	})
}
