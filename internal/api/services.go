package api

import "github.com/offtherecordapp/otr-server/internal/service"

// Services bundles the application services handlers depend on.
type Services struct {
	Auth    *service.AuthService
	Likes   *service.LikeService
	Library *service.LibraryService
	Stream  *service.StreamService
}
