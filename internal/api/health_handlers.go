package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status  string `json:"status" doc:"Server status"`
	Name    string `json:"name" doc:"Server display name"`
	Version string `json:"version" doc:"API version"`
	Uptime  int64  `json:"uptime_seconds" doc:"Seconds since start"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"System"},
	}, s.handleHealth)
}

func (s *Server) handleHealth(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	return &HealthOutput{Body: HealthResponse{
		Status:  "healthy",
		Name:    s.serverName,
		Version: apiVersion,
		Uptime:  int64(time.Since(s.startedAt).Seconds()),
	}}, nil
}
