package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/offtherecordapp/otr-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "signup",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/signup",
		Summary:     "Create account",
		Description: "Registers a new user account with a unique username.",
		Tags:        []string{"Authentication"},
	}, s.handleSignup)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Log in",
		Description: "Authenticates a user and returns a PASETO access token.",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)
}

// === DTOs ===

// SignupRequest is the request body for account creation.
type SignupRequest struct {
	Username string `json:"username" doc:"Unique username"`
	Password string `json:"password" doc:"Account password"`
}

// SignupInput wraps the signup request with client IP headers for Huma.
type SignupInput struct {
	Body          SignupRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// SignupResponse contains the created account.
type SignupResponse struct {
	UserID   string `json:"user_id" doc:"Created user ID"`
	Username string `json:"username" doc:"Registered username"`
}

// SignupOutput wraps the signup response for Huma.
type SignupOutput struct {
	Status int
	Body   SignupResponse
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Username string `json:"username" doc:"Account username"`
	Password string `json:"password" doc:"Account password"`
}

// LoginInput wraps the login request with client IP headers for Huma.
type LoginInput struct {
	Body          LoginRequest
	XForwardedFor string `header:"X-Forwarded-For"`
	XRealIP       string `header:"X-Real-IP"`
}

// LoginResponse contains the access token and account info.
type LoginResponse struct {
	Token     string `json:"token" doc:"PASETO access token"`
	TokenType string `json:"token_type" doc:"Token type (Bearer)"`
	ExpiresIn int64  `json:"expires_in" doc:"Token expiry in seconds"`
	UserID    string `json:"user_id" doc:"Authenticated user ID"`
	Username  string `json:"username" doc:"Authenticated username"`
}

// LoginOutput wraps the login response for Huma.
type LoginOutput struct {
	Body LoginResponse
}

// === Handlers ===

func (s *Server) handleSignup(ctx context.Context, input *SignupInput) (*SignupOutput, error) {
	if !s.authLimiter.Allow(clientIP(input.XForwardedFor, input.XRealIP)) {
		return nil, huma.Error429TooManyRequests("Too many requests. Please try again later.")
	}

	resp, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &SignupOutput{
		Status: http.StatusCreated,
		Body: SignupResponse{
			UserID:   resp.UserID,
			Username: resp.Username,
		},
	}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	// Per-IP throttle against credential stuffing.
	if !s.authLimiter.Allow(clientIP(input.XForwardedFor, input.XRealIP)) {
		return nil, huma.Error429TooManyRequests("Too many login attempts. Please try again later.")
	}

	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Username: input.Body.Username,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &LoginOutput{Body: LoginResponse{
		Token:     resp.Token,
		TokenType: "Bearer",
		ExpiresIn: resp.ExpiresIn,
		UserID:    resp.UserID,
		Username:  resp.Username,
	}}, nil
}

// clientIP picks the first forwarded address, falling back to X-Real-IP.
// An empty result keys all unidentified clients into one bucket.
func clientIP(xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		for i := range len(xForwardedFor) {
			if xForwardedFor[i] == ',' {
				return xForwardedFor[:i]
			}
		}
		return xForwardedFor
	}
	return xRealIP
}
