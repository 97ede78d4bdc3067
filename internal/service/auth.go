// Package service implements the application's business logic: account
// management, the liked-songs ledger, library access, and stream
// resolution. Services validate input, coordinate the store and other
// subsystems, and return coded domain errors for the API layer to map.
package service

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/offtherecordapp/otr-server/internal/auth"
	"github.com/offtherecordapp/otr-server/internal/domain"
	domainerrors "github.com/offtherecordapp/otr-server/internal/errors"
	"github.com/offtherecordapp/otr-server/internal/id"
	"github.com/offtherecordapp/otr-server/internal/store"
)

var validate = func() *validator.Validate {
	v := validator.New()
	// Report field names as their JSON tags in validation messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})
	return v
}()

// AuthService handles signup, login, and token verification.
type AuthService struct {
	store        store.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(st store.Store, tokenService *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:        st,
		tokenService: tokenService,
		logger:       logger,
	}
}

// RegisterRequest contains signup credentials.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=1,max=1024"`
}

// RegisterResponse is returned after successful signup.
type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Register creates a new account. Usernames are unique and case-sensitive;
// a taken username surfaces as an already-exists error.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, domainerrors.Validation("password could not be processed").WithCause(err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, domainerrors.Internal("generate user ID").WithCause(err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Username:     req.Username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("username already exists")
		}
		return nil, storeUnavailable("create user", err)
	}

	s.logger.Info("user registered", "user_id", userID, "username", req.Username)

	return &RegisterResponse{UserID: userID, Username: req.Username}, nil
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
}

// Login verifies credentials and issues an access token. Unknown usernames
// and wrong passwords return the same error, so responses don't reveal
// which accounts exist.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredentials("invalid username or password")
		}
		return nil, storeUnavailable("get user", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		s.logger.Warn("failed login attempt", "username", req.Username)
		return nil, domainerrors.InvalidCredentials("invalid username or password")
	}

	token, err := s.tokenService.IssueToken(user)
	if err != nil {
		return nil, domainerrors.Internal("issue token").WithCause(err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return &LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.tokenService.TokenDuration().Seconds()),
		UserID:    user.ID,
		Username:  user.Username,
	}, nil
}

// VerifyToken validates an access token and returns its claims.
func (s *AuthService) VerifyToken(tokenString string) (*auth.Claims, error) {
	claims, err := s.tokenService.VerifyToken(tokenString)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token").WithCause(err)
	}
	return claims, nil
}

// storeUnavailable wraps storage failures so clients see a retryable 503
// instead of an opaque internal error.
func storeUnavailable(op string, err error) error {
	return domainerrors.Unavailable("storage unavailable: " + op).WithCause(err)
}

// formatValidationError converts validator errors into domain validation
// errors with readable, JSON-field-based messages.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if domainerrors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			field := e.Field()
			switch e.Tag() {
			case "required":
				return domainerrors.Validationf("%s is required", field)
			case "min":
				return domainerrors.Validationf("%s must be at least %s characters", field, e.Param())
			case "max":
				return domainerrors.Validationf("%s exceeds maximum length of %s characters", field, e.Param())
			case "url":
				return domainerrors.Validationf("%s must be a valid URL", field)
			default:
				return domainerrors.Validationf("%s is invalid", field)
			}
		}
	}
	return err
}
