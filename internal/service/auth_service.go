package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

// AuthService handles signup, login and the current-user lookup.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	ledger        *ledger.Ledger
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, l *ledger.Ledger, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		ledger:        l,
		logger:        logger,
	}
}

// Handlers returns the service's routes.
func (s *AuthService) Handlers(opts Options) []Route {
	return []Route{
		unary(api.AuthRegisterProcedure, s.Register, opts.Public),
		unary(api.AuthLoginProcedure, s.Login, opts.Public),
		unary(api.AuthGetCurrentUserProcedure, s.GetCurrentUser, opts.Protected),
	}
}

// Register creates a new user account and returns a session token.
func (s *AuthService) Register(ctx context.Context, req *api.RegisterRequest) (*api.AuthResponse, error) {
	if req.Name == "" {
		return nil, invalidArgument("name is required")
	}

	user, err := s.authenticator.Register(ctx, req.Email, req.Name, req.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "email", req.Email, "error", err)
		return nil, err
	}

	resp, err := s.session(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID)
	return resp, nil
}

// Login authenticates a user and returns a session token.
func (s *AuthService) Login(ctx context.Context, req *api.LoginRequest) (*api.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Email, "error", err)
		return nil, err
	}

	return s.session(user)
}

func (s *AuthService) session(user *models.User) (*api.AuthResponse, error) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, err
	}
	return &api.AuthResponse{User: toAPIUser(user.Summary()), Token: token}, nil
}

// GetCurrentUser returns the authenticated user's profile.
func (s *AuthService) GetCurrentUser(ctx context.Context, _ *api.Empty) (*api.UserResponse, error) {
	userID := middleware.GetUserID(ctx)
	if userID == 0 {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	user, err := s.ledger.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &api.UserResponse{User: toAPIUser(*user)}, nil
}
