package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"media-catalog/internal/data/entity"
	"media-catalog/internal/data/repository"
	"media-catalog/internal/dto/request"
	"media-catalog/internal/dto/response"
	"media-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientInfo is recorded on the session row.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	SignUp(ctx context.Context, req *request.SignUpRequest, client ClientInfo) (*response.AuthResponse, error)
	SignIn(ctx context.Context, req *request.SignInRequest, client ClientInfo) (*response.AuthResponse, error)
	// SignOut revokes the given session, or every session of the user when
	// everywhere is set.
	SignOut(ctx context.Context, userID uuid.UUID, token string, everywhere bool) error
	Session(ctx context.Context, userID uuid.UUID) (*response.SessionResponse, error)
}

type authService struct {
	repo   *repository.Repository // grouping profileRepo & sessionRepo
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

func (s *authService) SignUp(ctx context.Context, req *request.SignUpRequest, client ClientInfo) (*response.AuthResponse, error) {
	// 1. Validasi input
	if err := validate(req); err != nil {
		s.log.Warn("Sign up validation failed", zap.Error(err))
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	// 2. Cek email sudah terdaftar
	existing, err := s.repo.Profile.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err))
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, conflict("email already registered")
	}

	// 3. Cek username sudah dipakai
	existing, err = s.repo.Profile.FindByUsername(ctx, username)
	if err != nil {
		s.log.Error("Failed to check username", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return nil, conflict("username already taken")
	}

	// 4. Hash password
	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	profile := &entity.Profile{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		PasswordHash: hashed,
		Username:     username,
		IsAdmin:      false,
	}

	// 5. Save profile. A concurrent sign-up can still trip the unique index.
	if err := s.repo.Profile.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("email or username already registered")
		}
		s.log.Error("Failed to create profile", zap.Error(err))
		return nil, fmt.Errorf("create profile: %w", err)
	}

	// 6. Auto sign-in setelah sign up
	session, err := s.createSession(ctx, profile.ID, client)
	if err != nil {
		s.log.Warn("Failed to create session after sign up",
			zap.Error(err), zap.String("user_id", profile.ID.String()))
		// Continue tanpa session, client can sign in
	}

	s.log.Info("User signed up",
		zap.String("user_id", profile.ID.String()),
		zap.String("username", profile.Username))

	resp := response.AuthToResponse(profile, session)
	return &resp, nil
}

func (s *authService) SignIn(ctx context.Context, req *request.SignInRequest, client ClientInfo) (*response.AuthResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Sign in validation failed", zap.Error(err))
		return nil, err
	}

	profile, err := s.repo.Profile.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find profile by email", zap.Error(err))
		return nil, fmt.Errorf("find profile: %w", err)
	}

	// Same message for unknown email and wrong password
	if profile == nil || !utils.CheckPasswordHash(req.Password, profile.PasswordHash) {
		s.log.Warn("Invalid credentials")
		return nil, unauthorized("invalid email or password")
	}

	session, err := s.createSession(ctx, profile.ID, client)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", profile.ID.String()))
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info("User signed in",
		zap.String("user_id", profile.ID.String()),
		zap.String("username", profile.Username))

	resp := response.AuthToResponse(profile, session)
	return &resp, nil
}

func (s *authService) SignOut(ctx context.Context, userID uuid.UUID, token string, everywhere bool) error {
	if everywhere {
		n, err := s.repo.Session.RevokeAll(ctx, userID)
		if err != nil {
			s.log.Error("Failed to revoke all sessions", zap.Error(err), zap.String("user_id", userID.String()))
			return fmt.Errorf("revoke sessions: %w", err)
		}
		s.log.Info("User signed out everywhere",
			zap.String("user_id", userID.String()),
			zap.Int64("sessions", n))
		return nil
	}

	if _, err := uuid.Parse(token); err != nil {
		return unauthorized("invalid token format")
	}

	if err := s.repo.Session.Revoke(ctx, userID, token); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return unauthorized("session already signed out")
		}
		s.log.Error("Failed to revoke session", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("revoke session: %w", err)
	}

	s.log.Info("User signed out", zap.String("user_id", userID.String()))
	return nil
}

func (s *authService) Session(ctx context.Context, userID uuid.UUID) (*response.SessionResponse, error) {
	profile, err := s.repo.Profile.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to load session profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if profile == nil {
		return nil, unauthorized("profile no longer exists")
	}

	return &response.SessionResponse{
		User:    response.ProfileToResponse(profile),
		IsAdmin: profile.IsAdmin,
	}, nil
}

// ==================== HELPER METHODS ====================

func (s *authService) createSession(ctx context.Context, userID uuid.UUID, client ClientInfo) (*entity.Session, error) {
	now := s.now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     uuid.New(),
		UserAgent: optional(client.UserAgent),
		IPAddress: optional(client.IPAddress),
		ExpiresAt: now.Add(s.config.Session.Expiry()),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
