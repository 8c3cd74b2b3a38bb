package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"media-catalog/internal/data/repository"
	"media-catalog/internal/dto/request"
	"media-catalog/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.ProfileResponse, error)

	// Admin
	ListProfiles(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ProfileResponse], error)
	SetAdmin(ctx context.Context, actorID uuid.UUID, profileID string, isAdmin bool) (*response.ProfileResponse, error)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	log         *zap.Logger
}

func NewProfileService(profileRepo repository.ProfileRepository, log *zap.Logger) ProfileService {
	return &profileService{
		profileRepo: profileRepo,
		log:         log.With(zap.String("service", "profile")),
	}
}

func (ps *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.ProfileResponse, error) {
	profile, err := ps.profileRepo.FindByID(ctx, userID)
	if err != nil {
		ps.log.Error("Failed to find profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if profile == nil {
		return nil, notFound("profile not found")
	}

	resp := response.ProfileToResponse(profile)
	return &resp, nil
}

func (ps *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.ProfileResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	profile, err := ps.profileRepo.FindByID(ctx, userID)
	if err != nil {
		ps.log.Error("Failed to find profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if profile == nil {
		return nil, notFound("profile not found")
	}

	if req.Username != nil {
		profile.Username = strings.TrimSpace(*req.Username)
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = req.AvatarURL
	}
	profile.UpdatedAt = time.Now()

	if err := ps.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("username already taken")
		}
		ps.log.Error("Failed to update profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("update profile: %w", err)
	}

	ps.log.Info("Profile updated", zap.String("user_id", userID.String()))

	resp := response.ProfileToResponse(profile)
	return &resp, nil
}

func (ps *profileService) ListProfiles(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ProfileResponse], error) {
	req.Normalize()

	profiles, err := ps.profileRepo.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		ps.log.Error("Failed to list profiles",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	total, err := ps.profileRepo.CountAll(ctx)
	if err != nil {
		ps.log.Error("Failed to count profiles", zap.Error(err))
		return nil, fmt.Errorf("count profiles: %w", err)
	}

	items := make([]response.ProfileResponse, len(profiles))
	for i, p := range profiles {
		items[i] = response.ProfileToResponse(p)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (ps *profileService) SetAdmin(ctx context.Context, actorID uuid.UUID, profileID string, isAdmin bool) (*response.ProfileResponse, error) {
	id, err := uuid.Parse(profileID)
	if err != nil {
		return nil, invalid("invalid profile ID")
	}

	// Admins cannot revoke their own flag.
	if id == actorID && !isAdmin {
		return nil, forbidden("cannot revoke your own admin access")
	}

	if err := ps.profileRepo.SetAdmin(ctx, id, isAdmin); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, notFound("profile %s not found", profileID)
		}
		ps.log.Error("Failed to set admin flag", zap.Error(err), zap.String("profile_id", profileID))
		return nil, fmt.Errorf("set admin: %w", err)
	}

	ps.log.Info("Admin flag changed",
		zap.String("actor_id", actorID.String()),
		zap.String("profile_id", profileID),
		zap.Bool("is_admin", isAdmin),
	)

	return ps.GetProfile(ctx, id)
}
