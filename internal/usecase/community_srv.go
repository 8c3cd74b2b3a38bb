package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"media-catalog/internal/cache"
	"media-catalog/internal/data/entity"
	"media-catalog/internal/data/repository"
	"media-catalog/internal/dto/request"
	"media-catalog/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const communitiesCacheEntity = "communities"

type CommunityService interface {
	GetCommunities(ctx context.Context, viewerID *uuid.UUID) ([]response.CommunityResponse, error)
	GetCommunityByID(ctx context.Context, id string, viewerID *uuid.UUID) (*response.CommunityResponse, error)
	GetCommunityByName(ctx context.Context, name string, viewerID *uuid.UUID) (*response.CommunityResponse, error)
	CreateCommunity(ctx context.Context, userID uuid.UUID, req *request.CreateCommunityRequest) (*response.CommunityResponse, error)
	JoinCommunity(ctx context.Context, communityID string, userID uuid.UUID) (*response.MembershipResponse, error)
	LeaveCommunity(ctx context.Context, communityID string, userID uuid.UUID) (*response.MembershipResponse, error)
}

type communityService struct {
	communityRepo repository.CommunityRepository
	cache         *cache.Store
	log           *zap.Logger
}

func NewCommunityService(communityRepo repository.CommunityRepository, store *cache.Store, log *zap.Logger) CommunityService {
	return &communityService{
		communityRepo: communityRepo,
		cache:         store,
		log:           log.With(zap.String("service", "community")),
	}
}

func (s *communityService) GetCommunities(ctx context.Context, viewerID *uuid.UUID) ([]response.CommunityResponse, error) {
	load := func() ([]*entity.CommunityView, error) {
		return s.communityRepo.FindAll(ctx, viewerID)
	}

	var (
		communities []*entity.CommunityView
		err         error
	)
	// Membership is per viewer, only the anonymous list is shared
	if viewerID == nil {
		communities, err = cache.Remember(s.cache, communitiesCacheEntity, "all", load)
	} else {
		communities, err = load()
	}
	if err != nil {
		s.log.Error("Failed to get communities", zap.Error(err))
		return nil, fmt.Errorf("get communities: %w", err)
	}

	items := make([]response.CommunityResponse, len(communities))
	for i, c := range communities {
		items[i] = response.CommunityViewToResponse(c)
	}
	return items, nil
}

func (s *communityService) GetCommunityByID(ctx context.Context, id string, viewerID *uuid.UUID) (*response.CommunityResponse, error) {
	communityID, err := uuid.Parse(id)
	if err != nil {
		return nil, invalid("invalid community ID")
	}

	community, err := s.communityRepo.FindByID(ctx, communityID, viewerID)
	if err != nil {
		s.log.Error("Failed to get community", zap.Error(err), zap.String("community_id", id))
		return nil, fmt.Errorf("get community: %w", err)
	}
	if community == nil {
		return nil, notFound("community %s not found", id)
	}

	resp := response.CommunityViewToResponse(community)
	return &resp, nil
}

func (s *communityService) GetCommunityByName(ctx context.Context, name string, viewerID *uuid.UUID) (*response.CommunityResponse, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, invalid("community name is required")
	}

	community, err := s.communityRepo.FindByName(ctx, name, viewerID)
	if err != nil {
		s.log.Error("Failed to get community by name", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("get community: %w", err)
	}
	if community == nil {
		return nil, notFound("community %q not found", name)
	}

	resp := response.CommunityViewToResponse(community)
	return &resp, nil
}

func (s *communityService) CreateCommunity(ctx context.Context, userID uuid.UUID, req *request.CreateCommunityRequest) (*response.CommunityResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create community validation failed", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	community := &entity.Community{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:          req.Name,
		DisplayName:   strings.TrimSpace(req.DisplayName),
		Description:   req.Description,
		CoverImageURL: req.CoverImageURL,
		CreatedBy:     userID,
	}

	if err := s.communityRepo.CreateWithOwner(ctx, community); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("community name %q is taken", req.Name)
		}
		s.log.Error("Failed to create community", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("create community: %w", err)
	}
	s.cache.Invalidate(communitiesCacheEntity)

	s.log.Info("Community created",
		zap.String("community_id", community.ID.String()),
		zap.String("name", community.Name),
		zap.String("created_by", userID.String()),
	)

	isMember := true
	resp := response.CommunityToResponse(community, &isMember)
	return &resp, nil
}

func (s *communityService) JoinCommunity(ctx context.Context, communityID string, userID uuid.UUID) (*response.MembershipResponse, error) {
	id, err := uuid.Parse(communityID)
	if err != nil {
		return nil, invalid("invalid community ID")
	}

	memberCount, err := s.communityRepo.AddMember(ctx, &entity.CommunityMember{
		CommunityID: id,
		UserID:      userID,
		Role:        entity.MemberRoleMember,
		JoinedAt:    time.Now(),
	})
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, conflict("already a member of this community")
	case errors.Is(err, repository.ErrNoRows):
		return nil, notFound("community %s not found", communityID)
	case err != nil:
		s.log.Error("Failed to join community", zap.Error(err), zap.String("community_id", communityID))
		return nil, fmt.Errorf("join community: %w", err)
	}
	s.cache.Invalidate(communitiesCacheEntity)

	s.log.Info("Community joined",
		zap.String("community_id", communityID),
		zap.String("user_id", userID.String()),
		zap.Int("member_count", memberCount),
	)

	return &response.MembershipResponse{
		CommunityID: communityID,
		MemberCount: memberCount,
		IsMember:    true,
	}, nil
}

func (s *communityService) LeaveCommunity(ctx context.Context, communityID string, userID uuid.UUID) (*response.MembershipResponse, error) {
	id, err := uuid.Parse(communityID)
	if err != nil {
		return nil, invalid("invalid community ID")
	}

	// Tell a missing community apart from a missing membership
	community, err := s.communityRepo.FindByID(ctx, id, nil)
	if err != nil {
		s.log.Error("Failed to get community", zap.Error(err), zap.String("community_id", communityID))
		return nil, fmt.Errorf("get community: %w", err)
	}
	if community == nil {
		return nil, notFound("community %s not found", communityID)
	}

	memberCount, err := s.communityRepo.RemoveMember(ctx, id, userID)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, conflict("not a member of this community")
	}
	if err != nil {
		s.log.Error("Failed to leave community", zap.Error(err), zap.String("community_id", communityID))
		return nil, fmt.Errorf("leave community: %w", err)
	}
	s.cache.Invalidate(communitiesCacheEntity)

	s.log.Info("Community left",
		zap.String("community_id", communityID),
		zap.String("user_id", userID.String()),
		zap.Int("member_count", memberCount),
	)

	return &response.MembershipResponse{
		CommunityID: communityID,
		MemberCount: memberCount,
		IsMember:    false,
	}, nil
}
