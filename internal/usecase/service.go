package usecase

import (
	"media-catalog/internal/cache"
	"media-catalog/internal/data/repository"
	"media-catalog/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth      AuthService
	Profile   ProfileService
	Media     MediaService
	Review    ReviewService
	Community CommunityService
	Post      PostService
}

func NewService(repo *repository.Repository, store *cache.Store, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:      NewAuthService(repo, config, log),
		Profile:   NewProfileService(repo.Profile, log),
		Media:     NewMediaService(repo, store, log),
		Review:    NewReviewService(repo, store, log),
		Community: NewCommunityService(repo.Community, store, log),
		Post:      NewPostService(repo, log),
	}
}
