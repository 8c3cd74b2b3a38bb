package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"media-catalog/internal/cache"
	"media-catalog/internal/data/entity"
	"media-catalog/internal/data/repository"
	"media-catalog/internal/dto/request"
	"media-catalog/internal/dto/response"
	"media-catalog/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	// Public endpoints
	GetReviewsByMediaID(ctx context.Context, mediaType entity.MediaType, mediaID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetMediaReviewStats(ctx context.Context, mediaType entity.MediaType, mediaID string) (*response.ReviewStatsResponse, error)

	// Signed-in user
	AddReview(ctx context.Context, userID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, reviewID string, userID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, reviewID string, userID uuid.UUID) error
	GetUserReviews(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
}

type reviewService struct {
	repo  *repository.Repository
	cache *cache.Store
	log   *zap.Logger
}

func NewReviewService(repo *repository.Repository, store *cache.Store, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:  repo,
		cache: store,
		log:   log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) AddReview(ctx context.Context, userID uuid.UUID, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	// Validate request
	if err := validate(req); err != nil {
		s.log.Warn("Add review validation failed", zap.Error(err))
		return nil, err
	}

	mediaType := entity.MediaType(req.MediaType)
	mediaID, err := uuid.Parse(req.MediaID)
	if err != nil {
		return nil, invalid("invalid media ID")
	}

	// Check if media exists
	media, err := findMedia(ctx, s.repo, mediaType, mediaID)
	if err != nil {
		s.log.Error("Failed to find media for review", zap.Error(err), zap.String("media_id", req.MediaID))
		return nil, fmt.Errorf("find %s: %w", mediaType, err)
	}
	if media == nil {
		return nil, notFound("%s %s not found", mediaType, req.MediaID)
	}

	// Check if user has already reviewed this media
	existing, err := s.repo.Review.FindByUserAndMedia(ctx, userID, mediaType, mediaID)
	if err != nil {
		s.log.Error("Failed to check existing review", zap.Error(err))
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return nil, conflict("you have already reviewed this %s", mediaType)
	}

	now := time.Now()
	review := &entity.Review{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:    userID,
		MediaID:   mediaID,
		MediaType: mediaType,
		Rating:    req.Rating,
		Content:   req.Content,
	}

	// Save review, the unique index catches a concurrent duplicate
	if err := s.repo.Review.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("you have already reviewed this %s", mediaType)
		}
		s.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("media_id", req.MediaID),
		)
		return nil, fmt.Errorf("create review: %w", err)
	}
	metrics.ReviewsWrittenTotal.WithLabelValues(string(mediaType), "create").Inc()

	// Update media rating
	if err := s.updateMediaRating(ctx, mediaType, mediaID); err != nil {
		s.log.Warn("Failed to update media rating",
			zap.Error(err),
			zap.String("media_id", req.MediaID),
		)
		// Continue anyway
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("media_id", req.MediaID),
		zap.Int("rating", req.Rating),
	)

	return s.buildReviewResponse(ctx, review), nil
}

func (s *reviewService) GetReviewsByMediaID(ctx context.Context, mediaType entity.MediaType, mediaID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	if !mediaType.Valid() {
		return nil, invalid("unknown media type %q", mediaType)
	}
	mediaUUID, err := uuid.Parse(mediaID)
	if err != nil {
		return nil, invalid("invalid %s ID", mediaType)
	}

	req.Normalize()

	reviews, err := s.repo.Review.FindByMedia(ctx, mediaType, mediaUUID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get media reviews",
			zap.Error(err),
			zap.String("media_id", mediaID),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("get media reviews: %w", err)
	}

	total, err := s.repo.Review.CountByMedia(ctx, mediaType, mediaUUID)
	if err != nil {
		s.log.Error("Failed to count media reviews", zap.Error(err))
		return nil, fmt.Errorf("count media reviews: %w", err)
	}

	items := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		items[i] = response.ReviewWithAuthorToResponse(review)
	}

	s.log.Debug("Media reviews retrieved",
		zap.String("media_id", mediaID),
		zap.Int("count", len(reviews)),
		zap.Int64("total", total),
	)

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *reviewService) GetUserReviews(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	req.Normalize()

	reviews, err := s.repo.Review.FindByUserID(ctx, userID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get user reviews",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("get user reviews: %w", err)
	}

	total, err := s.repo.Review.CountByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count user reviews", zap.Error(err))
		return nil, fmt.Errorf("count user reviews: %w", err)
	}

	items := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		items[i] = response.ReviewWithAuthorToResponse(review)
	}

	return response.NewPaginatedResponse(items, req.Page, req.PerPage, total), nil
}

func (s *reviewService) UpdateReview(ctx context.Context, reviewID string, userID uuid.UUID, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	review, err := s.ownedReview(ctx, reviewID, userID, "update")
	if err != nil {
		return nil, err
	}

	// Update fields if provided
	updated := false

	if req.Rating != nil && *req.Rating != review.Rating {
		review.Rating = *req.Rating
		updated = true
	}

	if req.Content != nil {
		review.Content = req.Content
		updated = true
	}

	if !updated {
		// No changes
		return s.buildReviewResponse(ctx, review), nil
	}

	review.UpdatedAt = time.Now()
	if err := s.repo.Review.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, notFound("review %s not found", reviewID)
		}
		s.log.Error("Failed to update review", zap.Error(err), zap.String("review_id", reviewID))
		return nil, fmt.Errorf("update review: %w", err)
	}
	metrics.ReviewsWrittenTotal.WithLabelValues(string(review.MediaType), "update").Inc()

	if err := s.updateMediaRating(ctx, review.MediaType, review.MediaID); err != nil {
		s.log.Warn("Failed to update media rating",
			zap.Error(err),
			zap.String("media_id", review.MediaID.String()),
		)
		// Continue anyway
	}

	s.log.Info("Review updated",
		zap.String("review_id", reviewID),
		zap.String("user_id", userID.String()),
	)

	return s.buildReviewResponse(ctx, review), nil
}

func (s *reviewService) DeleteReview(ctx context.Context, reviewID string, userID uuid.UUID) error {
	review, err := s.ownedReview(ctx, reviewID, userID, "delete")
	if err != nil {
		return err
	}

	if err := s.repo.Review.Delete(ctx, review.ID); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return notFound("review %s not found", reviewID)
		}
		s.log.Error("Failed to delete review", zap.Error(err), zap.String("review_id", reviewID))
		return fmt.Errorf("delete review: %w", err)
	}
	metrics.ReviewsWrittenTotal.WithLabelValues(string(review.MediaType), "delete").Inc()

	if err := s.updateMediaRating(ctx, review.MediaType, review.MediaID); err != nil {
		s.log.Warn("Failed to update media rating",
			zap.Error(err),
			zap.String("media_id", review.MediaID.String()),
		)
		// Continue anyway
	}

	s.log.Info("Review deleted",
		zap.String("review_id", reviewID),
		zap.String("user_id", userID.String()),
		zap.String("media_id", review.MediaID.String()),
	)

	return nil
}

func (s *reviewService) GetMediaReviewStats(ctx context.Context, mediaType entity.MediaType, mediaID string) (*response.ReviewStatsResponse, error) {
	if !mediaType.Valid() {
		return nil, invalid("unknown media type %q", mediaType)
	}
	mediaUUID, err := uuid.Parse(mediaID)
	if err != nil {
		return nil, invalid("invalid %s ID", mediaType)
	}

	stats, err := s.repo.Review.GetMediaReviewStats(ctx, mediaType, mediaUUID)
	if err != nil {
		s.log.Error("Failed to get media review stats",
			zap.Error(err),
			zap.String("media_id", mediaID),
		)
		return nil, fmt.Errorf("get media review stats: %w", err)
	}

	resp := response.ReviewStatsToResponse(stats)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

func (s *reviewService) ownedReview(ctx context.Context, reviewID string, userID uuid.UUID, action string) (*entity.Review, error) {
	id, err := uuid.Parse(reviewID)
	if err != nil {
		return nil, invalid("invalid review ID")
	}

	review, err := s.repo.Review.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find review", zap.Error(err), zap.String("review_id", reviewID))
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review == nil {
		return nil, notFound("review %s not found", reviewID)
	}

	// Check if review belongs to user
	if review.UserID != userID {
		return nil, forbidden("not allowed to %s this review", action)
	}

	return review, nil
}

func (s *reviewService) updateMediaRating(ctx context.Context, mediaType entity.MediaType, mediaID uuid.UUID) error {
	stats, err := s.repo.Review.GetMediaReviewStats(ctx, mediaType, mediaID)
	if err != nil {
		return fmt.Errorf("get average rating: %w", err)
	}

	if mediaType == entity.MediaTypeMovie {
		err = s.repo.Movie.UpdateRating(ctx, mediaID, stats.AverageRating)
	} else {
		err = s.repo.Book.UpdateRating(ctx, mediaID, stats.AverageRating)
	}
	if err != nil {
		return fmt.Errorf("update %s rating: %w", mediaType, err)
	}

	// Cached lists carry the stored rating
	s.cache.Invalidate(mediaType.Table())

	s.log.Debug("Media rating updated",
		zap.String("media_id", mediaID.String()),
		zap.Float64("new_rating", stats.AverageRating),
	)

	return nil
}

func (s *reviewService) buildReviewResponse(ctx context.Context, review *entity.Review) *response.ReviewResponse {
	resp := response.ReviewToResponse(review)

	// Get user info
	profile, _ := s.repo.Profile.FindByID(ctx, review.UserID)
	var username, avatar *string
	if profile != nil {
		username, avatar = &profile.Username, profile.AvatarURL
	}
	user := response.NewUserSummary(username, avatar)
	resp.User = &user

	return &resp
}
