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
	"media-catalog/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultRecentPosts = 10
	maxRecentPosts     = 50
)

type PostService interface {
	GetCommunityPosts(ctx context.Context, communityID string, viewerID *uuid.UUID) ([]response.PostResponse, error)
	GetRecentPosts(ctx context.Context, limit int, viewerID *uuid.UUID) ([]response.PostResponse, error)
	GetPost(ctx context.Context, id string, viewerID *uuid.UUID) (*response.PostResponse, error)
	CreatePost(ctx context.Context, userID uuid.UUID, req *request.CreatePostRequest) (*response.PostResponse, error)
	VoteOnPost(ctx context.Context, postID string, userID uuid.UUID, req *request.VoteRequest) (*response.VoteResponse, error)

	GetPostComments(ctx context.Context, postID string) ([]response.CommentResponse, error)
	AddComment(ctx context.Context, postID string, userID uuid.UUID, req *request.CreateCommentRequest) (*response.CommentResponse, error)
}

type postService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewPostService(repo *repository.Repository, log *zap.Logger) PostService {
	return &postService{
		repo: repo,
		log:  log.With(zap.String("service", "post")),
	}
}

// GetCommunityPosts lists posts newest first. An empty communityID lists
// posts across every community.
func (s *postService) GetCommunityPosts(ctx context.Context, communityID string, viewerID *uuid.UUID) ([]response.PostResponse, error) {
	var filter *uuid.UUID
	if communityID != "" {
		id, err := uuid.Parse(communityID)
		if err != nil {
			return nil, invalid("invalid community ID")
		}
		filter = &id
	}

	return s.listPosts(ctx, filter, viewerID, 0)
}

func (s *postService) GetRecentPosts(ctx context.Context, limit int, viewerID *uuid.UUID) ([]response.PostResponse, error) {
	if limit < 1 {
		limit = defaultRecentPosts
	}
	if limit > maxRecentPosts {
		limit = maxRecentPosts
	}
	return s.listPosts(ctx, nil, viewerID, limit)
}

func (s *postService) GetPost(ctx context.Context, id string, viewerID *uuid.UUID) (*response.PostResponse, error) {
	postID, err := uuid.Parse(id)
	if err != nil {
		return nil, invalid("invalid post ID")
	}

	post, err := s.repo.Post.FindByID(ctx, postID, viewerID)
	if err != nil {
		s.log.Error("Failed to get post", zap.Error(err), zap.String("post_id", id))
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return nil, notFound("post %s not found", id)
	}

	resp := response.PostViewToResponse(post)
	return &resp, nil
}

func (s *postService) CreatePost(ctx context.Context, userID uuid.UUID, req *request.CreatePostRequest) (*response.PostResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create post validation failed", zap.Error(err))
		return nil, err
	}

	communityID, err := uuid.Parse(req.CommunityID)
	if err != nil {
		return nil, invalid("invalid community ID")
	}
	if err := s.requireMember(ctx, communityID, userID); err != nil {
		return nil, err
	}

	now := time.Now()
	post := &entity.CommunityPost{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CommunityID: communityID,
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
	}

	// Optional media attachment must point at an existing book or movie
	if req.MediaID != nil && req.MediaType != nil {
		mediaID, err := uuid.Parse(*req.MediaID)
		if err != nil {
			return nil, invalid("invalid media ID")
		}
		mediaType := entity.MediaType(*req.MediaType)

		media, err := findMedia(ctx, s.repo, mediaType, mediaID)
		if err != nil {
			s.log.Error("Failed to find attached media", zap.Error(err), zap.String("media_id", *req.MediaID))
			return nil, fmt.Errorf("find %s: %w", mediaType, err)
		}
		if media == nil {
			return nil, notFound("%s %s not found", mediaType, *req.MediaID)
		}

		post.MediaID = &mediaID
		post.MediaType = &mediaType
	}

	if err := s.repo.Post.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, notFound("community %s not found", req.CommunityID)
		}
		s.log.Error("Failed to create post", zap.Error(err), zap.String("community_id", req.CommunityID))
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.Info("Post created",
		zap.String("post_id", post.ID.String()),
		zap.String("community_id", req.CommunityID),
		zap.String("user_id", userID.String()),
	)

	// Reload for the joined author and community fields
	return s.GetPost(ctx, post.ID.String(), &userID)
}

// VoteOnPost toggles the user's vote. Voting the same direction twice
// leaves no vote behind.
func (s *postService) VoteOnPost(ctx context.Context, postID string, userID uuid.UUID, req *request.VoteRequest) (*response.VoteResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(postID)
	if err != nil {
		return nil, invalid("invalid post ID")
	}

	result, err := s.repo.Post.ApplyVote(ctx, id, userID, entity.VoteType(req.VoteType))
	if errors.Is(err, repository.ErrNoRows) {
		return nil, notFound("post %s not found", postID)
	}
	if err != nil {
		s.log.Error("Failed to vote on post",
			zap.Error(err),
			zap.String("post_id", postID),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("vote on post: %w", err)
	}
	metrics.PostVotesTotal.WithLabelValues(string(result.Action)).Inc()

	s.log.Debug("Post voted",
		zap.String("post_id", postID),
		zap.String("user_id", userID.String()),
		zap.String("action", string(result.Action)),
		zap.Int("upvotes", result.Upvotes),
		zap.Int("downvotes", result.Downvotes),
	)

	resp := response.VoteResultToResponse(result)
	return &resp, nil
}

func (s *postService) GetPostComments(ctx context.Context, postID string) ([]response.CommentResponse, error) {
	id, err := uuid.Parse(postID)
	if err != nil {
		return nil, invalid("invalid post ID")
	}

	comments, err := s.repo.Comment.FindByPostID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get post comments", zap.Error(err), zap.String("post_id", postID))
		return nil, fmt.Errorf("get post comments: %w", err)
	}

	items := make([]response.CommentResponse, len(comments))
	for i, c := range comments {
		items[i] = response.CommentViewToResponse(c)
	}
	return items, nil
}

func (s *postService) AddComment(ctx context.Context, postID string, userID uuid.UUID, req *request.CreateCommentRequest) (*response.CommentResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(postID)
	if err != nil {
		return nil, invalid("invalid post ID")
	}

	now := time.Now()
	comment := &entity.PostComment{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PostID:  id,
		UserID:  userID,
		Content: strings.TrimSpace(req.Content),
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, notFound("post %s not found", postID)
		}
		s.log.Error("Failed to add comment", zap.Error(err), zap.String("post_id", postID))
		return nil, fmt.Errorf("add comment: %w", err)
	}

	s.log.Info("Comment added",
		zap.String("comment_id", comment.ID.String()),
		zap.String("post_id", postID),
		zap.String("user_id", userID.String()),
	)

	view := &entity.CommentView{PostComment: *comment}
	if profile, _ := s.repo.Profile.FindByID(ctx, userID); profile != nil {
		view.Username, view.AvatarURL = &profile.Username, profile.AvatarURL
	}

	resp := response.CommentViewToResponse(view)
	return &resp, nil
}

// ==================== HELPER METHODS ====================

func (s *postService) listPosts(ctx context.Context, communityID, viewerID *uuid.UUID, limit int) ([]response.PostResponse, error) {
	posts, err := s.repo.Post.FindAll(ctx, communityID, viewerID, limit)
	if err != nil {
		s.log.Error("Failed to get posts", zap.Error(err), zap.Int("limit", limit))
		return nil, fmt.Errorf("get posts: %w", err)
	}

	items := make([]response.PostResponse, len(posts))
	for i, p := range posts {
		items[i] = response.PostViewToResponse(p)
	}
	return items, nil
}

// requireMember allows posting only to communities the user has joined.
func (s *postService) requireMember(ctx context.Context, communityID, userID uuid.UUID) error {
	member, err := s.repo.Community.IsMember(ctx, communityID, userID)
	if err != nil {
		s.log.Error("Failed to check membership", zap.Error(err), zap.String("community_id", communityID.String()))
		return fmt.Errorf("check membership: %w", err)
	}
	if member {
		return nil
	}

	community, err := s.repo.Community.FindByID(ctx, communityID, nil)
	if err != nil {
		return fmt.Errorf("find community: %w", err)
	}
	if community == nil {
		return notFound("community %s not found", communityID)
	}
	return forbidden("join %s before posting", community.Name)
}
