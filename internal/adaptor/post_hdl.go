package adaptor

import (
	"net/http"

	"media-catalog/internal/dto/request"
	"media-catalog/internal/usecase"
	"media-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PostHandler struct {
	service usecase.PostService
	log     *zap.Logger
}

func NewPostHandler(service usecase.PostService, log *zap.Logger) *PostHandler {
	return &PostHandler{
		service: service,
		log:     log.With(zap.String("handler", "post")),
	}
}

// ListPosts handles GET /api/posts?community_id= (optional auth)
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.GetCommunityPosts(r.Context(), r.URL.Query().Get("community_id"), utils.ViewerIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(h.log, w, err, "list posts")
		return
	}

	utils.ResponseSuccess(w, "success", posts)
}

// RecentPosts handles GET /api/posts/recent?limit= (optional auth)
func (h *PostHandler) RecentPosts(w http.ResponseWriter, r *http.Request) {
	limit := utils.ParseInt(r.URL.Query().Get("limit"), 0)

	posts, err := h.service.GetRecentPosts(r.Context(), limit, utils.ViewerIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(h.log, w, err, "recent posts")
		return
	}

	utils.ResponseSuccess(w, "success", posts)
}

// GetPost handles GET /api/posts/{id} (optional auth)
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.GetPost(r.Context(), chi.URLParam(r, "id"), utils.ViewerIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(h.log, w, err, "get post")
		return
	}

	utils.ResponseSuccess(w, "success", post)
}

// CreatePost handles POST /api/posts (protected)
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	post, err := h.service.CreatePost(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create post")
		return
	}

	utils.ResponseCreated(w, "Post created", post)
}

// Vote handles POST /api/posts/{id}/votes (protected)
func (h *PostHandler) Vote(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.VoteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.service.VoteOnPost(r.Context(), chi.URLParam(r, "id"), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "vote on post")
		return
	}

	utils.ResponseSuccess(w, "Vote recorded", result)
}

// ListComments handles GET /api/posts/{id}/comments
func (h *PostHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.GetPostComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "list comments")
		return
	}

	utils.ResponseSuccess(w, "success", comments)
}

// AddComment handles POST /api/posts/{id}/comments (protected)
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := h.service.AddComment(r.Context(), chi.URLParam(r, "id"), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "add comment")
		return
	}

	utils.ResponseCreated(w, "Comment added", comment)
}
