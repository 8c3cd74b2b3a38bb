package adaptor

import (
	"net/http"

	"media-catalog/internal/dto/request"
	"media-catalog/internal/usecase"
	"media-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CommunityHandler struct {
	service usecase.CommunityService
	log     *zap.Logger
}

func NewCommunityHandler(service usecase.CommunityService, log *zap.Logger) *CommunityHandler {
	return &CommunityHandler{
		service: service,
		log:     log.With(zap.String("handler", "community")),
	}
}

// ListCommunities handles GET /api/communities (optional auth)
func (h *CommunityHandler) ListCommunities(w http.ResponseWriter, r *http.Request) {
	communities, err := h.service.GetCommunities(r.Context(), utils.ViewerIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(h.log, w, err, "list communities")
		return
	}

	utils.ResponseSuccess(w, "success", communities)
}

// GetCommunity handles GET /api/communities/{id} (optional auth)
func (h *CommunityHandler) GetCommunity(w http.ResponseWriter, r *http.Request) {
	community, err := h.service.GetCommunityByID(r.Context(), chi.URLParam(r, "id"), utils.ViewerIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(h.log, w, err, "get community")
		return
	}

	utils.ResponseSuccess(w, "success", community)
}

// GetCommunityByName handles GET /api/communities/by-name/{name} (optional auth)
func (h *CommunityHandler) GetCommunityByName(w http.ResponseWriter, r *http.Request) {
	community, err := h.service.GetCommunityByName(r.Context(), chi.URLParam(r, "name"), utils.ViewerIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(h.log, w, err, "get community by name")
		return
	}

	utils.ResponseSuccess(w, "success", community)
}

// CreateCommunity handles POST /api/communities (protected)
func (h *CommunityHandler) CreateCommunity(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateCommunityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	community, err := h.service.CreateCommunity(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create community")
		return
	}

	utils.ResponseCreated(w, "Community created", community)
}

// JoinCommunity handles POST /api/communities/{id}/members (protected)
func (h *CommunityHandler) JoinCommunity(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	membership, err := h.service.JoinCommunity(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "join community")
		return
	}

	utils.ResponseSuccess(w, "Joined community", membership)
}

// LeaveCommunity handles DELETE /api/communities/{id}/members (protected)
func (h *CommunityHandler) LeaveCommunity(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	membership, err := h.service.LeaveCommunity(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		handleServiceError(h.log, w, err, "leave community")
		return
	}

	utils.ResponseSuccess(w, "Left community", membership)
}
