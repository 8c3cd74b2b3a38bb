package wire

import (
	"media-catalog/internal/adaptor"
	"media-catalog/internal/data/repository"
	"media-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCommunity(
	r chi.Router,
	communityHandler *adaptor.CommunityHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Optional auth fills user_is_member for signed-in viewers
	r.Group(func(r chi.Router) {
		r.Use(optionalAuth(repo, log))

		r.Get("/api/communities", communityHandler.ListCommunities)
		r.Get("/api/communities/by-name/{name}", communityHandler.GetCommunityByName)
		r.Get("/api/communities/{id}", communityHandler.GetCommunity)
	})

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(requireAuth(repo, log))
		r.Use(writeLimit(config))

		r.Post("/api/communities", communityHandler.CreateCommunity)
		r.Post("/api/communities/{id}/members", communityHandler.JoinCommunity)
		r.Delete("/api/communities/{id}/members", communityHandler.LeaveCommunity)
	})
}
