package wire

import (
	"media-catalog/internal/adaptor"
	"media-catalog/internal/data/repository"
	"media-catalog/pkg/middleware"
	"media-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireProfile configures profile routes and admin flag management
func wireProfile(
	r chi.Router,
	profileHandler *adaptor.ProfileHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED USER ROUTES ====================
	r.With(requireAuth(repo, log)).Get("/api/profile", profileHandler.GetProfile)
	r.With(requireAuth(repo, log), writeLimit(config)).Put("/api/profile", profileHandler.UpdateProfile)

	// ==================== ADMIN ROUTES ====================
	r.With(
		requireAuth(repo, log), // Check valid session
		middleware.Admin(log),  // Check is_admin
	).Route("/api/admin/profiles", func(r chi.Router) {
		r.Get("/", profileHandler.ListProfiles)       // GET /api/admin/profiles?page=1&per_page=10
		r.Put("/{id}/admin", profileHandler.SetAdmin) // PUT /api/admin/profiles/{id}/admin
	})
}
