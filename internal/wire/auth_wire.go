package wire

import (
	"media-catalog/internal/adaptor"
	"media-catalog/internal/data/repository"
	"media-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Sign up / sign in dibatasi per IP
	r.Group(func(r chi.Router) {
		r.Use(writeLimit(config))

		r.Post("/api/auth/sign-up", authHandler.SignUp)
		r.Post("/api/auth/sign-in", authHandler.SignIn)
	})

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(requireAuth(repo, log))

		// POST /api/auth/sign-out[?scope=global]
		r.Post("/api/auth/sign-out", authHandler.SignOut)

		// GET /api/auth/session - current profile and admin flag
		r.Get("/api/auth/session", authHandler.Session)
	})
}
