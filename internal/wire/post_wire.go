package wire

import (
	"media-catalog/internal/adaptor"
	"media-catalog/internal/data/repository"
	"media-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePost(
	r chi.Router,
	postHandler *adaptor.PostHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Optional auth fills user_vote for signed-in viewers
	r.Group(func(r chi.Router) {
		r.Use(optionalAuth(repo, log))

		r.Get("/api/posts", postHandler.ListPosts) // ?community_id=
		r.Get("/api/posts/recent", postHandler.RecentPosts)
		r.Get("/api/posts/{id}", postHandler.GetPost)
	})

	r.Get("/api/posts/{id}/comments", postHandler.ListComments)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(requireAuth(repo, log))
		r.Use(writeLimit(config))

		r.Post("/api/posts", postHandler.CreatePost)
		r.Post("/api/posts/{id}/votes", postHandler.Vote)
		r.Post("/api/posts/{id}/comments", postHandler.AddComment)
	})
}
