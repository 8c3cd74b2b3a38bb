package wire

import (
	"media-catalog/internal/adaptor"
	"media-catalog/internal/data/entity"
	"media-catalog/internal/data/repository"
	"media-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	for _, mediaType := range []entity.MediaType{entity.MediaTypeBook, entity.MediaTypeMovie} {
		base := "/api/" + mediaType.Table() + "/{id}"

		// GET /api/{books|movies}/{id}/reviews?page=&per_page=
		r.Get(base+"/reviews", reviewHandler.MediaReviews(mediaType))

		// GET /api/{books|movies}/{id}/review-stats
		r.Get(base+"/review-stats", reviewHandler.MediaReviewStats(mediaType))
	}

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(requireAuth(repo, log))

		// GET /api/user/reviews - View user's own reviews
		r.Get("/api/user/reviews", reviewHandler.GetUserReviews)

		r.Group(func(r chi.Router) {
			r.Use(writeLimit(config))

			r.Post("/api/reviews", reviewHandler.CreateReview)
			r.Put("/api/reviews/{id}", reviewHandler.UpdateReview)    // owner only
			r.Delete("/api/reviews/{id}", reviewHandler.DeleteReview) // owner only
		})
	})
}
