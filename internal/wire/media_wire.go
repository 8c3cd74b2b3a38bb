package wire

import (
	"media-catalog/internal/adaptor"
	"media-catalog/internal/data/entity"
	"media-catalog/internal/data/repository"
	"media-catalog/pkg/middleware"
	"media-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireMedia(
	r chi.Router,
	mediaHandler *adaptor.MediaHandler,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/media?type=all|book|movie&search=
	r.Get("/api/media", mediaHandler.Browse)
	r.Get("/api/media/featured", mediaHandler.Featured)
	r.Get("/api/media/search", mediaHandler.Search)
	r.Get("/api/genres", mediaHandler.Genres)

	// GET /api/books[?genre=], /api/books/{id}
	r.Get("/api/books", mediaHandler.ListBooks)
	r.Get("/api/books/{id}", mediaHandler.GetBook)

	// GET /api/movies[?genre=], /api/movies/{id}
	r.Get("/api/movies", mediaHandler.ListMovies)
	r.Get("/api/movies/{id}", mediaHandler.GetMovie)

	// GET /api/{books|movies}/{id}/similar - same type, first genre
	r.Get("/api/books/{id}/similar", mediaHandler.Similar(entity.MediaTypeBook))
	r.Get("/api/movies/{id}/similar", mediaHandler.Similar(entity.MediaTypeMovie))

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/books", func(r chi.Router) {
		// Apply middleware chain: AuthSession → Admin
		r.Use(requireAuth(repo, log))
		r.Use(middleware.Admin(log))

		r.Post("/", mediaHandler.CreateBook)
		r.Put("/{id}", mediaHandler.UpdateBook)
		r.Delete("/{id}", mediaHandler.DeleteBook)
	})

	r.Route("/api/admin/movies", func(r chi.Router) {
		r.Use(requireAuth(repo, log)) // Must be authenticated
		r.Use(middleware.Admin(log))  // Must be admin

		r.Post("/", mediaHandler.CreateMovie)       // POST /api/admin/movies
		r.Put("/{id}", mediaHandler.UpdateMovie)    // PUT /api/admin/movies/{id}
		r.Delete("/{id}", mediaHandler.DeleteMovie) // DELETE /api/admin/movies/{id}
	})
}
