package adaptor

import (
	"net/http"

	"media-catalog/internal/data/entity"
	"media-catalog/internal/dto/request"
	"media-catalog/internal/usecase"
	"media-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MediaHandler struct {
	service usecase.MediaService
	log     *zap.Logger
}

func NewMediaHandler(service usecase.MediaService, log *zap.Logger) *MediaHandler {
	return &MediaHandler{
		service: service,
		log:     log.With(zap.String("handler", "media")),
	}
}

// Browse handles GET /api/media?type=all|book|movie&search=
func (h *MediaHandler) Browse(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.BrowseRequest{
		Type:   query.Get("type"),
		Search: query.Get("search"),
	}

	media, err := h.service.Browse(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "browse media")
		return
	}

	utils.ResponseSuccess(w, "success", media)
}

// Featured handles GET /api/media/featured
func (h *MediaHandler) Featured(w http.ResponseWriter, r *http.Request) {
	media, err := h.service.GetFeaturedMedia(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "get featured media")
		return
	}

	utils.ResponseSuccess(w, "success", media)
}

// Search handles GET /api/media/search?q=
func (h *MediaHandler) Search(w http.ResponseWriter, r *http.Request) {
	media, err := h.service.SearchMedia(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(h.log, w, err, "search media")
		return
	}

	utils.ResponseSuccess(w, "success", media)
}

// ListBooks handles GET /api/books[?genre=]
func (h *MediaHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	var (
		books any
		err   error
	)
	if genre := r.URL.Query().Get("genre"); genre != "" {
		books, err = h.service.GetBooksByGenre(r.Context(), genre)
	} else {
		books, err = h.service.GetBooks(r.Context())
	}
	if err != nil {
		handleServiceError(h.log, w, err, "list books")
		return
	}

	utils.ResponseSuccess(w, "success", books)
}

// ListMovies handles GET /api/movies[?genre=]
func (h *MediaHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	var (
		movies any
		err    error
	)
	if genre := r.URL.Query().Get("genre"); genre != "" {
		movies, err = h.service.GetMoviesByGenre(r.Context(), genre)
	} else {
		movies, err = h.service.GetMovies(r.Context())
	}
	if err != nil {
		handleServiceError(h.log, w, err, "list movies")
		return
	}

	utils.ResponseSuccess(w, "success", movies)
}

// GetBook handles GET /api/books/{id}
func (h *MediaHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	h.getMedia(w, r, entity.MediaTypeBook)
}

// GetMovie handles GET /api/movies/{id}
func (h *MediaHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	h.getMedia(w, r, entity.MediaTypeMovie)
}

func (h *MediaHandler) getMedia(w http.ResponseWriter, r *http.Request, mediaType entity.MediaType) {
	media, err := h.service.GetMediaByID(r.Context(), mediaType, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(h.log, w, err, "get "+string(mediaType))
		return
	}

	utils.ResponseSuccess(w, "success", media)
}

// Genres handles GET /api/genres
func (h *MediaHandler) Genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.GetGenres(r.Context())
	if err != nil {
		handleServiceError(h.log, w, err, "list genres")
		return
	}

	utils.ResponseSuccess(w, "success", genres)
}

// Similar handles GET /api/{books|movies}/{id}/similar
func (h *MediaHandler) Similar(mediaType entity.MediaType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		media, err := h.service.GetSimilarMedia(r.Context(), mediaType, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(h.log, w, err, "get similar "+string(mediaType))
			return
		}

		utils.ResponseSuccess(w, "success", media)
	}
}

// ==================== ADMIN ====================

// CreateBook handles POST /api/admin/books
func (h *MediaHandler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req request.BookRequest
	if !decodeBody(w, r, &req) {
		return
	}

	book, err := h.service.AddBook(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create book")
		return
	}

	utils.ResponseCreated(w, "Book created", book)
}

// UpdateBook handles PUT /api/admin/books/{id}
func (h *MediaHandler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	var req request.BookUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	book, err := h.service.UpdateBook(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update book")
		return
	}

	utils.ResponseSuccess(w, "Book updated", book)
}

// DeleteBook handles DELETE /api/admin/books/{id}
func (h *MediaHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBook(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(h.log, w, err, "delete book")
		return
	}

	utils.ResponseSuccess(w, "Book deleted", nil)
}

// CreateMovie handles POST /api/admin/movies
func (h *MediaHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.MovieRequest
	if !decodeBody(w, r, &req) {
		return
	}

	movie, err := h.service.AddMovie(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create movie")
		return
	}

	utils.ResponseCreated(w, "Movie created", movie)
}

// UpdateMovie handles PUT /api/admin/movies/{id}
func (h *MediaHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.MovieUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	movie, err := h.service.UpdateMovie(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update movie")
		return
	}

	utils.ResponseSuccess(w, "Movie updated", movie)
}

// DeleteMovie handles DELETE /api/admin/movies/{id}
func (h *MediaHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMovie(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(h.log, w, err, "delete movie")
		return
	}

	utils.ResponseSuccess(w, "Movie deleted", nil)
}
