// internal/wire/wire.go
package wire

import (
	"net/http"

	"media-catalog/internal/adaptor"
	"media-catalog/internal/cache"
	"media-catalog/internal/data/repository"
	"media-catalog/internal/usecase"
	"media-catalog/pkg/middleware"
	"media-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring menginisialisasi semua dependencies
func Wiring(repo *repository.Repository, store *cache.Store, config *utils.Config, logger *zap.Logger) *App {
	// Initialize services dan handlers
	service := usecase.NewService(repo, store, config, logger)
	handler := adaptor.NewHandler(service, logger)

	// Setup router
	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.HTTP.AllowedOrigins))

	// Apply routes
	wireAuth(r, handler.Auth, repo, config, logger)
	wireProfile(r, handler.Profile, repo, config, logger)
	wireMedia(r, handler.Media, repo, config, logger)
	wireReview(r, handler.Review, repo, config, logger)
	wireCommunity(r, handler.Community, repo, config, logger)
	wirePost(r, handler.Post, repo, config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// requireAuth and optionalAuth resolve the bearer session the same way for every group
func requireAuth(repo *repository.Repository, log *zap.Logger) func(http.Handler) http.Handler {
	return middleware.AuthSession(repo.Session, log)
}

func optionalAuth(repo *repository.Repository, log *zap.Logger) func(http.Handler) http.Handler {
	return middleware.OptionalAuth(repo.Session, log)
}

func writeLimit(config *utils.Config) func(http.Handler) http.Handler {
	return middleware.RateLimit(config.HTTP.RateLimitRequests, config.HTTP.RateLimitWindow)
}
