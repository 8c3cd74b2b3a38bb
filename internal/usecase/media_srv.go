package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"media-catalog/internal/cache"
	"media-catalog/internal/data/entity"
	"media-catalog/internal/data/repository"
	"media-catalog/internal/dto/request"
	"media-catalog/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const featuredCount = 3

type MediaService interface {
	GetBooks(ctx context.Context) ([]response.MediaResponse, error)
	GetMovies(ctx context.Context) ([]response.MediaResponse, error)
	GetBooksByGenre(ctx context.Context, genre string) ([]response.MediaResponse, error)
	GetMoviesByGenre(ctx context.Context, genre string) ([]response.MediaResponse, error)
	GetAllMedia(ctx context.Context) ([]response.MediaResponse, error)
	GetFeaturedMedia(ctx context.Context) ([]response.MediaResponse, error)
	SearchMedia(ctx context.Context, query string) ([]response.MediaResponse, error)
	Browse(ctx context.Context, req *request.BrowseRequest) ([]response.MediaResponse, error)
	GetMediaByID(ctx context.Context, mediaType entity.MediaType, id string) (*response.MediaDetailResponse, error)
	// GetSimilarMedia lists items of the same type sharing the first genre
	// of the given item, excluding the item itself.
	GetSimilarMedia(ctx context.Context, mediaType entity.MediaType, id string) ([]response.MediaResponse, error)
	GetGenres(ctx context.Context) ([]response.GenreResponse, error)

	// Admin
	AddBook(ctx context.Context, req *request.BookRequest) (*response.MediaResponse, error)
	UpdateBook(ctx context.Context, id string, req *request.BookUpdateRequest) (*response.MediaResponse, error)
	DeleteBook(ctx context.Context, id string) error
	AddMovie(ctx context.Context, req *request.MovieRequest) (*response.MediaResponse, error)
	UpdateMovie(ctx context.Context, id string, req *request.MovieUpdateRequest) (*response.MediaResponse, error)
	DeleteMovie(ctx context.Context, id string) error
}

type mediaService struct {
	repo    *repository.Repository
	cache   *cache.Store
	log     *zap.Logger
	shuffle func(n int, swap func(i, j int))
}

func NewMediaService(
	repo *repository.Repository,
	store *cache.Store,
	log *zap.Logger,
) MediaService {
	return &mediaService{
		repo:    repo,
		cache:   store,
		log:     log.With(zap.String("service", "media")),
		shuffle: rand.Shuffle,
	}
}

func (s *mediaService) GetBooks(ctx context.Context) ([]response.MediaResponse, error) {
	books, err := s.allBooks(ctx)
	if err != nil {
		return nil, err
	}
	return response.MediaListToResponse(booksToMedia(books)), nil
}

func (s *mediaService) GetMovies(ctx context.Context) ([]response.MediaResponse, error) {
	movies, err := s.allMovies(ctx)
	if err != nil {
		return nil, err
	}
	return response.MediaListToResponse(moviesToMedia(movies)), nil
}

func (s *mediaService) GetBooksByGenre(ctx context.Context, genre string) ([]response.MediaResponse, error) {
	if err := validate(&request.GenreQuery{Genre: genre}); err != nil {
		return nil, err
	}

	books, err := cache.Remember(s.cache, entity.MediaTypeBook.Table(), "genre:"+genre, func() ([]*entity.Book, error) {
		return s.repo.Book.FindByGenre(ctx, genre)
	})
	if err != nil {
		s.log.Error("Failed to get books by genre", zap.Error(err), zap.String("genre", genre))
		return nil, fmt.Errorf("get books by genre: %w", err)
	}
	return response.MediaListToResponse(booksToMedia(books)), nil
}

func (s *mediaService) GetMoviesByGenre(ctx context.Context, genre string) ([]response.MediaResponse, error) {
	if err := validate(&request.GenreQuery{Genre: genre}); err != nil {
		return nil, err
	}

	movies, err := cache.Remember(s.cache, entity.MediaTypeMovie.Table(), "genre:"+genre, func() ([]*entity.Movie, error) {
		return s.repo.Movie.FindByGenre(ctx, genre)
	})
	if err != nil {
		s.log.Error("Failed to get movies by genre", zap.Error(err), zap.String("genre", genre))
		return nil, fmt.Errorf("get movies by genre: %w", err)
	}
	return response.MediaListToResponse(moviesToMedia(movies)), nil
}

func (s *mediaService) GetAllMedia(ctx context.Context) ([]response.MediaResponse, error) {
	all, err := s.allMedia(ctx)
	if err != nil {
		return nil, err
	}
	return response.MediaListToResponse(all), nil
}

func (s *mediaService) GetFeaturedMedia(ctx context.Context) ([]response.MediaResponse, error) {
	all, err := s.allMedia(ctx)
	if err != nil {
		return nil, err
	}

	// allMedia builds a fresh slice, the cached lists are untouched
	s.shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if len(all) > featuredCount {
		all = all[:featuredCount]
	}

	return response.MediaListToResponse(all), nil
}

func (s *mediaService) SearchMedia(ctx context.Context, query string) ([]response.MediaResponse, error) {
	results, err := s.search(ctx, query)
	if err != nil {
		return nil, err
	}
	return response.MediaListToResponse(results), nil
}

func (s *mediaService) Browse(ctx context.Context, req *request.BrowseRequest) ([]response.MediaResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	mediaType := req.Type
	if mediaType == "" {
		mediaType = "all"
	}

	if strings.TrimSpace(req.Search) != "" {
		results, err := s.search(ctx, req.Search)
		if err != nil {
			return nil, err
		}
		if mediaType != "all" {
			filtered := make([]entity.Media, 0, len(results))
			for _, m := range results {
				if string(m.Type) == mediaType {
					filtered = append(filtered, m)
				}
			}
			results = filtered
		}
		return response.MediaListToResponse(results), nil
	}

	switch entity.MediaType(mediaType) {
	case entity.MediaTypeBook:
		return s.GetBooks(ctx)
	case entity.MediaTypeMovie:
		return s.GetMovies(ctx)
	default:
		return s.GetAllMedia(ctx)
	}
}

func (s *mediaService) GetMediaByID(ctx context.Context, mediaType entity.MediaType, id string) (*response.MediaDetailResponse, error) {
	mediaID, err := uuid.Parse(id)
	if err != nil {
		return nil, invalid("invalid %s ID", mediaType)
	}

	media, err := findMedia(ctx, s.repo, mediaType, mediaID)
	if err != nil {
		s.log.Error("Failed to get media",
			zap.Error(err),
			zap.String("media_type", string(mediaType)),
			zap.String("media_id", id),
		)
		return nil, fmt.Errorf("get %s: %w", mediaType, err)
	}
	if media == nil {
		return nil, notFound("%s %s not found", mediaType, id)
	}

	stats, err := s.repo.Review.GetMediaReviewStats(ctx, mediaType, mediaID)
	if err != nil {
		s.log.Warn("Failed to get review stats",
			zap.Error(err),
			zap.String("media_id", id),
		)
		// Continue tanpa stats
		stats = &entity.ReviewStats{}
	}

	return &response.MediaDetailResponse{
		MediaResponse: response.MediaToResponse(*media),
		ReviewStats:   response.ReviewStatsToResponse(stats),
	}, nil
}

func (s *mediaService) GetSimilarMedia(ctx context.Context, mediaType entity.MediaType, id string) ([]response.MediaResponse, error) {
	mediaID, err := uuid.Parse(id)
	if err != nil {
		return nil, invalid("invalid %s ID", mediaType)
	}

	media, err := findMedia(ctx, s.repo, mediaType, mediaID)
	if err != nil {
		s.log.Error("Failed to get media", zap.Error(err), zap.String("media_id", id))
		return nil, fmt.Errorf("get %s: %w", mediaType, err)
	}
	if media == nil {
		return nil, notFound("%s %s not found", mediaType, id)
	}

	genres := media.Genres()
	if len(genres) == 0 {
		return []response.MediaResponse{}, nil
	}

	var candidates []response.MediaResponse
	if mediaType == entity.MediaTypeMovie {
		candidates, err = s.GetMoviesByGenre(ctx, genres[0])
	} else {
		candidates, err = s.GetBooksByGenre(ctx, genres[0])
	}
	if err != nil {
		return nil, err
	}

	similar := make([]response.MediaResponse, 0, len(candidates))
	for _, c := range candidates {
		if c.ID != media.ID().String() {
			similar = append(similar, c)
		}
	}
	return similar, nil
}

func (s *mediaService) GetGenres(ctx context.Context) ([]response.GenreResponse, error) {
	all, err := s.allMedia(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]*response.GenreResponse)
	for _, m := range all {
		for _, g := range m.Genres() {
			entry, ok := counts[g]
			if !ok {
				entry = &response.GenreResponse{Name: g}
				counts[g] = entry
			}
			if m.Type == entity.MediaTypeMovie {
				entry.MovieCount++
			} else {
				entry.BookCount++
			}
			entry.Total++
		}
	}

	genres := make([]response.GenreResponse, 0, len(counts))
	for _, entry := range counts {
		genres = append(genres, *entry)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].Name < genres[j].Name })

	return genres, nil
}

// ==================== ADMIN ====================

func (s *mediaService) AddBook(ctx context.Context, req *request.BookRequest) (*response.MediaResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Add book validation failed", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	book := &entity.Book{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       strings.TrimSpace(req.Title),
		Author:      strings.TrimSpace(req.Author),
		Year:        req.Year,
		Genres:      normalizeGenres(req.Genres),
		Description: req.Description,
		CoverURL:    req.CoverURL,
	}

	if err := s.repo.Book.Create(ctx, book); err != nil {
		s.log.Error("Failed to create book", zap.Error(err), zap.String("title", book.Title))
		return nil, fmt.Errorf("create book: %w", err)
	}
	s.cache.Invalidate(entity.MediaTypeBook.Table())

	s.log.Info("Book created", zap.String("book_id", book.ID.String()), zap.String("title", book.Title))

	resp := response.BookToResponse(book)
	return &resp, nil
}

func (s *mediaService) UpdateBook(ctx context.Context, id string, req *request.BookUpdateRequest) (*response.MediaResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Update book validation failed", zap.Error(err))
		return nil, err
	}

	bookID, err := uuid.Parse(id)
	if err != nil {
		return nil, invalid("invalid book ID")
	}

	book, err := s.repo.Book.FindByID(ctx, bookID)
	if err != nil {
		s.log.Error("Failed to find book", zap.Error(err), zap.String("book_id", id))
		return nil, fmt.Errorf("find book: %w", err)
	}
	if book == nil {
		return nil, notFound("book %s not found", id)
	}

	if req.Title != nil {
		book.Title = strings.TrimSpace(*req.Title)
	}
	if req.Author != nil {
		book.Author = strings.TrimSpace(*req.Author)
	}
	if req.Year != nil {
		book.Year = req.Year
	}
	if req.Genres != nil {
		book.Genres = normalizeGenres(req.Genres)
	}
	if req.Description != nil {
		book.Description = req.Description
	}
	if req.CoverURL != nil {
		book.CoverURL = req.CoverURL
	}
	book.UpdatedAt = time.Now()

	if err := s.repo.Book.Update(ctx, book); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, notFound("book %s not found", id)
		}
		s.log.Error("Failed to update book", zap.Error(err), zap.String("book_id", id))
		return nil, fmt.Errorf("update book: %w", err)
	}
	s.cache.Invalidate(entity.MediaTypeBook.Table())

	s.log.Info("Book updated", zap.String("book_id", id))

	resp := response.BookToResponse(book)
	return &resp, nil
}

func (s *mediaService) DeleteBook(ctx context.Context, id string) error {
	return s.deleteMedia(ctx, entity.MediaTypeBook, id)
}

func (s *mediaService) AddMovie(ctx context.Context, req *request.MovieRequest) (*response.MediaResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Add movie validation failed", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	movie := &entity.Movie{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       strings.TrimSpace(req.Title),
		Director:    strings.TrimSpace(req.Director),
		Year:        req.Year,
		Genres:      normalizeGenres(req.Genres),
		Description: req.Description,
		PosterURL:   req.PosterURL,
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		s.log.Error("Failed to create movie", zap.Error(err), zap.String("title", movie.Title))
		return nil, fmt.Errorf("create movie: %w", err)
	}
	s.cache.Invalidate(entity.MediaTypeMovie.Table())

	s.log.Info("Movie created", zap.String("movie_id", movie.ID.String()), zap.String("title", movie.Title))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *mediaService) UpdateMovie(ctx context.Context, id string, req *request.MovieUpdateRequest) (*response.MediaResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Update movie validation failed", zap.Error(err))
		return nil, err
	}

	movieID, err := uuid.Parse(id)
	if err != nil {
		return nil, invalid("invalid movie ID")
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		s.log.Error("Failed to find movie", zap.Error(err), zap.String("movie_id", id))
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, notFound("movie %s not found", id)
	}

	if req.Title != nil {
		movie.Title = strings.TrimSpace(*req.Title)
	}
	if req.Director != nil {
		movie.Director = strings.TrimSpace(*req.Director)
	}
	if req.Year != nil {
		movie.Year = req.Year
	}
	if req.Genres != nil {
		movie.Genres = normalizeGenres(req.Genres)
	}
	if req.Description != nil {
		movie.Description = req.Description
	}
	if req.PosterURL != nil {
		movie.PosterURL = req.PosterURL
	}
	movie.UpdatedAt = time.Now()

	if err := s.repo.Movie.Update(ctx, movie); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, notFound("movie %s not found", id)
		}
		s.log.Error("Failed to update movie", zap.Error(err), zap.String("movie_id", id))
		return nil, fmt.Errorf("update movie: %w", err)
	}
	s.cache.Invalidate(entity.MediaTypeMovie.Table())

	s.log.Info("Movie updated", zap.String("movie_id", id))

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *mediaService) DeleteMovie(ctx context.Context, id string) error {
	return s.deleteMedia(ctx, entity.MediaTypeMovie, id)
}

// ==================== HELPER METHODS ====================

func (s *mediaService) allBooks(ctx context.Context) ([]*entity.Book, error) {
	books, err := cache.Remember(s.cache, entity.MediaTypeBook.Table(), "all", func() ([]*entity.Book, error) {
		return s.repo.Book.FindAll(ctx)
	})
	if err != nil {
		s.log.Error("Failed to get books", zap.Error(err))
		return nil, fmt.Errorf("get books: %w", err)
	}
	return books, nil
}

func (s *mediaService) allMovies(ctx context.Context) ([]*entity.Movie, error) {
	movies, err := cache.Remember(s.cache, entity.MediaTypeMovie.Table(), "all", func() ([]*entity.Movie, error) {
		return s.repo.Movie.FindAll(ctx)
	})
	if err != nil {
		s.log.Error("Failed to get movies", zap.Error(err))
		return nil, fmt.Errorf("get movies: %w", err)
	}
	return movies, nil
}

// allMedia returns books followed by movies in a newly allocated slice.
func (s *mediaService) allMedia(ctx context.Context) ([]entity.Media, error) {
	books, err := s.allBooks(ctx)
	if err != nil {
		return nil, err
	}
	movies, err := s.allMovies(ctx)
	if err != nil {
		return nil, err
	}
	return append(booksToMedia(books), moviesToMedia(movies)...), nil
}

// search runs the book and movie queries concurrently and joins them,
// books first. An empty query matches nothing.
func (s *mediaService) search(ctx context.Context, query string) ([]entity.Media, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []entity.Media{}, nil
	}

	var (
		books  []*entity.Book
		movies []*entity.Movie
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		books, err = s.repo.Book.Search(gctx, query)
		return err
	})
	g.Go(func() error {
		var err error
		movies, err = s.repo.Movie.Search(gctx, query)
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error("Failed to search media", zap.Error(err), zap.String("query", query))
		return nil, fmt.Errorf("search media: %w", err)
	}

	s.log.Debug("Media searched",
		zap.String("query", query),
		zap.Int("books", len(books)),
		zap.Int("movies", len(movies)),
	)

	return append(booksToMedia(books), moviesToMedia(movies)...), nil
}

func (s *mediaService) deleteMedia(ctx context.Context, mediaType entity.MediaType, id string) error {
	mediaID, err := uuid.Parse(id)
	if err != nil {
		return invalid("invalid %s ID", mediaType)
	}

	media, err := findMedia(ctx, s.repo, mediaType, mediaID)
	if err != nil {
		s.log.Error("Failed to find media for delete", zap.Error(err), zap.String("media_id", id))
		return fmt.Errorf("find %s: %w", mediaType, err)
	}
	if media == nil {
		return notFound("%s %s not found", mediaType, id)
	}

	// Reviews reference media by (type, id) without a foreign key
	if err := s.repo.Review.DeleteByMedia(ctx, mediaType, mediaID); err != nil {
		s.log.Error("Failed to delete media reviews", zap.Error(err), zap.String("media_id", id))
		return fmt.Errorf("delete %s reviews: %w", mediaType, err)
	}

	if mediaType == entity.MediaTypeMovie {
		err = s.repo.Movie.Delete(ctx, mediaID)
	} else {
		err = s.repo.Book.Delete(ctx, mediaID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return notFound("%s %s not found", mediaType, id)
		}
		s.log.Error("Failed to delete media", zap.Error(err), zap.String("media_id", id))
		return fmt.Errorf("delete %s: %w", mediaType, err)
	}
	s.cache.Invalidate(mediaType.Table())

	s.log.Info("Media deleted",
		zap.String("media_type", string(mediaType)),
		zap.String("media_id", id),
		zap.String("title", media.Title()),
	)

	return nil
}

// findMedia loads a book or movie by id. It returns nil, nil when the row
// does not exist.
func findMedia(ctx context.Context, repo *repository.Repository, mediaType entity.MediaType, id uuid.UUID) (*entity.Media, error) {
	switch mediaType {
	case entity.MediaTypeBook:
		book, err := repo.Book.FindByID(ctx, id)
		if err != nil || book == nil {
			return nil, err
		}
		m := entity.BookMedia(book)
		return &m, nil
	case entity.MediaTypeMovie:
		movie, err := repo.Movie.FindByID(ctx, id)
		if err != nil || movie == nil {
			return nil, err
		}
		m := entity.MovieMedia(movie)
		return &m, nil
	default:
		return nil, invalid("unknown media type %q", mediaType)
	}
}

func booksToMedia(books []*entity.Book) []entity.Media {
	out := make([]entity.Media, 0, len(books))
	for _, b := range books {
		out = append(out, entity.BookMedia(b))
	}
	return out
}

func moviesToMedia(movies []*entity.Movie) []entity.Media {
	out := make([]entity.Media, 0, len(movies))
	for _, m := range movies {
		out = append(out, entity.MovieMedia(m))
	}
	return out
}

// normalizeGenres trims, drops blanks and duplicates. The column is NOT
// NULL so the result is never nil.
func normalizeGenres(genres []string) []string {
	out := make([]string, 0, len(genres))
	seen := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	return out
}
