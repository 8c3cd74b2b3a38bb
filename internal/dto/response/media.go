package response

import (
	"time"

	"media-catalog/internal/data/entity"
)

// MediaResponse is tagged by type. Creator is the author for books and the
// director for movies; the type-specific fields are only set for their own
// type.
type MediaResponse struct {
	ID          string           `json:"id"`
	Type        entity.MediaType `json:"type"`
	Title       string           `json:"title"`
	Creator     string           `json:"creator"`
	Author      *string          `json:"author,omitempty"`
	Director    *string          `json:"director,omitempty"`
	Year        *int             `json:"year,omitempty"`
	Genres      []string         `json:"genres"`
	Description *string          `json:"description,omitempty"`
	CoverURL    *string          `json:"cover_url,omitempty"`
	PosterURL   *string          `json:"poster_url,omitempty"`
	Rating      float64          `json:"rating"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type MediaDetailResponse struct {
	MediaResponse
	ReviewStats ReviewStatsResponse `json:"review_stats"`
}

// Helper converters
func BookToResponse(book *entity.Book) MediaResponse {
	author := book.Author
	return MediaResponse{
		ID:          book.ID.String(),
		Type:        entity.MediaTypeBook,
		Title:       book.Title,
		Creator:     book.Author,
		Author:      &author,
		Year:        book.Year,
		Genres:      nonNil(book.Genres),
		Description: book.Description,
		CoverURL:    book.CoverURL,
		Rating:      book.Rating,
		CreatedAt:   book.CreatedAt,
		UpdatedAt:   book.UpdatedAt,
	}
}

func MovieToResponse(movie *entity.Movie) MediaResponse {
	director := movie.Director
	return MediaResponse{
		ID:          movie.ID.String(),
		Type:        entity.MediaTypeMovie,
		Title:       movie.Title,
		Creator:     movie.Director,
		Director:    &director,
		Year:        movie.Year,
		Genres:      nonNil(movie.Genres),
		Description: movie.Description,
		PosterURL:   movie.PosterURL,
		Rating:      movie.Rating,
		CreatedAt:   movie.CreatedAt,
		UpdatedAt:   movie.UpdatedAt,
	}
}

func MediaToResponse(m entity.Media) MediaResponse {
	if m.Type == entity.MediaTypeMovie && m.Movie != nil {
		return MovieToResponse(m.Movie)
	}
	return BookToResponse(m.Book)
}

func MediaListToResponse(items []entity.Media) []MediaResponse {
	out := make([]MediaResponse, 0, len(items))
	for _, m := range items {
		out = append(out, MediaToResponse(m))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
