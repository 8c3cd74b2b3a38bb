package request

type BookRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=300"`
	Author      string   `json:"author" validate:"required,min=1,max=200"`
	Year        *int     `json:"year,omitempty" validate:"omitempty,min=0,max=3000"`
	Genres      []string `json:"genres,omitempty" validate:"omitempty,max=20,dive,required,max=50"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	CoverURL    *string  `json:"cover_url,omitempty" validate:"omitempty,url"`
}

type BookUpdateRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=1,max=300"`
	Author      *string  `json:"author,omitempty" validate:"omitempty,min=1,max=200"`
	Year        *int     `json:"year,omitempty" validate:"omitempty,min=0,max=3000"`
	Genres      []string `json:"genres,omitempty" validate:"omitempty,max=20,dive,required,max=50"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	CoverURL    *string  `json:"cover_url,omitempty" validate:"omitempty,url"`
}

type MovieRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=300"`
	Director    string   `json:"director" validate:"required,min=1,max=200"`
	Year        *int     `json:"year,omitempty" validate:"omitempty,min=0,max=3000"`
	Genres      []string `json:"genres,omitempty" validate:"omitempty,max=20,dive,required,max=50"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	PosterURL   *string  `json:"poster_url,omitempty" validate:"omitempty,url"`
}

type MovieUpdateRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=1,max=300"`
	Director    *string  `json:"director,omitempty" validate:"omitempty,min=1,max=200"`
	Year        *int     `json:"year,omitempty" validate:"omitempty,min=0,max=3000"`
	Genres      []string `json:"genres,omitempty" validate:"omitempty,max=20,dive,required,max=50"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	PosterURL   *string  `json:"poster_url,omitempty" validate:"omitempty,url"`
}

// BrowseRequest backs the browse page: type is all, book or movie.
type BrowseRequest struct {
	Type   string `json:"type" validate:"omitempty,oneof=all book movie"`
	Search string `json:"search" validate:"omitempty,max=200"`
}

// GenreQuery guards the ?genre= filter, which also becomes a cache key.
type GenreQuery struct {
	Genre string `json:"genre" validate:"required,max=50"`
}
