package entity

import (
	"slices"

	"github.com/google/uuid"
)

type MediaType string

const (
	MediaTypeBook  MediaType = "book"
	MediaTypeMovie MediaType = "movie"
)

func (t MediaType) Valid() bool {
	return t == MediaTypeBook || t == MediaTypeMovie
}

// Table is the backing table for the media type.
func (t MediaType) Table() string {
	if t == MediaTypeMovie {
		return "movies"
	}
	return "books"
}

type Book struct {
	Base
	Title       string   `db:"title"`
	Author      string   `db:"author"`
	Year        *int     `db:"year"`
	Genres      []string `db:"genres"`
	Description *string  `db:"description"`
	CoverURL    *string  `db:"cover_url"`
	Rating      float64  `db:"rating"`
}

type Movie struct {
	Base
	Title       string   `db:"title"`
	Director    string   `db:"director"`
	Year        *int     `db:"year"`
	Genres      []string `db:"genres"`
	Description *string  `db:"description"`
	PosterURL   *string  `db:"poster_url"`
	Rating      float64  `db:"rating"`
}

// Media is a catalog entry tagged by type. Exactly one of Book or Movie is set.
type Media struct {
	Type  MediaType
	Book  *Book
	Movie *Movie
}

func BookMedia(b *Book) Media   { return Media{Type: MediaTypeBook, Book: b} }
func MovieMedia(m *Movie) Media { return Media{Type: MediaTypeMovie, Movie: m} }

func (m Media) ID() uuid.UUID {
	if m.Movie != nil {
		return m.Movie.ID
	}
	if m.Book != nil {
		return m.Book.ID
	}
	return uuid.Nil
}

func (m Media) Title() string {
	if m.Movie != nil {
		return m.Movie.Title
	}
	if m.Book != nil {
		return m.Book.Title
	}
	return ""
}

func (m Media) Genres() []string {
	if m.Movie != nil {
		return m.Movie.Genres
	}
	if m.Book != nil {
		return m.Book.Genres
	}
	return nil
}

// HasGenre is a case-sensitive membership test, matching the array
// containment filter used by the genre queries.
func (m Media) HasGenre(genre string) bool {
	return slices.Contains(m.Genres(), genre)
}
