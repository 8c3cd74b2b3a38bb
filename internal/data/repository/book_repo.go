package repository

import (
	"context"
	"errors"
	"fmt"

	"media-catalog/internal/data/entity"
	"media-catalog/pkg/database"
	"media-catalog/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error)
	FindAll(ctx context.Context) ([]*entity.Book, error)
	FindByGenre(ctx context.Context, genre string) ([]*entity.Book, error)
	Search(ctx context.Context, query string) ([]*entity.Book, error)
	Update(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error
}

type bookRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookRepository(db database.PgxIface, log *zap.Logger) BookRepository {
	return &bookRepository{
		db:  db,
		log: log.With(zap.String("repository", "book")),
	}
}

const bookColumns = `id, title, author, year, genres, description, cover_url, rating, created_at, updated_at`

func scanBook(row rowScanner) (*entity.Book, error) {
	var book entity.Book
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Year,
		&book.Genres,
		&book.Description,
		&book.CoverURL,
		&book.Rating,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) Create(ctx context.Context, book *entity.Book) error {
	query := `
		INSERT INTO books (id, title, author, year, genres, description, cover_url,
		                   rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Year,
		book.Genres,
		book.Description,
		book.CoverURL,
		book.Rating,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create book",
			zap.Error(err),
			zap.String("title", book.Title),
		)
		return fmt.Errorf("create book %q: %w", book.Title, err)
	}

	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	book, err := scanBook(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find book by ID",
			zap.Error(err),
			zap.String("book_id", id.String()),
		)
		return nil, fmt.Errorf("find book %s: %w", id.String(), err)
	}

	return book, nil
}

func (r *bookRepository) FindAll(ctx context.Context) ([]*entity.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY created_at DESC`
	return r.list(ctx, "find all books", query)
}

func (r *bookRepository) FindByGenre(ctx context.Context, genre string) ([]*entity.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE genres @> ARRAY[$1]::text[]
		ORDER BY created_at DESC
	`
	return r.list(ctx, "find books by genre", query, genre)
}

func (r *bookRepository) Search(ctx context.Context, q string) ([]*entity.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE title ILIKE $1 OR author ILIKE $1 OR description ILIKE $1
		ORDER BY created_at DESC
	`
	return r.list(ctx, "search books", query, "%"+utils.EscapeLike(q)+"%")
}

func (r *bookRepository) list(ctx context.Context, op, query string, args ...any) ([]*entity.Book, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err), zap.Any("args", args))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	books := make([]*entity.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			r.log.Error("Failed to scan book row", zap.Error(err))
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.log.Debug("Books found", zap.String("op", op), zap.Int("count", len(books)))
	return books, nil
}

func (r *bookRepository) Update(ctx context.Context, book *entity.Book) error {
	query := `
		UPDATE books
		SET title = $2, author = $3, year = $4, genres = $5, description = $6,
		    cover_url = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Year,
		book.Genres,
		book.Description,
		book.CoverURL,
		book.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update book",
			zap.Error(err),
			zap.String("book_id", book.ID.String()),
		)
		return fmt.Errorf("update book %s: %w", book.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update book %s: %w", book.ID.String(), ErrNoRows)
	}

	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete book",
			zap.Error(err),
			zap.String("book_id", id.String()),
		)
		return fmt.Errorf("delete book %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete book %s: %w", id.String(), ErrNoRows)
	}

	r.log.Info("Book deleted", zap.String("book_id", id.String()))
	return nil
}

func (r *bookRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	query := `UPDATE books SET rating = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, rating)
	if err != nil {
		r.log.Error("Failed to update book rating",
			zap.Error(err),
			zap.String("book_id", id.String()),
			zap.Float64("rating", rating),
		)
		return fmt.Errorf("update book rating: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update book rating %s: %w", id.String(), ErrNoRows)
	}

	return nil
}
