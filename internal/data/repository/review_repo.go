package repository

import (
	"context"
	"errors"
	"fmt"

	"media-catalog/internal/data/entity"
	"media-catalog/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	FindByMedia(ctx context.Context, mediaType entity.MediaType, mediaID uuid.UUID, limit, offset int) ([]*entity.ReviewWithAuthor, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.ReviewWithAuthor, error)
	FindByUserAndMedia(ctx context.Context, userID uuid.UUID, mediaType entity.MediaType, mediaID uuid.UUID) (*entity.Review, error)
	CountByMedia(ctx context.Context, mediaType entity.MediaType, mediaID uuid.UUID) (int64, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByMedia(ctx context.Context, mediaType entity.MediaType, mediaID uuid.UUID) error

	// Business queries
	GetMediaReviewStats(ctx context.Context, mediaType entity.MediaType, mediaID uuid.UUID) (*entity.ReviewStats, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, media_id, media_type, rating, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.UserID,
		review.MediaID,
		review.MediaType,
		review.Rating,
		review.Content,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("create review for %s %s: %w", review.MediaType, review.MediaID, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.String("media_id", review.MediaID.String()),
		)
		return fmt.Errorf("create review for %s %s by user %s: %w",
			review.MediaType, review.MediaID.String(), review.UserID.String(), err)
	}

	return nil
}

func scanReview(row rowScanner) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.MediaID,
		&review.MediaType,
		&review.Rating,
		&review.Content,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT id, user_id, media_id, media_type, rating, content, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`

	review, err := scanReview(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) FindByMedia(ctx context.Context, mediaType entity.MediaType, mediaID uuid.UUID, limit, offset int) ([]*entity.ReviewWithAuthor, error) {
	query := `
		SELECT r.id, r.user_id, r.media_id, r.media_type, r.rating, r.content,
		       r.created_at, r.updated_at, p.username, p.avatar_url
		FROM reviews r
		LEFT JOIN profiles p ON p.id = r.user_id
		WHERE r.media_type = $1 AND r.media_id = $2
		ORDER BY r.created_at DESC
		LIMIT $3 OFFSET $4
	`

	return r.listWithAuthor(ctx, "find reviews by media", query, mediaType, mediaID, limit, offset)
}

func (r *reviewRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.ReviewWithAuthor, error) {
	query := `
		SELECT r.id, r.user_id, r.media_id, r.media_type, r.rating, r.content,
		       r.created_at, r.updated_at, p.username, p.avatar_url
		FROM reviews r
		LEFT JOIN profiles p ON p.id = r.user_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.listWithAuthor(ctx, "find reviews by user", query, userID, limit, offset)
}

func (r *reviewRepository) listWithAuthor(ctx context.Context, op, query string, args ...any) ([]*entity.ReviewWithAuthor, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err), zap.Any("args", args))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	reviews := make([]*entity.ReviewWithAuthor, 0)
	for rows.Next() {
		var review entity.ReviewWithAuthor
		err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.MediaID,
			&review.MediaType,
			&review.Rating,
			&review.Content,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.Username,
			&review.AvatarURL,
		)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, &review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return reviews, nil
}

func (r *reviewRepository) FindByUserAndMedia(ctx context.Context, userID uuid.UUID, mediaType entity.MediaType, mediaID uuid.UUID) (*entity.Review, error) {
	query := `
		SELECT id, user_id, media_id, media_type, rating, content, created_at, updated_at
		FROM reviews
		WHERE user_id = $1 AND media_type = $2 AND media_id = $3
		LIMIT 1
	`

	review, err := scanReview(r.db.QueryRow(ctx, query, userID, mediaType, mediaID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by user and media",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("media_id", mediaID.String()),
		)
		return nil, fmt.Errorf("find review by user %s and media %s: %w",
			userID.String(), mediaID.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) CountByMedia(ctx context.Context, mediaType entity.MediaType, mediaID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE media_type = $1 AND media_id = $2`

	var count int64
	if err := r.db.QueryRow(ctx, query, mediaType, mediaID).Scan(&count); err != nil {
		r.log.Error("Failed to count reviews by media",
			zap.Error(err),
			zap.String("media_id", mediaID.String()),
		)
		return 0, fmt.Errorf("count reviews by media %s: %w", mediaID.String(), err)
	}

	return count, nil
}

func (r *reviewRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reviews by user %s: %w", userID.String(), err)
	}
	return count, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, content = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		review.ID,
		review.Rating,
		review.Content,
		review.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("update review %s: %w", review.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update review %s: %w", review.ID.String(), ErrNoRows)
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return fmt.Errorf("delete review %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete review %s: %w", id.String(), ErrNoRows)
	}

	r.log.Info("Review deleted", zap.String("review_id", id.String()))
	return nil
}

func (r *reviewRepository) DeleteByMedia(ctx context.Context, mediaType entity.MediaType, mediaID uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE media_type = $1 AND media_id = $2`, mediaType, mediaID)
	if err != nil {
		r.log.Error("Failed to delete reviews by media",
			zap.Error(err),
			zap.String("media_id", mediaID.String()),
		)
		return fmt.Errorf("delete reviews of %s %s: %w", mediaType, mediaID.String(), err)
	}

	r.log.Debug("Reviews deleted with media",
		zap.String("media_id", mediaID.String()),
		zap.Int64("count", result.RowsAffected()),
	)
	return nil
}

func (r *reviewRepository) GetMediaReviewStats(ctx context.Context, mediaType entity.MediaType, mediaID uuid.UUID) (*entity.ReviewStats, error) {
	query := `
		SELECT
			COALESCE(AVG(rating), 0) AS avg_rating,
			COUNT(*) AS review_count
		FROM reviews
		WHERE media_type = $1 AND media_id = $2
	`

	var stats entity.ReviewStats
	err := r.db.QueryRow(ctx, query, mediaType, mediaID).Scan(&stats.AverageRating, &stats.ReviewCount)
	if err != nil {
		r.log.Error("Failed to get media review stats",
			zap.Error(err),
			zap.String("media_id", mediaID.String()),
		)
		return nil, fmt.Errorf("get review stats for %s %s: %w", mediaType, mediaID.String(), err)
	}

	return &stats, nil
}
