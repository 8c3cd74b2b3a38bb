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

type CommentRepository interface {
	FindByPostID(ctx context.Context, postID uuid.UUID) ([]*entity.CommentView, error)
	// Create inserts the comment and bumps the post's comment_count in
	// one transaction.
	Create(ctx context.Context, comment *entity.PostComment) error
}

type commentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCommentRepository(db database.PgxIface, log *zap.Logger) CommentRepository {
	return &commentRepository{
		db:  db,
		log: log.With(zap.String("repository", "comment")),
	}
}

func (r *commentRepository) FindByPostID(ctx context.Context, postID uuid.UUID) ([]*entity.CommentView, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, c.content, c.upvotes, c.downvotes,
		       c.created_at, c.updated_at, p.username, p.avatar_url
		FROM post_comments c
		LEFT JOIN profiles p ON p.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC
	`

	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		r.log.Error("Failed to find comments",
			zap.Error(err),
			zap.String("post_id", postID.String()),
		)
		return nil, fmt.Errorf("find comments of %s: %w", postID.String(), err)
	}
	defer rows.Close()

	comments := make([]*entity.CommentView, 0)
	for rows.Next() {
		var c entity.CommentView
		err := rows.Scan(
			&c.ID,
			&c.PostID,
			&c.UserID,
			&c.Content,
			&c.Upvotes,
			&c.Downvotes,
			&c.CreatedAt,
			&c.UpdatedAt,
			&c.Username,
			&c.AvatarURL,
		)
		if err != nil {
			r.log.Error("Failed to scan comment row", zap.Error(err))
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find comments of %s: %w", postID.String(), err)
	}

	return comments, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.PostComment) error {
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		insert := `
			INSERT INTO post_comments (id, post_id, user_id, content, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := tx.Exec(ctx, insert,
			comment.ID,
			comment.PostID,
			comment.UserID,
			comment.Content,
			comment.CreatedAt,
			comment.UpdatedAt,
		); err != nil {
			return err
		}

		result, err := tx.Exec(ctx,
			`UPDATE community_posts SET comment_count = comment_count + 1 WHERE id = $1`,
			comment.PostID)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNoRows
		}
		return nil
	})

	if errors.Is(err, ErrNoRows) || isForeignKeyViolation(err) {
		return fmt.Errorf("comment on post %s: %w", comment.PostID.String(), ErrNoRows)
	}
	if err != nil {
		r.log.Error("Failed to create comment",
			zap.Error(err),
			zap.String("post_id", comment.PostID.String()),
			zap.String("user_id", comment.UserID.String()),
		)
		return fmt.Errorf("comment on post %s: %w", comment.PostID.String(), err)
	}

	return nil
}
