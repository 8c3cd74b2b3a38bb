package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"media-catalog/internal/data/entity"
	"media-catalog/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.CommunityPost) error
	FindByID(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*entity.PostView, error)
	// FindAll lists posts newest first. A nil communityID lists every
	// community; limit <= 0 means no limit.
	FindAll(ctx context.Context, communityID *uuid.UUID, viewerID *uuid.UUID, limit int) ([]*entity.PostView, error)

	// ApplyVote toggles the user's vote and moves the post counters by the
	// matching deltas in one transaction. The post row is locked first, so
	// concurrent voters on the same post are serialized.
	ApplyVote(ctx context.Context, postID, userID uuid.UUID, voteType entity.VoteType) (*entity.VoteResult, error)
}

type postRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPostRepository(db database.PgxIface, log *zap.Logger) PostRepository {
	return &postRepository{
		db:  db,
		log: log.With(zap.String("repository", "post")),
	}
}

// $1 is the viewer id, NULL for anonymous viewers.
const postSelect = `
	SELECT p.id, p.community_id, p.user_id, p.title, p.content, p.media_id, p.media_type,
	       p.upvotes, p.downvotes, p.comment_count, p.created_at, p.updated_at,
	       pr.username, pr.avatar_url, c.name, c.display_name, v.vote_type
	FROM community_posts p
	LEFT JOIN profiles pr ON pr.id = p.user_id
	LEFT JOIN communities c ON c.id = p.community_id
	LEFT JOIN post_votes v ON v.post_id = p.id AND v.user_id = $1::uuid
`

func scanPost(row rowScanner) (*entity.PostView, error) {
	var p entity.PostView
	err := row.Scan(
		&p.ID,
		&p.CommunityID,
		&p.UserID,
		&p.Title,
		&p.Content,
		&p.MediaID,
		&p.MediaType,
		&p.Upvotes,
		&p.Downvotes,
		&p.CommentCount,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Username,
		&p.AvatarURL,
		&p.CommunityName,
		&p.CommunityDisplayName,
		&p.UserVote,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) Create(ctx context.Context, post *entity.CommunityPost) error {
	query := `
		INSERT INTO community_posts (id, community_id, user_id, title, content, media_id,
		                             media_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		post.ID,
		post.CommunityID,
		post.UserID,
		post.Title,
		post.Content,
		post.MediaID,
		post.MediaType,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("create post in %s: %w", post.CommunityID.String(), ErrNoRows)
	}
	if err != nil {
		r.log.Error("Failed to create post",
			zap.Error(err),
			zap.String("community_id", post.CommunityID.String()),
			zap.String("user_id", post.UserID.String()),
		)
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*entity.PostView, error) {
	query := postSelect + ` WHERE p.id = $2`

	post, err := scanPost(r.db.QueryRow(ctx, query, viewerID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find post by ID",
			zap.Error(err),
			zap.String("post_id", id.String()),
		)
		return nil, fmt.Errorf("find post %s: %w", id.String(), err)
	}

	return post, nil
}

func (r *postRepository) FindAll(ctx context.Context, communityID *uuid.UUID, viewerID *uuid.UUID, limit int) ([]*entity.PostView, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(postSelect)

	args := []any{viewerID}
	argCount := 2

	if communityID != nil {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE p.community_id = $%d", argCount))
		args = append(args, *communityID)
		argCount++
	}

	queryBuilder.WriteString(" ORDER BY p.created_at DESC")

	if limit > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find posts",
			zap.Error(err),
			zap.Int("limit", limit),
		)
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer rows.Close()

	posts := make([]*entity.PostView, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			r.log.Error("Failed to scan post row", zap.Error(err))
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}

	return posts, nil
}

func (r *postRepository) ApplyVote(ctx context.Context, postID, userID uuid.UUID, voteType entity.VoteType) (*entity.VoteResult, error) {
	result := &entity.VoteResult{PostID: postID}

	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		var locked uuid.UUID
		if err := tx.QueryRow(ctx,
			`SELECT id FROM community_posts WHERE id = $1 FOR UPDATE`, postID,
		).Scan(&locked); err != nil {
			return err
		}

		var current *entity.VoteType
		err := tx.QueryRow(ctx,
			`SELECT vote_type FROM post_votes WHERE post_id = $1 AND user_id = $2`,
			postID, userID,
		).Scan(&current)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		transition := entity.ResolveVote(current, voteType)

		switch transition.Action {
		case entity.VoteInserted:
			_, err = tx.Exec(ctx,
				`INSERT INTO post_votes (post_id, user_id, vote_type) VALUES ($1, $2, $3)`,
				postID, userID, *transition.Next)
		case entity.VoteRemoved:
			_, err = tx.Exec(ctx,
				`DELETE FROM post_votes WHERE post_id = $1 AND user_id = $2`,
				postID, userID)
		case entity.VoteChanged:
			_, err = tx.Exec(ctx,
				`UPDATE post_votes SET vote_type = $3 WHERE post_id = $1 AND user_id = $2`,
				postID, userID, *transition.Next)
		}
		if err != nil {
			return err
		}

		counters := `
			UPDATE community_posts
			SET upvotes = upvotes + $2, downvotes = downvotes + $3
			WHERE id = $1
			RETURNING upvotes, downvotes
		`
		if err := tx.QueryRow(ctx, counters, postID,
			transition.UpvoteDelta, transition.DownvoteDelta,
		).Scan(&result.Upvotes, &result.Downvotes); err != nil {
			return err
		}

		result.UserVote = transition.Next
		result.Action = transition.Action
		return nil
	})

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("vote on post %s: %w", postID.String(), ErrNoRows)
	}
	if err != nil {
		r.log.Error("Failed to apply vote",
			zap.Error(err),
			zap.String("post_id", postID.String()),
			zap.String("user_id", userID.String()),
			zap.String("vote_type", string(voteType)),
		)
		return nil, fmt.Errorf("vote on post %s: %w", postID.String(), err)
	}

	r.log.Debug("Vote applied",
		zap.String("post_id", postID.String()),
		zap.String("action", string(result.Action)),
		zap.Int("upvotes", result.Upvotes),
		zap.Int("downvotes", result.Downvotes),
	)

	return result, nil
}
