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

type CommunityRepository interface {
	FindAll(ctx context.Context, viewerID *uuid.UUID) ([]*entity.CommunityView, error)
	FindByID(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*entity.CommunityView, error)
	FindByName(ctx context.Context, name string, viewerID *uuid.UUID) (*entity.CommunityView, error)

	// CreateWithOwner inserts the community and its creator as admin member
	// in one transaction.
	CreateWithOwner(ctx context.Context, community *entity.Community) error

	// AddMember and RemoveMember keep member_count in step with the
	// membership rows inside the same transaction.
	AddMember(ctx context.Context, member *entity.CommunityMember) (int, error)
	RemoveMember(ctx context.Context, communityID, userID uuid.UUID) (int, error)
	IsMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error)
}

type communityRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCommunityRepository(db database.PgxIface, log *zap.Logger) CommunityRepository {
	return &communityRepository{
		db:  db,
		log: log.With(zap.String("repository", "community")),
	}
}

// $1 is the viewer id, NULL for anonymous viewers.
const communitySelect = `
	SELECT c.id, c.name, c.display_name, c.description, c.cover_image_url, c.created_by,
	       c.member_count, c.created_at, c.updated_at,
	       CASE WHEN $1::uuid IS NULL THEN NULL
	            ELSE EXISTS (SELECT 1 FROM community_members m
	                         WHERE m.community_id = c.id AND m.user_id = $1::uuid)
	       END AS user_is_member
	FROM communities c
`

func scanCommunity(row rowScanner) (*entity.CommunityView, error) {
	var c entity.CommunityView
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.DisplayName,
		&c.Description,
		&c.CoverImageURL,
		&c.CreatedBy,
		&c.MemberCount,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.UserIsMember,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *communityRepository) FindAll(ctx context.Context, viewerID *uuid.UUID) ([]*entity.CommunityView, error) {
	query := communitySelect + ` ORDER BY c.member_count DESC, c.created_at DESC`

	rows, err := r.db.Query(ctx, query, viewerID)
	if err != nil {
		r.log.Error("Failed to find communities", zap.Error(err))
		return nil, fmt.Errorf("find communities: %w", err)
	}
	defer rows.Close()

	communities := make([]*entity.CommunityView, 0)
	for rows.Next() {
		c, err := scanCommunity(rows)
		if err != nil {
			r.log.Error("Failed to scan community row", zap.Error(err))
			return nil, fmt.Errorf("scan community: %w", err)
		}
		communities = append(communities, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find communities: %w", err)
	}

	return communities, nil
}

func (r *communityRepository) FindByID(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID) (*entity.CommunityView, error) {
	return r.findOne(ctx, "c.id = $2", id, viewerID)
}

func (r *communityRepository) FindByName(ctx context.Context, name string, viewerID *uuid.UUID) (*entity.CommunityView, error) {
	return r.findOne(ctx, "c.name = $2", name, viewerID)
}

func (r *communityRepository) findOne(ctx context.Context, where string, key any, viewerID *uuid.UUID) (*entity.CommunityView, error) {
	query := communitySelect + ` WHERE ` + where

	c, err := scanCommunity(r.db.QueryRow(ctx, query, viewerID, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find community",
			zap.Error(err),
			zap.Any("key", key),
		)
		return nil, fmt.Errorf("find community %v: %w", key, err)
	}

	return c, nil
}

func (r *communityRepository) CreateWithOwner(ctx context.Context, community *entity.Community) error {
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		insertCommunity := `
			INSERT INTO communities (id, name, display_name, description, cover_image_url,
			                         created_by, member_count, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $8)
		`
		if _, err := tx.Exec(ctx, insertCommunity,
			community.ID,
			community.Name,
			community.DisplayName,
			community.Description,
			community.CoverImageURL,
			community.CreatedBy,
			community.CreatedAt,
			community.UpdatedAt,
		); err != nil {
			return err
		}

		insertOwner := `
			INSERT INTO community_members (community_id, user_id, role, joined_at)
			VALUES ($1, $2, $3, $4)
		`
		_, err := tx.Exec(ctx, insertOwner,
			community.ID, community.CreatedBy, entity.MemberRoleAdmin, community.CreatedAt)
		return err
	})

	if isUniqueViolation(err) {
		return fmt.Errorf("create community %s: %w", community.Name, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create community",
			zap.Error(err),
			zap.String("name", community.Name),
		)
		return fmt.Errorf("create community %s: %w", community.Name, err)
	}

	community.MemberCount = 1
	return nil
}

func (r *communityRepository) AddMember(ctx context.Context, member *entity.CommunityMember) (int, error) {
	var memberCount int
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		insert := `
			INSERT INTO community_members (community_id, user_id, role, joined_at)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.Exec(ctx, insert,
			member.CommunityID, member.UserID, member.Role, member.JoinedAt); err != nil {
			return err
		}

		bump := `
			UPDATE communities SET member_count = member_count + 1, updated_at = NOW()
			WHERE id = $1
			RETURNING member_count
		`
		return tx.QueryRow(ctx, bump, member.CommunityID).Scan(&memberCount)
	})

	if isUniqueViolation(err) {
		return 0, fmt.Errorf("join community %s: %w", member.CommunityID.String(), ErrDuplicate)
	}
	if errors.Is(err, pgx.ErrNoRows) || isForeignKeyViolation(err) {
		return 0, fmt.Errorf("join community %s: %w", member.CommunityID.String(), ErrNoRows)
	}
	if err != nil {
		r.log.Error("Failed to add community member",
			zap.Error(err),
			zap.String("community_id", member.CommunityID.String()),
			zap.String("user_id", member.UserID.String()),
		)
		return 0, fmt.Errorf("join community %s: %w", member.CommunityID.String(), err)
	}

	return memberCount, nil
}

func (r *communityRepository) RemoveMember(ctx context.Context, communityID, userID uuid.UUID) (int, error) {
	var memberCount int
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx,
			`DELETE FROM community_members WHERE community_id = $1 AND user_id = $2`,
			communityID, userID)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNoRows
		}

		drop := `
			UPDATE communities SET member_count = GREATEST(member_count - 1, 0), updated_at = NOW()
			WHERE id = $1
			RETURNING member_count
		`
		return tx.QueryRow(ctx, drop, communityID).Scan(&memberCount)
	})

	if errors.Is(err, ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("leave community %s: %w", communityID.String(), ErrNoRows)
	}
	if err != nil {
		r.log.Error("Failed to remove community member",
			zap.Error(err),
			zap.String("community_id", communityID.String()),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("leave community %s: %w", communityID.String(), err)
	}

	return memberCount, nil
}

func (r *communityRepository) IsMember(ctx context.Context, communityID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM community_members WHERE community_id = $1 AND user_id = $2)`

	var isMember bool
	if err := r.db.QueryRow(ctx, query, communityID, userID).Scan(&isMember); err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return isMember, nil
}
