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

type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	FindByEmail(ctx context.Context, email string) (*entity.Profile, error)
	FindByUsername(ctx context.Context, username string) (*entity.Profile, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Profile, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, profile *entity.Profile) error
	SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error
}

type profileRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProfileRepository(db database.PgxIface, log *zap.Logger) ProfileRepository {
	return &profileRepository{
		db:  db,
		log: log.With(zap.String("repository", "profile")),
	}
}

const profileColumns = `id, email, password_hash, username, avatar_url, is_admin, created_at, updated_at`

func scanProfile(row rowScanner) (*entity.Profile, error) {
	var profile entity.Profile
	err := row.Scan(
		&profile.ID,
		&profile.Email,
		&profile.PasswordHash,
		&profile.Username,
		&profile.AvatarURL,
		&profile.IsAdmin,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Create inserts a new profile record into the database
func (r *profileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	query := `
		INSERT INTO profiles (id, email, password_hash, username, avatar_url, is_admin,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		profile.ID,
		profile.Email,
		profile.PasswordHash,
		profile.Username,
		profile.AvatarURL,
		profile.IsAdmin,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("create profile %s: %w", profile.Email, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create profile",
			zap.Error(err),
			zap.String("email", profile.Email),
			zap.String("username", profile.Username),
		)
		return fmt.Errorf("create profile %s: %w", profile.Email, err)
	}

	return nil
}

func (r *profileRepository) findOne(ctx context.Context, field string, value any) (*entity.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE ` + field + ` = $1`

	profile, err := scanProfile(r.db.QueryRow(ctx, query, value))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find profile",
			zap.Error(err),
			zap.String("by", field),
		)
		return nil, fmt.Errorf("find profile by %s: %w", field, err)
	}

	return profile, nil
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	return r.findOne(ctx, "id", id)
}

func (r *profileRepository) FindByEmail(ctx context.Context, email string) (*entity.Profile, error) {
	// emails are stored lower-cased
	return r.findOne(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

func (r *profileRepository) FindByUsername(ctx context.Context, username string) (*entity.Profile, error) {
	return r.findOne(ctx, "username", username)
}

func (r *profileRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find all profiles",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*entity.Profile, 0)
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}

	return profiles, rows.Err()
}

func (r *profileRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&total); err != nil {
		r.log.Error("Failed to count profiles", zap.Error(err))
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return total, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	query := `
		UPDATE profiles
		SET username = $2, avatar_url = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		profile.ID,
		profile.Username,
		profile.AvatarURL,
		profile.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("update profile %s: %w", profile.ID.String(), ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to update profile",
			zap.Error(err),
			zap.String("user_id", profile.ID.String()),
		)
		return fmt.Errorf("update profile %s: %w", profile.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update profile %s: %w", profile.ID.String(), ErrNoRows)
	}

	return nil
}

func (r *profileRepository) SetAdmin(ctx context.Context, id uuid.UUID, isAdmin bool) error {
	query := `UPDATE profiles SET is_admin = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, isAdmin)
	if err != nil {
		r.log.Error("Failed to set admin flag",
			zap.Error(err),
			zap.String("user_id", id.String()),
			zap.Bool("is_admin", isAdmin),
		)
		return fmt.Errorf("set admin flag on %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("set admin flag on %s: %w", id.String(), ErrNoRows)
	}

	r.log.Info("Admin flag changed",
		zap.String("user_id", id.String()),
		zap.Bool("is_admin", isAdmin),
	)
	return nil
}
