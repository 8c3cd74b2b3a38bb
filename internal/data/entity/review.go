package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	Base
	UserID    uuid.UUID `db:"user_id"`
	MediaID   uuid.UUID `db:"media_id"`
	MediaType MediaType `db:"media_type"`
	Rating    int       `db:"rating"` // 1-5
	Content   *string   `db:"content"`
}

// ReviewWithAuthor is a review row joined with the author's profile.
type ReviewWithAuthor struct {
	Review
	Username  *string
	AvatarURL *string
}

type ReviewStats struct {
	AverageRating float64
	ReviewCount   int64
}
