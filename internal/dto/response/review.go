package response

import (
	"time"

	"media-catalog/internal/data/entity"
)

const anonymousUsername = "Anonymous"

// UserSummary is the author block joined onto reviews, posts and comments.
type UserSummary struct {
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

func NewUserSummary(username, avatarURL *string) UserSummary {
	name := anonymousUsername
	if username != nil && *username != "" {
		name = *username
	}
	return UserSummary{Username: name, AvatarURL: avatarURL}
}

type ReviewResponse struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	MediaID   string           `json:"media_id"`
	MediaType entity.MediaType `json:"media_type"`
	Rating    int              `json:"rating"`
	Content   *string          `json:"content,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	User      *UserSummary     `json:"user,omitempty"`
}

type ReviewStatsResponse struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

// Helper converters
func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:        review.ID.String(),
		UserID:    review.UserID.String(),
		MediaID:   review.MediaID.String(),
		MediaType: review.MediaType,
		Rating:    review.Rating,
		Content:   review.Content,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}

func ReviewWithAuthorToResponse(review *entity.ReviewWithAuthor) ReviewResponse {
	resp := ReviewToResponse(&review.Review)
	user := NewUserSummary(review.Username, review.AvatarURL)
	resp.User = &user
	return resp
}

func ReviewStatsToResponse(stats *entity.ReviewStats) ReviewStatsResponse {
	if stats == nil {
		return ReviewStatsResponse{}
	}
	return ReviewStatsResponse{
		AverageRating: stats.AverageRating,
		ReviewCount:   stats.ReviewCount,
	}
}
