package response

import (
	"time"

	"media-catalog/internal/data/entity"
)

type CommunityResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	DisplayName   string    `json:"display_name"`
	Description   *string   `json:"description,omitempty"`
	CoverImageURL *string   `json:"cover_image_url,omitempty"`
	CreatedBy     string    `json:"created_by"`
	MemberCount   int       `json:"member_count"`
	UserIsMember  *bool     `json:"user_is_member,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type MembershipResponse struct {
	CommunityID string `json:"community_id"`
	MemberCount int    `json:"member_count"`
	IsMember    bool   `json:"is_member"`
}

func CommunityToResponse(c *entity.Community, userIsMember *bool) CommunityResponse {
	return CommunityResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		DisplayName:   c.DisplayName,
		Description:   c.Description,
		CoverImageURL: c.CoverImageURL,
		CreatedBy:     c.CreatedBy.String(),
		MemberCount:   c.MemberCount,
		UserIsMember:  userIsMember,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func CommunityViewToResponse(v *entity.CommunityView) CommunityResponse {
	return CommunityToResponse(&v.Community, v.UserIsMember)
}
