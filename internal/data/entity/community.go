package entity

import (
	"time"

	"github.com/google/uuid"
)

type MemberRole string

const (
	MemberRoleMember MemberRole = "member"
	MemberRoleAdmin  MemberRole = "admin"
)

type Community struct {
	Base
	Name          string    `db:"name"`
	DisplayName   string    `db:"display_name"`
	Description   *string   `db:"description"`
	CoverImageURL *string   `db:"cover_image_url"`
	CreatedBy     uuid.UUID `db:"created_by"`
	MemberCount   int       `db:"member_count"`
}

type CommunityMember struct {
	CommunityID uuid.UUID  `db:"community_id"`
	UserID      uuid.UUID  `db:"user_id"`
	Role        MemberRole `db:"role"`
	JoinedAt    time.Time  `db:"joined_at"`
}

// CommunityView carries the viewer's membership. UserIsMember is nil for
// anonymous viewers.
type CommunityView struct {
	Community
	UserIsMember *bool
}
