package entity

import (
	"github.com/google/uuid"
)

type CommunityPost struct {
	Base
	CommunityID  uuid.UUID  `db:"community_id"`
	UserID       uuid.UUID  `db:"user_id"`
	Title        string     `db:"title"`
	Content      *string    `db:"content"`
	MediaID      *uuid.UUID `db:"media_id"`
	MediaType    *MediaType `db:"media_type"`
	Upvotes      int        `db:"upvotes"`
	Downvotes    int        `db:"downvotes"`
	CommentCount int        `db:"comment_count"`
}

// PostView is a post joined with its author, its community and the
// viewer's own vote.
type PostView struct {
	CommunityPost
	Username             *string
	AvatarURL            *string
	CommunityName        *string
	CommunityDisplayName *string
	UserVote             *VoteType
}

type PostComment struct {
	Base
	PostID    uuid.UUID `db:"post_id"`
	UserID    uuid.UUID `db:"user_id"`
	Content   string    `db:"content"`
	Upvotes   int       `db:"upvotes"`
	Downvotes int       `db:"downvotes"`
}

type CommentView struct {
	PostComment
	Username  *string
	AvatarURL *string
}
