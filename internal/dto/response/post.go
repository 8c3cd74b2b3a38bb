package response

import (
	"time"

	"media-catalog/internal/data/entity"
)

type CommunitySummary struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

type PostResponse struct {
	ID           string            `json:"id"`
	CommunityID  string            `json:"community_id"`
	UserID       string            `json:"user_id"`
	Title        string            `json:"title"`
	Content      *string           `json:"content,omitempty"`
	MediaID      *string           `json:"media_id,omitempty"`
	MediaType    *entity.MediaType `json:"media_type,omitempty"`
	Upvotes      int               `json:"upvotes"`
	Downvotes    int               `json:"downvotes"`
	CommentCount int               `json:"comment_count"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	User         UserSummary       `json:"user"`
	Community    *CommunitySummary `json:"community,omitempty"`
	UserVote     *entity.VoteType  `json:"user_vote"`
}

type VoteResponse struct {
	PostID    string            `json:"post_id"`
	Upvotes   int               `json:"upvotes"`
	Downvotes int               `json:"downvotes"`
	Score     int               `json:"score"`
	UserVote  *entity.VoteType  `json:"user_vote"`
	Action    entity.VoteAction `json:"action"`
}

type CommentResponse struct {
	ID        string      `json:"id"`
	PostID    string      `json:"post_id"`
	UserID    string      `json:"user_id"`
	Content   string      `json:"content"`
	Upvotes   int         `json:"upvotes"`
	Downvotes int         `json:"downvotes"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	User      UserSummary `json:"user"`
}

// Helper converters
func PostViewToResponse(p *entity.PostView) PostResponse {
	resp := PostResponse{
		ID:           p.ID.String(),
		CommunityID:  p.CommunityID.String(),
		UserID:       p.UserID.String(),
		Title:        p.Title,
		Content:      p.Content,
		MediaType:    p.MediaType,
		Upvotes:      p.Upvotes,
		Downvotes:    p.Downvotes,
		CommentCount: p.CommentCount,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		User:         NewUserSummary(p.Username, p.AvatarURL),
		UserVote:     p.UserVote,
	}

	if p.MediaID != nil {
		id := p.MediaID.String()
		resp.MediaID = &id
	}

	if p.CommunityName != nil {
		summary := CommunitySummary{Name: *p.CommunityName}
		if p.CommunityDisplayName != nil {
			summary.DisplayName = *p.CommunityDisplayName
		}
		resp.Community = &summary
	}

	return resp
}

func VoteResultToResponse(v *entity.VoteResult) VoteResponse {
	return VoteResponse{
		PostID:    v.PostID.String(),
		Upvotes:   v.Upvotes,
		Downvotes: v.Downvotes,
		Score:     v.Upvotes - v.Downvotes,
		UserVote:  v.UserVote,
		Action:    v.Action,
	}
}

func CommentViewToResponse(c *entity.CommentView) CommentResponse {
	return CommentResponse{
		ID:        c.ID.String(),
		PostID:    c.PostID.String(),
		UserID:    c.UserID.String(),
		Content:   c.Content,
		Upvotes:   c.Upvotes,
		Downvotes: c.Downvotes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		User:      NewUserSummary(c.Username, c.AvatarURL),
	}
}
