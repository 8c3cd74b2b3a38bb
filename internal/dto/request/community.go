package request

type CreateCommunityRequest struct {
	Name          string  `json:"name" validate:"required,min=3,max=50,slug"`
	DisplayName   string  `json:"display_name" validate:"required,min=1,max=100"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=1000"`
	CoverImageURL *string `json:"cover_image_url,omitempty" validate:"omitempty,url"`
}

type CreatePostRequest struct {
	CommunityID string  `json:"community_id" validate:"required,uuid"`
	Title       string  `json:"title" validate:"required,min=1,max=300"`
	Content     *string `json:"content,omitempty" validate:"omitempty,max=10000"`
	MediaID     *string `json:"media_id,omitempty" validate:"required_with=MediaType,omitempty,uuid"`
	MediaType   *string `json:"media_type,omitempty" validate:"required_with=MediaID,omitempty,oneof=book movie"`
}

type VoteRequest struct {
	VoteType string `json:"vote_type" validate:"required,oneof=upvote downvote"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=5000"`
}
