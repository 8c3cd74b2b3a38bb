package request

type CreateReviewRequest struct {
	MediaID   string  `json:"media_id" validate:"required,uuid"`
	MediaType string  `json:"media_type" validate:"required,oneof=book movie"`
	Rating    int     `json:"rating" validate:"required,min=1,max=5"`
	Content   *string `json:"content,omitempty" validate:"omitempty,max=2000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Content *string `json:"content,omitempty" validate:"omitempty,max=2000"`
}
