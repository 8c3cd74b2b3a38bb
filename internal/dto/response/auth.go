package response

import (
	"time"

	"media-catalog/internal/data/entity"
)

type AuthResponse struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	IsAdmin   bool      `json:"is_admin"`
}

type ProfileResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionResponse is what the client keeps as its auth state.
type SessionResponse struct {
	User    ProfileResponse `json:"user"`
	IsAdmin bool            `json:"is_admin"`
}

// Helper converters
func ProfileToResponse(profile *entity.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        profile.ID.String(),
		Email:     profile.Email,
		Username:  profile.Username,
		AvatarURL: profile.AvatarURL,
		IsAdmin:   profile.IsAdmin,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}

func AuthToResponse(profile *entity.Profile, session *entity.Session) AuthResponse {
	resp := AuthResponse{
		UserID:   profile.ID.String(),
		Email:    profile.Email,
		Username: profile.Username,
		IsAdmin:  profile.IsAdmin,
	}

	if session != nil {
		resp.Token = session.Token.String()
		resp.ExpiresAt = session.ExpiresAt
	}

	return resp
}
