package entity

// Profile is keyed by the auth user id. It also carries the login
// credentials, since this service is its own auth provider.
type Profile struct {
	Base
	Email        string  `db:"email"`
	PasswordHash string  `db:"password_hash"`
	Username     string  `db:"username"`
	AvatarURL    *string `db:"avatar_url"`
	IsAdmin      bool    `db:"is_admin"`
}
