package domain

import "time"

type User struct {
	ID           string     `db:"user_id" json:"user_id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	AvatarURL    *string    `db:"avatar_url" json:"avatar_url"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	LastLogin    *time.Time `db:"last_login" json:"last_login"`
	IsActive     bool       `db:"is_active" json:"is_active"`
}

// NewUser is the registration payload. Either PasswordHash or Password is
// required; a plain Password is hashed before storage.
type NewUser struct {
	ID           string  `json:"user_id"`
	Username     string  `json:"username" validate:"required,min=3,max=50"`
	Email        string  `json:"email" validate:"required,email,max=255"`
	PasswordHash string  `json:"password_hash" validate:"omitempty,max=255"`
	Password     string  `json:"password" validate:"omitempty,min=6,max=72"`
	FullName     string  `json:"full_name" validate:"required,max=100"`
	AvatarURL    *string `json:"avatar_url" validate:"omitempty,max=500"`
}

// UserPatch carries the mutable profile fields. AvatarURL may be cleared with null.
type UserPatch struct {
	Username  *string          `json:"username" validate:"omitempty,min=3,max=50"`
	FullName  *string          `json:"full_name" validate:"omitempty,max=100"`
	AvatarURL Nullable[string] `json:"avatar_url"`
}

func (p UserPatch) Empty() bool {
	return p.Username == nil && p.FullName == nil && !p.AvatarURL.Set
}
