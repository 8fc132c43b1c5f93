package domain

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type BoardMember struct {
	BoardID  string    `db:"board_id" json:"board_id"`
	UserID   string    `db:"user_id" json:"user_id"`
	Role     string    `db:"role" json:"role"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`

	// Profile fields, filled by member listings only.
	Username  string  `db:"username" json:"username,omitempty"`
	Email     string  `db:"email" json:"email,omitempty"`
	FullName  string  `db:"full_name" json:"full_name,omitempty"`
	AvatarURL *string `db:"avatar_url" json:"avatar_url,omitempty"`
}

// NewMember identifies the user to add either by id or by email.
type NewMember struct {
	UserID string `json:"user_id"`
	Email  string `json:"email" validate:"omitempty,email"`
	Role   string `json:"role" validate:"omitempty,oneof=admin member"`
}

// RemovedMember is the outcome of a membership removal.
type RemovedMember struct {
	Removed  *BoardMember `json:"removed"`
	Promoted *BoardMember `json:"promoted,omitempty"`
}
