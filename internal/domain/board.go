package domain

import "time"

type Board struct {
	ID          string    `db:"board_id" json:"board_id"`
	Name        string    `db:"board_name" json:"board_name"`
	Description *string   `db:"description" json:"description"`
	CreatedBy   string    `db:"created_by" json:"created_by"`
	MemberCount int       `db:"member_count" json:"member_count"`
	TaskCount   int       `db:"task_count" json:"task_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type NewBoard struct {
	Name        string  `json:"board_name" validate:"required,max=100"`
	Description *string `json:"description"`
	CreatedBy   string  `json:"created_by" validate:"required"`
}

type BoardPatch struct {
	Name        *string          `json:"board_name" validate:"omitempty,min=1,max=100"`
	Description Nullable[string] `json:"description"`
}

func (p BoardPatch) Empty() bool {
	return p.Name == nil && !p.Description.Set
}
