package domain

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	StatusToDo       TaskStatus = "To-Do"
	StatusInProgress TaskStatus = "In-Progress"
	StatusInReview   TaskStatus = "In-Review"
	StatusDone       TaskStatus = "Done"
)

// Workflow is the board column order shown by clients.
var Workflow = []TaskStatus{StatusToDo, StatusInProgress, StatusInReview, StatusDone}

func (s TaskStatus) Valid() bool {
	return s.index() >= 0
}

func (s TaskStatus) index() int {
	for i, st := range Workflow {
		if st == s {
			return i
		}
	}
	return -1
}

// Next returns the following column, or false when s is the last one.
func (s TaskStatus) Next() (TaskStatus, bool) {
	i := s.index()
	if i < 0 || i == len(Workflow)-1 {
		return s, false
	}
	return Workflow[i+1], true
}

// Prev returns the preceding column, or false when s is the first one.
func (s TaskStatus) Prev() (TaskStatus, bool) {
	i := s.index()
	if i <= 0 {
		return s, false
	}
	return Workflow[i-1], true
}

// Adjacent reports whether moving from s to to is a single step (or no move).
func (s TaskStatus) Adjacent(to TaskStatus) bool {
	i, j := s.index(), to.index()
	if i < 0 || j < 0 {
		return false
	}
	d := i - j
	return d >= -1 && d <= 1
}

// StatusList renders the valid statuses for error messages.
func StatusList() string {
	names := make([]string, len(Workflow))
	for i, s := range Workflow {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

type Task struct {
	ID          string     `db:"task_id" json:"task_id"`
	BoardID     string     `db:"board_id" json:"board_id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description"`
	CreatedBy   string     `db:"created_by" json:"created_by"`
	AssignedTo  *string    `db:"assigned_to" json:"assigned_to"`
	DueDate     *time.Time `db:"due_date" json:"due_date"`
	Tags        []string   `db:"tags" json:"tags"`
	Status      TaskStatus `db:"status" json:"status"`
	Position    int        `db:"position" json:"position"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// NewTask is the creation payload. DueDate is kept as text so that "" can be
// told apart from a malformed date.
type NewTask struct {
	Title       string     `json:"title" validate:"required,max=255"`
	BoardID     string     `json:"board_id" validate:"required"`
	CreatedBy   string     `json:"created_by" validate:"required"`
	Description *string    `json:"description"`
	AssignedTo  *string    `json:"assigned_to"`
	DueDate     *string    `json:"due_date"`
	Tags        []string   `json:"tags" validate:"omitempty,dive,max=50"`
	Status      TaskStatus `json:"status"`
}

type TaskPatch struct {
	Title       *string            `json:"title" validate:"omitempty,min=1,max=255"`
	Description Nullable[string]   `json:"description"`
	AssignedTo  Nullable[string]   `json:"assigned_to"`
	DueDate     Nullable[string]   `json:"due_date"`
	Tags        Nullable[[]string] `json:"tags"`
	Status      *TaskStatus        `json:"status"`
	Position    *int               `json:"position" validate:"omitempty,min=0"`
}

func (p TaskPatch) Empty() bool {
	return p.Title == nil && !p.Description.Set && !p.AssignedTo.Set &&
		!p.DueDate.Set && !p.Tags.Set && p.Status == nil && p.Position == nil
}

// TaskChanges is a validated TaskPatch with parsed values, ready for storage.
type TaskChanges struct {
	Title       *string
	Description Nullable[string]
	AssignedTo  Nullable[string]
	DueDate     Nullable[time.Time]
	Tags        Nullable[[]string]
	Status      *TaskStatus
	Position    *int
}

var dueDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDueDate accepts RFC 3339 timestamps or plain dates. Empty input means no
// due date and yields nil.
func ParseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, Validation("due_date", "Invalid due_date format; use RFC 3339 or YYYY-MM-DD")
}
