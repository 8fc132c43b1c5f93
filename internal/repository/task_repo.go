package repository

import (
	"context"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5"
)

const taskColumns = `task_id::text, board_id::text, title, description, created_by::text, assigned_to::text,
	due_date, tags, status, position, created_at, updated_at`

type TaskRepository struct {
	db Querier
}

func NewTaskRepository(db Querier) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t      domain.Task
		status string
	)
	if err := row.Scan(
		&t.ID,
		&t.BoardID,
		&t.Title,
		&t.Description,
		&t.CreatedBy,
		&t.AssignedTo,
		&t.DueDate,
		&t.Tags,
		&status,
		&t.Position,
		&t.CreatedAt,
		&t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	t.Status = domain.TaskStatus(status)
	return &t, nil
}

func (r *TaskRepository) list(ctx context.Context, op, sql string, args ...any) ([]domain.Task, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err, op, nil)
	}
	defer rows.Close()

	res := make([]domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, translate(err, op, nil)
		}
		res = append(res, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, op, nil)
	}
	return res, nil
}

// Create appends t to the end of its board (max position + 1).
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	out, err := scanTask(r.db.QueryRow(ctx,
		`INSERT INTO tasks (board_id, title, description, created_by, assigned_to, due_date, tags, status, position)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
		         (SELECT COALESCE(MAX(position) + 1, 0) FROM tasks WHERE board_id = $1))
		 RETURNING `+taskColumns,
		t.BoardID,
		t.Title,
		t.Description,
		t.CreatedBy,
		t.AssignedTo,
		t.DueDate,
		t.Tags,
		string(t.Status),
	))
	if err != nil {
		return translate(err, "insert task", nil)
	}
	*t = *out
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE task_id = $1`, id,
	))
	if err != nil {
		return nil, translate(err, "get task", domain.ErrTaskNotFound)
	}
	return t, nil
}

func (r *TaskRepository) ListByBoard(ctx context.Context, boardID string) ([]domain.Task, error) {
	return r.list(ctx, "list tasks by board",
		`SELECT `+taskColumns+`
		 FROM tasks
		 WHERE board_id = $1
		 ORDER BY position ASC, created_at DESC`, boardID)
}

func (r *TaskRepository) ListByAssignee(ctx context.Context, userID string) ([]domain.Task, error) {
	return r.list(ctx, "list tasks by assignee",
		`SELECT `+taskColumns+`
		 FROM tasks
		 WHERE assigned_to = $1
		 ORDER BY due_date ASC NULLS LAST, created_at DESC`, userID)
}

func (r *TaskRepository) Update(ctx context.Context, id string, ch domain.TaskChanges) (*domain.Task, error) {
	var set setList
	if ch.Title != nil {
		set.add("title", *ch.Title)
	}
	if ch.Description.Set {
		set.add("description", ch.Description.Ptr())
	}
	if ch.AssignedTo.Set {
		set.add("assigned_to", ch.AssignedTo.Ptr())
	}
	if ch.DueDate.Set {
		set.add("due_date", ch.DueDate.Ptr())
	}
	if ch.Tags.Set {
		if ch.Tags.Null {
			set.add("tags", nil)
		} else {
			set.add("tags", ch.Tags.Value)
		}
	}
	if ch.Status != nil {
		set.add("status", string(*ch.Status))
	}
	if ch.Position != nil {
		set.add("position", *ch.Position)
	}
	if set.empty() {
		return nil, domain.ErrNoFieldsProvided
	}
	set.raw("updated_at = now()")

	key := set.where(id)
	t, err := scanTask(r.db.QueryRow(ctx,
		`UPDATE tasks SET `+set.String()+` WHERE task_id = `+key+` RETURNING `+taskColumns,
		set.args...,
	))
	if err != nil {
		return nil, translate(err, "update task", domain.ErrTaskNotFound)
	}
	return t, nil
}

// Delete removes the task and returns it so the caller knows its board.
func (r *TaskRepository) Delete(ctx context.Context, id string) (*domain.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx,
		`DELETE FROM tasks WHERE task_id = $1 RETURNING `+taskColumns, id,
	))
	if err != nil {
		return nil, translate(err, "delete task", domain.ErrTaskNotFound)
	}
	return t, nil
}
