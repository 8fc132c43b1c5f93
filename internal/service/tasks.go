package service

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"taskboard/internal/domain"
	"taskboard/internal/identity"
	"taskboard/internal/logger"
	"taskboard/internal/validation"
)

// TaskService creates and deletes tasks together with the task_count of their
// board.
type TaskService struct {
	store Store
	opts  Options
}

func NewTaskService(store Store, opts Options) *TaskService {
	return &TaskService{store: store, opts: opts}
}

func invalidStatus() error {
	return domain.Validation("status", "Invalid status. Must be one of: %s", domain.StatusList())
}

// optionalID normalizes an optional identifier; nil and "" both mean unset.
func optionalID(raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := identity.ParseID(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func checkTags(tags []string) error {
	for _, tag := range tags {
		if err := validation.Length("tags", tag, 0, 50); err != nil {
			return err
		}
	}
	return nil
}

// Create inserts the task at the end of its board and increments task_count
// in the same transaction. A missing board fails with ErrBoardNotFound and
// leaves no task behind.
func (s *TaskService) Create(ctx context.Context, in domain.NewTask) (t *domain.Task, err error) {
	ctx, finish := begin(ctx, s.opts, "task.create", attribute.String("board_id", in.BoardID))
	defer func() { finish(err) }()

	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	t = &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Tags:        in.Tags,
		Status:      in.Status,
	}
	if t.BoardID, err = identity.ParseID(in.BoardID); err != nil {
		return nil, err
	}
	if t.CreatedBy, err = identity.ParseID(in.CreatedBy); err != nil {
		return nil, err
	}
	if t.AssignedTo, err = optionalID(in.AssignedTo); err != nil {
		return nil, err
	}
	if in.DueDate != nil {
		if t.DueDate, err = domain.ParseDueDate(*in.DueDate); err != nil {
			return nil, err
		}
	}
	if t.Status == "" {
		t.Status = domain.StatusToDo
	}
	if !t.Status.Valid() {
		return nil, invalidStatus()
	}

	err = s.store.InTx(ctx, func(r Repositories) error {
		ok, err := r.Boards().Exists(ctx, t.BoardID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrBoardNotFound
		}
		if err := r.Tasks().Create(ctx, t); err != nil {
			return err
		}
		ok, err = r.Boards().AdjustTaskCount(ctx, t.BoardID, 1)
		if err != nil {
			return err
		}
		if !ok {
			logger.WithContext(ctx).Warn("board vanished during task create, rolling back",
				"board_id", t.BoardID, "task_id", t.ID)
			return domain.ErrBoardNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, id string) (t *domain.Task, err error) {
	ctx, finish := begin(ctx, s.opts, "task.get", attribute.String("task_id", id))
	defer func() { finish(err) }()

	return s.store.Tasks().GetByID(ctx, id)
}

func (s *TaskService) ListByBoard(ctx context.Context, boardID string) (ts []domain.Task, err error) {
	ctx, finish := begin(ctx, s.opts, "task.list_by_board", attribute.String("board_id", boardID))
	defer func() { finish(err) }()

	return s.store.Tasks().ListByBoard(ctx, boardID)
}

func (s *TaskService) ListByAssignee(ctx context.Context, userID string) (ts []domain.Task, err error) {
	ctx, finish := begin(ctx, s.opts, "task.list_by_assignee", attribute.String("user_id", userID))
	defer func() { finish(err) }()

	return s.store.Tasks().ListByAssignee(ctx, userID)
}

func (s *TaskService) changes(p domain.TaskPatch) (domain.TaskChanges, error) {
	ch := domain.TaskChanges{
		Description: p.Description,
		Tags:        p.Tags,
		Position:    p.Position,
	}

	if p.Title != nil {
		v := strings.TrimSpace(*p.Title)
		if v == "" {
			return ch, domain.Validation("title", "title must not be empty")
		}
		ch.Title = &v
	}
	if p.AssignedTo.Set {
		id, err := optionalID(p.AssignedTo.Ptr())
		if err != nil {
			return ch, err
		}
		if id == nil {
			ch.AssignedTo = domain.Null[string]()
		} else {
			ch.AssignedTo = domain.Some(*id)
		}
	}
	if p.DueDate.Set {
		due, err := domain.ParseDueDate(p.DueDate.Value)
		if err != nil {
			return ch, err
		}
		if due == nil {
			ch.DueDate = domain.Null[time.Time]()
		} else {
			ch.DueDate = domain.Some(*due)
		}
	}
	if p.Tags.Set && !p.Tags.Null {
		if err := checkTags(p.Tags.Value); err != nil {
			return ch, err
		}
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return ch, invalidStatus()
		}
		ch.Status = p.Status
	}
	return ch, nil
}

// Update applies a partial edit. Explicit nulls clear nullable fields. With
// StrictTaskWorkflow on, status may only move to an adjacent column.
func (s *TaskService) Update(ctx context.Context, id string, p domain.TaskPatch) (t *domain.Task, err error) {
	ctx, finish := begin(ctx, s.opts, "task.update", attribute.String("task_id", id))
	defer func() { finish(err) }()

	if p.Empty() {
		return nil, domain.ErrNoFieldsProvided
	}
	if err := validation.Struct(p); err != nil {
		return nil, err
	}
	ch, err := s.changes(p)
	if err != nil {
		return nil, err
	}

	if !s.opts.StrictTaskWorkflow || ch.Status == nil {
		return s.store.Tasks().Update(ctx, id, ch)
	}

	err = s.store.InTx(ctx, func(r Repositories) error {
		cur, err := r.Tasks().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !cur.Status.Adjacent(*ch.Status) {
			return domain.Validation("status", "Cannot move task from %s to %s; status changes one step at a time", cur.Status, *ch.Status)
		}
		t, err = r.Tasks().Update(ctx, id, ch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes the task and decrements its board's task_count, floored at
// zero, in one transaction.
func (s *TaskService) Delete(ctx context.Context, id string) (t *domain.Task, err error) {
	ctx, finish := begin(ctx, s.opts, "task.delete", attribute.String("task_id", id))
	defer func() { finish(err) }()

	err = s.store.InTx(ctx, func(r Repositories) error {
		t, err = r.Tasks().Delete(ctx, id)
		if err != nil {
			return err
		}
		_, err = r.Boards().AdjustTaskCount(ctx, t.BoardID, -1)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}
