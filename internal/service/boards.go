package service

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"taskboard/internal/domain"
	"taskboard/internal/identity"
	"taskboard/internal/logger"
	"taskboard/internal/validation"
)

type BoardService struct {
	store Store
	opts  Options
}

func NewBoardService(store Store, opts Options) *BoardService {
	return &BoardService{store: store, opts: opts}
}

// Create inserts the board with its creator as the only (admin) member.
func (s *BoardService) Create(ctx context.Context, in domain.NewBoard) (b *domain.Board, err error) {
	ctx, finish := begin(ctx, s.opts, "board.create")
	defer func() { finish(err) }()

	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	creator, err := identity.ParseID(in.CreatedBy)
	if err != nil {
		return nil, err
	}

	b = &domain.Board{
		Name:        in.Name,
		Description: in.Description,
		CreatedBy:   creator,
		MemberCount: 1,
	}
	err = s.store.InTx(ctx, func(r Repositories) error {
		if _, err := r.Users().GetByID(ctx, creator); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return domain.Reference("created_by", "Referenced created_by does not exist")
			}
			return err
		}
		if err := r.Boards().Create(ctx, b); err != nil {
			return err
		}
		_, err := r.Members().Add(ctx, &domain.BoardMember{
			BoardID: b.ID,
			UserID:  creator,
			Role:    domain.RoleAdmin,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("board created", "board_id", b.ID, "created_by", creator)
	return b, nil
}

func (s *BoardService) Get(ctx context.Context, id string) (b *domain.Board, err error) {
	ctx, finish := begin(ctx, s.opts, "board.get", attribute.String("board_id", id))
	defer func() { finish(err) }()

	return s.store.Boards().GetByID(ctx, id)
}

func (s *BoardService) ListAll(ctx context.Context) (bs []domain.Board, err error) {
	ctx, finish := begin(ctx, s.opts, "board.list")
	defer func() { finish(err) }()

	return s.store.Boards().ListAll(ctx)
}

// ListForUser returns the boards userID is a member of.
func (s *BoardService) ListForUser(ctx context.Context, userID string) (bs []domain.Board, err error) {
	ctx, finish := begin(ctx, s.opts, "board.list_for_user", attribute.String("user_id", userID))
	defer func() { finish(err) }()

	return s.store.Boards().ListByMember(ctx, userID)
}

func (s *BoardService) Search(ctx context.Context, name string) (bs []domain.Board, err error) {
	ctx, finish := begin(ctx, s.opts, "board.search")
	defer func() { finish(err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.Validation("board_name", "board_name is required")
	}
	return s.store.Boards().SearchByName(ctx, name)
}

func (s *BoardService) Update(ctx context.Context, id string, p domain.BoardPatch) (b *domain.Board, err error) {
	ctx, finish := begin(ctx, s.opts, "board.update", attribute.String("board_id", id))
	defer func() { finish(err) }()

	if p.Empty() {
		return nil, domain.ErrNoFieldsProvided
	}
	if p.Name != nil {
		v := strings.TrimSpace(*p.Name)
		p.Name = &v
	}
	if err := validation.Struct(p); err != nil {
		return nil, err
	}
	return s.store.Boards().Update(ctx, id, p)
}

// Delete removes the board; members and tasks cascade.
func (s *BoardService) Delete(ctx context.Context, id string) (b *domain.Board, err error) {
	ctx, finish := begin(ctx, s.opts, "board.delete", attribute.String("board_id", id))
	defer func() { finish(err) }()

	return s.store.Boards().Delete(ctx, id)
}

// Recount rewrites member_count and task_count from the true row counts of
// one board, or of every board when boardID is empty. It returns how many
// boards had drifted.
func (s *BoardService) Recount(ctx context.Context, boardID string) (n int64, err error) {
	ctx, finish := begin(ctx, s.opts, "board.recount", attribute.String("board_id", boardID))
	defer func() { finish(err) }()

	var ids []string
	if boardID != "" {
		if ok, err := s.store.Boards().Exists(ctx, boardID); err != nil {
			return 0, err
		} else if !ok {
			return 0, domain.ErrBoardNotFound
		}
		ids = []string{boardID}
	}

	err = s.store.InTx(ctx, func(r Repositories) error {
		n, err = r.Boards().Recount(ctx, ids)
		return err
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		counterRepairs.Add(float64(n))
		logger.WithContext(ctx).Warn("board counters repaired", "boards", n)
	}
	return n, nil
}
