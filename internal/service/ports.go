package service

import (
	"context"

	"taskboard/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id string, p domain.UserPatch) (*domain.User, error)
	TouchLogin(ctx context.Context, id string) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
}

type BoardRepository interface {
	Create(ctx context.Context, b *domain.Board) error
	GetByID(ctx context.Context, id string) (*domain.Board, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListAll(ctx context.Context) ([]domain.Board, error)
	ListByMember(ctx context.Context, userID string) ([]domain.Board, error)
	SearchByName(ctx context.Context, name string) ([]domain.Board, error)
	Update(ctx context.Context, id string, p domain.BoardPatch) (*domain.Board, error)
	Delete(ctx context.Context, id string) (*domain.Board, error)
	AdjustMemberCount(ctx context.Context, id string, delta int) (bool, error)
	AdjustTaskCount(ctx context.Context, id string, delta int) (bool, error)
	Recount(ctx context.Context, ids []string) (int64, error)
	ListIDsAffectedByUser(ctx context.Context, userID string) ([]string, error)
}

type MemberRepository interface {
	Add(ctx context.Context, m *domain.BoardMember) (bool, error)
	Remove(ctx context.Context, boardID, userID string) (*domain.BoardMember, error)
	ListByBoard(ctx context.Context, boardID string) ([]domain.BoardMember, error)
	SetRole(ctx context.Context, boardID, userID, role string) (*domain.BoardMember, error)
}

type TaskRepository interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByBoard(ctx context.Context, boardID string) ([]domain.Task, error)
	ListByAssignee(ctx context.Context, userID string) ([]domain.Task, error)
	Update(ctx context.Context, id string, ch domain.TaskChanges) (*domain.Task, error)
	Delete(ctx context.Context, id string) (*domain.Task, error)
}

// Repositories groups the repositories bound to one connection or transaction.
type Repositories interface {
	Users() UserRepository
	Boards() BoardRepository
	Members() MemberRepository
	Tasks() TaskRepository
}

// Store is the persistence boundary of the coordinators. InTx runs fn in one
// read-committed transaction that commits only when fn returns nil.
type Store interface {
	Repositories
	InTx(ctx context.Context, fn func(Repositories) error) error
	Ping(ctx context.Context) error
}
