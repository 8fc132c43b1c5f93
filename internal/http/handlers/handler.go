package handlers

import (
	"context"

	"taskboard/internal/domain"
)

type UserService interface {
	Create(ctx context.Context, in domain.NewUser) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, p domain.UserPatch) (*domain.User, error)
	Login(ctx context.Context, id, password string) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
}

type BoardService interface {
	Create(ctx context.Context, in domain.NewBoard) (*domain.Board, error)
	Get(ctx context.Context, id string) (*domain.Board, error)
	ListAll(ctx context.Context) ([]domain.Board, error)
	ListForUser(ctx context.Context, userID string) ([]domain.Board, error)
	Search(ctx context.Context, name string) ([]domain.Board, error)
	Update(ctx context.Context, id string, p domain.BoardPatch) (*domain.Board, error)
	Delete(ctx context.Context, id string) (*domain.Board, error)
}

type MembershipService interface {
	List(ctx context.Context, boardID string) ([]domain.BoardMember, error)
	Add(ctx context.Context, boardID string, in domain.NewMember) (*domain.BoardMember, error)
	Remove(ctx context.Context, boardID, userID string) (*domain.RemovedMember, error)
}

type TaskService interface {
	Create(ctx context.Context, in domain.NewTask) (*domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	ListByBoard(ctx context.Context, boardID string) ([]domain.Task, error)
	ListByAssignee(ctx context.Context, userID string) ([]domain.Task, error)
	Update(ctx context.Context, id string, p domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id string) (*domain.Task, error)
}

// TokenIssuer signs bearer tokens for a user id.
type TokenIssuer interface {
	Generate(userID string) (string, error)
}

type Handler struct {
	Users   UserService
	Boards  BoardService
	Members MembershipService
	Tasks   TaskService
	// Tokens is nil when bearer auth is disabled.
	Tokens TokenIssuer
}
