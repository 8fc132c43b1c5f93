package service

import (
	"context"

	"taskboard/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repos struct {
	db repository.Querier
}

func (r repos) Users() UserRepository     { return repository.NewUserRepository(r.db) }
func (r repos) Boards() BoardRepository   { return repository.NewBoardRepository(r.db) }
func (r repos) Members() MemberRepository { return repository.NewMemberRepository(r.db) }
func (r repos) Tasks() TaskRepository     { return repository.NewTaskRepository(r.db) }

// PgStore is the Postgres-backed Store.
type PgStore struct {
	repos
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{repos: repos{db: pool}, pool: pool}
}

func (s *PgStore) InTx(ctx context.Context, fn func(Repositories) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(repos{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
