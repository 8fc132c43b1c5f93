package integration

import (
	"context"
	"os"
	"testing"

	"taskboard/internal/domain"
	"taskboard/internal/migrations"
	"taskboard/internal/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func openDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	if _, err := migrations.Apply(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

type services struct {
	store   *service.PgStore
	users   *service.UserService
	boards  *service.BoardService
	members *service.MembershipService
	tasks   *service.TaskService
}

func newServices(db *pgxpool.Pool, opts service.Options) services {
	store := service.NewPgStore(db)
	return services{
		store:   store,
		users:   service.NewUserService(store, opts),
		boards:  service.NewBoardService(store, opts),
		members: service.NewMembershipService(store, opts),
		tasks:   service.NewTaskService(store, opts),
	}
}

func createUser(t *testing.T, s services, name string) *domain.User {
	t.Helper()
	suffix := uuid.NewString()[:8]
	u, err := s.users.Create(context.Background(), domain.NewUser{
		Username:     name + "_" + suffix,
		Email:        name + "+" + suffix + "@example.com",
		PasswordHash: "x",
		FullName:     name,
	})
	if err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func createBoard(t *testing.T, s services, creator string) *domain.Board {
	t.Helper()
	b, err := s.boards.Create(context.Background(), domain.NewBoard{
		Name:      "board " + uuid.NewString()[:8],
		CreatedBy: creator,
	})
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	return b
}

// counts reads the stored counters alongside the true row counts.
func counts(t *testing.T, db *pgxpool.Pool, boardID string) (memberCount, members, taskCount, tasks int) {
	t.Helper()
	err := db.QueryRow(context.Background(), `
		SELECT b.member_count,
		       (SELECT count(*) FROM board_members m WHERE m.board_id = b.board_id),
		       b.task_count,
		       (SELECT count(*) FROM tasks k WHERE k.board_id = b.board_id)
		FROM boards b WHERE b.board_id = $1`, boardID).Scan(&memberCount, &members, &taskCount, &tasks)
	if err != nil {
		t.Fatalf("read counters: %v", err)
	}
	return
}

func assertConsistent(t *testing.T, db *pgxpool.Pool, boardID string) {
	t.Helper()
	mc, m, tc, k := counts(t, db, boardID)
	if mc != m || tc != k {
		t.Fatalf("counters drifted: member_count=%d members=%d task_count=%d tasks=%d", mc, m, tc, k)
	}
}
