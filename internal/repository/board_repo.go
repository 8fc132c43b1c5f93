package repository

import (
	"context"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5"
)

const boardColumns = `b.board_id::text, b.board_name, b.description, b.created_by::text, b.member_count, b.task_count, b.created_at, b.updated_at`

type BoardRepository struct {
	db Querier
}

func NewBoardRepository(db Querier) *BoardRepository {
	return &BoardRepository{db: db}
}

func scanBoard(row pgx.Row) (*domain.Board, error) {
	var b domain.Board
	if err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Description,
		&b.CreatedBy,
		&b.MemberCount,
		&b.TaskCount,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BoardRepository) list(ctx context.Context, op, sql string, args ...any) ([]domain.Board, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, translate(err, op, nil)
	}
	defer rows.Close()

	res := make([]domain.Board, 0)
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, translate(err, op, nil)
		}
		res = append(res, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, op, nil)
	}
	return res, nil
}

// Create inserts b with the counters it carries.
func (r *BoardRepository) Create(ctx context.Context, b *domain.Board) error {
	out, err := scanBoard(r.db.QueryRow(ctx,
		`INSERT INTO boards AS b (board_name, description, created_by, member_count, task_count)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+boardColumns,
		b.Name,
		b.Description,
		b.CreatedBy,
		b.MemberCount,
		b.TaskCount,
	))
	if err != nil {
		return translate(err, "insert board", nil)
	}
	*b = *out
	return nil
}

func (r *BoardRepository) GetByID(ctx context.Context, id string) (*domain.Board, error) {
	b, err := scanBoard(r.db.QueryRow(ctx,
		`SELECT `+boardColumns+` FROM boards b WHERE b.board_id = $1`, id,
	))
	if err != nil {
		return nil, translate(err, "get board", domain.ErrBoardNotFound)
	}
	return b, nil
}

func (r *BoardRepository) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM boards WHERE board_id = $1)`, id).Scan(&ok)
	if err != nil {
		return false, translate(err, "check board", nil)
	}
	return ok, nil
}

func (r *BoardRepository) ListAll(ctx context.Context) ([]domain.Board, error) {
	return r.list(ctx, "list boards",
		`SELECT `+boardColumns+` FROM boards b ORDER BY b.created_at DESC`)
}

// ListByMember returns the boards userID belongs to, most recently updated first.
func (r *BoardRepository) ListByMember(ctx context.Context, userID string) ([]domain.Board, error) {
	return r.list(ctx, "list boards by member",
		`SELECT `+boardColumns+`
		 FROM boards b
		 JOIN board_members m ON m.board_id = b.board_id
		 WHERE m.user_id = $1
		 ORDER BY b.updated_at DESC`, userID)
}

// SearchByName matches board_name case-insensitively as a substring.
func (r *BoardRepository) SearchByName(ctx context.Context, name string) ([]domain.Board, error) {
	return r.list(ctx, "search boards",
		`SELECT `+boardColumns+`
		 FROM boards b
		 WHERE b.board_name ILIKE '%' || $1 || '%'
		 ORDER BY b.board_name ASC`, name)
}

func (r *BoardRepository) Update(ctx context.Context, id string, p domain.BoardPatch) (*domain.Board, error) {
	var set setList
	if p.Name != nil {
		set.add("board_name", *p.Name)
	}
	if p.Description.Set {
		set.add("description", p.Description.Ptr())
	}
	if set.empty() {
		return nil, domain.ErrNoFieldsProvided
	}
	set.raw("updated_at = now()")

	key := set.where(id)
	b, err := scanBoard(r.db.QueryRow(ctx,
		`UPDATE boards AS b SET `+set.String()+` WHERE b.board_id = `+key+` RETURNING `+boardColumns,
		set.args...,
	))
	if err != nil {
		return nil, translate(err, "update board", domain.ErrBoardNotFound)
	}
	return b, nil
}

func (r *BoardRepository) Delete(ctx context.Context, id string) (*domain.Board, error) {
	b, err := scanBoard(r.db.QueryRow(ctx,
		`DELETE FROM boards AS b WHERE b.board_id = $1 RETURNING `+boardColumns, id,
	))
	if err != nil {
		return nil, translate(err, "delete board", domain.ErrBoardNotFound)
	}
	return b, nil
}

// AdjustMemberCount adds delta to member_count, floored at zero. It reports
// whether the board row existed.
func (r *BoardRepository) AdjustMemberCount(ctx context.Context, id string, delta int) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE boards
		 SET member_count = GREATEST(member_count + $2, 0), updated_at = now()
		 WHERE board_id = $1`, id, delta)
	if err != nil {
		return false, translate(err, "adjust member_count", nil)
	}
	return tag.RowsAffected() > 0, nil
}

// AdjustTaskCount adds delta to task_count, floored at zero. It reports
// whether the board row existed.
func (r *BoardRepository) AdjustTaskCount(ctx context.Context, id string, delta int) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE boards
		 SET task_count = GREATEST(task_count + $2, 0), updated_at = now()
		 WHERE board_id = $1`, id, delta)
	if err != nil {
		return false, translate(err, "adjust task_count", nil)
	}
	return tag.RowsAffected() > 0, nil
}

// Recount rewrites both counters from the true row counts. A nil ids slice
// reconciles every board. It returns the number of boards whose counters
// changed.
func (r *BoardRepository) Recount(ctx context.Context, ids []string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE boards b
		 SET member_count = c.members, task_count = c.tasks, updated_at = now()
		 FROM (
		     SELECT bb.board_id,
		            (SELECT COUNT(*) FROM board_members m WHERE m.board_id = bb.board_id) AS members,
		            (SELECT COUNT(*) FROM tasks t WHERE t.board_id = bb.board_id) AS tasks
		     FROM boards bb
		     WHERE $1::uuid[] IS NULL OR bb.board_id = ANY($1::uuid[])
		 ) c
		 WHERE b.board_id = c.board_id
		   AND (b.member_count <> c.members OR b.task_count <> c.tasks)`, ids)
	if err != nil {
		return 0, translate(err, "recount boards", nil)
	}
	return tag.RowsAffected(), nil
}

// ListIDsAffectedByUser returns boards where userID is a member or created a
// task, i.e. the boards whose counters change when the user is deleted.
func (r *BoardRepository) ListIDsAffectedByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT board_id::text FROM board_members WHERE user_id = $1
		 UNION
		 SELECT board_id::text FROM tasks WHERE created_by = $1`, userID)
	if err != nil {
		return nil, translate(err, "list affected boards", nil)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, translate(err, "list affected boards", nil)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
