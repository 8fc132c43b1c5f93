package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx, so every repository works
// both standalone and inside a coordinator transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// setList builds the SET clause of a partial UPDATE.
type setList struct {
	cols []string
	args []any
}

func (s *setList) add(col string, v any) {
	s.args = append(s.args, v)
	s.cols = append(s.cols, fmt.Sprintf("%s = $%d", col, len(s.args)))
}

func (s *setList) raw(expr string) {
	s.cols = append(s.cols, expr)
}

func (s *setList) empty() bool { return len(s.args) == 0 }

// where appends the key argument and returns its placeholder.
func (s *setList) where(v any) string {
	s.args = append(s.args, v)
	return fmt.Sprintf("$%d", len(s.args))
}

func (s *setList) String() string { return strings.Join(s.cols, ", ") }

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
