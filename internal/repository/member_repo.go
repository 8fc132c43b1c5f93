package repository

import (
	"context"
	"errors"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5"
)

type MemberRepository struct {
	db Querier
}

func NewMemberRepository(db Querier) *MemberRepository {
	return &MemberRepository{db: db}
}

func scanMember(row pgx.Row) (*domain.BoardMember, error) {
	var m domain.BoardMember
	if err := row.Scan(&m.BoardID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Add inserts the membership unless it already exists. inserted is false for
// an existing (board_id, user_id) pair, which is left untouched.
func (r *MemberRepository) Add(ctx context.Context, m *domain.BoardMember) (inserted bool, err error) {
	out, err := scanMember(r.db.QueryRow(ctx,
		`INSERT INTO board_members (board_id, user_id, role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (board_id, user_id) DO NOTHING
		 RETURNING board_id::text, user_id::text, role, joined_at`,
		m.BoardID, m.UserID, m.Role,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, translate(err, "insert member", nil)
	}
	*m = *out
	return true, nil
}

// Remove deletes the membership and returns the deleted row.
func (r *MemberRepository) Remove(ctx context.Context, boardID, userID string) (*domain.BoardMember, error) {
	m, err := scanMember(r.db.QueryRow(ctx,
		`DELETE FROM board_members
		 WHERE board_id = $1 AND user_id = $2
		 RETURNING board_id::text, user_id::text, role, joined_at`,
		boardID, userID,
	))
	if err != nil {
		return nil, translate(err, "delete member", domain.ErrMembershipNotFound)
	}
	return m, nil
}

// ListByBoard returns the members of a board with their profile fields,
// earliest joiner first.
func (r *MemberRepository) ListByBoard(ctx context.Context, boardID string) ([]domain.BoardMember, error) {
	rows, err := r.db.Query(ctx,
		`SELECT m.board_id::text, m.user_id::text, m.role, m.joined_at,
		        u.username, u.email, u.full_name, u.avatar_url
		 FROM board_members m
		 JOIN users u ON u.user_id = m.user_id
		 WHERE m.board_id = $1
		 ORDER BY m.joined_at ASC, m.user_id ASC`, boardID)
	if err != nil {
		return nil, translate(err, "list members", nil)
	}
	defer rows.Close()

	res := make([]domain.BoardMember, 0)
	for rows.Next() {
		var m domain.BoardMember
		if err := rows.Scan(
			&m.BoardID,
			&m.UserID,
			&m.Role,
			&m.JoinedAt,
			&m.Username,
			&m.Email,
			&m.FullName,
			&m.AvatarURL,
		); err != nil {
			return nil, translate(err, "list members", nil)
		}
		res = append(res, m)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "list members", nil)
	}
	return res, nil
}

func (r *MemberRepository) SetRole(ctx context.Context, boardID, userID, role string) (*domain.BoardMember, error) {
	m, err := scanMember(r.db.QueryRow(ctx,
		`UPDATE board_members SET role = $3
		 WHERE board_id = $1 AND user_id = $2
		 RETURNING board_id::text, user_id::text, role, joined_at`,
		boardID, userID, role,
	))
	if err != nil {
		return nil, translate(err, "set member role", domain.ErrMembershipNotFound)
	}
	return m, nil
}
