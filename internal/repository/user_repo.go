package repository

import (
	"context"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5"
)

const userColumns = `user_id::text, username, email, password_hash, full_name, avatar_url, created_at, last_login, is_active`

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.AvatarURL,
		&u.CreatedAt,
		&u.LastLogin,
		&u.IsActive,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts u. An empty u.ID lets Postgres generate the id.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u2, err := scanUser(r.db.QueryRow(ctx,
		`INSERT INTO users (user_id, username, email, password_hash, full_name, avatar_url)
		 VALUES (COALESCE($1::uuid, gen_random_uuid()), $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		nullIfEmpty(u.ID),
		u.Username,
		u.Email,
		u.PasswordHash,
		u.FullName,
		u.AvatarURL,
	))
	if err != nil {
		return translate(err, "insert user", nil)
	}
	*u = *u2
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1`, id,
	))
	if err != nil {
		return nil, translate(err, "get user", domain.ErrUserNotFound)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email,
	))
	if err != nil {
		return nil, translate(err, "get user by email", domain.ErrUserNotFound)
	}
	return u, nil
}

// Update applies the supplied fields only. An empty patch is rejected before
// any statement is sent.
func (r *UserRepository) Update(ctx context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	var set setList
	if p.Username != nil {
		set.add("username", *p.Username)
	}
	if p.FullName != nil {
		set.add("full_name", *p.FullName)
	}
	if p.AvatarURL.Set {
		set.add("avatar_url", p.AvatarURL.Ptr())
	}
	if set.empty() {
		return nil, domain.ErrNoFieldsProvided
	}

	key := set.where(id)
	u, err := scanUser(r.db.QueryRow(ctx,
		`UPDATE users SET `+set.String()+` WHERE user_id = `+key+` RETURNING `+userColumns,
		set.args...,
	))
	if err != nil {
		return nil, translate(err, "update user", domain.ErrUserNotFound)
	}
	return u, nil
}

// TouchLogin stamps last_login with the current time.
func (r *UserRepository) TouchLogin(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`UPDATE users SET last_login = now() WHERE user_id = $1 RETURNING `+userColumns, id,
	))
	if err != nil {
		return nil, translate(err, "touch last_login", domain.ErrUserNotFound)
	}
	return u, nil
}

// Delete removes the user and returns the deleted row. Memberships, created
// boards and created tasks cascade; assignments are cleared.
func (r *UserRepository) Delete(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`DELETE FROM users WHERE user_id = $1 RETURNING `+userColumns, id,
	))
	if err != nil {
		return nil, translate(err, "delete user", domain.ErrUserNotFound)
	}
	return u, nil
}
