package repository

import (
	"errors"
	"fmt"
	"strings"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
)

// uniqueFields maps unique constraint names onto the request field they guard.
var uniqueFields = map[string]string{
	"users_username_key": "username",
	"users_email_key":    "email",
	"users_pkey":         "user_id",
	"board_members_pkey": "user_id",
}

var uniqueMessages = map[string]string{
	"username": "Username already exists",
	"email":    "Email already exists",
	"user_id":  "User already exists",
}

// referenceFields maps foreign key constraint names onto the field holding the
// dangling reference.
var referenceFields = map[string]string{
	"boards_created_by_fkey":      "created_by",
	"board_members_board_id_fkey": "board_id",
	"board_members_user_id_fkey":  "user_id",
	"tasks_board_id_fkey":         "board_id",
	"tasks_created_by_fkey":       "created_by",
	"tasks_assigned_to_fkey":      "assigned_to",
}

// translate turns driver errors into the domain taxonomy. notFound is returned
// for pgx.ErrNoRows; everything unrecognised is wrapped with op.
func translate(err error, op string, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) && notFound != nil {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			field := uniqueFields[pgErr.ConstraintName]
			if field == "" {
				field = columnFromConstraint(pgErr.ConstraintName, "_key")
			}
			if field == "user_id" && pgErr.ConstraintName == "board_members_pkey" {
				return domain.ErrAlreadyMember
			}
			msg, ok := uniqueMessages[field]
			if !ok {
				msg = field + " already exists"
			}
			return domain.Conflict(field, msg)
		case codeForeignKeyViolation:
			field := referenceFields[pgErr.ConstraintName]
			if field == "" {
				field = columnFromConstraint(pgErr.ConstraintName, "_fkey")
			}
			return domain.Reference(field, fmt.Sprintf("Referenced %s does not exist", field))
		case codeCheckViolation:
			return domain.Validation(columnFromConstraint(pgErr.ConstraintName, "_check"), "value violates constraint %s", pgErr.ConstraintName)
		case codeInvalidText:
			return domain.ErrInvalidIdentifierFormat
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// columnFromConstraint guesses the column from Postgres' default naming
// (<table>_<column>_<suffix>).
func columnFromConstraint(name, suffix string) string {
	name = strings.TrimSuffix(name, suffix)
	if i := strings.Index(name, "_"); i >= 0 {
		return name[i+1:]
	}
	return name
}
