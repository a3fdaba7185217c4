package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/pawpatrol/internal/domain/repository"
)

const (
	pgUniqueViolation   = "23505"
	pgInvalidTextRepr   = "22P02"
	pgForeignKeyViolate = "23503"
)

// translate maps driver errors onto repository sentinels. A malformed uuid
// cannot match any row, so it is reported as not found.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return repository.ErrDuplicate
		case pgInvalidTextRepr, pgForeignKeyViolate:
			return repository.ErrNotFound
		}
	}
	return err
}
