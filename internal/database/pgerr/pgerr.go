package pgerr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes we react to.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
	RestrictViolation   = "23001"
)

func code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsUniqueViolation(err error) bool { return code(err) == UniqueViolation }

// IsReferenced reports whether err was raised because a row is still
// referenced by a RESTRICT / NO ACTION foreign key.
func IsReferenced(err error) bool {
	c := code(err)
	return c == ForeignKeyViolation || c == RestrictViolation
}
