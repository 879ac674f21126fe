package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsUniqueViolation reports whether err is a unique constraint failure. An
// empty constraint matches any unique index. SQLite reports the offending
// columns rather than the index name, so constraint is only checked on
// postgres.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != "23505" {
			return false
		}
		if strings.TrimSpace(constraint) == "" {
			return true
		}
		return strings.EqualFold(strings.TrimSpace(pgErr.ConstraintName), strings.TrimSpace(constraint))
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
