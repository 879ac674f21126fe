package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	pg := &pgconn.PgError{Code: "23505", ConstraintName: "idx_user_email"}
	cases := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"nil", nil, "", false},
		{"pg any", fmt.Errorf("create: %w", pg), "", true},
		{"pg named", pg, "idx_user_email", true},
		{"pg other index", pg, "idx_other", false},
		{"pg other code", &pgconn.PgError{Code: "23503"}, "", false},
		{"sqlite", errors.New("UNIQUE constraint failed: user.email"), "", true},
		{"plain", errors.New("boom"), "", false},
	}
	for _, tc := range cases {
		if got := IsUniqueViolation(tc.err, tc.constraint); got != tc.want {
			t.Fatalf("%s: want=%v got=%v", tc.name, tc.want, got)
		}
	}
}
