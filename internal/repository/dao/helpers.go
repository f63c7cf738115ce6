package dao

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate adds a pessimistic row lock on dialects that support it. The
// sqlite database used in tests has no FOR UPDATE; its writes serialize on a
// single connection instead.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}

	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// sqlite (tests) reports unique violations as plain errors.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// violatedConstraint names the constraint behind a unique violation so the
// caller can map it to the right sentinel. Postgres carries the constraint
// name on the error; sqlite embeds the column in the message.
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	if err != nil {
		return err.Error()
	}

	return ""
}
