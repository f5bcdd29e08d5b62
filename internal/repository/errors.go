// Package repository is the data-access seam for all entity persistence.
// Routes depend on these interfaces only, never on the backing store.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// isDuplicateKey reports whether err is a unique-constraint violation,
// either as translated by GORM or as a raw Postgres 23505.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
