// Package repositories is the GORM data-access layer. Every repository is
// bound to a *gorm.DB handle; WithTx rebinds it to a transaction so services
// can compose several repositories into one unit of work.
package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique index.
var ErrDuplicate = errors.New("duplicate record")

// ErrInsufficientStock is returned by a strict stock decrement when stock
// is short.
var ErrInsufficientStock = errors.New("insufficient stock")

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case isUniqueViolation(err):
		return ErrDuplicate
	}
	return err
}

// isUniqueViolation recognises unique-index failures across the supported
// drivers without importing each driver's error type.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // sqlite, postgres
		strings.Contains(msg, "duplicate key") || // postgres, sqlserver
		strings.Contains(msg, "duplicate entry") // mysql
}

// forUpdate adds SELECT ... FOR UPDATE where the dialect supports it.
// SQLite serialises writers itself.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
