package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinel errors classifying everything the service layer can reject.
// Handlers translate these to HTTP statuses; anything unwrapped is a store
// failure and surfaces as a generic 500.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

// lockForUpdate takes a FOR UPDATE row lock so a settlement batch and a pick
// upsert touching the same fight serialize instead of interleaving between
// the zero and the reload. sqlite (used by the tests) has no row locks and a
// single writer, so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
