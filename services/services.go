// Package services holds the league's business logic: the reward ledger,
// match recording, standings, identity resolution and tournament import.
// Every service wraps the shared gorm store; each exported operation runs as
// one transaction against it.
package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate row-locks the rows a query touches so concurrent postings for
// the same player serialize at the store. SQLite (used by the test suite) has
// a single writer and rejects FOR UPDATE, so the clause is postgres-only.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
