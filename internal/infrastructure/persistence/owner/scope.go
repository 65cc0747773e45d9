// Package owner restricts GORM statements to the rows of a single user.
//
// Every owned table carries a user_id column. Repositories apply Scope to
// reads and writes, and the Guard callback refuses UPDATE and DELETE
// statements on owned tables that lack a user_id condition.
//
//	db.Scopes(owner.Scope(userID)).Find(&clients)
package owner

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Column is the owner column on every owned table
const Column = "user_id"

// ErrOwnerRequired is returned when a write on an owned table is not scoped
var ErrOwnerRequired = errors.New("owner condition required for writes on owned tables")

// Scope filters by owner. uuid.Nil leaves the statement unscoped; only
// admin-level reads pass it.
func Scope(ownerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ownerID == uuid.Nil {
			return db
		}
		return db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: Column},
			Value:  ownerID,
		})
	}
}

// ScopeTable filters by owner on a named table, for joined queries
func ScopeTable(table string, ownerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ownerID == uuid.Nil {
			return db
		}
		return db.Where(clause.Eq{
			Column: clause.Column{Table: table, Name: Column},
			Value:  ownerID,
		})
	}
}
