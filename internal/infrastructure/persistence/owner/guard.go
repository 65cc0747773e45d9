package owner

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RegisterGuard installs callbacks that reject UPDATE and DELETE statements
// on owned tables when no user_id condition is present
func RegisterGuard(db *gorm.DB) error {
	if err := db.Callback().Update().Before("gorm:update").Register("owner:guard_update", guard); err != nil {
		return err
	}
	return db.Callback().Delete().Before("gorm:delete").Register("owner:guard_delete", guard)
}

func guard(db *gorm.DB) {
	if db.Error != nil || db.Statement.Schema == nil {
		return
	}
	if db.Statement.Schema.LookUpField(Column) == nil {
		return
	}
	if hasOwnerCondition(db.Statement) {
		return
	}
	_ = db.AddError(ErrOwnerRequired)
}

func hasOwnerCondition(stmt *gorm.Statement) bool {
	c, ok := stmt.Clauses["WHERE"]
	if !ok {
		return false
	}
	where, ok := c.Expression.(clause.Where)
	if !ok {
		return false
	}
	for _, expr := range where.Exprs {
		if mentionsOwner(expr) {
			return true
		}
	}
	return false
}

func mentionsOwner(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		col, ok := e.Column.(clause.Column)
		return ok && col.Name == Column
	case clause.Expr:
		return strings.Contains(e.SQL, Column)
	case clause.NamedExpr:
		return strings.Contains(e.SQL, Column)
	case clause.AndConditions:
		for _, sub := range e.Exprs {
			if mentionsOwner(sub) {
				return true
			}
		}
	}
	return false
}
