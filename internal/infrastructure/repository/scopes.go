package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OwnerScope returns a GORM scope that restricts a query to rows owned by
// ownerID. The column is qualified with the statement's table so the scope
// stays unambiguous when the query joins other owner-scoped tables.
// A missing owner matches nothing.
func OwnerScope(ownerID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ownerID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: "user_id"},
			Value:  ownerID,
		})
	}
}

// containsPattern builds a lower-cased LIKE pattern for substring search
func containsPattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
