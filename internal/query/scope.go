package query

import (
	"strings"

	"go-school/internal/domain"

	"gorm.io/gorm"
)

// Columns maps Filter fields onto the columns of a concrete query.
type Columns struct {
	Subject string
	Date    string
	// Status is the tri-state column; empty when the table has none.
	Status string
	// Present is the legacy boolean column used when Status is NULL or absent.
	Present string
	Class   string
	Search  []string
}

// Scope translates f into a gorm scope.
func Scope(f Filter, cols Columns) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Empty() {
			return db.Where("1 = 0")
		}
		if f.Scoped {
			db = db.Where(cols.Subject+" IN ?", f.SubjectIDs)
		}
		if f.SubjectID != "" {
			db = db.Where(cols.Subject+" = ?", f.SubjectID)
		}
		if f.Search != "" && len(cols.Search) > 0 {
			like := "%" + escapeLike(f.Search) + "%"
			clauses := make([]string, len(cols.Search))
			args := make([]any, len(cols.Search))
			for i, c := range cols.Search {
				clauses[i] = c + " ILIKE ?"
				args[i] = like
			}
			db = db.Where("("+strings.Join(clauses, " OR ")+")", args...)
		}
		if f.Status != "" {
			db = statusScope(db, f.Status, cols)
		}
		if f.From != nil {
			db = db.Where(cols.Date+" >= ?", *f.From)
		}
		if f.To != nil {
			db = db.Where(cols.Date+" < ?", *f.To)
		}
		if f.ClassID != nil && cols.Class != "" {
			db = db.Where(cols.Class+" = ?", *f.ClassID)
		}
		return db
	}
}

func statusScope(db *gorm.DB, s domain.Status, cols Columns) *gorm.DB {
	switch {
	case cols.Status != "" && cols.Present != "" && s != domain.StatusCompensation:
		return db.Where(
			"("+cols.Status+" = ? OR ("+cols.Status+" IS NULL AND "+cols.Present+" = ?))",
			string(s), domain.PresentFromStatus(s),
		)
	case cols.Status != "":
		return db.Where(cols.Status+" = ?", string(s))
	case cols.Present != "":
		if s == domain.StatusCompensation {
			return db.Where("1 = 0")
		}
		return db.Where(cols.Present+" = ?", domain.PresentFromStatus(s))
	default:
		return db
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
