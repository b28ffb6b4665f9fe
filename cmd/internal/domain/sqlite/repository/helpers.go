package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IsUniqueViolation reports whether err comes from a unique index. gorm
// translates it for most dialects; the message check covers the rest.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

// IsNotFound reports whether a scoped update matched no row.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func findOne[T any](q *gorm.DB) (*T, error) {
	var out T
	err := q.First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &out, nil
}

// updateScoped writes every column of model, restricted by the extra where
// clause. It never inserts, so a row outside the scope is left untouched and
// gorm.ErrRecordNotFound is returned.
func updateScoped(q *gorm.DB, model any) error {
	res := q.Model(model).
		Select("*").
		Omit(clause.Associations, "created_at").
		Updates(model)

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// tenantProjects selects the ids of the projects owned by tenantID, for
// entities that reach their tenant through a project.
func tenantProjects(db *gorm.DB, tenantID int64) *gorm.DB {
	return db.Table("projects").Select("id").Where("tenant_id = ?", tenantID)
}
