package roster

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=roster_repo.go -destination=mock/roster_repo_mock.go -package=mock
type Repository interface {
	ChildIDs(ctx context.Context, parentID string) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ChildIDs(ctx context.Context, parentID string) ([]string, error) {
	ids := []string{}
	err := r.db.WithContext(ctx).
		Table("students").
		Where("parent_id = ?", parentID).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}
