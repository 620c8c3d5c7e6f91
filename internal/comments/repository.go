package comments

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, comment *CaseComment) error
	GetByID(ctx context.Context, id int64) (*CaseComment, error)
	ListByAppeal(ctx context.Context, appealID int64) ([]CaseComment, error)
	Delete(ctx context.Context, id int64) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, comment *CaseComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *gormRepository) GetByID(ctx context.Context, id int64) (*CaseComment, error) {
	var comment CaseComment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *gormRepository) ListByAppeal(ctx context.Context, appealID int64) ([]CaseComment, error) {
	var list []CaseComment
	err := r.db.WithContext(ctx).
		Where("appeal_id = ?", appealID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *gormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&CaseComment{}, id).Error
}
