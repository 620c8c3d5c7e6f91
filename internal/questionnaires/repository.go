package questionnaires

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, q *LPAQuestionnaire) error
	GetByAppealID(ctx context.Context, appealID int64) (*LPAQuestionnaire, error)
	Update(ctx context.Context, q *LPAQuestionnaire) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, q *LPAQuestionnaire) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *gormRepository) GetByAppealID(ctx context.Context, appealID int64) (*LPAQuestionnaire, error) {
	var q LPAQuestionnaire
	err := r.db.WithContext(ctx).Where("appeal_id = ?", appealID).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *gormRepository) Update(ctx context.Context, q *LPAQuestionnaire) error {
	return r.db.WithContext(ctx).Save(q).Error
}
