package appeals

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"appeals-portal/appeals-casework-backend/pkg/workflows"
)

// ErrStaleStatus is returned when a transition loses a race: the expected
// active status row was already superseded by another writer.
var ErrStaleStatus = errors.New("active status changed concurrently")

// CaseFilter narrows ListCases.
type CaseFilter struct {
	AppealType *workflows.AppealType
	Status     *workflows.Status
	Limit      int
	Offset     int
}

type Repository interface {
	CreateCase(ctx context.Context, kase *AppealCase) error
	GetCase(ctx context.Context, id int64) (*AppealCase, error)
	ListCases(ctx context.Context, filter CaseFilter) ([]AppealCase, error)
	UpdateCase(ctx context.Context, kase *AppealCase) error

	CreateLink(ctx context.Context, link *CaseLink) error

	// TransitionStatus invalidates the active status row (checking it still
	// matches from), inserts the new active row and appends the audit entry,
	// all in one transaction.
	TransitionStatus(ctx context.Context, appealID int64, from, to workflows.Status, userID uuid.UUID, message string) error

	AppendAudit(ctx context.Context, entry *CaseAudit) error
	ListAudit(ctx context.Context, appealID int64) ([]CaseAudit, error)

	ListDueForElapse(ctx context.Context, now time.Time, limit int) ([]AppealCase, error)
	MarkEventElapsed(ctx context.Context, appealID int64) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateCase(ctx context.Context, kase *AppealCase) error {
	return r.db.WithContext(ctx).Create(kase).Error
}

func (r *gormRepository) GetCase(ctx context.Context, id int64) (*AppealCase, error) {
	var kase AppealCase
	err := r.db.WithContext(ctx).
		Preload("Statuses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("ChildLinks.Child.Statuses").
		Preload("ParentLinks").
		First(&kase, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &kase, nil
}

func (r *gormRepository) ListCases(ctx context.Context, filter CaseFilter) ([]AppealCase, error) {
	query := r.db.WithContext(ctx).Model(&AppealCase{}).Preload("Statuses")
	if filter.AppealType != nil {
		query = query.Where("appeal_type = ?", *filter.AppealType)
	}
	if filter.Status != nil {
		query = query.Joins("JOIN case_statuses ON case_statuses.appeal_id = appeal_cases.id AND case_statuses.valid = ?", true).
			Where("case_statuses.status = ?", *filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var cases []AppealCase
	err := query.Order("appeal_cases.id").Find(&cases).Error
	return cases, err
}

func (r *gormRepository) UpdateCase(ctx context.Context, kase *AppealCase) error {
	return r.db.WithContext(ctx).Save(kase).Error
}

func (r *gormRepository) CreateLink(ctx context.Context, link *CaseLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *gormRepository) TransitionStatus(ctx context.Context, appealID int64, from, to workflows.Status, userID uuid.UUID, message string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&CaseStatus{}).
			Where("appeal_id = ? AND valid = ? AND status = ?", appealID, true, from).
			Update("valid", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleStatus
		}
		if err := tx.Create(&CaseStatus{AppealID: appealID, Status: to, Valid: true}).Error; err != nil {
			return err
		}
		return tx.Create(&CaseAudit{AppealID: appealID, UserID: userID, Message: message}).Error
	})
}

func (r *gormRepository) AppendAudit(ctx context.Context, entry *CaseAudit) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *gormRepository) ListAudit(ctx context.Context, appealID int64) ([]CaseAudit, error) {
	var entries []CaseAudit
	err := r.db.WithContext(ctx).
		Where("appeal_id = ?", appealID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *gormRepository) ListDueForElapse(ctx context.Context, now time.Time, limit int) ([]AppealCase, error) {
	var cases []AppealCase
	query := r.db.WithContext(ctx).
		Where("event_elapsed = ? AND event_date IS NOT NULL AND event_date <= ?", false, now)
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&cases).Error
	return cases, err
}

func (r *gormRepository) MarkEventElapsed(ctx context.Context, appealID int64) error {
	return r.db.WithContext(ctx).Model(&AppealCase{}).
		Where("id = ?", appealID).
		Update("event_elapsed", true).Error
}
