package comments

import (
	"time"

	"github.com/google/uuid"
)

// CaseComment is a final comment lodged against an appeal case.
type CaseComment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AppealID  int64     `gorm:"not null;index" json:"appeal_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Party     string    `gorm:"not null" json:"party"` // appellant, lpa, interested
	Comment   string    `gorm:"not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
