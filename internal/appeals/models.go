package appeals

import (
	"time"

	"github.com/google/uuid"

	"appeals-portal/appeals-casework-backend/pkg/workflows"
)

// LinkTypeLinked is the relationship used for status cascading between
// conjoined appeals.
const LinkTypeLinked = "linked"

// AppealCase is one statutory appeal. Its lifecycle position lives in the
// case_statuses history; exactly one row is valid at a time.
type AppealCase struct {
	ID            int64                    `gorm:"primaryKey;autoIncrement" json:"id"`
	Reference     string                   `gorm:"uniqueIndex;not null" json:"reference"`
	AppealType    workflows.AppealType     `gorm:"not null" json:"appeal_type"`
	ProcedureType *workflows.ProcedureType `json:"procedure_type,omitempty"`
	EventDate     *time.Time               `json:"event_date,omitempty"`
	EventElapsed  bool                     `gorm:"not null;default:false" json:"event_elapsed"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`

	Statuses    []CaseStatus `gorm:"foreignKey:AppealID" json:"statuses,omitempty"`
	ChildLinks  []CaseLink   `gorm:"foreignKey:ParentID" json:"child_links,omitempty"`
	ParentLinks []CaseLink   `gorm:"foreignKey:ChildID" json:"parent_links,omitempty"`
}

// ActiveStatus returns the case's current status key, scanning the loaded
// history for the single valid row.
func (c *AppealCase) ActiveStatus() (workflows.Status, bool) {
	for _, s := range c.Statuses {
		if s.Valid {
			return s.Status, true
		}
	}
	return "", false
}

// CaseStatus is one row of a case's status history. Superseded rows are never
// mutated beyond flipping Valid to false.
type CaseStatus struct {
	ID        int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	AppealID  int64            `gorm:"not null;index" json:"appeal_id"`
	Status    workflows.Status `gorm:"not null" json:"status"`
	Valid     bool             `gorm:"not null;default:true" json:"valid"`
	CreatedAt time.Time        `json:"created_at"`
}

// CaseLink associates two appeal cases. Only "linked" relationships take part
// in cascading.
type CaseLink struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ParentID  int64     `gorm:"not null;index" json:"parent_id"`
	ChildID   int64     `gorm:"not null;index" json:"child_id"`
	Type      string    `gorm:"not null;default:'linked'" json:"type"`
	CreatedAt time.Time `json:"created_at"`

	Child *AppealCase `gorm:"foreignKey:ChildID" json:"child,omitempty"`
}

// CaseAudit is an append-only audit trail entry.
type CaseAudit struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AppealID  int64     `gorm:"not null;index" json:"appeal_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	Message   string    `gorm:"not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
