package questionnaires

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionnaireStatus string

const (
	StatusAwaitingResponse QuestionnaireStatus = "awaiting_response"
	StatusReceived         QuestionnaireStatus = "received"
	StatusReviewed         QuestionnaireStatus = "reviewed"
)

// LPAQuestionnaire is the local planning authority's questionnaire for one
// appeal case. Answers are stored as the raw submitted JSON document.
type LPAQuestionnaire struct {
	ID          int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	AppealID    int64               `gorm:"not null;uniqueIndex" json:"appeal_id"`
	Status      QuestionnaireStatus `gorm:"not null;default:'awaiting_response'" json:"status"`
	Answers     datatypes.JSON      `json:"answers"`
	SubmittedAt *time.Time          `json:"submitted_at,omitempty"`
	ReviewedAt  *time.Time          `json:"reviewed_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}
