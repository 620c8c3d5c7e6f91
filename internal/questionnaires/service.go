package questionnaires

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"appeals-portal/appeals-casework-backend/internal/appeals"
	"appeals-portal/appeals-casework-backend/pkg/workflows"
)

var (
	ErrQuestionnaireNotFound = errors.New("questionnaire not found")
	ErrAlreadySubmitted      = errors.New("questionnaire already submitted")
	ErrNotSubmitted          = errors.New("questionnaire has not been submitted")
)

// CaseTransitioner is the slice of the appeals service the questionnaire
// review needs: firing the review outcome at the case lifecycle.
type CaseTransitioner interface {
	TransitionState(ctx context.Context, appealID int64, userID uuid.UUID, trigger workflows.Event) (*appeals.TransitionResult, error)
}

type SubmitRequest struct {
	Answers datatypes.JSON `json:"answers" binding:"required"`
}

type ReviewRequest struct {
	Outcome string `json:"outcome" binding:"required"` // COMPLETE or INCOMPLETE
}

type Service interface {
	OpenQuestionnaire(ctx context.Context, appealID int64) (*LPAQuestionnaire, error)
	GetQuestionnaire(ctx context.Context, appealID int64) (*LPAQuestionnaire, error)
	SubmitAnswers(ctx context.Context, appealID int64, req SubmitRequest) (*LPAQuestionnaire, error)
	Review(ctx context.Context, appealID int64, userID uuid.UUID, req ReviewRequest) (*appeals.TransitionResult, error)
}

type questionnaireService struct {
	repo  Repository
	cases CaseTransitioner
}

func NewService(repo Repository, cases CaseTransitioner) Service {
	return &questionnaireService{repo: repo, cases: cases}
}

func (s *questionnaireService) OpenQuestionnaire(ctx context.Context, appealID int64) (*LPAQuestionnaire, error) {
	existing, err := s.repo.GetByAppealID(ctx, appealID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	q := &LPAQuestionnaire{AppealID: appealID, Status: StatusAwaitingResponse}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *questionnaireService) GetQuestionnaire(ctx context.Context, appealID int64) (*LPAQuestionnaire, error) {
	q, err := s.repo.GetByAppealID(ctx, appealID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("%w: appeal %d", ErrQuestionnaireNotFound, appealID)
	}
	return q, nil
}

func (s *questionnaireService) SubmitAnswers(ctx context.Context, appealID int64, req SubmitRequest) (*LPAQuestionnaire, error) {
	q, err := s.GetQuestionnaire(ctx, appealID)
	if err != nil {
		return nil, err
	}
	if q.Status != StatusAwaitingResponse {
		return nil, fmt.Errorf("%w: appeal %d", ErrAlreadySubmitted, appealID)
	}

	now := time.Now()
	q.Answers = req.Answers
	q.Status = StatusReceived
	q.SubmittedAt = &now

	if err := s.repo.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Review records the case officer's verdict on the submitted questionnaire
// and fires the matching outcome at the case lifecycle. An INCOMPLETE
// questionnaire reopens for the LPA to resubmit.
func (s *questionnaireService) Review(ctx context.Context, appealID int64, userID uuid.UUID, req ReviewRequest) (*appeals.TransitionResult, error) {
	trigger := workflows.Event(req.Outcome)
	if trigger != workflows.EventComplete && trigger != workflows.EventIncomplete {
		return nil, fmt.Errorf("outcome must be %s or %s", workflows.EventComplete, workflows.EventIncomplete)
	}

	q, err := s.GetQuestionnaire(ctx, appealID)
	if err != nil {
		return nil, err
	}
	if q.Status == StatusAwaitingResponse {
		return nil, fmt.Errorf("%w: appeal %d", ErrNotSubmitted, appealID)
	}

	now := time.Now()
	if trigger == workflows.EventComplete {
		q.Status = StatusReviewed
		q.ReviewedAt = &now
	} else {
		q.Status = StatusAwaitingResponse
		q.SubmittedAt = nil
	}
	if err := s.repo.Update(ctx, q); err != nil {
		return nil, err
	}

	return s.cases.TransitionState(ctx, appealID, userID, trigger)
}
