package appeals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"appeals-portal/appeals-casework-backend/pkg/workflows"
)

var (
	// ErrCaseNotFound means the appeal id does not exist. Fatal, no retry.
	ErrCaseNotFound = errors.New("appeal case not found")
	// ErrMissingFields means the case exists but lacks the fields needed to
	// build its lifecycle machine. Indicates a data-integrity problem upstream.
	ErrMissingFields = errors.New("appeal case is missing required fields")
)

type CreateCaseRequest struct {
	Reference     string                   `json:"reference"`
	AppealType    workflows.AppealType     `json:"appeal_type"`
	ProcedureType *workflows.ProcedureType `json:"procedure_type,omitempty"`
	EventDate     *time.Time               `json:"event_date,omitempty"`
}

// TransitionResult reports what a trigger did. A guard-rejected or
// unrecognised trigger is not an error; Moved is simply false.
type TransitionResult struct {
	AppealID int64            `json:"appeal_id"`
	From     workflows.Status `json:"from"`
	To       workflows.Status `json:"to"`
	Moved    bool             `json:"moved"`
	Cascaded []int64          `json:"cascaded,omitempty"`
}

type Service interface {
	CreateCase(ctx context.Context, req CreateCaseRequest, userID uuid.UUID) (*AppealCase, error)
	GetCase(ctx context.Context, id int64) (*AppealCase, error)
	ListCases(ctx context.Context, filter CaseFilter) ([]AppealCase, error)
	LinkCases(ctx context.Context, parentID, childID int64, userID uuid.UUID) error

	TransitionState(ctx context.Context, appealID int64, userID uuid.UUID, trigger workflows.Event) (*TransitionResult, error)
	Progress(ctx context.Context, appealID int64) ([]workflows.ProgressEntry, error)
	AuditTrail(ctx context.Context, appealID int64) ([]CaseAudit, error)
}

type caseService struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &caseService{repo: repo}
}

func (s *caseService) CreateCase(ctx context.Context, req CreateCaseRequest, userID uuid.UUID) (*AppealCase, error) {
	if req.Reference == "" {
		return nil, errors.New("reference is required")
	}
	if req.AppealType != workflows.AppealTypeHAS && req.AppealType != workflows.AppealTypeFPA {
		return nil, fmt.Errorf("unknown appeal type %q", req.AppealType)
	}
	if req.ProcedureType == nil && req.AppealType != workflows.AppealTypeHAS {
		return nil, fmt.Errorf("%w: appeal type %s requires a procedure type", ErrMissingFields, req.AppealType)
	}

	kase := &AppealCase{
		Reference:     req.Reference,
		AppealType:    req.AppealType,
		ProcedureType: req.ProcedureType,
		EventDate:     req.EventDate,
		Statuses: []CaseStatus{
			{Status: workflows.StatusAssignCaseOfficer, Valid: true},
		},
	}
	if err := s.repo.CreateCase(ctx, kase); err != nil {
		return nil, err
	}

	s.repo.AppendAudit(ctx, &CaseAudit{
		AppealID: kase.ID,
		UserID:   userID,
		Message:  fmt.Sprintf("Case %s received", kase.Reference),
	})

	return kase, nil
}

func (s *caseService) GetCase(ctx context.Context, id int64) (*AppealCase, error) {
	kase, err := s.repo.GetCase(ctx, id)
	if err != nil {
		return nil, err
	}
	if kase == nil {
		return nil, fmt.Errorf("%w: appeal %d", ErrCaseNotFound, id)
	}
	return kase, nil
}

func (s *caseService) ListCases(ctx context.Context, filter CaseFilter) ([]AppealCase, error) {
	return s.repo.ListCases(ctx, filter)
}

func (s *caseService) LinkCases(ctx context.Context, parentID, childID int64, userID uuid.UUID) error {
	if parentID == childID {
		return errors.New("a case cannot be linked to itself")
	}
	if _, err := s.GetCase(ctx, parentID); err != nil {
		return err
	}
	if _, err := s.GetCase(ctx, childID); err != nil {
		return err
	}
	if err := s.repo.CreateLink(ctx, &CaseLink{ParentID: parentID, ChildID: childID, Type: LinkTypeLinked}); err != nil {
		return err
	}
	return s.repo.AppendAudit(ctx, &CaseAudit{
		AppealID: parentID,
		UserID:   userID,
		Message:  fmt.Sprintf("Case linked to appeal %d", childID),
	})
}

// workItem is one cascade step. expect pins the status the case must still be
// in for the trigger to apply; nil for the case the caller named.
type workItem struct {
	id     int64
	expect *workflows.Status
}

// TransitionState loads the case, drives its lifecycle machine with trigger
// and, when the status changes, persists the new status row plus an audit
// entry in one transaction. The trigger then cascades to every linked child
// still sharing the parent's pre-transition status. Cascading runs as a
// worklist with a visited set, so link cycles terminate.
func (s *caseService) TransitionState(ctx context.Context, appealID int64, userID uuid.UUID, trigger workflows.Event) (*TransitionResult, error) {
	visited := make(map[int64]struct{})
	queue := []workItem{{id: appealID}}
	var result *TransitionResult

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if _, seen := visited[item.id]; seen {
			continue
		}
		visited[item.id] = struct{}{}

		kase, err := s.repo.GetCase(ctx, item.id)
		if err != nil {
			return nil, err
		}
		if kase == nil {
			return nil, fmt.Errorf("%w: appeal %d", ErrCaseNotFound, item.id)
		}

		current, ok := kase.ActiveStatus()
		if !ok {
			return nil, fmt.Errorf("%w: appeal %d has no active status", ErrMissingFields, item.id)
		}
		if kase.AppealType == "" {
			return nil, fmt.Errorf("%w: appeal %d has no appeal type", ErrMissingFields, item.id)
		}
		if kase.ProcedureType == nil && kase.AppealType != workflows.AppealTypeHAS {
			return nil, fmt.Errorf("%w: appeal %d has no procedure type", ErrMissingFields, item.id)
		}

		// A child that diverged since it was enqueued must not be force-moved.
		if item.expect != nil && current != *item.expect {
			continue
		}

		machineCtx := workflows.Context{
			AppealType:   kase.AppealType,
			EventElapsed: kase.EventElapsed,
		}
		if kase.ProcedureType != nil {
			machineCtx.ProcedureType = *kase.ProcedureType
		}

		next := workflows.NewMachine(machineCtx).Next(current, trigger)
		moved := next != current
		if moved {
			message := fmt.Sprintf("Case progressed to status: %s", next)
			if err := s.repo.TransitionStatus(ctx, kase.ID, current, next, userID, message); err != nil {
				return nil, err
			}
		}

		if result == nil {
			result = &TransitionResult{AppealID: kase.ID, From: current, To: next, Moved: moved}
		} else if moved {
			result.Cascaded = append(result.Cascaded, kase.ID)
		}

		pre := current
		for _, link := range kase.ChildLinks {
			if link.Type != LinkTypeLinked || link.Child == nil {
				continue
			}
			childStatus, ok := link.Child.ActiveStatus()
			if !ok || childStatus != pre {
				continue
			}
			expect := pre
			queue = append(queue, workItem{id: link.ChildID, expect: &expect})
		}
	}

	return result, nil
}

func (s *caseService) Progress(ctx context.Context, appealID int64) ([]workflows.ProgressEntry, error) {
	kase, err := s.GetCase(ctx, appealID)
	if err != nil {
		return nil, err
	}
	current, ok := kase.ActiveStatus()
	if !ok {
		return nil, fmt.Errorf("%w: appeal %d has no active status", ErrMissingFields, appealID)
	}
	var procedure workflows.ProcedureType
	if kase.ProcedureType != nil {
		procedure = *kase.ProcedureType
	}
	return workflows.ListStates(kase.AppealType, procedure, current)
}

func (s *caseService) AuditTrail(ctx context.Context, appealID int64) ([]CaseAudit, error) {
	if _, err := s.GetCase(ctx, appealID); err != nil {
		return nil, err
	}
	return s.repo.ListAudit(ctx, appealID)
}
