package questionnaires

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"appeals-portal/appeals-casework-backend/internal/appeals"
	"appeals-portal/appeals-casework-backend/pkg/workflows"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, q *LPAQuestionnaire) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockRepository) GetByAppealID(ctx context.Context, appealID int64) (*LPAQuestionnaire, error) {
	args := m.Called(ctx, appealID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LPAQuestionnaire), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, q *LPAQuestionnaire) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

// MockTransitioner is a mock implementation of CaseTransitioner
type MockTransitioner struct {
	mock.Mock
}

func (m *MockTransitioner) TransitionState(ctx context.Context, appealID int64, userID uuid.UUID, trigger workflows.Event) (*appeals.TransitionResult, error) {
	args := m.Called(ctx, appealID, userID, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appeals.TransitionResult), args.Error(1)
}

func TestSubmitAnswersMarksReceived(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, new(MockTransitioner))
	ctx := context.Background()

	q := &LPAQuestionnaire{ID: 1, AppealID: 7, Status: StatusAwaitingResponse}
	mockRepo.On("GetByAppealID", ctx, int64(7)).Return(q, nil)
	mockRepo.On("Update", ctx, q).Return(nil)

	updated, err := service.SubmitAnswers(ctx, 7, SubmitRequest{Answers: datatypes.JSON(`{"green_belt":true}`)})

	require.NoError(t, err)
	assert.Equal(t, StatusReceived, updated.Status)
	assert.NotNil(t, updated.SubmittedAt)
	mockRepo.AssertExpectations(t)
}

func TestSubmitAnswersRejectsDoubleSubmission(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, new(MockTransitioner))
	ctx := context.Background()

	q := &LPAQuestionnaire{ID: 1, AppealID: 7, Status: StatusReceived}
	mockRepo.On("GetByAppealID", ctx, int64(7)).Return(q, nil)

	_, err := service.SubmitAnswers(ctx, 7, SubmitRequest{Answers: datatypes.JSON(`{}`)})
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestReviewCompleteFiresCompleteTrigger(t *testing.T) {
	mockRepo := new(MockRepository)
	mockCases := new(MockTransitioner)
	service := NewService(mockRepo, mockCases)
	ctx := context.Background()
	userID := uuid.New()

	q := &LPAQuestionnaire{ID: 1, AppealID: 7, Status: StatusReceived}
	mockRepo.On("GetByAppealID", ctx, int64(7)).Return(q, nil)
	mockRepo.On("Update", ctx, q).Return(nil)
	mockCases.On("TransitionState", ctx, int64(7), userID, workflows.EventComplete).
		Return(&appeals.TransitionResult{AppealID: 7, Moved: true}, nil)

	result, err := service.Review(ctx, 7, userID, ReviewRequest{Outcome: "COMPLETE"})

	require.NoError(t, err)
	assert.True(t, result.Moved)
	assert.Equal(t, StatusReviewed, q.Status)
	mockCases.AssertExpectations(t)
}

func TestReviewIncompleteReopensQuestionnaire(t *testing.T) {
	mockRepo := new(MockRepository)
	mockCases := new(MockTransitioner)
	service := NewService(mockRepo, mockCases)
	ctx := context.Background()
	userID := uuid.New()

	q := &LPAQuestionnaire{ID: 1, AppealID: 7, Status: StatusReceived}
	mockRepo.On("GetByAppealID", ctx, int64(7)).Return(q, nil)
	mockRepo.On("Update", ctx, q).Return(nil)
	mockCases.On("TransitionState", ctx, int64(7), userID, workflows.EventIncomplete).
		Return(&appeals.TransitionResult{AppealID: 7, Moved: false}, nil)

	_, err := service.Review(ctx, 7, userID, ReviewRequest{Outcome: "INCOMPLETE"})

	require.NoError(t, err)
	assert.Equal(t, StatusAwaitingResponse, q.Status)
	assert.Nil(t, q.SubmittedAt)
	mockCases.AssertExpectations(t)
}

func TestReviewRejectsUnknownOutcome(t *testing.T) {
	service := NewService(new(MockRepository), new(MockTransitioner))

	_, err := service.Review(context.Background(), 7, uuid.New(), ReviewRequest{Outcome: "MAYBE"})
	assert.Error(t, err)
}

func TestReviewRequiresSubmission(t *testing.T) {
	mockRepo := new(MockRepository)
	service := NewService(mockRepo, new(MockTransitioner))
	ctx := context.Background()

	q := &LPAQuestionnaire{ID: 1, AppealID: 7, Status: StatusAwaitingResponse}
	mockRepo.On("GetByAppealID", ctx, int64(7)).Return(q, nil)

	_, err := service.Review(ctx, 7, uuid.New(), ReviewRequest{Outcome: "COMPLETE"})
	assert.ErrorIs(t, err, ErrNotSubmitted)
}
