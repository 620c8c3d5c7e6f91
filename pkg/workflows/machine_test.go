package workflows

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fpaWritten() Context {
	return Context{AppealType: AppealTypeFPA, ProcedureType: ProcedureWritten}
}

func TestNextHappyPath(t *testing.T) {
	tests := []struct {
		name    string
		ctx     Context
		current Status
		event   Event
		want    Status
	}{
		{"assign officer starts validation", fpaWritten(), StatusAssignCaseOfficer, EventStartValidation, StatusValidation},
		{"assign officer starts validation for householder", Context{AppealType: AppealTypeHAS}, StatusAssignCaseOfficer, EventStartValidation, StatusValidation},
		{"valid outcome is ready to start", fpaWritten(), StatusValidation, EventValid, StatusReadyToStart},
		{"invalid outcome ends the case", fpaWritten(), StatusValidation, EventInvalid, StatusInvalid},
		{"incomplete validation stays", fpaWritten(), StatusValidation, EventIncomplete, StatusValidation},
		{"ready to start opens questionnaire", fpaWritten(), StatusReadyToStart, EventStartQuestionnaire, StatusLPAQuestionnaire},
		{"questionnaire complete goes to statements for FPA", fpaWritten(), StatusLPAQuestionnaire, EventComplete, StatusStatements},
		{"questionnaire complete goes to event for HAS", Context{AppealType: AppealTypeHAS}, StatusLPAQuestionnaire, EventComplete, StatusEvent},
		{"questionnaire incomplete stays", fpaWritten(), StatusLPAQuestionnaire, EventIncomplete, StatusLPAQuestionnaire},
		{"event complete awaits the event", fpaWritten(), StatusEvent, EventComplete, StatusAwaitingEvent},
		{"event incomplete stays", fpaWritten(), StatusEvent, EventIncomplete, StatusEvent},
		{"awaited event complete issues determination", fpaWritten(), StatusAwaitingEvent, EventComplete, StatusIssueDetermination},
		{"awaited event incomplete returns to event", fpaWritten(), StatusAwaitingEvent, EventIncomplete, StatusEvent},
		{"determination complete completes the case", fpaWritten(), StatusIssueDetermination, EventComplete, StatusComplete},
		{"awaiting transfer transfers", fpaWritten(), StatusAwaitingTransfer, EventTransferred, StatusTransferred},
		{"awaiting transfer transfers for householder", Context{AppealType: AppealTypeHAS}, StatusAwaitingTransfer, EventTransferred, StatusTransferred},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(tt.ctx)
			assert.Equal(t, tt.want, m.Next(tt.current, tt.event))
		})
	}
}

func TestStatementsCompleteByProcedure(t *testing.T) {
	tests := []struct {
		procedure ProcedureType
		want      Status
	}{
		{ProcedureWritten, StatusFinalComments},
		{ProcedureHearing, StatusEvent},
		{ProcedureInquiry, StatusEvidence},
	}
	for _, tt := range tests {
		t.Run(string(tt.procedure), func(t *testing.T) {
			m := NewMachine(Context{AppealType: AppealTypeFPA, ProcedureType: tt.procedure})
			assert.Equal(t, tt.want, m.Next(StatusStatements, EventComplete))
		})
	}
}

func TestStatementsCompleteGuardRejectsHouseholder(t *testing.T) {
	// HAS never legitimately reaches STATEMENTS; the guard keeps it there.
	m := NewMachine(Context{AppealType: AppealTypeHAS})
	assert.Equal(t, StatusStatements, m.Next(StatusStatements, EventComplete))
}

func TestFinalCommentsCompleteDependsOnElapsed(t *testing.T) {
	notElapsed := NewMachine(Context{AppealType: AppealTypeFPA, ProcedureType: ProcedureWritten})
	assert.Equal(t, StatusEvent, notElapsed.Next(StatusFinalComments, EventComplete))

	elapsed := NewMachine(Context{AppealType: AppealTypeFPA, ProcedureType: ProcedureWritten, EventElapsed: true})
	assert.Equal(t, StatusIssueDetermination, elapsed.Next(StatusFinalComments, EventComplete))
}

func TestFinalCommentsGuardRejectsOtherProcedures(t *testing.T) {
	for _, p := range []ProcedureType{ProcedureHearing, ProcedureInquiry} {
		m := NewMachine(Context{AppealType: AppealTypeFPA, ProcedureType: p, EventElapsed: true})
		assert.Equal(t, StatusFinalComments, m.Next(StatusFinalComments, EventComplete), p)
	}
	m := NewMachine(Context{AppealType: AppealTypeHAS, EventElapsed: true})
	assert.Equal(t, StatusFinalComments, m.Next(StatusFinalComments, EventComplete))
}

func TestEvidenceOnlyMovesForInquiry(t *testing.T) {
	inquiry := NewMachine(Context{AppealType: AppealTypeFPA, ProcedureType: ProcedureInquiry})
	assert.Equal(t, StatusEvent, inquiry.Next(StatusEvidence, EventComplete))
	assert.Equal(t, StatusEvidence, inquiry.Next(StatusEvidence, EventIncomplete))

	written := NewMachine(Context{AppealType: AppealTypeFPA, ProcedureType: ProcedureWritten})
	assert.Equal(t, StatusEvidence, written.Next(StatusEvidence, EventComplete))

	has := NewMachine(Context{AppealType: AppealTypeHAS})
	assert.Equal(t, StatusEvidence, has.Next(StatusEvidence, EventComplete))
}

func TestAwaitingEventCancelRollsBackByProcedure(t *testing.T) {
	tests := []struct {
		procedure ProcedureType
		want      Status
	}{
		{ProcedureWritten, StatusFinalComments},
		{ProcedureHearing, StatusEvent},
		{ProcedureInquiry, StatusEvidence},
	}
	for _, tt := range tests {
		t.Run(string(tt.procedure), func(t *testing.T) {
			m := NewMachine(Context{AppealType: AppealTypeFPA, ProcedureType: tt.procedure})
			assert.Equal(t, tt.want, m.Next(StatusAwaitingEvent, EventCancel))
		})
	}

	// No procedure means nowhere to roll back to.
	has := NewMachine(Context{AppealType: AppealTypeHAS})
	assert.Equal(t, StatusAwaitingEvent, has.Next(StatusAwaitingEvent, EventCancel))
}

func TestUniversalAdministrativeExits(t *testing.T) {
	inFlight := []Status{
		StatusAssignCaseOfficer, StatusValidation, StatusReadyToStart,
		StatusLPAQuestionnaire, StatusStatements, StatusFinalComments,
		StatusEvent, StatusEvidence, StatusAwaitingEvent, StatusIssueDetermination,
	}
	m := NewMachine(fpaWritten())
	for _, s := range inFlight {
		assert.Equal(t, StatusClosed, m.Next(s, EventClose), s)
		assert.Equal(t, StatusWithdrawn, m.Next(s, EventWithdraw), s)
		assert.Equal(t, StatusAwaitingTransfer, m.Next(s, EventAwaitTransfer), s)
		assert.Equal(t, StatusInvalid, m.Next(s, EventInvalid), s)
	}
}

func TestTerminalStatesAbsorbEveryEvent(t *testing.T) {
	terminals := []Status{StatusComplete, StatusInvalid, StatusWithdrawn, StatusTransferred, StatusClosed}
	events := []Event{
		EventValid, EventInvalid, EventIncomplete, EventComplete, EventCancel,
		EventStartValidation, EventStartQuestionnaire, EventClose,
		EventWithdraw, EventAwaitTransfer, EventTransferred,
	}
	for _, ctx := range []Context{fpaWritten(), {AppealType: AppealTypeHAS}, {AppealType: AppealTypeFPA, ProcedureType: ProcedureInquiry, EventElapsed: true}} {
		m := NewMachine(ctx)
		for _, s := range terminals {
			for _, ev := range events {
				assert.Equal(t, s, m.Next(s, ev))
			}
		}
	}
}

func TestAwaitingTransferOnlyAcceptsTransferred(t *testing.T) {
	m := NewMachine(fpaWritten())
	for _, ev := range []Event{EventValid, EventComplete, EventCancel, EventClose, EventWithdraw, EventInvalid} {
		assert.Equal(t, StatusAwaitingTransfer, m.Next(StatusAwaitingTransfer, ev), ev)
	}
	assert.Equal(t, StatusTransferred, m.Next(StatusAwaitingTransfer, EventTransferred))
}

func TestUnrecognisedEventsAreNoOps(t *testing.T) {
	m := NewMachine(fpaWritten())
	all := []Status{
		StatusAssignCaseOfficer, StatusValidation, StatusReadyToStart,
		StatusLPAQuestionnaire, StatusStatements, StatusFinalComments,
		StatusEvent, StatusEvidence, StatusAwaitingEvent, StatusIssueDetermination,
		StatusAwaitingTransfer,
	}
	for _, s := range all {
		assert.Equal(t, s, m.Next(s, Event("SITE_VISIT_BOOKED")), s)
	}
}

func TestUnknownStateIsANoOp(t *testing.T) {
	m := NewMachine(fpaWritten())
	assert.Equal(t, Status("LEGACY"), m.Next(Status("LEGACY"), EventComplete))
}
