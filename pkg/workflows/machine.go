// Package workflows implements the appeal case lifecycle machine.
//
// Happy-path state graph (full planning appeals; householder appeals skip
// STATEMENTS, FINAL_COMMENTS and EVIDENCE):
//
//	ASSIGN_CASE_OFFICER ──► VALIDATION ──► READY_TO_START ──► LPA_QUESTIONNAIRE
//	     ──► STATEMENTS ──► {FINAL_COMMENTS | EVENT | EVIDENCE}
//	     ──► EVENT ──► AWAITING_EVENT ──► ISSUE_DETERMINATION ──► COMPLETE
//
// INVALID, WITHDRAWN, TRANSFERRED, CLOSED and COMPLETE are terminal.
// AWAITING_TRANSFER only ever moves to TRANSFERRED.
package workflows

// Status is an appeal case lifecycle status key. Values mirror the
// case_statuses.status column.
type Status string

const (
	StatusAssignCaseOfficer  Status = "ASSIGN_CASE_OFFICER"
	StatusValidation         Status = "VALIDATION"
	StatusReadyToStart       Status = "READY_TO_START"
	StatusLPAQuestionnaire   Status = "LPA_QUESTIONNAIRE"
	StatusStatements         Status = "STATEMENTS"
	StatusFinalComments      Status = "FINAL_COMMENTS"
	StatusEvent              Status = "EVENT"
	StatusEvidence           Status = "EVIDENCE"
	StatusAwaitingEvent      Status = "AWAITING_EVENT"
	StatusIssueDetermination Status = "ISSUE_DETERMINATION"
	StatusAwaitingTransfer   Status = "AWAITING_TRANSFER"
	StatusComplete           Status = "COMPLETE"
	StatusInvalid            Status = "INVALID"
	StatusWithdrawn          Status = "WITHDRAWN"
	StatusTransferred        Status = "TRANSFERRED"
	StatusClosed             Status = "CLOSED"
)

// Event is a trigger offered to the machine: a validation or review outcome,
// or an administrative move named after its target status.
type Event string

const (
	EventValid      Event = "VALID"
	EventInvalid    Event = "INVALID"
	EventIncomplete Event = "INCOMPLETE"
	EventComplete   Event = "COMPLETE"
	EventCancel     Event = "CANCEL"

	EventStartValidation    Event = "VALIDATION"
	EventStartQuestionnaire Event = "LPA_QUESTIONNAIRE"
	EventClose              Event = "CLOSED"
	EventWithdraw           Event = "WITHDRAWN"
	EventAwaitTransfer      Event = "AWAITING_TRANSFER"
	EventTransferred        Event = "TRANSFERRED"
)

// AppealType categorises the appeal and selects its procedural rules.
type AppealType string

const (
	AppealTypeHAS AppealType = "HAS" // householder appeal
	AppealTypeFPA AppealType = "FPA" // full planning appeal
)

// ProcedureType is the hearing format for a case. Householder appeals carry
// no procedure type.
type ProcedureType string

const (
	ProcedureWritten ProcedureType = "WRITTEN"
	ProcedureHearing ProcedureType = "HEARING"
	ProcedureInquiry ProcedureType = "INQUIRY"
)

// Context carries the per-case facts guards evaluate against. It is built
// once per invocation and never mutated.
type Context struct {
	AppealType    AppealType
	ProcedureType ProcedureType // empty when the appeal type has no procedure
	EventElapsed  bool          // the scheduled hearing/inquiry/visit date has passed
}

// Candidate is one guarded alternative target of an edge.
type Candidate struct {
	Guard  Guard
	Target Status
}

// Edge maps an event to its outcome: a fixed target, an explicit stay in the
// current state, or an ordered list of guarded candidates evaluated
// first-match. A failed guard resolves to stay.
type Edge struct {
	Target     Status
	Stay       bool
	Candidates []Candidate
}

func to(s Status) Edge { return Edge{Target: s} }
func stay() Edge       { return Edge{Stay: true} }

// StateDef holds one state's edges and the metadata guards consult.
type StateDef struct {
	Key            Status
	Order          int // progress-list position; 0 for states outside the progress list
	Terminal       bool
	AppealTypes    []AppealType
	ProcedureTypes []ProcedureType
	Edges          map[Event]Edge
}

func (d *StateDef) allowsAppealType(t AppealType) bool {
	for _, a := range d.AppealTypes {
		if a == t {
			return true
		}
	}
	return false
}

func (d *StateDef) allowsProcedureType(p ProcedureType) bool {
	for _, pt := range d.ProcedureTypes {
		if pt == p {
			return true
		}
	}
	return false
}

// Machine is a lifecycle definition specialised to one case's context. It is
// cheap to build and holds no mutable state; callers construct one per
// invocation.
type Machine struct {
	ctx    Context
	states map[Status]*StateDef
}

var allAppealTypes = []AppealType{AppealTypeHAS, AppealTypeFPA}
var allProcedureTypes = []ProcedureType{ProcedureWritten, ProcedureHearing, ProcedureInquiry}

// procedureTarget is the shared STATEMENTS-complete target table, also used
// when an event is cancelled from AWAITING_EVENT.
func procedureTarget(p ProcedureType) (Status, bool) {
	switch p {
	case ProcedureWritten:
		return StatusFinalComments, true
	case ProcedureHearing:
		return StatusEvent, true
	case ProcedureInquiry:
		return StatusEvidence, true
	}
	return "", false
}

// NewMachine builds the full lifecycle definition for one case context.
func NewMachine(ctx Context) *Machine {
	m := &Machine{ctx: ctx, states: make(map[Status]*StateDef)}

	questionnaireDone := StatusStatements
	if ctx.AppealType == AppealTypeHAS {
		questionnaireDone = StatusEvent
	}

	m.add(&StateDef{
		Key:            StatusAssignCaseOfficer,
		Order:          1,
		AppealTypes:    allAppealTypes,
		ProcedureTypes: allProcedureTypes,
		Edges: map[Event]Edge{
			EventStartValidation: to(StatusValidation),
		},
	})
	m.add(&StateDef{
		Key:            StatusValidation,
		Order:          2,
		AppealTypes:    allAppealTypes,
		ProcedureTypes: allProcedureTypes,
		Edges: map[Event]Edge{
			EventValid:      to(StatusReadyToStart),
			EventIncomplete: stay(),
		},
	})
	m.add(&StateDef{
		Key:            StatusReadyToStart,
		Order:          3,
		AppealTypes:    allAppealTypes,
		ProcedureTypes: allProcedureTypes,
		Edges: map[Event]Edge{
			EventStartQuestionnaire: to(StatusLPAQuestionnaire),
		},
	})
	m.add(&StateDef{
		Key:            StatusLPAQuestionnaire,
		Order:          4,
		AppealTypes:    allAppealTypes,
		ProcedureTypes: allProcedureTypes,
		Edges: map[Event]Edge{
			EventComplete:   to(questionnaireDone),
			EventIncomplete: stay(),
		},
	})

	statementsDone := Edge{Stay: true}
	if target, ok := procedureTarget(ctx.ProcedureType); ok {
		statementsDone = Edge{Candidates: []Candidate{{Guard: ContextValid, Target: target}}}
	}
	m.add(&StateDef{
		Key:            StatusStatements,
		Order:          5,
		AppealTypes:    []AppealType{AppealTypeFPA},
		ProcedureTypes: allProcedureTypes,
		Edges: map[Event]Edge{
			EventComplete:   statementsDone,
			EventIncomplete: stay(),
		},
	})
	m.add(&StateDef{
		Key:            StatusFinalComments,
		Order:          6,
		AppealTypes:    []AppealType{AppealTypeFPA},
		ProcedureTypes: []ProcedureType{ProcedureWritten},
		Edges: map[Event]Edge{
			EventComplete: {Candidates: []Candidate{
				{Guard: ContextValidAndElapsed, Target: StatusIssueDetermination},
				{Guard: ContextValid, Target: StatusEvent},
			}},
			EventIncomplete: stay(),
		},
	})
	m.add(&StateDef{
		Key:            StatusEvidence,
		Order:          7,
		AppealTypes:    []AppealType{AppealTypeFPA},
		ProcedureTypes: []ProcedureType{ProcedureInquiry},
		Edges: map[Event]Edge{
			EventComplete:   {Candidates: []Candidate{{Guard: ContextValid, Target: StatusEvent}}},
			EventIncomplete: stay(),
		},
	})
	m.add(&StateDef{
		Key:            StatusEvent,
		Order:          8,
		AppealTypes:    allAppealTypes,
		ProcedureTypes: allProcedureTypes,
		Edges: map[Event]Edge{
			EventComplete:   to(StatusAwaitingEvent),
			EventIncomplete: stay(),
		},
	})

	eventCancelled := Edge{Stay: true}
	if target, ok := procedureTarget(ctx.ProcedureType); ok {
		eventCancelled = Edge{Candidates: []Candidate{{Guard: ContextValid, Target: target}}}
	}
	m.add(&StateDef{
		Key:            StatusAwaitingEvent,
		Order:          9,
		AppealTypes:    allAppealTypes,
		ProcedureTypes: allProcedureTypes,
		Edges: map[Event]Edge{
			EventComplete:   to(StatusIssueDetermination),
			EventIncomplete: to(StatusEvent),
			EventCancel:     eventCancelled,
		},
	})
	m.add(&StateDef{
		Key:            StatusIssueDetermination,
		Order:          10,
		AppealTypes:    allAppealTypes,
		ProcedureTypes: allProcedureTypes,
		Edges: map[Event]Edge{
			EventComplete: to(StatusComplete),
		},
	})

	// AWAITING_TRANSFER is the one near-terminal state: its only exit is the
	// transfer completing.
	m.add(&StateDef{
		Key:         StatusAwaitingTransfer,
		AppealTypes: allAppealTypes,
		Edges: map[Event]Edge{
			EventTransferred: to(StatusTransferred),
		},
	})

	m.add(&StateDef{Key: StatusComplete, Order: 11, Terminal: true, AppealTypes: allAppealTypes, ProcedureTypes: allProcedureTypes})
	m.add(&StateDef{Key: StatusInvalid, Terminal: true})
	m.add(&StateDef{Key: StatusWithdrawn, Terminal: true})
	m.add(&StateDef{Key: StatusTransferred, Terminal: true})
	m.add(&StateDef{Key: StatusClosed, Terminal: true})

	m.addUniversalEdges()
	return m
}

func (m *Machine) add(def *StateDef) {
	if def.Edges == nil {
		def.Edges = map[Event]Edge{}
	}
	m.states[def.Key] = def
}

// addUniversalEdges attaches the administrative exits every in-flight state
// accepts. AWAITING_TRANSFER is excluded: a case awaiting transfer can only
// complete the transfer.
func (m *Machine) addUniversalEdges() {
	for _, def := range m.states {
		if def.Terminal || def.Key == StatusAwaitingTransfer {
			continue
		}
		def.Edges[EventClose] = to(StatusClosed)
		def.Edges[EventWithdraw] = to(StatusWithdrawn)
		def.Edges[EventAwaitTransfer] = to(StatusAwaitingTransfer)
		def.Edges[EventInvalid] = to(StatusInvalid)
	}
}

// State returns the definition for a status key.
func (m *Machine) State(key Status) (*StateDef, bool) {
	def, ok := m.states[key]
	return def, ok
}

// Next resolves the status that results from offering ev in current.
// Unknown states, unrecognised events, explicit stays and failed guards all
// resolve to current: the caller observes a no-op, never an error.
func (m *Machine) Next(current Status, ev Event) Status {
	def, ok := m.states[current]
	if !ok || def.Terminal {
		return current
	}
	edge, ok := def.Edges[ev]
	if !ok || edge.Stay {
		return current
	}
	if len(edge.Candidates) > 0 {
		for _, c := range edge.Candidates {
			if c.Guard(def, m.ctx) {
				return c.Target
			}
		}
		return current
	}
	return edge.Target
}
