package workflows

import (
	"errors"
	"sort"
)

// ErrProcedureRequired is returned when a progress list is requested without
// a procedure type for an appeal type that always has one.
var ErrProcedureRequired = errors.New("procedure type is required for this appeal type")

// ProgressEntry is one step of a case's progress list.
type ProgressEntry struct {
	Key       Status `json:"key"`
	Completed bool   `json:"completed"`
}

// ListStates projects the lifecycle into the ordered progress list for the
// given appeal type and procedure, marking every state at or before the
// current one as completed. Only householder appeals may omit the procedure
// type; everything else fails loudly rather than silently filtering.
func ListStates(appealType AppealType, procedureType ProcedureType, current Status) ([]ProgressEntry, error) {
	if procedureType == "" && appealType != AppealTypeHAS {
		return nil, ErrProcedureRequired
	}

	m := NewMachine(Context{AppealType: appealType, ProcedureType: procedureType})

	var defs []*StateDef
	for _, def := range m.states {
		if def.Order == 0 || !def.allowsAppealType(appealType) {
			continue
		}
		if procedureType != "" && !def.allowsProcedureType(procedureType) {
			continue
		}
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Order < defs[j].Order })

	currentOrder := 0
	if def, ok := m.states[current]; ok {
		currentOrder = def.Order
	}

	entries := make([]ProgressEntry, 0, len(defs))
	for _, def := range defs {
		entries = append(entries, ProgressEntry{
			Key:       def.Key,
			Completed: def.Order <= currentOrder,
		})
	}
	return entries, nil
}
