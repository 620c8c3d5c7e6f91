package workflows

// Guard decides whether a candidate edge may fire. Guards are pure functions
// over the state's metadata and the case context.
type Guard func(def *StateDef, ctx Context) bool

// ContextValid passes when the case's appeal type and procedure type are both
// present and listed on the state's metadata.
func ContextValid(def *StateDef, ctx Context) bool {
	if ctx.AppealType == "" || ctx.ProcedureType == "" {
		return false
	}
	return def.allowsAppealType(ctx.AppealType) && def.allowsProcedureType(ctx.ProcedureType)
}

// EventElapsed passes once the case's scheduled event date has passed. The
// flag is supplied by the caller; the machine never computes it.
func EventElapsed(def *StateDef, ctx Context) bool {
	return ctx.EventElapsed
}

// ContextValidAndElapsed is the conjunction used on the FINAL_COMMENTS
// completion edge.
func ContextValidAndElapsed(def *StateDef, ctx Context) bool {
	return ContextValid(def, ctx) && EventElapsed(def, ctx)
}
