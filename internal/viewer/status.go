package viewer

// Phase describes where the viewer is in its operation lifecycle.
type Phase int

const (
	// PhaseIdle means no operation is running and none has failed.
	PhaseIdle Phase = iota
	// PhaseBusy means exactly one operation is in flight.
	PhaseBusy
	// PhaseFailed means the last operation failed and awaits acknowledgement.
	PhaseFailed
)

// Op identifies which operation is or was running.
type Op int

const (
	OpNone Op = iota
	OpLoading
	OpGenerating
)

func (o Op) String() string {
	switch o {
	case OpLoading:
		return "loading"
	case OpGenerating:
		return "generating"
	default:
		return "none"
	}
}

// Status is the externally visible operation state. The coordinator is its
// only writer; everything else reads it.
type Status struct {
	Phase   Phase
	Op      Op
	Message string // user-facing failure text, set only in PhaseFailed
}

// Idle reports whether a new operation may start.
func (s Status) Idle() bool {
	return s.Phase == PhaseIdle
}

// Busy reports whether an operation is in flight.
func (s Status) Busy() bool {
	return s.Phase == PhaseBusy
}

// Failed reports whether an unacknowledged failure is showing.
func (s Status) Failed() bool {
	return s.Phase == PhaseFailed
}

func (s Status) String() string {
	switch s.Phase {
	case PhaseBusy:
		return "busy(" + s.Op.String() + ")"
	case PhaseFailed:
		return "failed(" + s.Message + ")"
	default:
		return "idle"
	}
}
