package submit

import "fmt"

// State is the progress of one submission chain.
type State string

const (
	StateIdle            State = "idle"
	StateExportSubmitted State = "export_submitted"
	StateRenderSubmitted State = "render_submitted"
	StateDone            State = "done"
	// StateSuspended ends the chain after the export job; not a failure.
	StateSuspended State = "suspended"
	// StateSkipped means nothing was sent because an upstream step failed.
	StateSkipped State = "skipped"
	StateFailed  State = "failed"
)

// IsTerminal reports whether no further transition is possible.
func (s State) IsTerminal() bool {
	switch s {
	case StateDone, StateSuspended, StateSkipped, StateFailed:
		return true
	default:
		return false
	}
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case StateIdle:
		return to == StateExportSubmitted || to == StateSkipped || to == StateFailed
	case StateExportSubmitted:
		return to == StateRenderSubmitted || to == StateSuspended || to == StateFailed
	case StateRenderSubmitted:
		return to == StateDone
	default:
		return false
	}
}

func (r *Result) transition(to State) error {
	if !isAllowedTransition(r.State, to) {
		return fmt.Errorf("disallowed submission transition: %s -> %s", r.State, to)
	}
	r.State = to
	return nil
}
