package rotateprimarylib

// State is the progress of a single run. Every state after Start is only
// reached if the step leading to it succeeded.
type State int

const (
	StateStart State = iota
	StateEnumerated
	StatePrimaryFound
	StateTargetSelected
	StateRebased
	StateTargetApplied
	StateOthersApplied
	StateCommitted
	// Finished without touching the configuration: a single display or a dry run
	StateUnchanged
	StateFailed
)

var stateNames = [...]string{
	StateStart:          "start",
	StateEnumerated:     "enumerated",
	StatePrimaryFound:   "primary-found",
	StateTargetSelected: "target-selected",
	StateRebased:        "rebased",
	StateTargetApplied:  "target-applied",
	StateOthersApplied:  "others-applied",
	StateCommitted:      "committed",
	StateUnchanged:      "unchanged",
	StateFailed:         "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateUnchanged || s == StateFailed
}
