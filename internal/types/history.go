package types

import "encoding/json"

// Stage names recorded in the processing history.
const (
	StageSensibility   = "sensibility"
	StageUnderstanding = "understanding"
	StageReason        = "reason"
	StageCritique      = "critique"
	StageAntinomy      = "antinomy"
)

// History is an append-only, ordered log of the stages that have processed a bundle.
// Append never mutates the receiver, so two bundles can never share a growing slice.
type History struct {
	stages []string
}

// NewHistory creates a history from the given stages.
func NewHistory(stages ...string) History {
	return History{stages: append([]string(nil), stages...)}
}

// Append returns a new history with stage added at the end.
func (h History) Append(stage string) History {
	next := make([]string, len(h.stages), len(h.stages)+1)
	copy(next, h.stages)
	return History{stages: append(next, stage)}
}

// Stages returns a copy of the recorded stage names.
func (h History) Stages() []string {
	return append([]string(nil), h.stages...)
}

// Len returns the number of recorded stages.
func (h History) Len() int {
	return len(h.stages)
}

// Contains reports whether stage has been recorded.
func (h History) Contains(stage string) bool {
	for _, s := range h.stages {
		if s == stage {
			return true
		}
	}
	return false
}

// Missing returns the expected stages that have not been recorded, in order.
func (h History) Missing(expected ...string) []string {
	var missing []string
	for _, e := range expected {
		if !h.Contains(e) {
			missing = append(missing, e)
		}
	}
	return missing
}

// MarshalJSON encodes the history as a plain list of stage names.
func (h History) MarshalJSON() ([]byte, error) {
	if h.stages == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(h.stages)
}

// UnmarshalJSON decodes a list of stage names.
func (h *History) UnmarshalJSON(data []byte) error {
	var stages []string
	if err := json.Unmarshal(data, &stages); err != nil {
		return err
	}
	h.stages = stages
	return nil
}
