package app

import (
	"time"

	"github.com/emmett/voxtype/internal/config"
)

// State is the pipeline worker's position in a dictation cycle
type State int

const (
	StateIdle State = iota
	StateRecording
	StateStoppingRecording
	StateTranscribing
	StateRefining
	StateInjecting
	StateInjected
	StateError
	StateDropped
)

var stateNames = [...]string{
	StateIdle:              "idle",
	StateRecording:         "recording",
	StateStoppingRecording: "stopping",
	StateTranscribing:      "transcribing",
	StateRefining:          "refining",
	StateInjecting:         "injecting",
	StateInjected:          "injected",
	StateError:             "error",
	StateDropped:           "dropped",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Outcome is how a cycle ended
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeInjected
	OutcomeDroppedTooShort
	OutcomeDroppedSilence
	OutcomeDroppedEmpty
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInjected:
		return "injected"
	case OutcomeDroppedTooShort:
		return "dropped_too_short"
	case OutcomeDroppedSilence:
		return "dropped_silence"
	case OutcomeDroppedEmpty:
		return "dropped_empty"
	case OutcomeFailed:
		return "failed"
	}
	return "none"
}

// Cycle records one Down to Up round
type Cycle struct {
	ID       string
	Started  time.Time
	Mode     config.OutputMode
	Samples  int
	Raw      string
	Refined  string
	Final    string
	Fallback bool
	Outcome  Outcome
	Err      error
}
