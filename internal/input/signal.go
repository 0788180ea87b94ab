// Package input turns OS key events into push-to-talk signals.
package input

import "github.com/emmett/voxtype/internal/logger"

// Signal is one edge of the push-to-talk key
type Signal int

const (
	Down Signal = iota + 1
	Up
)

func (s Signal) String() string {
	switch s {
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return "unknown"
	}
}

// SignalQueueSize bounds the channel between key callbacks and the worker
const SignalQueueSize = 16

// NewSignalQueue creates the bounded signal channel
func NewSignalQueue() chan Signal {
	return make(chan Signal, SignalQueueSize)
}

// emit never blocks the key callback; a full queue drops the signal
func emit(out chan<- Signal, sig Signal, log *logger.Logger) {
	select {
	case out <- sig:
	default:
		log.Warn().Stringer("signal", sig).Msg("signal queue full, dropping")
	}
}
