package input

import (
	"context"
	"fmt"
)

// Source delivers push-to-talk signals for the live binding until ctx is done
type Source interface {
	Run(ctx context.Context, out chan<- Signal) error
}

// Backend names a Source implementation
type Backend string

const (
	// BackendRegister uses OS hotkey registration (no bare modifiers, no fn)
	BackendRegister Backend = "register"

	// BackendHook uses a low-level keyboard hook
	BackendHook Backend = "hook"
)

// NewSource creates the source for backend
func NewSource(backend Backend, binding *Binding) (Source, error) {
	switch backend {
	case BackendRegister, "":
		return NewRegisterSource(binding), nil
	case BackendHook:
		return NewHookSource(binding), nil
	default:
		return nil, fmt.Errorf("unknown hotkey backend: %s", backend)
	}
}
