package input

import "sync/atomic"

// Binding is the live hotkey, shared lock-free between the key source and
// the config watcher
type Binding struct {
	v       atomic.Uint64
	changed chan struct{}
}

// NewBinding creates a binding holding spec
func NewBinding(spec Spec) *Binding {
	b := &Binding{changed: make(chan struct{}, 1)}
	b.v.Store(spec.Pack())
	return b
}

// Load returns the current binding
func (b *Binding) Load() Spec { return Unpack(b.v.Load()) }

// Store replaces the binding and reports whether it changed
func (b *Binding) Store(spec Spec) bool {
	next := spec.Pack()
	if b.v.Swap(next) == next {
		return false
	}
	select {
	case b.changed <- struct{}{}:
	default:
	}
	return true
}

// Changed is signalled after every effective Store
func (b *Binding) Changed() <-chan struct{} { return b.changed }
