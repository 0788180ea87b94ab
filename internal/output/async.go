package output

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/emmett/voxtype/internal/logger"
)

// DefaultQueueSize bounds pending updates in an Async sink
const DefaultQueueSize = 64

type update struct {
	fn        func(Sink)
	droppable bool
}

// Async forwards updates to a target sink on its own goroutine so callers
// (the worker, model loader, audio ticker) never wait on a slow surface.
// When the queue is full, progress and preview updates are dropped; every
// other update is kept so a cycle's outcome always reaches the surface.
type Async struct {
	target Sink
	size   int
	log    *logger.Logger

	mu      sync.Mutex
	pending []update
	wake    chan struct{}

	once sync.Once
	done chan struct{}
}

// NewAsync creates an async wrapper; call Run to start delivering
func NewAsync(target Sink, size int) *Async {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Async{
		target: target,
		size:   size,
		log:    logger.Named("sink"),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Run delivers queued updates until ctx is done, then drains what is left
func (a *Async) Run(ctx context.Context) {
	defer close(a.done)
	for {
		select {
		case <-ctx.Done():
			a.deliver()
			return
		case <-a.wake:
			a.deliver()
		}
	}
}

// Wait blocks until Run has returned
func (a *Async) Wait() { <-a.done }

func (a *Async) deliver() {
	a.mu.Lock()
	batch := a.pending
	a.pending = nil
	a.mu.Unlock()
	for _, u := range batch {
		u.fn(a.target)
	}
}

func (a *Async) post(fn func(Sink), droppable bool) {
	a.mu.Lock()
	if len(a.pending) >= a.size {
		if droppable {
			a.mu.Unlock()
			a.once.Do(func() { a.log.Warn().Msg("sink queue full, dropping progress updates") })
			return
		}
		a.pending = slices.DeleteFunc(a.pending, func(u update) bool { return u.droppable })
	}
	a.pending = append(a.pending, update{fn: fn, droppable: droppable})
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
}

func (a *Async) keep(fn func(Sink)) { a.post(fn, false) }

func (a *Async) SetState(s string)   { a.keep(func(t Sink) { t.SetState(s) }) }
func (a *Async) SetHint(s string)    { a.keep(func(t Sink) { t.SetHint(s) }) }
func (a *Async) SetASR(s string)     { a.keep(func(t Sink) { t.SetASR(s) }) }
func (a *Async) SetOutput(s string)  { a.keep(func(t Sink) { t.SetOutput(s) }) }
func (a *Async) SetPreview(s string) { a.post(func(t Sink) { t.SetPreview(s) }, true) }
func (a *Async) SetProgress(d time.Duration, n int) {
	a.post(func(t Sink) { t.SetProgress(d, n) }, true)
}
func (a *Async) ShowRecording()     { a.keep(func(t Sink) { t.ShowRecording() }) }
func (a *Async) ShowTranscribing()  { a.keep(func(t Sink) { t.ShowTranscribing() }) }
func (a *Async) ShowRefining()      { a.keep(func(t Sink) { t.ShowRefining() }) }
func (a *Async) ShowError(s string) { a.keep(func(t Sink) { t.ShowError(s) }) }
func (a *Async) ShowInjected()      { a.keep(func(t Sink) { t.ShowInjected() }) }
func (a *Async) FadeOut()           { a.keep(func(t Sink) { t.FadeOut() }) }
