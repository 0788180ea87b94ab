// Package output implements the observability sink: fire-and-forget status
// updates for whatever surface shows dictation progress.
package output

import "time"

// State labels shown by status surfaces
const (
	StateIdle       = "Idle"
	StateRecording  = "Recording"
	StateProcessing = "Processing"
	StateInjected   = "Injected"
	StateError      = "Error"
)

// Sink receives advisory pipeline updates. Calls must not block the caller
// and never influence control flow.
type Sink interface {
	SetState(state string)
	SetHint(text string)
	SetASR(label string)
	SetOutput(label string)
	SetPreview(text string)
	SetProgress(elapsed time.Duration, samples int)
	ShowRecording()
	ShowTranscribing()
	ShowRefining()
	ShowError(text string)
	ShowInjected()
	FadeOut()
}

// Nop discards every update
type Nop struct{}

func (Nop) SetState(string)                {}
func (Nop) SetHint(string)                 {}
func (Nop) SetASR(string)                  {}
func (Nop) SetOutput(string)               {}
func (Nop) SetPreview(string)              {}
func (Nop) SetProgress(time.Duration, int) {}
func (Nop) ShowRecording()                 {}
func (Nop) ShowTranscribing()              {}
func (Nop) ShowRefining()                  {}
func (Nop) ShowError(string)               {}
func (Nop) ShowInjected()                  {}
func (Nop) FadeOut()                       {}

// Multi fans every update out to several sinks
type Multi []Sink

func (m Multi) SetState(s string) {
	for _, k := range m {
		k.SetState(s)
	}
}

func (m Multi) SetHint(s string) {
	for _, k := range m {
		k.SetHint(s)
	}
}

func (m Multi) SetASR(s string) {
	for _, k := range m {
		k.SetASR(s)
	}
}

func (m Multi) SetOutput(s string) {
	for _, k := range m {
		k.SetOutput(s)
	}
}

func (m Multi) SetPreview(s string) {
	for _, k := range m {
		k.SetPreview(s)
	}
}

func (m Multi) SetProgress(d time.Duration, n int) {
	for _, k := range m {
		k.SetProgress(d, n)
	}
}

func (m Multi) ShowRecording() {
	for _, k := range m {
		k.ShowRecording()
	}
}

func (m Multi) ShowTranscribing() {
	for _, k := range m {
		k.ShowTranscribing()
	}
}

func (m Multi) ShowRefining() {
	for _, k := range m {
		k.ShowRefining()
	}
}

func (m Multi) ShowError(s string) {
	for _, k := range m {
		k.ShowError(s)
	}
}

func (m Multi) ShowInjected() {
	for _, k := range m {
		k.ShowInjected()
	}
}

func (m Multi) FadeOut() {
	for _, k := range m {
		k.FadeOut()
	}
}
