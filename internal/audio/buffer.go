package audio

import "sync"

// SampleBuffer accumulates mono samples written by the device callback.
// It is the only state shared between the audio thread and the worker.
type SampleBuffer struct {
	mu      sync.Mutex
	samples []float32
}

// NewSampleBuffer creates a buffer with room for capacity samples
func NewSampleBuffer(capacity int) *SampleBuffer {
	return &SampleBuffer{samples: make([]float32, 0, capacity)}
}

// AppendFrames decodes raw device frames straight into the buffer
func (b *SampleBuffer) AppendFrames(raw []byte, format SampleFormat, channels int) {
	b.mu.Lock()
	b.samples = Decode(b.samples, raw, format, channels)
	b.mu.Unlock()
}

// Append adds already-decoded samples
func (b *SampleBuffer) Append(samples ...float32) {
	b.mu.Lock()
	b.samples = append(b.samples, samples...)
	b.mu.Unlock()
}

// Len returns the number of buffered samples
func (b *SampleBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.samples)
}

// Snapshot returns a copy of the buffered samples without draining them
func (b *SampleBuffer) Snapshot() []float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]float32, len(b.samples))
	copy(out, b.samples)
	return out
}

// Drain returns the buffered samples and empties the buffer
func (b *SampleBuffer) Drain() []float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.samples
	b.samples = nil
	return out
}
