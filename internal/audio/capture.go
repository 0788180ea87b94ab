package audio

import (
	"errors"
	"time"
)

var (
	// ErrNoInputDevice is returned when the system has no capture device
	ErrNoInputDevice = errors.New("no input device available")

	// ErrUnsupportedFormat is returned when the device's native sample format cannot be decoded
	ErrUnsupportedFormat = errors.New("unsupported input sample format")

	// ErrEmptyRecording is returned by Stop when no samples were captured
	ErrEmptyRecording = errors.New("no audio captured")
)

// CaptureConfig holds configuration for audio capture
type CaptureConfig struct {
	// FlushGrace is how long Stop waits after tearing down the device before
	// draining, so callbacks already in flight can finish their append
	FlushGrace time.Duration

	// PeriodFrames is the device period size in frames
	// 0 = let the backend pick
	PeriodFrames uint32

	// InitialCapacity pre-sizes the sample buffer (in samples)
	InitialCapacity int
}

// DefaultCaptureConfig returns the capture defaults used by the daemon
func DefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{
		FlushGrace:      40 * time.Millisecond,
		PeriodFrames:    0,
		InitialCapacity: 48000 * 10, // 10s at 48kHz
	}
}

// Recording is one live capture, created on key down and stopped on key up
type Recording interface {
	// Buffer returns the live sample buffer for progress polling
	Buffer() *SampleBuffer

	// SampleRate returns the device's native rate
	SampleRate() uint32

	// Stop tears down the stream, drains the buffer and returns 16 kHz mono audio
	Stop() ([]float32, error)
}

// Capturer opens recordings on the default input device
type Capturer interface {
	Start() (Recording, error)
}

// NewCapturer creates the malgo-backed capturer
func NewCapturer(config CaptureConfig) Capturer {
	return NewMalgoCapturer(config)
}
