// Package stt wraps the speech recognition backends behind one session
// interface. A session consumes 16 kHz mono float samples.
package stt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SegmentFunc receives incremental text while a transcription runs
type SegmentFunc func(segment string)

// Session is a loaded speech recognition model
type Session interface {
	// TranscribeWithProgress transcribes samples, reporting segments as they are decoded
	TranscribeWithProgress(samples []float32, onSegment SegmentFunc) (string, error)

	// Close releases the model
	Close() error
}

// Options holds backend tuning shared by all sessions
type Options struct {
	// Language is a whisper language code, "auto" to detect
	Language string

	// Threads is the decoder thread count, 0 = backend default
	Threads uint
}

// DefaultOptions returns the session defaults
func DefaultOptions() Options {
	return Options{Language: "auto"}
}

// ErrUnknownModel is returned when a path matches no backend
var ErrUnknownModel = errors.New("unrecognized model format")

// Backend identifies which engine serves a model path
type Backend string

const (
	BackendWhisper Backend = "whisper"
	BackendVosk    Backend = "vosk"
)

// DetectBackend picks the backend for a model path: vosk models are
// directories, whisper models are ggml *.bin files
func DetectBackend(path string) (Backend, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat model %s: %w", path, err)
	}
	if info.IsDir() {
		return BackendVosk, nil
	}
	if strings.EqualFold(filepath.Ext(path), ".bin") {
		return BackendWhisper, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownModel, path)
}

// Open loads the model at path with the matching backend
func Open(path string, opts Options) (Session, error) {
	backend, err := DetectBackend(path)
	if err != nil {
		return nil, err
	}
	switch backend {
	case BackendVosk:
		return NewVoskSession(path)
	default:
		return NewWhisperSession(path, opts)
	}
}
