package stt

import (
	"fmt"
	"strings"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// WhisperSession runs whisper.cpp ggml models
type WhisperSession struct {
	model whisper.Model
	opts  Options
}

// NewWhisperSession loads a ggml model file
func NewWhisperSession(path string, opts Options) (*WhisperSession, error) {
	model, err := whisper.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load whisper model %s: %w", path, err)
	}
	return &WhisperSession{model: model, opts: opts}, nil
}

// TranscribeWithProgress decodes samples on a fresh context so no state
// carries over between cycles
func (w *WhisperSession) TranscribeWithProgress(samples []float32, onSegment SegmentFunc) (string, error) {
	ctx, err := w.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("failed to create whisper context: %w", err)
	}

	lang := w.opts.Language
	if lang == "" {
		lang = "auto"
	}
	if err := ctx.SetLanguage(lang); err != nil {
		return "", fmt.Errorf("failed to set language %q: %w", lang, err)
	}
	if w.opts.Threads > 0 {
		ctx.SetThreads(w.opts.Threads)
	}
	ctx.SetTranslate(false)

	collect := &segmentCollector{onSegment: onSegment}
	if err := ctx.Process(samples, collect.add, nil); err != nil {
		return "", fmt.Errorf("whisper process failed: %w", err)
	}
	return collect.text(), nil
}

// segmentCollector accumulates decoded segments and reports the running text
type segmentCollector struct {
	segments  []string
	onSegment SegmentFunc
}

func (c *segmentCollector) add(segment whisper.Segment) {
	text := strings.TrimSpace(segment.Text)
	if text == "" {
		return
	}
	c.segments = append(c.segments, text)
	if c.onSegment != nil {
		c.onSegment(c.text())
	}
}

func (c *segmentCollector) text() string { return strings.Join(c.segments, " ") }

// Close releases the model
func (w *WhisperSession) Close() error {
	if w.model == nil {
		return nil
	}
	err := w.model.Close()
	w.model = nil
	return err
}
