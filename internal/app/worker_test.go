package app

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emmett/voxtype/internal/audio"
	"github.com/emmett/voxtype/internal/config"
	"github.com/emmett/voxtype/internal/fault"
	"github.com/emmett/voxtype/internal/history"
	"github.com/emmett/voxtype/internal/input"
	"github.com/emmett/voxtype/internal/llm"
	"github.com/emmett/voxtype/internal/models"
	"github.com/emmett/voxtype/internal/output"
	"github.com/emmett/voxtype/internal/quality"
	"github.com/emmett/voxtype/internal/stt"
)

type fakeRecording struct {
	samples []float32
	err     error
	buf     *audio.SampleBuffer
}

func (r *fakeRecording) Buffer() *audio.SampleBuffer { return r.buf }
func (r *fakeRecording) SampleRate() uint32          { return 48000 }
func (r *fakeRecording) Stop() ([]float32, error)    { return r.samples, r.err }

type fakeCapturer struct {
	startErr error
	rec      *fakeRecording
	starts   int
	started  chan struct{}
}

func (c *fakeCapturer) Start() (audio.Recording, error) {
	c.starts++
	if c.started != nil {
		close(c.started)
	}
	if c.startErr != nil {
		return nil, c.startErr
	}
	return c.rec, nil
}

type fakeASR struct {
	text     string
	segments []string
	err      error
	calls    int
}

func (f *fakeASR) TranscribeWithProgress(_ []float32, onSegment stt.SegmentFunc) (string, error) {
	f.calls++
	for _, s := range f.segments {
		onSegment(s)
	}
	return f.text, f.err
}

func (f *fakeASR) Close() error { return nil }

type fakeLLM struct {
	reply       string
	err         error
	calls       []string
	clears      int
	maxTokens   int
	temperature float64
}

func (f *fakeLLM) Clear() { f.clears++ }

func (f *fakeLLM) Send(_ context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	f.calls = append(f.calls, prompt)
	f.maxTokens = maxTokens
	f.temperature = temperature
	return f.reply, f.err
}

func (f *fakeLLM) Close() error { return nil }

type fakeInjector struct {
	err      error
	injected []string
}

func (f *fakeInjector) Inject(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.injected = append(f.injected, text)
	return nil
}

type fakeSettings struct {
	cfg config.AppConfig
	err error
}

func (s *fakeSettings) Load() (config.AppConfig, []string, error) { return s.cfg, nil, s.err }

type fakeHistory struct{ entries []history.Entry }

func (h *fakeHistory) Record(e history.Entry) error {
	h.entries = append(h.entries, e)
	return nil
}

type sinkRecorder struct {
	output.Nop
	mu       sync.Mutex
	states   []string
	hints    []string
	errors   []string
	previews []string
	injected int
	fades    int
}

func (s *sinkRecorder) SetState(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = append(s.states, v)
}

func (s *sinkRecorder) SetHint(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hints = append(s.hints, v)
}

func (s *sinkRecorder) ShowError(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, v)
}

func (s *sinkRecorder) SetPreview(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previews = append(s.previews, v)
}

func (s *sinkRecorder) ShowInjected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.injected++
}

func (s *sinkRecorder) FadeOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fades++
}

type harness struct {
	worker   *Worker
	capturer *fakeCapturer
	asr      *fakeASR
	llm      *fakeLLM
	injector *fakeInjector
	settings *fakeSettings
	history  *fakeHistory
	sink     *sinkRecorder
}

// newHarness builds a worker over a model dir holding the named files
func newHarness(t *testing.T, mode config.OutputMode, files ...string) *harness {
	t.Helper()
	dir := t.TempDir()
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("model"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	h := &harness{
		capturer: &fakeCapturer{rec: &fakeRecording{samples: speech(16000)}},
		asr:      &fakeASR{},
		llm:      &fakeLLM{},
		injector: &fakeInjector{},
		settings: &fakeSettings{cfg: config.DefaultAppConfig()},
		history:  &fakeHistory{},
		sink:     &sinkRecorder{},
	}
	h.settings.cfg.OutputMode = mode

	mgr := models.NewManager(models.ManagerConfig{
		Dir:     dir,
		Memory:  func() (uint64, bool) { return 16, true },
		OpenASR: func(string) (stt.Session, error) { return h.asr, nil },
		OpenLLM: func(string) (llm.Session, error) { return h.llm, nil },
	})

	h.worker = NewWorker(WorkerConfig{
		Settings:    h.settings,
		Models:      mgr,
		Capturer:    h.capturer,
		Gate:        quality.DefaultGate(),
		Injector:    h.injector,
		Sink:        h.sink,
		History:     h.history,
		MaxTokens:   256,
		Temperature: 0.2,
	})
	h.worker.sleep = func(time.Duration) {}
	h.worker.Prepare()
	return h
}

// cycle runs Down then Up and returns the finished cycle
func (h *harness) cycle(t *testing.T) *Cycle {
	t.Helper()
	ctx := context.Background()
	if c := h.worker.handle(ctx, input.Down); c != nil {
		return c
	}
	c := h.worker.handle(ctx, input.Up)
	if c == nil {
		t.Fatalf("Up did not finish a cycle")
	}
	if h.worker.State() != StateIdle {
		t.Fatalf("state after cycle = %v, want idle", h.worker.State())
	}
	return c
}

func speech(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.1 * math.Sin(2*math.Pi*440*float64(i)/audio.TargetRate))
	}
	return out
}

func TestSilenceNeverReachesASR(t *testing.T) {
	h := newHarness(t, config.ModeLLM, "ggml-base.bin", "qwen2.5-1.5b-q4_k_m.gguf")
	h.capturer.rec.samples = make([]float32, 3*audio.TargetRate)

	c := h.cycle(t)
	if c.Outcome != OutcomeDroppedSilence {
		t.Fatalf("outcome = %v, want dropped_silence", c.Outcome)
	}
	if !fault.Is(c.Err, fault.QualityRejected) || fault.ReasonOf(c.Err) != fault.ReasonSilence {
		t.Fatalf("err = %v", c.Err)
	}
	if h.asr.calls != 0 || len(h.llm.calls) != 0 || len(h.injector.injected) != 0 {
		t.Fatalf("silence reached a stage: asr=%d llm=%d inject=%d", h.asr.calls, len(h.llm.calls), len(h.injector.injected))
	}
}

func TestTooShortRecording(t *testing.T) {
	h := newHarness(t, config.ModeASR, "ggml-base.bin")
	h.capturer.rec.samples = speech(1000)

	c := h.cycle(t)
	if c.Outcome != OutcomeDroppedTooShort || h.asr.calls != 0 {
		t.Fatalf("outcome = %v, asr calls = %d", c.Outcome, h.asr.calls)
	}
}

func TestRawModeInjectsTranscript(t *testing.T) {
	h := newHarness(t, config.ModeASR, "ggml-base.bin", "qwen2.5-1.5b-q4_k_m.gguf")
	h.asr.text = "hello world"
	h.asr.segments = []string{"hello", "hello world"}

	c := h.cycle(t)
	if c.Outcome != OutcomeInjected {
		t.Fatalf("outcome = %v (%v)", c.Outcome, c.Err)
	}
	if len(h.injector.injected) != 1 || h.injector.injected[0] != "hello world" {
		t.Fatalf("injected = %q", h.injector.injected)
	}
	if len(h.llm.calls) != 0 {
		t.Fatalf("LLM called in raw mode")
	}
	if len(h.history.entries) != 1 || h.history.entries[0].Model != "ggml-base.bin" {
		t.Fatalf("history = %+v", h.history.entries)
	}
	if h.sink.injected != 1 || h.sink.fades == 0 {
		t.Fatalf("sink injected=%d fades=%d", h.sink.injected, h.sink.fades)
	}
	if !strings.Contains(strings.Join(h.sink.previews, "|"), "hello|hello world") {
		t.Fatalf("previews = %q", h.sink.previews)
	}
}

func TestRefinedEmptyFallsBackToRaw(t *testing.T) {
	h := newHarness(t, config.ModeLLM, "ggml-base.bin", "qwen2.5-1.5b-q4_k_m.gguf")
	h.asr.text = "hello world"
	h.llm.reply = ""

	c := h.cycle(t)
	if c.Outcome != OutcomeInjected || !c.Fallback {
		t.Fatalf("outcome = %v fallback = %v", c.Outcome, c.Fallback)
	}
	if h.injector.injected[0] != "hello world" {
		t.Fatalf("injected = %q, want raw", h.injector.injected)
	}
	if !containsHint(h.sink.hints, "inserting raw transcript") {
		t.Fatalf("hints = %q", h.sink.hints)
	}
}

func TestRefinedOutputInjected(t *testing.T) {
	h := newHarness(t, config.ModeLLM, "ggml-base.bin", "qwen2.5-1.5b-q4_k_m.gguf")
	h.asr.text = "um hello   world"
	h.llm.reply = "  Hello, world.\n"

	c := h.cycle(t)
	if h.injector.injected[0] != "Hello, world." || c.Fallback {
		t.Fatalf("injected = %q fallback = %v", h.injector.injected, c.Fallback)
	}
	if h.llm.clears != 1 || h.llm.maxTokens != 256 || h.llm.temperature != 0.2 {
		t.Fatalf("llm clears=%d maxTokens=%d temp=%v", h.llm.clears, h.llm.maxTokens, h.llm.temperature)
	}
	if !strings.HasSuffix(h.llm.calls[0], "um hello world") {
		t.Fatalf("prompt does not end with the raw transcript: %q", h.llm.calls[0])
	}
}

func TestRefineWithoutLLMUsesRaw(t *testing.T) {
	h := newHarness(t, config.ModeLLM, "ggml-base.bin")
	h.asr.text = "hello world"

	c := h.cycle(t)
	if c.Outcome != OutcomeInjected || !c.Fallback || h.injector.injected[0] != "hello world" {
		t.Fatalf("cycle = %+v injected = %q", c, h.injector.injected)
	}
}

func TestRefineErrorUsesRaw(t *testing.T) {
	h := newHarness(t, config.ModeLLM, "ggml-base.bin", "qwen2.5-1.5b-q4_k_m.gguf")
	h.asr.text = "hello world"
	h.llm.err = errors.New("connection refused")

	c := h.cycle(t)
	if !c.Fallback || h.injector.injected[0] != "hello world" {
		t.Fatalf("cycle = %+v", c)
	}
}

func TestDegenerateTranscriptDropped(t *testing.T) {
	h := newHarness(t, config.ModeASR, "ggml-base.bin")
	h.asr.text = " . "

	c := h.cycle(t)
	if c.Outcome != OutcomeDroppedEmpty || len(h.injector.injected) != 0 {
		t.Fatalf("outcome = %v injected = %q", c.Outcome, h.injector.injected)
	}
}

func TestFailures(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		setup func(h *harness)
		kind  fault.Kind
	}{
		{
			name:  "capture start",
			files: []string{"ggml-base.bin"},
			setup: func(h *harness) { h.capturer.startErr = audio.ErrNoInputDevice },
			kind:  fault.CaptureError,
		},
		{
			name:  "empty recording",
			files: []string{"ggml-base.bin"},
			setup: func(h *harness) { h.capturer.rec.samples, h.capturer.rec.err = nil, audio.ErrEmptyRecording },
			kind:  fault.CaptureError,
		},
		{
			name: "no asr model",
			kind: fault.ModelUnavailable,
		},
		{
			name:  "transcription",
			files: []string{"ggml-base.bin"},
			setup: func(h *harness) { h.asr.err = errors.New("decoder crashed") },
			kind:  fault.TranscriptionError,
		},
		{
			name:  "injection",
			files: []string{"ggml-base.bin"},
			setup: func(h *harness) {
				h.asr.text = "hello world"
				h.injector.err = errors.New("rejected")
			},
			kind: fault.InjectionError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, config.ModeASR, tt.files...)
			if tt.setup != nil {
				tt.setup(h)
			}
			c := h.cycle(t)
			if c.Outcome != OutcomeFailed || !fault.Is(c.Err, tt.kind) {
				t.Fatalf("outcome = %v err = %v, want %v", c.Outcome, c.Err, tt.kind)
			}
			if len(h.sink.errors) != 1 {
				t.Fatalf("errors shown = %q", h.sink.errors)
			}
			if h.worker.State() != StateIdle {
				t.Fatalf("state = %v", h.worker.State())
			}
		})
	}
}

func TestStraySignalsAreIgnored(t *testing.T) {
	h := newHarness(t, config.ModeASR, "ggml-base.bin")
	ctx := context.Background()

	if c := h.worker.handle(ctx, input.Up); c != nil || h.worker.State() != StateIdle {
		t.Fatalf("Up while idle changed state")
	}
	h.worker.handle(ctx, input.Down)
	h.worker.handle(ctx, input.Down)
	if h.capturer.starts != 1 || h.worker.State() != StateRecording {
		t.Fatalf("starts = %d state = %v", h.capturer.starts, h.worker.State())
	}
}

func TestSettingsErrorKeepsPrevious(t *testing.T) {
	h := newHarness(t, config.ModeASR, "ggml-base.bin", "qwen2.5-1.5b-q4_k_m.gguf")
	h.asr.text = "hello world"
	h.settings.err = errors.New("permission denied")
	h.settings.cfg.OutputMode = config.ModeLLM

	c := h.cycle(t)
	if c.Mode != config.ModeASR || len(h.llm.calls) != 0 {
		t.Fatalf("mode = %v, llm calls = %d", c.Mode, len(h.llm.calls))
	}
}

func TestRunProcessesSignals(t *testing.T) {
	h := newHarness(t, config.ModeASR, "ggml-base.bin")
	h.asr.text = "hello world"

	signals := make(chan input.Signal, 4)
	signals <- input.Down
	signals <- input.Up
	close(signals)

	if err := h.worker.Run(context.Background(), signals); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(h.injector.injected) != 1 {
		t.Fatalf("injected = %q", h.injector.injected)
	}
}

func TestRunStopsOpenRecording(t *testing.T) {
	h := newHarness(t, config.ModeASR, "ggml-base.bin")
	h.capturer.started = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())

	signals := make(chan input.Signal, 1)
	signals <- input.Down
	done := make(chan error, 1)
	go func() { done <- h.worker.Run(ctx, signals) }()

	select {
	case <-h.capturer.started:
	case <-time.After(time.Second):
		t.Fatalf("recording never started")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if h.asr.calls != 0 {
		t.Fatalf("shutdown should not transcribe")
	}
}

func TestDumpWritesWAV(t *testing.T) {
	h := newHarness(t, config.ModeASR, "ggml-base.bin")
	h.asr.text = "hello world"
	h.worker.cfg.DumpDir = t.TempDir()

	c := h.cycle(t)
	if _, err := os.Stat(filepath.Join(h.worker.cfg.DumpDir, c.ID+".wav")); err != nil {
		t.Fatalf("dump missing: %v", err)
	}
}

func containsHint(hints []string, sub string) bool {
	for _, h := range hints {
		if strings.Contains(h, sub) {
			return true
		}
	}
	return false
}
