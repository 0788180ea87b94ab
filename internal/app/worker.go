// Package app runs the dictation pipeline: one worker goroutine turns
// hotkey signals into capture, transcription, refinement and injection.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/emmett/voxtype/internal/audio"
	"github.com/emmett/voxtype/internal/config"
	"github.com/emmett/voxtype/internal/fault"
	"github.com/emmett/voxtype/internal/history"
	"github.com/emmett/voxtype/internal/input"
	"github.com/emmett/voxtype/internal/llm"
	"github.com/emmett/voxtype/internal/logger"
	"github.com/emmett/voxtype/internal/models"
	"github.com/emmett/voxtype/internal/output"
	"github.com/emmett/voxtype/internal/quality"
	"github.com/emmett/voxtype/internal/stt"
)

// Settings supplies the user's dictation settings, re-read every cycle
type Settings interface {
	Load() (config.AppConfig, []string, error)
}

// Models resolves and holds the inference sessions
type Models interface {
	Refresh(sel models.Selection) models.Status
	ASR() stt.Session
	LLM() llm.Session
	ASRPath() string
	LLMPath() string
}

// Injector delivers final text to the focused application
type Injector interface {
	Inject(ctx context.Context, text string) error
}

// Prompter builds the refinement prompt for a raw transcript
type Prompter interface {
	Build(raw string) string
}

// Recorder keeps injected cycles
type Recorder interface {
	Record(e history.Entry) error
}

// Timings are the display holds and polling intervals of a cycle
type Timings struct {
	PreviewHold      time.Duration
	ResultHold       time.Duration
	ErrorHold        time.Duration
	SilenceHold      time.Duration
	TooShortHold     time.Duration
	StartFailureHold time.Duration
	Ticker           time.Duration
}

// DefaultTimings returns the default holds
func DefaultTimings() Timings {
	return Timings{
		PreviewHold:      900 * time.Millisecond,
		ResultHold:       950 * time.Millisecond,
		ErrorHold:        900 * time.Millisecond,
		SilenceHold:      760 * time.Millisecond,
		TooShortHold:     700 * time.Millisecond,
		StartFailureHold: 900 * time.Millisecond,
		Ticker:           180 * time.Millisecond,
	}
}

// TimingsFromConfig reads the holds from daemon settings
func TimingsFromConfig(cfg *config.Config) Timings {
	return Timings{
		PreviewHold:      cfg.Timing.PreviewHold,
		ResultHold:       cfg.Timing.ResultHold,
		ErrorHold:        cfg.Timing.ErrorHold,
		SilenceHold:      cfg.Timing.SilenceHold,
		TooShortHold:     cfg.Timing.TooShortHold,
		StartFailureHold: cfg.Timing.StartFailureHold,
		Ticker:           cfg.Timing.Ticker,
	}
}

// WorkerConfig wires a Worker. History, Prompts and DumpDir are optional.
type WorkerConfig struct {
	Settings Settings
	Models   Models
	Capturer audio.Capturer
	Gate     quality.Gate
	Injector Injector
	Sink     output.Sink
	History  Recorder
	Prompts  Prompter
	Timings  Timings

	// MaxTokens and Temperature are passed to every refinement call
	MaxTokens   int
	Temperature float64

	// DumpDir, when set, receives a WAV of every resampled capture
	DumpDir string
}

// Worker owns every inference session and does all blocking work of a cycle
// sequentially. It is driven by Run and must not be shared.
type Worker struct {
	cfg   WorkerConfig
	log   *logger.Logger
	sleep func(time.Duration)
	now   func() time.Time

	refiner   Refiner
	state     State
	recording audio.Recording
	ticker    *progressTicker
	cycle     *Cycle
	settings  config.AppConfig
}

// NewWorker creates an idle worker
func NewWorker(cfg WorkerConfig) *Worker {
	if cfg.Sink == nil {
		cfg.Sink = output.Nop{}
	}
	if cfg.Prompts == nil {
		cfg.Prompts = llm.NewPromptBuilder()
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 256
	}
	return &Worker{
		cfg:      cfg,
		refiner:  Refiner{Prompts: cfg.Prompts, MaxTokens: cfg.MaxTokens, Temperature: cfg.Temperature},
		log:      logger.Named("worker"),
		sleep:    time.Sleep,
		now:      time.Now,
		settings: config.DefaultAppConfig(),
	}
}

// State returns the current pipeline state
func (w *Worker) State() State { return w.state }

// Prepare loads the configured models and publishes the initial labels
func (w *Worker) Prepare() {
	w.reloadSettings()
	w.cfg.Models.Refresh(w.settings.Selection())
	w.publishLabels()
	w.setState(StateIdle)
}

// Run handles signals until ctx is done or the channel closes
func (w *Worker) Run(ctx context.Context, signals <-chan input.Signal) error {
	defer w.abort()
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-signals:
			if !ok {
				return nil
			}
			w.handle(ctx, sig)
		}
	}
}

// handle applies one signal; it returns the cycle when one finished
func (w *Worker) handle(ctx context.Context, sig input.Signal) *Cycle {
	switch sig {
	case input.Down:
		return w.onDown()
	case input.Up:
		return w.onUp(ctx)
	}
	return nil
}

func (w *Worker) onDown() *Cycle {
	if w.state != StateIdle {
		return nil
	}

	w.cycle = &Cycle{ID: uuid.NewString(), Started: w.now(), Mode: w.settings.OutputMode}
	rec, err := w.cfg.Capturer.Start()
	if err != nil {
		err = fault.Wrap(err, fault.CaptureError, "failed to start recording")
		return w.fail(err, fmt.Sprintf("Microphone unavailable: %v", errors.Unwrap(err)), w.cfg.Timings.StartFailureHold)
	}

	w.recording = rec
	w.setState(StateRecording)
	w.cfg.Sink.ShowRecording()
	if w.cfg.Timings.Ticker > 0 {
		w.ticker = startProgressTicker(w.cfg.Timings.Ticker, rec.Buffer(), w.cfg.Sink)
	}
	w.log.Debug().Str("cycle", w.cycle.ID).Uint32("rate", rec.SampleRate()).Msg("recording started")
	return nil
}

func (w *Worker) onUp(ctx context.Context) *Cycle {
	if w.state != StateRecording {
		return nil
	}

	w.ticker.Stop()
	w.ticker = nil
	w.setState(StateStoppingRecording)

	w.reloadSettings()
	w.cycle.Mode = w.settings.OutputMode
	if st := w.cfg.Models.Refresh(w.settings.Selection()); st.ASRChanged || st.LLMChanged {
		w.publishLabels()
	}
	w.cfg.Sink.SetOutput(modeLabel(w.settings.OutputMode))

	rec := w.recording
	w.recording = nil
	samples, err := rec.Stop()
	if err != nil {
		err = fault.Wrap(err, fault.CaptureError, "failed to capture audio")
		return w.fail(err, "No audio captured", w.cfg.Timings.ErrorHold)
	}
	w.cycle.Samples = len(samples)
	w.dump(samples)

	if err := w.cfg.Gate.Check(samples); err != nil {
		if fault.ReasonOf(err) == fault.ReasonTooShort {
			return w.drop(OutcomeDroppedTooShort, err, "Recording too short", w.cfg.Timings.TooShortHold)
		}
		return w.drop(OutcomeDroppedSilence, err, "No speech detected", w.cfg.Timings.SilenceHold)
	}

	session := w.cfg.Models.ASR()
	if session == nil {
		err := fault.WithReason(fault.New(fault.ModelUnavailable, "no speech model loaded"), fault.ReasonNoModel)
		return w.fail(err, "No speech model loaded", w.cfg.Timings.ErrorHold)
	}

	w.setState(StateTranscribing)
	w.cfg.Sink.ShowTranscribing()
	raw, err := session.TranscribeWithProgress(samples, func(segment string) {
		w.cfg.Sink.SetPreview(segment)
	})
	if err != nil {
		err = fault.Wrap(err, fault.TranscriptionError, "transcription failed")
		return w.fail(err, "Transcription failed", w.cfg.Timings.ErrorHold)
	}

	raw = quality.Normalize(raw)
	w.cycle.Raw = raw
	if quality.ShouldDrop(raw) {
		err := fault.Rejected(fault.ReasonEmpty, "empty transcript")
		return w.drop(OutcomeDroppedEmpty, err, "No speech recognized", w.cfg.Timings.SilenceHold)
	}
	w.cfg.Sink.SetPreview(raw)
	w.sleep(w.cfg.Timings.PreviewHold)

	final := raw
	if w.settings.OutputMode == config.ModeLLM {
		final = w.refine(ctx, raw)
	}
	w.cycle.Final = final
	if quality.ShouldDrop(final) {
		err := fault.Rejected(fault.ReasonDegenerate, "degenerate output")
		return w.drop(OutcomeDroppedEmpty, err, "Nothing to insert", w.cfg.Timings.SilenceHold)
	}

	w.setState(StateInjecting)
	if err := w.cfg.Injector.Inject(ctx, final); err != nil {
		if !fault.Is(err, fault.InjectionError) {
			err = fault.Wrap(err, fault.InjectionError, "injection failed")
		}
		return w.fail(err, "Could not insert text", w.cfg.Timings.ErrorHold)
	}
	return w.injected()
}

// refine returns the text to inject in llm mode, falling back to raw
func (w *Worker) refine(ctx context.Context, raw string) string {
	session := w.cfg.Models.LLM()
	if session != nil {
		w.setState(StateRefining)
		w.cfg.Sink.ShowRefining()
	}

	refined, err := w.refiner.Refine(ctx, session, raw)
	if err != nil {
		w.cycle.Fallback = true
		w.log.Info().Err(err).Str("cycle", w.cycle.ID).Msg("refinement skipped")
		w.cfg.Sink.SetHint(fallbackHint(err))
		return raw
	}
	w.cycle.Refined = refined
	w.cfg.Sink.SetPreview(refined)
	return refined
}

func (w *Worker) injected() *Cycle {
	c := w.finish(OutcomeInjected, nil)
	w.setState(StateInjected)
	w.cfg.Sink.ShowInjected()
	w.log.Info().Str("cycle", c.ID).Str("mode", string(c.Mode)).Int("chars", len([]rune(c.Final))).Bool("fallback", c.Fallback).Msg("text injected")

	if w.cfg.History != nil {
		entry := history.Entry{
			ID:    c.ID,
			Time:  w.now(),
			Text:  c.Final,
			Raw:   c.Raw,
			Mode:  string(c.Mode),
			Model: filepath.Base(w.cfg.Models.ASRPath()),
		}
		if err := w.cfg.History.Record(entry); err != nil {
			w.log.Warn().Err(err).Msg("failed to record history")
		}
	}

	w.sleep(w.cfg.Timings.ResultHold)
	w.cfg.Sink.FadeOut()
	w.setState(StateIdle)
	return c
}

// drop ends the cycle as a deliberate no-op
func (w *Worker) drop(outcome Outcome, err error, hint string, hold time.Duration) *Cycle {
	c := w.finish(outcome, err)
	w.setState(StateDropped)
	w.cfg.Sink.SetHint(hint)
	w.log.Info().Str("cycle", c.ID).Str("reason", fault.ReasonOf(err)).Int("samples", c.Samples).Msg("cycle dropped")

	w.sleep(hold)
	w.cfg.Sink.FadeOut()
	w.setState(StateIdle)
	return c
}

// fail ends the cycle with a user-visible error
func (w *Worker) fail(err error, text string, hold time.Duration) *Cycle {
	c := w.finish(OutcomeFailed, err)
	w.setState(StateError)
	w.cfg.Sink.ShowError(text)

	ev := w.log.Error()
	if fault.Is(err, fault.ModelUnavailable) {
		ev = w.log.Warn()
	}
	ev.Err(err).Str("cycle", c.ID).Str("kind", fault.KindOf(err).String()).Msg("cycle failed")

	w.sleep(hold)
	w.cfg.Sink.FadeOut()
	w.setState(StateIdle)
	return c
}

func (w *Worker) finish(outcome Outcome, err error) *Cycle {
	c := w.cycle
	if c == nil {
		c = &Cycle{ID: uuid.NewString(), Started: w.now()}
	}
	c.Outcome = outcome
	c.Err = err
	w.cycle = nil
	return c
}

func (w *Worker) setState(s State) {
	w.state = s
	w.cfg.Sink.SetState(sinkState(s))
}

// reloadSettings keeps the previous settings when the file cannot be read
func (w *Worker) reloadSettings() {
	if w.cfg.Settings == nil {
		return
	}
	cfg, warnings, err := w.cfg.Settings.Load()
	for _, warning := range warnings {
		w.log.Warn().Str("warning", warning).Msg("settings file")
	}
	if err != nil {
		w.log.Error().Err(err).Msg("failed to read settings, keeping previous")
		return
	}
	w.settings = cfg
}

func (w *Worker) publishLabels() {
	asr := "none"
	if p := w.cfg.Models.ASRPath(); p != "" {
		asr = filepath.Base(p)
	}
	w.cfg.Sink.SetASR(asr)
	w.cfg.Sink.SetOutput(modeLabel(w.settings.OutputMode))
}

func (w *Worker) dump(samples []float32) {
	if w.cfg.DumpDir == "" || len(samples) == 0 {
		return
	}
	path := filepath.Join(w.cfg.DumpDir, w.cycle.ID+".wav")
	if err := audio.WriteWAV(path, samples, audio.TargetRate); err != nil {
		w.log.Warn().Err(err).Str("path", path).Msg("failed to dump audio")
		return
	}
	w.log.Debug().Str("path", path).Msg("audio dumped")
}

// abort stops a recording left open at shutdown
func (w *Worker) abort() {
	w.ticker.Stop()
	w.ticker = nil
	if w.recording != nil {
		if _, err := w.recording.Stop(); err != nil && !errors.Is(err, audio.ErrEmptyRecording) {
			w.log.Warn().Err(err).Msg("failed to stop recording at shutdown")
		}
		w.recording = nil
	}
}

func sinkState(s State) string {
	switch s {
	case StateIdle, StateDropped:
		return output.StateIdle
	case StateRecording:
		return output.StateRecording
	case StateInjected:
		return output.StateInjected
	case StateError:
		return output.StateError
	}
	return output.StateProcessing
}

func modeLabel(m config.OutputMode) string {
	if m == config.ModeLLM {
		return "Refined"
	}
	return "Raw"
}
