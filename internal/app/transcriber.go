package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/emmett/voxtype/internal/audio"
	"github.com/emmett/voxtype/internal/config"
	"github.com/emmett/voxtype/internal/fault"
	"github.com/emmett/voxtype/internal/llm"
	"github.com/emmett/voxtype/internal/logger"
	"github.com/emmett/voxtype/internal/quality"
)

// TranscriberConfig holds configuration for file transcription
type TranscriberConfig struct {
	Settings    Settings
	Models      Models
	Gate        quality.Gate
	Prompts     Prompter
	MaxTokens   int
	Temperature float64
}

// TranscribeResult is the outcome of one file transcription
type TranscribeResult struct {
	Text     string
	Raw      string
	Refined  bool
	Fallback string
	Samples  int
	Duration time.Duration
	Model    string
}

// Transcriber runs recorded audio through the same gate, ASR and
// refinement stages as a dictation cycle, without capture or injection.
// Calls are serialized because the model sessions are single-owner.
type Transcriber struct {
	config  TranscriberConfig
	refiner Refiner
	log     *logger.Logger
	mu      sync.Mutex
}

// NewTranscriber creates a new Transcriber instance
func NewTranscriber(config TranscriberConfig) *Transcriber {
	if config.Prompts == nil {
		config.Prompts = llm.NewPromptBuilder()
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 256
	}
	return &Transcriber{
		config:  config,
		refiner: Refiner{Prompts: config.Prompts, MaxTokens: config.MaxTokens, Temperature: config.Temperature},
		log:     logger.Named("transcriber"),
	}
}

// TranscribeFile reads a WAV file and transcribes it
func (t *Transcriber) TranscribeFile(ctx context.Context, path string, refine bool) (TranscribeResult, error) {
	samples, rate, err := audio.ReadWAV(path)
	if err != nil {
		return TranscribeResult{}, fault.Wrap(err, fault.CaptureError, "failed to read audio file")
	}
	return t.Transcribe(ctx, samples, rate, refine)
}

// Transcribe resamples mono samples at rate and runs the pipeline stages.
// Quality drops are returned as QualityRejected errors.
func (t *Transcriber) Transcribe(ctx context.Context, samples []float32, rate uint32, refine bool) (TranscribeResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	settings := config.DefaultAppConfig()
	if t.config.Settings != nil {
		cfg, _, err := t.config.Settings.Load()
		if err != nil {
			t.log.Warn().Err(err).Msg("failed to read settings, using defaults")
		} else {
			settings = cfg
		}
	}
	t.config.Models.Refresh(settings.Selection())

	samples = audio.Resample(samples, rate)
	res := TranscribeResult{
		Samples:  len(samples),
		Duration: time.Duration(len(samples)) * time.Second / audio.TargetRate,
	}
	if err := t.config.Gate.Check(samples); err != nil {
		return res, err
	}

	session := t.config.Models.ASR()
	if session == nil {
		return res, fault.WithReason(fault.New(fault.ModelUnavailable, "no speech model loaded"), fault.ReasonNoModel)
	}
	res.Model = filepath.Base(t.config.Models.ASRPath())

	raw, err := session.TranscribeWithProgress(samples, func(string) {})
	if err != nil {
		return res, fault.Wrap(err, fault.TranscriptionError, "transcription failed")
	}
	res.Raw = quality.Normalize(raw)
	if quality.ShouldDrop(res.Raw) {
		return res, fault.Rejected(fault.ReasonEmpty, "no speech recognized")
	}

	res.Text = res.Raw
	if !refine {
		return res, nil
	}
	text, err := t.refiner.Refine(ctx, t.config.Models.LLM(), res.Raw)
	if err != nil {
		res.Fallback = fallbackHint(err)
		t.log.Info().Err(err).Msg("refinement skipped")
		return res, nil
	}
	res.Text = text
	res.Refined = true
	return res, nil
}

// Describe renders a result for humans
func (r TranscribeResult) Describe() string {
	s := fmt.Sprintf("%q (%.1fs, model %s)", r.Text, r.Duration.Seconds(), r.Model)
	if r.Fallback != "" {
		s += ": " + r.Fallback
	}
	return s
}
