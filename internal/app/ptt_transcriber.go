package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/emmett/voxtype/internal/audio"
	"github.com/emmett/voxtype/internal/config"
	"github.com/emmett/voxtype/internal/history"
	"github.com/emmett/voxtype/internal/inject"
	"github.com/emmett/voxtype/internal/input"
	"github.com/emmett/voxtype/internal/logger"
	"github.com/emmett/voxtype/internal/models"
	"github.com/emmett/voxtype/internal/output"
	"github.com/emmett/voxtype/internal/quality"
	grpcserver "github.com/emmett/voxtype/internal/server/grpc"
)

// PTTConfig holds configuration for push-to-talk mode
type PTTConfig struct {
	Config *config.Config

	// Sink is the status surface; updates reach it asynchronously
	Sink output.Sink
}

// PTTTranscriber wires the hotkey source, config watcher, pipeline worker
// and optional health server for one daemon run
type PTTTranscriber struct {
	config PTTConfig
	log    *logger.Logger
}

// NewPTTTranscriber creates a new PTTTranscriber
func NewPTTTranscriber(config PTTConfig) *PTTTranscriber {
	if config.Sink == nil {
		config.Sink = output.Nop{}
	}
	return &PTTTranscriber{config: config, log: logger.Named("ptt")}
}

// Run dictates until ctx is done
func (p *PTTTranscriber) Run(ctx context.Context) error {
	cfg := p.config.Config
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	// Status updates never block the worker
	sink := output.NewAsync(p.config.Sink, output.DefaultQueueSize)
	sinkCtx, stopSink := context.WithCancel(context.Background())
	go sink.Run(sinkCtx)
	defer func() {
		stopSink()
		sink.Wait()
	}()

	store := config.NewStore(cfg.Paths.AppConfig)
	spec, err := store.Hotkey()
	if err != nil {
		p.log.Warn().Err(err).Msg("failed to read hotkey, using default")
		spec = input.DefaultSpec
	}
	binding := input.NewBinding(spec)

	var observers []models.Observer
	if cfg.Server.GRPCPort > 0 {
		health := grpcserver.NewServer(grpcserver.Config{Port: cfg.Server.GRPCPort})
		observers = append(observers, health)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := health.Start(); err != nil {
				p.log.Error().Err(err).Msg("health server stopped")
			}
		}()
		defer health.Stop()
	}

	manager := OpenModels(cfg, sink, observers...)
	defer manager.Close()

	var recorder Recorder
	if cfg.Paths.HistoryDir != "" {
		hist, err := history.Open(cfg.Paths.HistoryDir, history.DefaultLimit)
		if err != nil {
			p.log.Warn().Err(err).Msg("history disabled")
		} else {
			defer hist.Close()
			recorder = hist
		}
	}

	captureCfg := audio.DefaultCaptureConfig()
	captureCfg.FlushGrace = cfg.Audio.FlushGrace
	captureCfg.PeriodFrames = cfg.Audio.PeriodFrames

	injector := inject.New(inject.Config{
		PasteSettle:   cfg.Timing.PasteSettle,
		RetryGap:      cfg.Timing.PasteRetryGap,
		PasteAttempts: 2,
	})

	worker := NewWorker(WorkerConfig{
		Settings:    store,
		Models:      manager,
		Capturer:    audio.NewCapturer(captureCfg),
		Gate:        gateFromConfig(cfg),
		Injector:    injector,
		Sink:        sink,
		History:     recorder,
		Timings:     TimingsFromConfig(cfg),
		MaxTokens:   cfg.Refine.MaxTokens,
		Temperature: cfg.Refine.Temperature,
		DumpDir:     cfg.Paths.AudioDumpDir,
	})
	worker.Prepare()

	source, err := input.NewSource(input.Backend(cfg.Hotkey.Backend), binding)
	if err != nil {
		return fmt.Errorf("failed to create hotkey source: %w", err)
	}
	signals := input.NewSignalQueue()
	sourceErr := make(chan error, 1)

	wg.Add(2)
	go func() {
		defer wg.Done()
		input.NewWatcher(binding, store.Hotkey, cfg.Timing.WatchInterval).Run(ctx)
	}()
	go func() {
		defer wg.Done()
		if err := source.Run(ctx, signals); err != nil {
			sourceErr <- err
			cancel()
		}
	}()

	p.log.Info().
		Str("hotkey", binding.Load().Label()).
		Str("backend", cfg.Hotkey.Backend).
		Str("models", cfg.Paths.ModelDir).
		Msg("push-to-talk ready")

	if err := worker.Run(ctx, signals); err != nil {
		return err
	}
	select {
	case err := <-sourceErr:
		return fmt.Errorf("hotkey source failed: %w", err)
	default:
		return nil
	}
}

func gateFromConfig(cfg *config.Config) quality.Gate {
	return quality.Gate{SilenceRMS: cfg.Quality.SilenceRMS, MinSamples: cfg.Quality.MinSamples}
}
