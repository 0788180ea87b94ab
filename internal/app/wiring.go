package app

import (
	"github.com/emmett/voxtype/internal/config"
	"github.com/emmett/voxtype/internal/llm"
	"github.com/emmett/voxtype/internal/models"
	"github.com/emmett/voxtype/internal/stt"
)

// OpenModels creates the lifecycle manager with the real session backends
func OpenModels(cfg *config.Config, hints models.Hinter, observers ...models.Observer) *models.Manager {
	sttOpts := stt.Options{Language: cfg.ASR.Language, Threads: cfg.ASR.Threads}
	llmOpts := llm.Options{
		BaseURL:        cfg.Refine.BaseURL,
		APIKey:         cfg.APIKey(),
		RequestTimeout: cfg.Refine.RequestTimeout,
	}

	return models.NewManager(models.ManagerConfig{
		Dir: cfg.Paths.ModelDir,
		OpenASR: func(path string) (stt.Session, error) {
			return stt.Open(path, sttOpts)
		},
		OpenLLM: func(path string) (llm.Session, error) {
			return llm.Open(path, llmOpts)
		},
		Hints:     hints,
		Observers: observers,
	})
}

// NewFileTranscriber creates a Transcriber over settings and manager
func NewFileTranscriber(cfg *config.Config, settings Settings, manager Models) *Transcriber {
	return NewTranscriber(TranscriberConfig{
		Settings:    settings,
		Models:      manager,
		Gate:        gateFromConfig(cfg),
		MaxTokens:   cfg.Refine.MaxTokens,
		Temperature: cfg.Refine.Temperature,
	})
}
