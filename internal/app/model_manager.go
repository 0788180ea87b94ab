package app

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/emmett/voxtype/internal/config"
	"github.com/emmett/voxtype/internal/models"
)

// ModelManager reports the model catalog and what auto-selection would pick
type ModelManager struct {
	dir    string
	memory func() (uint64, bool)
}

// NewModelManager creates a manager over the model directory
func NewModelManager(dir string) *ModelManager {
	return &ModelManager{dir: dir, memory: models.TotalMemoryGB}
}

// ListModels writes the catalog with install status and the active choice
func (m *ModelManager) ListModels(w io.Writer, settings config.AppConfig) error {
	fmt.Fprintf(w, "Model directory: %s\n\n", m.dir)

	for _, kind := range []models.Kind{models.KindASR, models.KindLLM} {
		fmt.Fprintf(w, "%s models:\n", kind.Label())
		for i, model := range models.List(m.dir, kind) {
			status := "Not installed"
			if model.Present {
				status = "✓ Installed"
			}
			fmt.Fprintf(w, "%d. %s", i+1, model.Name)
			if model.Alias != "" {
				fmt.Fprintf(w, " (%s)", model.Alias)
			}
			fmt.Fprintln(w)
			fmt.Fprintf(w, "   Size:     %s\n", model.Size)
			if model.Description != "" {
				fmt.Fprintf(w, "   Info:     %s\n", model.Description)
			}
			fmt.Fprintf(w, "   Status:   %s\n", status)
		}
		fmt.Fprintln(w)
	}

	asr, llm := m.Resolve(settings.Selection())
	fmt.Fprintf(w, "Output mode: %s\n", settings.OutputMode)
	fmt.Fprintf(w, "ASR choice:  %s -> %s\n", models.ChoiceToken(models.KindASR, settings.ASRModel), displayPath(asr))
	fmt.Fprintf(w, "LLM choice:  %s -> %s\n", models.ChoiceToken(models.KindLLM, settings.LLMModel), displayPath(llm))
	return nil
}

// Resolve returns the paths a refresh would load for sel, "" for none
func (m *ModelManager) Resolve(sel models.Selection) (asr, llm string) {
	memGB, ok := m.memory()
	if !ok {
		memGB = models.DefaultMemoryGB
	}
	return models.ResolveASR(m.dir, sel.ASR), models.ResolveLLM(m.dir, sel.LLM, memGB)
}

func displayPath(p string) string {
	if p == "" {
		return "none"
	}
	return filepath.Base(p)
}
