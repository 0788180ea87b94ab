package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/emmett/voxtype/internal/input"
	"github.com/emmett/voxtype/internal/models"
)

// OutputMode selects whether transcripts are refined before injection
type OutputMode string

const (
	// ModeASR injects the raw transcript
	ModeASR OutputMode = "asr"

	// ModeLLM refines the transcript with the language model first
	ModeLLM OutputMode = "llm"
)

// ParseOutputMode accepts the config tokens for an output mode
func ParseOutputMode(s string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asr", "raw":
		return ModeASR, nil
	case "llm", "refine", "refined":
		return ModeLLM, nil
	default:
		return "", fmt.Errorf("unknown output mode %q", s)
	}
}

// AppConfig is the user's dictation settings snapshot
type AppConfig struct {
	Hotkey     input.Spec
	OutputMode OutputMode
	ASRModel   string // models.Auto or a model name
	LLMModel   string // models.Auto or a model name
}

// DefaultAppConfig returns the settings used when the file is absent
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Hotkey:     input.DefaultSpec,
		OutputMode: ModeLLM,
		ASRModel:   models.Auto,
		LLMModel:   models.Auto,
	}
}

// Selection returns the model selection for the lifecycle manager
func (a AppConfig) Selection() models.Selection {
	return models.Selection{ASR: a.ASRModel, LLM: a.LLMModel}
}

// ParseAppConfig reads key=value lines. Blank lines, # comments, unknown
// keys and invalid values are skipped so a half-edited file still loads.
// Skipped lines are returned as warnings.
func ParseAppConfig(r io.Reader) (AppConfig, []string, error) {
	cfg := DefaultAppConfig()
	var warnings []string

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			warnings = append(warnings, fmt.Sprintf("line %d: missing '='", lineNo))
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		var err error
		switch key {
		case "hotkey":
			var spec input.Spec
			if spec, err = input.ParseSpec(value); err == nil {
				cfg.Hotkey = spec
			}
		case "output_mode":
			var mode OutputMode
			if mode, err = ParseOutputMode(value); err == nil {
				cfg.OutputMode = mode
			}
		case "asr_model":
			var choice string
			if choice, err = models.ParseChoice(models.KindASR, value); err == nil {
				cfg.ASRModel = choice
			}
		case "llm_model":
			var choice string
			if choice, err = models.ParseChoice(models.KindLLM, value); err == nil {
				cfg.LLMModel = choice
			}
		default:
			err = fmt.Errorf("unknown key %q", key)
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: %v", lineNo, err))
		}
	}
	if err := scanner.Err(); err != nil {
		return cfg, warnings, fmt.Errorf("failed to read app config: %w", err)
	}
	return cfg, warnings, nil
}

// Encode writes cfg as key=value lines
func (a AppConfig) Encode(w io.Writer) error {
	_, err := fmt.Fprintf(w, "hotkey=%s\noutput_mode=%s\nasr_model=%s\nllm_model=%s\n",
		a.Hotkey.String(),
		a.OutputMode,
		models.ChoiceToken(models.KindASR, a.ASRModel),
		models.ChoiceToken(models.KindLLM, a.LLMModel),
	)
	return err
}

// Store is the key=value file holding the AppConfig. It is re-read on every
// Load because a settings UI may rewrite it at any time.
type Store struct {
	path string
}

// NewStore creates a store backed by path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file
func (s *Store) Path() string { return s.path }

// Load reads the current snapshot; a missing file yields the defaults
func (s *Store) Load() (AppConfig, []string, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultAppConfig(), nil, nil
	}
	if err != nil {
		return DefaultAppConfig(), nil, fmt.Errorf("failed to open app config: %w", err)
	}
	defer f.Close()
	return ParseAppConfig(f)
}

// Hotkey returns only the hotkey binding, for the watcher
func (s *Store) Hotkey() (input.Spec, error) {
	cfg, _, err := s.Load()
	if err != nil {
		return input.Spec{}, err
	}
	return cfg.Hotkey, nil
}

// Save writes cfg atomically via a temp file and rename
func (s *Store) Save(cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".voxtype-*.conf")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := cfg.Encode(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write app config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write app config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace app config: %w", err)
	}
	return nil
}
