package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/emmett/voxtype/internal/input"
	"github.com/emmett/voxtype/internal/models"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Quality.MinSamples != 3200 || cfg.Timing.PasteSettle != 260*time.Millisecond {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadOverridesAndValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
paths:
  model_dir: /opt/models
timing:
  preview_hold: 500ms
  paste_settle: 300ms
hotkey:
  backend: register
server:
  grpc_port: 50051
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Paths.ModelDir != "/opt/models" || cfg.Timing.PreviewHold != 500*time.Millisecond {
		t.Fatalf("overrides not applied: %+v", cfg.Paths)
	}
	if cfg.Timing.ResultHold != 950*time.Millisecond {
		t.Fatalf("defaults lost: %v", cfg.Timing.ResultHold)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("hotkey:\n  backend: x11\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil || !strings.Contains(err.Error(), "invalid config") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSaveLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Server.GRPCPort = 9000
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Server.GRPCPort != 9000 || got.Timing.Ticker != 180*time.Millisecond {
		t.Fatalf("got %+v", got.Server)
	}
}

func TestParseAppConfig(t *testing.T) {
	src := `
# dictation settings
hotkey = ctrl+shift+space
output_mode=asr
asr_model=small
llm_model = qwen1.5
theme=dark
garbage line
`
	cfg, warnings, err := ParseAppConfig(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseAppConfig: %v", err)
	}
	want := AppConfig{
		Hotkey:     input.Spec{Key: "space", Mods: input.ModCtrl | input.ModShift},
		OutputMode: ModeASR,
		ASRModel:   "ggml-small.bin",
		LLMModel:   "qwen2.5-1.5b-q4_k_m.gguf",
	}
	if cfg != want {
		t.Fatalf("got %+v, want %+v", cfg, want)
	}
	if len(warnings) != 2 {
		t.Fatalf("warnings = %v", warnings)
	}
}

func TestParseAppConfigInvalidValuesKeepDefaults(t *testing.T) {
	cfg, warnings, err := ParseAppConfig(strings.NewReader("hotkey=ctrl+\noutput_mode=loud\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultAppConfig() || len(warnings) != 2 {
		t.Fatalf("cfg %+v warnings %v", cfg, warnings)
	}
}

func TestStoreMissingFileAndSave(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "voxtype.conf"))
	cfg, _, err := s.Load()
	if err != nil || cfg != DefaultAppConfig() {
		t.Fatalf("missing file: %+v %v", cfg, err)
	}

	cfg.OutputMode = ModeASR
	cfg.ASRModel = "ggml-base.bin"
	cfg.Hotkey = input.Spec{Key: "d", Mods: input.ModAlt}
	if err := s.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, _ := os.ReadFile(s.Path())
	if !strings.Contains(string(data), "asr_model=base") || !strings.Contains(string(data), "llm_model=auto") {
		t.Fatalf("file = %q", data)
	}
	got, _, err := s.Load()
	if err != nil || got != cfg {
		t.Fatalf("reloaded %+v, %v", got, err)
	}
	spec, err := s.Hotkey()
	if err != nil || spec != cfg.Hotkey {
		t.Fatalf("Hotkey = %+v %v", spec, err)
	}
	if cfg.Selection() != (models.Selection{ASR: "ggml-base.bin", LLM: models.Auto}) {
		t.Fatalf("selection = %+v", cfg.Selection())
	}
}
