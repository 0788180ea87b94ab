package stt

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

func TestDetectBackend(t *testing.T) {
	dir := t.TempDir()
	ggml := filepath.Join(dir, "ggml-base.bin")
	if err := os.WriteFile(ggml, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	voskDir := filepath.Join(dir, "vosk-model-small-en-us-0.15")
	if err := os.Mkdir(voskDir, 0o755); err != nil {
		t.Fatal(err)
	}
	gguf := filepath.Join(dir, "qwen2.5-0.5b-q4_k_m.gguf")
	if err := os.WriteFile(gguf, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		want    Backend
		wantErr error
	}{
		{"ggml file", ggml, BackendWhisper, nil},
		{"vosk dir", voskDir, BackendVosk, nil},
		{"llm file", gguf, "", ErrUnknownModel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectBackend(tt.path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("got %q, %v", got, err)
			}
		})
	}

	if _, err := DetectBackend(filepath.Join(dir, "missing.bin")); err == nil {
		t.Fatalf("missing file should fail")
	}
}

func TestParseVosk(t *testing.T) {
	got, err := parseVosk(`{"text": " hello world "}`, false)
	if err != nil || got != "hello world" {
		t.Fatalf("final = %q, %v", got, err)
	}
	got, err = parseVosk(`{"partial": "hel"}`, true)
	if err != nil || got != "hel" {
		t.Fatalf("partial = %q, %v", got, err)
	}
	if _, err := parseVosk(`not json`, false); err == nil {
		t.Fatalf("expected parse error")
	}
}

// whisperProcess is the decode signature of the pinned whisper bindings
type whisperProcess interface {
	Process([]float32, whisper.SegmentCallback, whisper.ProgressCallback) error
}

var _ whisperProcess = whisper.Context(nil)

func TestSegmentCollector(t *testing.T) {
	var previews []string
	c := &segmentCollector{onSegment: func(s string) { previews = append(previews, s) }}

	var cb whisper.SegmentCallback = c.add
	cb(whisper.Segment{Text: " Hello"})
	cb(whisper.Segment{Text: "  "})
	cb(whisper.Segment{Text: "world. "})

	if got := c.text(); got != "Hello world." {
		t.Fatalf("text() = %q", got)
	}
	want := []string{"Hello", "Hello world."}
	if len(previews) != len(want) || previews[0] != want[0] || previews[1] != want[1] {
		t.Fatalf("previews = %q, want %q", previews, want)
	}
}
