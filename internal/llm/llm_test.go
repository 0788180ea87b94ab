package llm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pemistahl/lingua-go"
)

func TestModelName(t *testing.T) {
	tests := map[string]string{
		"/m/qwen2.5-1.5b-q4_k_m.gguf": "qwen2.5-1.5b-q4_k_m",
		"qwen3-4b-q4_k_m.gguf":        "qwen3-4b-q4_k_m",
		"plain":                       "plain",
	}
	for in, want := range tests {
		if got := ModelName(in); got != want {
			t.Errorf("ModelName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOpenRequiresFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(filepath.Join(dir, "missing.gguf"), DefaultOptions()); err == nil {
		t.Fatalf("missing model should fail")
	}
	if _, err := Open(dir, DefaultOptions()); err == nil {
		t.Fatalf("directory should fail")
	}

	path := filepath.Join(dir, "qwen2.5-0.5b-q4_k_m.gguf")
	if err := os.WriteFile(path, []byte("gguf"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Open(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Model() != "qwen2.5-0.5b-q4_k_m" {
		t.Fatalf("model = %q", s.Model())
	}
	s.Clear()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestPromptBuilderPicksTemplate(t *testing.T) {
	b := NewPromptBuilder()

	zh := b.Build("今天下午我们开会讨论一下这个 bug")
	if !strings.HasPrefix(zh, "你是输入法润色器") || !strings.HasSuffix(zh, "这个 bug") {
		t.Fatalf("zh prompt = %q", zh)
	}

	en := b.Build("please send the quarterly report to the whole team by friday")
	if !strings.HasPrefix(en, "You are an input-method text polisher") {
		t.Fatalf("en prompt = %q", en)
	}
	if b.Language("hello there my friend, how are you doing today") != lingua.English {
		t.Fatalf("expected English detection")
	}
}
