package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Kind is the role a model plays in the pipeline
type Kind string

const (
	KindASR Kind = "asr"
	KindLLM Kind = "llm"
)

// Label returns the display name of the kind
func (k Kind) Label() string { return strings.ToUpper(string(k)) }

// Auto selects a model by priority instead of by name
const Auto = "auto"

// Model is a known model file or directory
type Model struct {
	Name        string // file or directory name under the model dir
	Alias       string // short config token, optional
	Kind        Kind
	Size        string
	Description string
}

// ASRModels are the known speech recognition models
var ASRModels = []Model{
	{Name: "ggml-tiny.bin", Alias: "tiny", Kind: KindASR, Size: "75M", Description: "Whisper tiny, fastest"},
	{Name: "ggml-base.bin", Alias: "base", Kind: KindASR, Size: "142M", Description: "Whisper base"},
	{Name: "ggml-small.bin", Alias: "small", Kind: KindASR, Size: "466M", Description: "Whisper small, default"},
	{Name: "ggml-medium.bin", Alias: "medium", Kind: KindASR, Size: "1.5G", Description: "Whisper medium, most accurate"},
	{Name: "vosk-model-small-en-us-0.15", Kind: KindASR, Size: "40M", Description: "Vosk English, lightweight"},
	{Name: "vosk-model-en-us-0.22-lgraph", Kind: KindASR, Size: "128M", Description: "Vosk English, balanced"},
	{Name: "vosk-model-en-us-0.22", Kind: KindASR, Size: "1.8G", Description: "Vosk English, large"},
}

// LLMModels are the known refinement models
var LLMModels = []Model{
	{Name: "qwen2.5-0.5b-q4_k_m.gguf", Alias: "qwen0.5", Kind: KindLLM, Size: "398M"},
	{Name: "qwen2.5-1.5b-q4_k_m.gguf", Alias: "qwen1.5", Kind: KindLLM, Size: "1.1G"},
	{Name: "qwen2.5-3b-q4_k_m.gguf", Alias: "qwen3", Kind: KindLLM, Size: "2.1G"},
	{Name: "qwen2.5-7b-q4_k_m.gguf", Alias: "qwen7", Kind: KindLLM, Size: "4.7G"},
	{Name: "qwen3-4b-q4_k_m.gguf", Kind: KindLLM, Size: "2.5G"},
	{Name: "qwen3-8b-q4_k_m.gguf", Kind: KindLLM, Size: "5.0G"},
	{Name: "qwen3-14b-q4_k_m.gguf", Kind: KindLLM, Size: "9.0G"},
	{Name: "qwen3-30b-a3b-q4_k_m.gguf", Kind: KindLLM, Size: "18G"},
	{Name: "qwen3-32b-q4_k_m.gguf", Kind: KindLLM, Size: "20G"},
	{Name: "qwen2.5-72b-q4_k_m.gguf", Kind: KindLLM, Size: "47G"},
}

// Catalog returns the known models of kind
func Catalog(kind Kind) []Model {
	if kind == KindLLM {
		return LLMModels
	}
	return ASRModels
}

// ParseChoice turns a config token into Auto or a model name. Aliases map to
// file names; anything that looks like a file name is taken as-is.
func ParseChoice(kind Kind, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" || strings.EqualFold(token, Auto) {
		return Auto, nil
	}
	lower := strings.ToLower(token)
	for _, m := range Catalog(kind) {
		if m.Alias != "" && m.Alias == lower {
			return m.Name, nil
		}
		if m.Name == token {
			return m.Name, nil
		}
	}
	if strings.ContainsAny(token, "./") || strings.HasPrefix(lower, "vosk-model") {
		return token, nil
	}
	return "", fmt.Errorf("unknown %s model %q", kind, token)
}

// ChoiceToken returns the shortest config token for a choice
func ChoiceToken(kind Kind, choice string) string {
	for _, m := range Catalog(kind) {
		if m.Name == choice && m.Alias != "" {
			return m.Alias
		}
	}
	return choice
}

// Installed is a catalog entry with its on-disk status
type Installed struct {
	Model
	Path    string
	Present bool
}

// List reports which catalog models of kind exist under base
func List(base string, kind Kind) []Installed {
	out := make([]Installed, 0, len(Catalog(kind)))
	for _, m := range Catalog(kind) {
		p := filepath.Join(base, m.Name)
		out = append(out, Installed{Model: m, Path: p, Present: exists(p)})
	}
	return out
}

// DefaultDir returns the model directory used when none is configured
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "models"
	}
	return filepath.Join(home, ".voxtype", "models")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
