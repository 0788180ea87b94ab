package models

import "path/filepath"

// asrAutoOrder is tried in order when no ASR model is selected
var asrAutoOrder = []string{
	"ggml-small.bin",
	"ggml-base.bin",
	"ggml-tiny.bin",
	"ggml-medium.bin",
	"vosk-model-small-en-us-0.15",
	"vosk-model-en-us-0.22-lgraph",
	"vosk-model-en-us-0.22",
}

// llmFallbackOrder follows the memory-preferred model
var llmFallbackOrder = []string{
	"qwen2.5-1.5b-q4_k_m.gguf",
	"qwen2.5-0.5b-q4_k_m.gguf",
	"qwen2.5-3b-q4_k_m.gguf",
	"qwen3-4b-q4_k_m.gguf",
	"qwen2.5-7b-q4_k_m.gguf",
	"qwen3-8b-q4_k_m.gguf",
	"qwen2.5-14b-q4_k_m.gguf",
	"qwen3-14b-q4_k_m.gguf",
	"qwen3-30b-a3b-q4_k_m.gguf",
	"qwen2.5-32b-q4_k_m.gguf",
	"qwen3-32b-q4_k_m.gguf",
	"qwen2.5-72b-q4_k_m.gguf",
	"qwen2.5-coder-1.5b-q4_k_m.gguf",
	"qwen2.5-coder-0.5b-q4_k_m.gguf",
	"qwen2.5-coder-3b-q4_k_m.gguf",
	"qwen2.5-coder-7b-q4_k_m.gguf",
	"qwen2.5-coder-14b-q4_k_m.gguf",
	"qwen2.5-coder-32b-q4_k_m.gguf",
}

// memoryTiers maps an upper memory bound in GB to the preferred LLM
var memoryTiers = []struct {
	maxGB uint64
	name  string
}{
	{8, "qwen2.5-0.5b-q4_k_m.gguf"},
	{16, "qwen2.5-1.5b-q4_k_m.gguf"},
	{24, "qwen2.5-3b-q4_k_m.gguf"},
	{40, "qwen3-4b-q4_k_m.gguf"},
	{64, "qwen2.5-7b-q4_k_m.gguf"},
	{96, "qwen3-8b-q4_k_m.gguf"},
	{128, "qwen3-14b-q4_k_m.gguf"},
	{192, "qwen3-30b-a3b-q4_k_m.gguf"},
	{256, "qwen3-32b-q4_k_m.gguf"},
}

// DefaultMemoryGB is assumed when total memory cannot be read
const DefaultMemoryGB = 32

// PreferredLLM returns the model suited to a machine with memGB of RAM
func PreferredLLM(memGB uint64) string {
	for _, tier := range memoryTiers {
		if memGB <= tier.maxGB {
			return tier.name
		}
	}
	return "qwen2.5-72b-q4_k_m.gguf"
}

// LLMCandidates returns the auto-selection order for memGB, without duplicates
func LLMCandidates(memGB uint64) []string {
	out := make([]string, 0, len(llmFallbackOrder)+1)
	seen := make(map[string]bool, len(llmFallbackOrder)+1)
	for _, name := range append([]string{PreferredLLM(memGB)}, llmFallbackOrder...) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// ResolveASR returns the ASR model path to use, "" when none exists
func ResolveASR(base, choice string) string {
	if p, ok := explicit(base, choice); ok {
		return p
	}
	return firstExisting(base, asrAutoOrder)
}

// ResolveLLM returns the LLM model path to use, "" when none exists
func ResolveLLM(base, choice string, memGB uint64) string {
	if p, ok := explicit(base, choice); ok {
		return p
	}
	return firstExisting(base, LLMCandidates(memGB))
}

func explicit(base, choice string) (string, bool) {
	if choice == "" || choice == Auto {
		return "", false
	}
	p := choice
	if !filepath.IsAbs(p) {
		p = filepath.Join(base, choice)
	}
	return p, exists(p)
}

func firstExisting(base string, names []string) string {
	for _, name := range names {
		if p := filepath.Join(base, name); exists(p) {
			return p
		}
	}
	return ""
}
