package mcp

// TranscribeArgs are the transcribe_wav tool arguments. Exactly one of
// Path and Audio is required.
type TranscribeArgs struct {
	Path   string `json:"path,omitempty" jsonschema:"Path to a PCM WAV file readable by the server"`
	Audio  string `json:"audio,omitempty" jsonschema:"Base64-encoded WAV file, or raw 16kHz mono 16-bit PCM"`
	Refine bool   `json:"refine,omitempty" jsonschema:"Rewrite the transcript with the local language model"`
}

// Transcript is the transcribe_wav tool result
type Transcript struct {
	Text     string  `json:"text"`
	Raw      string  `json:"raw"`
	Refined  bool    `json:"refined"`
	Fallback string  `json:"fallback,omitempty"`
	Duration float64 `json:"duration"` // seconds of 16 kHz audio
	Model    string  `json:"model"`
}

// ResolveArgs are the resolve_models tool arguments
type ResolveArgs struct {
	ASR string `json:"asr,omitempty" jsonschema:"ASR choice: auto, an alias such as small, or a file name"`
	LLM string `json:"llm,omitempty" jsonschema:"LLM choice: auto, an alias such as qwen1.5, or a file name"`
}

// Resolution is the resolve_models tool result
type Resolution struct {
	ASR       string   `json:"asr"`
	LLM       string   `json:"llm"`
	MemoryGB  uint64   `json:"memory_gb"`
	Installed []string `json:"installed"`
}
