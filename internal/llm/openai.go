package llm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Options configures the OpenAI-compatible endpoint that serves local models
type Options struct {
	// BaseURL of a local OpenAI-compatible server, e.g. llama-server
	BaseURL string

	// APIKey is sent as a bearer token; local servers usually ignore it
	APIKey string

	// RequestTimeout bounds a single HTTP request, 0 = none
	RequestTimeout time.Duration
}

// DefaultOptions returns the endpoint defaults
func DefaultOptions() Options {
	return Options{
		BaseURL: "http://127.0.0.1:8080/v1",
		APIKey:  "local",
	}
}

// OpenAISession sends prompts for one gguf model to the local server.
// The model is addressed by its file name without extension.
type OpenAISession struct {
	client openai.Client
	model  string

	mu      sync.Mutex
	history []openai.ChatCompletionMessageParamUnion
}

// Open creates a session for the model file at path
func Open(path string, opts Options) (*OpenAISession, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat model %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("model %s is a directory", path)
	}

	reqOpts := []option.RequestOption{
		option.WithBaseURL(opts.BaseURL),
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.RequestTimeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.RequestTimeout))
	}

	return &OpenAISession{
		client: openai.NewClient(reqOpts...),
		model:  ModelName(path),
	}, nil
}

// ModelName maps a model file path to the name the server knows it by
func ModelName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Model returns the model name requests are sent for
func (s *OpenAISession) Model() string { return s.model }

// Clear drops the conversation history
func (s *OpenAISession) Clear() {
	s.mu.Lock()
	s.history = nil
	s.mu.Unlock()
}

// Send appends prompt to the conversation and returns the reply
func (s *OpenAISession) Send(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages := append(append([]openai.ChatCompletionMessageParamUnion(nil), s.history...), openai.UserMessage(prompt))

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(s.model),
		Messages:    messages,
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	reply := resp.Choices[0].Message.Content
	s.history = append(messages, openai.AssistantMessage(reply))
	return reply, nil
}

// Close releases the session; the server keeps its own model cache
func (s *OpenAISession) Close() error {
	s.Clear()
	return nil
}
