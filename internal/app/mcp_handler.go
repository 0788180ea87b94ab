package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/emmett/voxtype/internal/config"
	"github.com/emmett/voxtype/internal/output"
	"github.com/emmett/voxtype/internal/server/mcp"
)

// MCPHandler handles MCP server operations
type MCPHandler struct {
	config    *config.Config
	version   string
	gitCommit string
	stderr    io.Writer
}

// NewMCPHandler creates a new MCP handler
func NewMCPHandler(cfg *config.Config, version, gitCommit string) *MCPHandler {
	return &MCPHandler{
		config:    cfg,
		version:   version,
		gitCommit: gitCommit,
		stderr:    os.Stderr,
	}
}

// Run serves the MCP tools on stdio until ctx is done
func (h *MCPHandler) Run(ctx context.Context) error {
	fmt.Fprintf(h.stderr, "Starting MCP server...\n")
	fmt.Fprintf(h.stderr, "Protocol: Model Context Protocol (stdio transport)\n")
	fmt.Fprintf(h.stderr, "Version: %s (commit: %s)\n", h.version, h.gitCommit)
	fmt.Fprintf(h.stderr, "Model directory: %s\n\n", h.config.Paths.ModelDir)

	h.printClientConfig()

	manager := OpenModels(h.config, output.Nop{})
	defer manager.Close()

	transcriber := NewFileTranscriber(h.config, config.NewStore(h.config.Paths.AppConfig), manager)
	server := mcp.NewServer(mcp.Config{
		ServerName:    "voxtype-mcp",
		ServerVersion: h.version,
		ModelDir:      h.config.Paths.ModelDir,
	}, transcribeTool(transcriber))

	fmt.Fprintf(h.stderr, "MCP server ready. Listening on stdin/stdout...\n")
	if err := server.Start(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// printClientConfig shows the snippet MCP clients need to launch this binary
func (h *MCPHandler) printClientConfig() {
	execPath, err := os.Executable()
	if err != nil {
		execPath = "voxtype-mcp"
	}

	type MCPServerConfig struct {
		Command string   `json:"command"`
		Args    []string `json:"args"`
	}
	type MCPClientConfig struct {
		MCPServers map[string]MCPServerConfig `json:"mcpServers"`
	}

	clientConfig := MCPClientConfig{
		MCPServers: map[string]MCPServerConfig{
			"voxtype": {Command: execPath, Args: []string{}},
		},
	}
	configJSON, err := json.MarshalIndent(clientConfig, "", "  ")
	if err == nil {
		fmt.Fprintf(h.stderr, "MCP Client Configuration:\n%s\n\n", string(configJSON))
	}
}

// transcribeTool adapts a Transcriber to the transcribe_wav tool
func transcribeTool(t *Transcriber) mcp.TranscribeFunc {
	return func(ctx context.Context, samples []float32, rate uint32, refine bool) (mcp.Transcript, error) {
		res, err := t.Transcribe(ctx, samples, rate, refine)
		if err != nil {
			return mcp.Transcript{}, err
		}
		return mcp.Transcript{
			Text:     res.Text,
			Raw:      res.Raw,
			Refined:  res.Refined,
			Fallback: res.Fallback,
			Duration: res.Duration.Seconds(),
			Model:    res.Model,
		}, nil
	}
}
