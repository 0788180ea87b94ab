// Package mcp serves file transcription and model resolution as Model
// Context Protocol tools over stdio.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/emmett/voxtype/internal/logger"
	"github.com/emmett/voxtype/internal/models"
)

// Config holds MCP server configuration
type Config struct {
	ServerName    string
	ServerVersion string
	ModelDir      string

	// Memory reports total RAM in GB; nil uses models.TotalMemoryGB
	Memory func() (uint64, bool)
}

// Server registers the dictation tools on an MCP server
type Server struct {
	config     Config
	mcpServer  *sdk.Server
	transcribe TranscribeFunc
	log        *logger.Logger
}

// NewServer creates a server whose transcribe_wav tool calls transcribe
func NewServer(cfg Config, transcribe TranscribeFunc) *Server {
	if cfg.Memory == nil {
		cfg.Memory = models.TotalMemoryGB
	}
	s := &Server{
		config:     cfg,
		transcribe: transcribe,
		log:        logger.Named("mcp"),
	}

	// Create MCP server
	s.mcpServer = sdk.NewServer(&sdk.Implementation{
		Name:    cfg.ServerName,
		Version: cfg.ServerVersion,
	}, nil)

	// Register tools
	s.registerTools()

	return s
}

// Start serves on stdin/stdout until ctx is done or the client disconnects
func (s *Server) Start(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &sdk.StdioTransport{})
}

// Connect serves one session over t
func (s *Server) Connect(ctx context.Context, t sdk.Transport) (*sdk.ServerSession, error) {
	return s.mcpServer.Connect(ctx, t, nil)
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "transcribe_wav",
		Description: "Transcribe a WAV recording with the local speech model, optionally refined by the local language model",
	}, s.handleTranscribeWAV)

	sdk.AddTool(s.mcpServer, &sdk.Tool{
		Name:        "resolve_models",
		Description: "Show which speech and language model files a choice resolves to",
	}, s.handleResolveModels)
}
