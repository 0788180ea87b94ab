package mcp

import (
	"context"
	"fmt"
	"path/filepath"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/emmett/voxtype/internal/models"
)

func (s *Server) handleTranscribeWAV(ctx context.Context, req *sdk.CallToolRequest, args TranscribeArgs) (*sdk.CallToolResult, Transcript, error) {
	samples, rate, err := loadAudio(args)
	if err != nil {
		return nil, Transcript{}, err
	}

	result, err := s.transcribe(ctx, samples, rate, args.Refine)
	if err != nil {
		s.log.Info().Err(err).Msg("transcribe_wav failed")
		return nil, Transcript{}, fmt.Errorf("transcription failed: %w", err)
	}
	return nil, result, nil
}

func (s *Server) handleResolveModels(ctx context.Context, req *sdk.CallToolRequest, args ResolveArgs) (*sdk.CallToolResult, Resolution, error) {
	asrChoice, err := models.ParseChoice(models.KindASR, args.ASR)
	if err != nil {
		return nil, Resolution{}, err
	}
	llmChoice, err := models.ParseChoice(models.KindLLM, args.LLM)
	if err != nil {
		return nil, Resolution{}, err
	}

	memGB, ok := s.config.Memory()
	if !ok {
		memGB = models.DefaultMemoryGB
	}

	res := Resolution{
		ASR:       base(models.ResolveASR(s.config.ModelDir, asrChoice)),
		LLM:       base(models.ResolveLLM(s.config.ModelDir, llmChoice, memGB)),
		MemoryGB:  memGB,
		Installed: []string{},
	}
	for _, kind := range []models.Kind{models.KindASR, models.KindLLM} {
		for _, m := range models.List(s.config.ModelDir, kind) {
			if m.Present {
				res.Installed = append(res.Installed, m.Name)
			}
		}
	}
	return nil, res, nil
}

func base(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Base(p)
}
