package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/emmett/voxtype/internal/audio"
)

// TranscribeFunc runs mono samples at rate through the dictation stages
type TranscribeFunc func(ctx context.Context, samples []float32, rate uint32, refine bool) (Transcript, error)

var errNoAudio = errors.New("one of path or audio is required")

// loadAudio turns tool arguments into mono samples and their rate
func loadAudio(args TranscribeArgs) ([]float32, uint32, error) {
	switch {
	case args.Path != "" && args.Audio != "":
		return nil, 0, errors.New("path and audio are mutually exclusive")
	case args.Path != "":
		return audio.ReadWAV(args.Path)
	case args.Audio != "":
		data, err := base64.StdEncoding.DecodeString(args.Audio)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid base64 audio: %w", err)
		}
		if bytes.HasPrefix(data, []byte("RIFF")) {
			return audio.DecodeWAV(bytes.NewReader(data))
		}
		if len(data)%2 != 0 {
			return nil, 0, fmt.Errorf("raw PCM must be 16-bit, got %d bytes", len(data))
		}
		return audio.Decode(nil, data, audio.FormatS16, 1), audio.TargetRate, nil
	}
	return nil, 0, errNoAudio
}
