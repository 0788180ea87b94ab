package stt

import (
	"encoding/json"
	"fmt"
	"strings"

	vosk "github.com/alphacep/vosk-api/go"

	"github.com/emmett/voxtype/internal/audio"
)

// voskChunkSamples is how much audio is fed per AcceptWaveform call (0.2s)
const voskChunkSamples = audio.TargetRate / 5

// VoskSession runs Vosk model directories
type VoskSession struct {
	model *vosk.VoskModel
}

// voskResult represents the JSON result from Vosk
type voskResult struct {
	Text    string `json:"text"`
	Partial string `json:"partial,omitempty"`
}

// NewVoskSession loads a Vosk model directory
func NewVoskSession(path string) (*VoskSession, error) {
	// Suppress logs
	vosk.SetLogLevel(-1)

	model, err := vosk.NewModel(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load model from %s: %w", path, err)
	}
	if model == nil {
		return nil, fmt.Errorf("failed to load model from %s: model returned nil", path)
	}
	return &VoskSession{model: model}, nil
}

// TranscribeWithProgress feeds samples in chunks, reporting committed
// phrases plus the current partial as the running preview
func (v *VoskSession) TranscribeWithProgress(samples []float32, onSegment SegmentFunc) (string, error) {
	if v.model == nil {
		return "", fmt.Errorf("vosk session closed")
	}

	// A recognizer per call keeps cycles independent
	recognizer, err := vosk.NewRecognizer(v.model, float64(audio.TargetRate))
	if err != nil {
		return "", fmt.Errorf("failed to create recognizer: %w", err)
	}
	defer recognizer.Free()

	var committed []string
	preview := func(partial string) {
		if onSegment == nil {
			return
		}
		parts := append(append([]string(nil), committed...), partial)
		if text := strings.TrimSpace(strings.Join(parts, " ")); text != "" {
			onSegment(text)
		}
	}

	for start := 0; start < len(samples); start += voskChunkSamples {
		end := min(start+voskChunkSamples, len(samples))
		chunk := audio.PCM16(samples[start:end])

		if recognizer.AcceptWaveform(chunk) > 0 {
			text, err := parseVosk(recognizer.Result(), false)
			if err != nil {
				return "", err
			}
			if text != "" {
				committed = append(committed, text)
				preview("")
			}
			continue
		}

		partial, err := parseVosk(recognizer.PartialResult(), true)
		if err != nil {
			return "", err
		}
		preview(partial)
	}

	final, err := parseVosk(recognizer.FinalResult(), false)
	if err != nil {
		return "", err
	}
	if final != "" {
		committed = append(committed, final)
	}
	return strings.Join(committed, " "), nil
}

// Close releases the model
func (v *VoskSession) Close() error {
	if v.model != nil {
		v.model.Free()
		v.model = nil
	}
	return nil
}

func parseVosk(raw string, partial bool) (string, error) {
	var r voskResult
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return "", fmt.Errorf("failed to parse vosk result: %w", err)
	}
	if partial {
		return strings.TrimSpace(r.Partial), nil
	}
	return strings.TrimSpace(r.Text), nil
}
