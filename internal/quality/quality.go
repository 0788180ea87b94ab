// Package quality holds the heuristics that decide whether captured audio and
// transcripts are worth passing further down the dictation pipeline.
package quality

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/emmett/voxtype/internal/fault"
)

const (
	// DefaultSilenceRMS is the RMS level below which a capture counts as silence
	DefaultSilenceRMS = 0.0015

	// DefaultMinSamples is 0.2s at 16 kHz
	DefaultMinSamples = 3200
)

// punctuation is stripped before the visible-length and template checks
const punctuation = ".,!?;:'\"`~-_()[]{}<>/\\|@#$%^&*+=" +
	"…。，！？；：、“”‘’（）【】《》〈〉「」『』·—～"

// templatePhrases are outputs models produce when fed no real speech.
// Stored in canonical form (see canonical).
var templatePhrases = buildTemplates(
	"please provide audio content",
	"please provide the audio content",
	"please provide the audio",
	"please provide the text",
	"please provide the text you want me to polish",
	"thank you for watching",
	"thanks for watching",
	"subtitles by the amara.org community",
	"请提供音频内容",
	"请提供需要润色的文本",
	"请提供需要整理的文本",
	"请提供ASR文本",
	"谢谢观看",
	"感谢观看",
	"字幕由Amara.org社区提供",
	"请不吝点赞 订阅 转发 打赏支持明镜与点点栏目",
)

func buildTemplates(phrases ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(phrases))
	for _, p := range phrases {
		m[canonical(p)] = struct{}{}
	}
	return m
}

// Normalize collapses every whitespace run to one space and trims the ends
func Normalize(text string) string {
	return strings.Join(strings.Fields(norm.NFC.String(text)), " ")
}

// RMS returns sqrt(mean(x^2)), 0 for empty input
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		x := float64(s)
		sum += x * x
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// ShouldDrop reports whether a transcript or refinement is unusable
func ShouldDrop(text string) bool {
	text = Normalize(text)
	if text == "" {
		return true
	}
	if IsTemplateNoise(text) {
		return true
	}
	return visibleLen(text) <= 1
}

// IsTemplateNoise reports whether text is one of the known degenerate phrases
func IsTemplateNoise(text string) bool {
	c := canonical(text)
	if c == "" {
		return false
	}
	_, ok := templatePhrases[c]
	return ok
}

// canonical lower-cases and removes whitespace and punctuation
func canonical(text string) string {
	var b strings.Builder
	for _, r := range norm.NFC.String(text) {
		if unicode.IsSpace(r) || strings.ContainsRune(punctuation, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func visibleLen(text string) int {
	n := 0
	for _, r := range text {
		if unicode.IsSpace(r) || strings.ContainsRune(punctuation, r) {
			continue
		}
		n++
		if n > 1 {
			return n
		}
	}
	return n
}

// Gate applies the audio checks that run before transcription
type Gate struct {
	SilenceRMS float64
	MinSamples int
}

// DefaultGate returns the gate with the default thresholds
func DefaultGate() Gate {
	return Gate{SilenceRMS: DefaultSilenceRMS, MinSamples: DefaultMinSamples}
}

// Check returns a QualityRejected error when samples are too short or silent
func (g Gate) Check(samples []float32) error {
	if len(samples) < g.MinSamples {
		return fault.Rejected(fault.ReasonTooShort, "recording too short")
	}
	if RMS(samples) < g.SilenceRMS {
		return fault.Rejected(fault.ReasonSilence, "no speech detected")
	}
	return nil
}
