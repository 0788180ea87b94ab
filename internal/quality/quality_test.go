package quality

import (
	"math"
	"testing"

	"github.com/emmett/voxtype/internal/fault"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" a   b\n\tc ", "a b c"},
		{"", ""},
		{"\n\n", ""},
		{"hello", "hello"},
		{"你好　世界", "你好 世界"}, // ideographic space
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestShouldDrop(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"a", true},
		{" . ", true},
		{"o.", true},
		{"嗯。", true},
		{"ok", false},
		{"hello there", false},
		{"Please provide audio content.", true},
		{"  please PROVIDE   audio content ", true},
		{"请提供音频内容。", true},
		{"please provide audio content for the meeting tomorrow", false},
	}
	for _, tt := range tests {
		if got := ShouldDrop(tt.in); got != tt.want {
			t.Errorf("ShouldDrop(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRMS(t *testing.T) {
	if RMS(nil) != 0 {
		t.Fatalf("RMS(nil) != 0")
	}
	got := RMS([]float32{0.5, -0.5, 0.5, -0.5})
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("RMS = %v, want 0.5", got)
	}
}

func constant(n int, v float32) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func TestGateCheck(t *testing.T) {
	g := DefaultGate()
	tests := []struct {
		name   string
		in     []float32
		reason string
	}{
		{"too short", constant(DefaultMinSamples-1, 0.3), fault.ReasonTooShort},
		{"near-zero amplitude", constant(3*16000, 0.0001), fault.ReasonSilence},
		{"digital silence", constant(16000, 0), fault.ReasonSilence},
		{"speech level", constant(16000, 0.05), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Check(tt.in)
			if tt.reason == "" {
				if err != nil {
					t.Fatalf("unexpected rejection: %v", err)
				}
				return
			}
			if !fault.Is(err, fault.QualityRejected) || fault.ReasonOf(err) != tt.reason {
				t.Fatalf("err = %v (reason %q), want reason %q", err, fault.ReasonOf(err), tt.reason)
			}
		})
	}
}
