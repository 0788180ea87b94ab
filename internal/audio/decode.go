package audio

import (
	"encoding/binary"
	"math"
)

// SampleFormat is the encoding of one sample in a raw device frame
type SampleFormat int

const (
	FormatUnknown SampleFormat = iota
	FormatF32
	FormatS16
	FormatU16
)

func (f SampleFormat) String() string {
	switch f {
	case FormatF32:
		return "f32"
	case FormatS16:
		return "s16"
	case FormatU16:
		return "u16"
	default:
		return "unknown"
	}
}

// BytesPerSample returns the width of one sample, or 0 for unknown formats
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case FormatF32:
		return 4
	case FormatS16, FormatU16:
		return 2
	default:
		return 0
	}
}

// Decode appends the mono samples contained in raw (little-endian, interleaved
// channels) to dst. Multi-channel frames are averaged. Trailing partial frames
// are ignored.
func Decode(dst []float32, raw []byte, format SampleFormat, channels int) []float32 {
	width := format.BytesPerSample()
	if width == 0 || channels <= 0 {
		return dst
	}

	frameBytes := width * channels
	frames := len(raw) / frameBytes
	for f := 0; f < frames; f++ {
		frame := raw[f*frameBytes : (f+1)*frameBytes]
		var sum float32
		for c := 0; c < channels; c++ {
			sum += decodeSample(frame[c*width:], format)
		}
		dst = append(dst, sum/float32(channels))
	}
	return dst
}

func decodeSample(b []byte, format SampleFormat) float32 {
	switch format {
	case FormatF32:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case FormatS16:
		return float32(int16(binary.LittleEndian.Uint16(b))) / 32767
	case FormatU16:
		return float32(binary.LittleEndian.Uint16(b))/65535*2 - 1
	default:
		return 0
	}
}

// PCM16 encodes mono float samples as little-endian signed 16-bit PCM,
// clamping to [-1, 1].
func PCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(toInt16(s)))
	}
	return out
}

func toInt16(s float32) int16 {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int16(s * 32767)
}
