package output

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Event represents one sink update
type Event struct {
	Type      string    `json:"type"`
	Message   string    `json:"message,omitempty"`
	Samples   int       `json:"samples,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// JSONFormatter writes every sink update as one JSON line, for scripting
// and for replaying what a cycle showed
type JSONFormatter struct {
	mu      sync.Mutex
	encoder *json.Encoder
	now     func() time.Time
}

// NewJSONFormatter creates a new JSON event writer
func NewJSONFormatter(writer io.Writer) *JSONFormatter {
	return &JSONFormatter{encoder: json.NewEncoder(writer), now: time.Now}
}

// WriteEvent writes a single event
func (j *JSONFormatter) WriteEvent(eventType, message string) error {
	return j.write(Event{Type: eventType, Message: message})
}

func (j *JSONFormatter) write(ev Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	ev.Timestamp = j.now()
	return j.encoder.Encode(ev)
}

func (j *JSONFormatter) SetState(state string)  { _ = j.WriteEvent("state", state) }
func (j *JSONFormatter) SetHint(text string)    { _ = j.WriteEvent("hint", text) }
func (j *JSONFormatter) SetASR(label string)    { _ = j.WriteEvent("asr", label) }
func (j *JSONFormatter) SetOutput(label string) { _ = j.WriteEvent("output", label) }
func (j *JSONFormatter) SetPreview(text string) { _ = j.WriteEvent("preview", text) }

func (j *JSONFormatter) SetProgress(elapsed time.Duration, samples int) {
	_ = j.write(Event{Type: "progress", Message: elapsed.Round(time.Millisecond).String(), Samples: samples})
}

func (j *JSONFormatter) ShowRecording()        { _ = j.WriteEvent("recording", "") }
func (j *JSONFormatter) ShowTranscribing()     { _ = j.WriteEvent("transcribing", "") }
func (j *JSONFormatter) ShowRefining()         { _ = j.WriteEvent("refining", "") }
func (j *JSONFormatter) ShowError(text string) { _ = j.WriteEvent("error", text) }
func (j *JSONFormatter) ShowInjected()         { _ = j.WriteEvent("injected", "") }
func (j *JSONFormatter) FadeOut()              { _ = j.WriteEvent("fade", "") }
