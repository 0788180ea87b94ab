package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ConsoleOutput renders pipeline status on a terminal
type ConsoleOutput struct {
	mu            sync.Mutex
	writer        io.Writer
	showTimestamp bool
	status        bool // an overwritable status line is on screen
}

// ConsoleConfig configures console output behavior
type ConsoleConfig struct {
	// ShowTimestamp prefixes each line with a timestamp
	ShowTimestamp bool

	// Writer is the output destination (default: os.Stdout)
	Writer io.Writer
}

// NewConsoleOutput creates a new console output handler
func NewConsoleOutput(config ConsoleConfig) *ConsoleOutput {
	writer := config.Writer
	if writer == nil {
		writer = os.Stdout
	}

	return &ConsoleOutput{
		writer:        writer,
		showTimestamp: config.ShowTimestamp,
	}
}

// DefaultConsoleOutput creates a console output with default settings
func DefaultConsoleOutput() *ConsoleOutput {
	return NewConsoleOutput(ConsoleConfig{ShowTimestamp: true, Writer: os.Stdout})
}

// line writes a permanent line, ending any status line first
func (c *ConsoleOutput) line(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status {
		fmt.Fprintln(c.writer)
		c.status = false
	}
	prefix := ""
	if c.showTimestamp {
		prefix = fmt.Sprintf("[%s] ", time.Now().Format("15:04:05"))
	}
	fmt.Fprintf(c.writer, prefix+format+"\n", args...)
}

// statusLine overwrites the current status line
func (c *ConsoleOutput) statusLine(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Use carriage return to overwrite the current line
	fmt.Fprintf(c.writer, "\r\033[K[*] "+format, args...)
	c.status = true
}

func (c *ConsoleOutput) SetState(state string) { c.line("state: %s", state) }

func (c *ConsoleOutput) SetHint(text string) {
	if strings.TrimSpace(text) != "" {
		c.line("[INFO] %s", text)
	}
}

func (c *ConsoleOutput) SetASR(label string)    { c.line("ASR: %s", label) }
func (c *ConsoleOutput) SetOutput(label string) { c.line("Output: %s", label) }
func (c *ConsoleOutput) SetPreview(text string) { c.statusLine("%s", text) }

func (c *ConsoleOutput) SetProgress(elapsed time.Duration, samples int) {
	c.statusLine("Recording %.1fs (%d samples)", elapsed.Seconds(), samples)
}

func (c *ConsoleOutput) ShowRecording()    { c.statusLine("Recording...") }
func (c *ConsoleOutput) ShowTranscribing() { c.statusLine("Transcribing...") }
func (c *ConsoleOutput) ShowRefining()     { c.statusLine("Refining...") }
func (c *ConsoleOutput) ShowError(text string) {
	c.line("[ERROR] %s", text)
}
func (c *ConsoleOutput) ShowInjected() { c.line("[OK] text inserted") }

func (c *ConsoleOutput) FadeOut() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status {
		fmt.Fprint(c.writer, "\r\033[K")
		c.status = false
	}
}
