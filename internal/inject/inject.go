// Package inject delivers text into the focused control of another
// application: accessibility write, then clipboard paste, then keystrokes.
package inject

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emmett/voxtype/internal/fault"
	"github.com/emmett/voxtype/internal/logger"
)

// ErrUnsupported is returned by backends that do not exist on this platform
var ErrUnsupported = errors.New("not supported on this platform")

// Element is a focused UI element reached through the accessibility API
type Element interface {
	SetSelectedText(text string) error
	Value() (string, error)
	SetValue(text string) error
}

// Accessibility exposes the focused element when the process is trusted
type Accessibility interface {
	Trusted() bool
	Focused() (Element, error)
}

// Clipboard reads and writes the system clipboard as a string
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// Keyboard synthesizes key events
type Keyboard interface {
	Paste() error
	Type(text string) error
}

// Executor runs fn on the thread allowed to post input events and waits
type Executor func(fn func())

// Config holds cascade timings
type Config struct {
	PasteSettle   time.Duration
	RetryGap      time.Duration
	PasteAttempts int
}

// DefaultConfig returns the default cascade timings
func DefaultConfig() Config {
	return Config{
		PasteSettle:   260 * time.Millisecond,
		RetryGap:      90 * time.Millisecond,
		PasteAttempts: 2,
	}
}

// Engine runs the injection cascade
type Engine struct {
	ax     Accessibility
	clip   Clipboard
	keys   Keyboard
	exec   Executor
	config Config
	sleep  func(time.Duration)
	log    *logger.Logger
}

// Option customizes an Engine
type Option func(*Engine)

// WithAccessibility sets the tier 1 backend
func WithAccessibility(ax Accessibility) Option { return func(e *Engine) { e.ax = ax } }

// WithClipboard sets the tier 2 clipboard
func WithClipboard(c Clipboard) Option { return func(e *Engine) { e.clip = c } }

// WithKeyboard sets the key synthesizer used by tiers 2 and 3
func WithKeyboard(k Keyboard) Option { return func(e *Engine) { e.keys = k } }

// WithExecutor sets where the cascade runs
func WithExecutor(x Executor) Option { return func(e *Engine) { e.exec = x } }

// New creates an engine. Unset backends default to the platform
// accessibility API, the system clipboard, a lazily created virtual
// keyboard and the main thread.
func New(config Config, opts ...Option) *Engine {
	if config.PasteAttempts <= 0 {
		config.PasteAttempts = 1
	}
	e := &Engine{
		ax:     platformAccessibility(),
		clip:   SystemClipboard{},
		exec:   MainThread,
		config: config,
		sleep:  time.Sleep,
		log:    logger.Named("inject"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.keys == nil {
		e.keys = NewVirtualKeyboard()
	}
	return e
}

// Inject delivers text, blocking until a tier succeeds or all have failed.
// Blank text is a no-op.
func (e *Engine) Inject(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fault.Wrap(err, fault.InjectionError, "injection cancelled")
	}

	var err error
	e.exec(func() { err = e.cascade(text) })
	return err
}

func (e *Engine) cascade(text string) error {
	var errs []error

	err := e.accessibility(text)
	if err == nil {
		e.log.Debug().Str("tier", "accessibility").Msg("text injected")
		return nil
	}
	errs = append(errs, fmt.Errorf("accessibility: %w", err))

	for attempt := 1; attempt <= e.config.PasteAttempts; attempt++ {
		if attempt > 1 {
			e.sleep(e.config.RetryGap)
		}
		err = e.paste(text)
		if err == nil {
			e.log.Debug().Str("tier", "paste").Int("attempt", attempt).Msg("text injected")
			return nil
		}
		e.log.Warn().Err(err).Int("attempt", attempt).Msg("clipboard paste failed")
		errs = append(errs, fmt.Errorf("paste attempt %d: %w", attempt, err))
	}

	err = e.keys.Type(text)
	if err == nil {
		e.log.Debug().Str("tier", "keystrokes").Msg("text injected")
		return nil
	}
	errs = append(errs, fmt.Errorf("keystrokes: %w", err))

	return fault.Wrap(errors.Join(errs...), fault.InjectionError, "all injection strategies failed")
}

func (e *Engine) accessibility(text string) error {
	if !e.ax.Trusted() {
		return errors.New("process is not trusted for accessibility")
	}
	el, err := e.ax.Focused()
	if err != nil {
		return fmt.Errorf("failed to get focused element: %w", err)
	}
	if c, ok := el.(io.Closer); ok {
		defer c.Close()
	}
	if err := el.SetSelectedText(text); err == nil {
		return nil
	}
	value, err := el.Value()
	if err != nil {
		return fmt.Errorf("failed to read element value: %w", err)
	}
	if err := el.SetValue(value + text); err != nil {
		return fmt.Errorf("failed to write element value: %w", err)
	}
	return nil
}

// paste restores the original clipboard whether or not the paste worked
func (e *Engine) paste(text string) error {
	original, readErr := e.clip.ReadAll()
	if err := e.clip.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	pasteErr := e.keys.Paste()
	if pasteErr == nil {
		e.sleep(e.config.PasteSettle)
	}
	if readErr == nil {
		if err := e.clip.WriteAll(original); err != nil {
			e.log.Warn().Err(err).Msg("failed to restore clipboard")
		}
	}
	if pasteErr != nil {
		return fmt.Errorf("failed to send paste shortcut: %w", pasteErr)
	}
	return nil
}
