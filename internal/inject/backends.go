package inject

import (
	"github.com/atotto/clipboard"
	"golang.design/x/hotkey/mainthread"
)

// NoAccessibility is the accessibility backend for platforms without one
type NoAccessibility struct{}

func (NoAccessibility) Trusted() bool { return false }

func (NoAccessibility) Focused() (Element, error) { return nil, ErrUnsupported }

// SystemClipboard is the OS clipboard
type SystemClipboard struct{}

func (SystemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }

func (SystemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// MainThread runs fn on the main thread. The program must be started
// through mainthread.Init.
func MainThread(fn func()) { mainthread.Call(fn) }

// Inline runs fn on the calling goroutine
func Inline(fn func()) { fn() }
