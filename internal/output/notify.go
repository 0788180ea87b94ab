package output

import (
	"sync"

	"github.com/gen2brain/beeep"
)

// Notifier raises desktop notifications for terminal outcomes only
type Notifier struct {
	Nop

	title  string
	notify func(title, message string) error

	mu      sync.Mutex
	preview string
}

// NewNotifier creates a notifier using the system notification service
func NewNotifier(title string) *Notifier {
	return &Notifier{
		title: title,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

func (n *Notifier) SetPreview(text string) {
	n.mu.Lock()
	n.preview = text
	n.mu.Unlock()
}

func (n *Notifier) ShowRecording() { n.SetPreview("") }

func (n *Notifier) ShowError(text string) { _ = n.notify(n.title, text) }

func (n *Notifier) ShowInjected() {
	n.mu.Lock()
	msg := n.preview
	n.mu.Unlock()
	if msg == "" {
		msg = "Text inserted"
	}
	_ = n.notify(n.title, msg)
}
