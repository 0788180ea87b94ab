package inject

import (
	"fmt"
	"sync"
	"time"

	"github.com/micmonay/keybd_event"
)

// virtual devices on Linux need time before the first event is delivered
const keyboardWarmup = 2 * time.Second

// VirtualKeyboard sends the paste shortcut through keybd_event and types
// text with the platform's Unicode input path
type VirtualKeyboard struct {
	once sync.Once
	kb   keybd_event.KeyBonding
	err  error
}

// NewVirtualKeyboard creates a keyboard; the OS device opens on first use
func NewVirtualKeyboard() *VirtualKeyboard { return &VirtualKeyboard{} }

func (v *VirtualKeyboard) bonding() (*keybd_event.KeyBonding, error) {
	v.once.Do(func() {
		v.kb, v.err = keybd_event.NewKeyBonding()
		if v.err == nil && needsWarmup {
			time.Sleep(keyboardWarmup)
		}
	})
	if v.err != nil {
		return nil, fmt.Errorf("failed to open virtual keyboard: %w", v.err)
	}
	v.kb.Clear()
	return &v.kb, nil
}

// Paste sends the platform paste shortcut
func (v *VirtualKeyboard) Paste() error {
	kb, err := v.bonding()
	if err != nil {
		return err
	}
	pasteModifier(kb)
	kb.SetKeys(keybd_event.VK_V)
	return kb.Launching()
}
