package input

import (
	"context"

	hook "github.com/robotn/gohook"

	"github.com/emmett/voxtype/internal/logger"
)

// HookSource watches every key event through a low-level hook, so it can
// follow bare modifiers and the fn key that registration cannot express
type HookSource struct {
	binding *Binding
	log     *logger.Logger
}

// NewHookSource creates a hook-backed source
func NewHookSource(binding *Binding) *HookSource {
	return &HookSource{binding: binding, log: logger.Named("hotkey-hook")}
}

// Run consumes hook events until ctx is done
func (h *HookSource) Run(ctx context.Context, out chan<- Signal) error {
	events := hook.Start()
	defer hook.End()

	h.log.Info().Str("hotkey", h.binding.Load().Label()).Msg("keyboard hook started")

	m := newHookMatcher()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-h.binding.Changed():
			if sig, ok := m.reset(); ok {
				emit(out, sig, h.log)
			}
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if sig, ok := m.feed(h.binding.Load(), ev.Kind, ev.Keycode, ev.Rawcode); ok {
				emit(out, sig, h.log)
			}
		}
	}
}

// libuiohook virtual key codes for the modifiers, as reported in
// hook.Event.Keycode. The name table has no entries for some right-hand keys.
const (
	vcCtrlL  = 0x001D
	vcShiftL = 0x002A
	vcShiftR = 0x0036
	vcAltL   = 0x0038
	vcCtrlR  = 0x0E1D
	vcAltR   = 0x0E38
	vcMetaL  = 0x0E5B
	vcMetaR  = 0x0E5C
)

var hookModifiers = map[uint16]Modifier{
	vcCtrlL: ModCtrl, vcCtrlR: ModCtrl,
	vcShiftL: ModShift, vcShiftR: ModShift,
	vcAltL: ModAlt, vcAltR: ModAlt,
	vcMetaL: ModSuper, vcMetaR: ModSuper,
}

// hookKeyNames maps binding key names to the names the hook table uses
var hookKeyNames = map[string]string{
	"return": "enter",
	"escape": "esc",
}

// hookKeycode returns the hook keycode for a named binding key
func hookKeycode(key string) (uint16, bool) {
	if name, ok := hookKeyNames[key]; ok {
		key = name
	}
	code, ok := hook.Keycode[key]
	return code, ok && code != 0
}

// hookMatcher tracks held modifiers and the binding's pressed state
type hookMatcher struct {
	held    map[uint16]bool
	pressed bool
}

func newHookMatcher() *hookMatcher {
	return &hookMatcher{held: make(map[uint16]bool)}
}

func (m *hookMatcher) heldMods() Modifier {
	var mods Modifier
	for code := range m.held {
		mods |= hookModifiers[code]
	}
	return mods
}

func (m *hookMatcher) isKey(spec Spec, keycode, rawcode uint16) bool {
	if n, ok := spec.RawKeycode(); ok {
		return rawcode == n
	}
	if spec.Key == KeyFn {
		return fnRawcode != 0 && rawcode == fnRawcode
	}
	code, ok := hookKeycode(spec.Key)
	return ok && code == keycode
}

// feed returns the signal an event produces, if any
func (m *hookMatcher) feed(spec Spec, kind uint8, keycode, rawcode uint16) (Signal, bool) {
	switch kind {
	case hook.KeyHold, hook.KeyDown:
		if _, isMod := hookModifiers[keycode]; isMod {
			m.held[keycode] = true
		}
		if !m.pressed && m.isKey(spec, keycode, rawcode) && m.heldMods()&spec.Mods == spec.Mods {
			m.pressed = true
			return Down, true
		}
	case hook.KeyUp:
		delete(m.held, keycode)
		if m.pressed && m.isKey(spec, keycode, rawcode) {
			m.pressed = false
			return Up, true
		}
	}
	return 0, false
}

// reset releases the current press, if any, when the binding changes
func (m *hookMatcher) reset() (Signal, bool) {
	if m.pressed {
		m.pressed = false
		return Up, true
	}
	return 0, false
}
