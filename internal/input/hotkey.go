package input

import (
	"context"
	"fmt"

	"golang.design/x/hotkey"

	"github.com/emmett/voxtype/internal/logger"
)

// RegisterSource registers the binding as a global hotkey and re-registers
// whenever the binding changes
type RegisterSource struct {
	binding *Binding
	log     *logger.Logger
}

// NewRegisterSource creates a registration-backed source
func NewRegisterSource(binding *Binding) *RegisterSource {
	return &RegisterSource{binding: binding, log: logger.Named("hotkey")}
}

// Run listens for key down/up on the registered hotkey
func (r *RegisterSource) Run(ctx context.Context, out chan<- Signal) error {
	for {
		spec := r.binding.Load()
		if err := r.listen(ctx, spec, out); err != nil {
			r.log.Error().Err(err).Str("hotkey", spec.String()).Msg("hotkey unavailable, waiting for a new binding")
			select {
			case <-ctx.Done():
				return nil
			case <-r.binding.Changed():
			}
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// listen returns nil when the binding changed or ctx ended
func (r *RegisterSource) listen(ctx context.Context, spec Spec, out chan<- Signal) error {
	mods, key, err := toHotkey(spec)
	if err != nil {
		return err
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("failed to register hotkey: %w", err)
	}
	defer func() { _ = hk.Unregister() }()

	r.log.Info().Str("hotkey", spec.Label()).Msg("hotkey registered")

	pressed := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-r.binding.Changed():
			if pressed {
				emit(out, Up, r.log)
			}
			return nil
		case _, ok := <-hk.Keydown():
			if !ok {
				return fmt.Errorf("hotkey channel closed")
			}
			if !pressed {
				pressed = true
				emit(out, Down, r.log)
			}
		case _, ok := <-hk.Keyup():
			if !ok {
				return fmt.Errorf("hotkey channel closed")
			}
			if pressed {
				pressed = false
				emit(out, Up, r.log)
			}
		}
	}
}

// toHotkey converts a Spec to registration arguments
func toHotkey(spec Spec) ([]hotkey.Modifier, hotkey.Key, error) {
	if spec.Key == KeyFn {
		return nil, 0, fmt.Errorf("fn cannot be registered as a hotkey, use the hook backend")
	}

	var mods []hotkey.Modifier
	if spec.Mods&ModCtrl != 0 {
		mods = append(mods, hotkey.ModCtrl)
	}
	if spec.Mods&ModShift != 0 {
		mods = append(mods, hotkey.ModShift)
	}
	if spec.Mods&ModAlt != 0 {
		mods = append(mods, modAlt())
	}
	if spec.Mods&ModSuper != 0 {
		mods = append(mods, modSuper())
	}

	if code, ok := spec.RawKeycode(); ok {
		return mods, hotkey.Key(code), nil
	}
	key, err := parseKey(spec.Key)
	if err != nil {
		return nil, 0, err
	}
	return mods, key, nil
}

// parseKey parses a key name to hotkey.Key
func parseKey(s string) (hotkey.Key, error) {
	switch s {
	case "space":
		return hotkey.KeySpace, nil
	case "return":
		return hotkey.KeyReturn, nil
	case "tab":
		return hotkey.KeyTab, nil
	case "escape":
		return hotkey.KeyEscape, nil
	}
	if k, ok := letterKeys[s]; ok {
		return k, nil
	}
	if k, ok := functionKeys[s]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("unknown key: %s", s)
}

var letterKeys = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,
	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,
}

var functionKeys = map[string]hotkey.Key{
	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3, "f4": hotkey.KeyF4,
	"f5": hotkey.KeyF5, "f6": hotkey.KeyF6, "f7": hotkey.KeyF7, "f8": hotkey.KeyF8,
	"f9": hotkey.KeyF9, "f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,
}
