package input

import (
	"fmt"
	"strconv"
	"strings"
)

// Modifier is a bitmask of held modifier keys
type Modifier uint16

const (
	ModCtrl Modifier = 1 << iota
	ModShift
	ModAlt
	ModSuper
)

// modOrder fixes the order modifiers are printed in
var modOrder = []struct {
	mod   Modifier
	token string
	label string
}{
	{ModCtrl, "ctrl", "Ctrl"},
	{ModShift, "shift", "Shift"},
	{ModAlt, "alt", "Alt"},
	{ModSuper, "cmd", "Cmd"},
}

// KeyFn is the function key, only observable through the hook backend
const KeyFn = "fn"

// namedKeys are the keys a binding may use besides raw keycodes.
// The index+1 is the packed key code.
var namedKeys = []string{
	KeyFn, "space", "return", "tab", "escape",
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
	"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	"f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9", "f10", "f11", "f12",
}

var keyAliases = map[string]string{
	"enter": "return",
	"esc":   "escape",
}

// rawKeyFlag marks a packed key code as a raw platform keycode
const rawKeyFlag = 1 << 24

// Spec is a hotkey binding: one key plus modifiers.
// Key is a named key or "keycode:N".
type Spec struct {
	Key  string
	Mods Modifier
}

// DefaultSpec is fn on macOS and ctrl+shift+space elsewhere
var DefaultSpec = platformDefaultSpec

// ParseSpec parses "fn", "ctrl+shift+space", "cmd+alt+d" or "keycode:N"
func ParseSpec(s string) (Spec, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Spec{}, fmt.Errorf("empty hotkey string")
	}

	var spec Spec
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		switch part {
		case "ctrl", "control":
			spec.Mods |= ModCtrl
		case "shift":
			spec.Mods |= ModShift
		case "alt", "option", "opt":
			spec.Mods |= ModAlt
		case "cmd", "command", "super", "win":
			spec.Mods |= ModSuper
		default:
			if spec.Key != "" {
				return Spec{}, fmt.Errorf("multiple keys specified in %q", s)
			}
			key, err := parseKeyToken(part)
			if err != nil {
				return Spec{}, err
			}
			spec.Key = key
		}
	}

	if spec.Key == "" {
		return Spec{}, fmt.Errorf("no key specified in %q", s)
	}
	return spec, nil
}

func parseKeyToken(part string) (string, error) {
	if rest, ok := strings.CutPrefix(part, "keycode:"); ok {
		n, err := strconv.ParseUint(rest, 10, 16)
		if err != nil {
			return "", fmt.Errorf("invalid keycode %q: %w", rest, err)
		}
		return "keycode:" + strconv.FormatUint(n, 10), nil
	}
	if alias, ok := keyAliases[part]; ok {
		part = alias
	}
	if keyIndex(part) < 0 {
		return "", fmt.Errorf("unknown key: %s", part)
	}
	return part, nil
}

func keyIndex(key string) int {
	for i, k := range namedKeys {
		if k == key {
			return i
		}
	}
	return -1
}

// RawKeycode returns N for "keycode:N" bindings
func (s Spec) RawKeycode() (uint16, bool) {
	rest, ok := strings.CutPrefix(s.Key, "keycode:")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(rest, 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(n), true
}

// IsFn reports whether the binding is the bare fn key
func (s Spec) IsFn() bool { return s.Key == KeyFn && s.Mods == 0 }

// String returns the config token, e.g. "ctrl+shift+space"
func (s Spec) String() string {
	parts := make([]string, 0, 5)
	for _, m := range modOrder {
		if s.Mods&m.mod != 0 {
			parts = append(parts, m.token)
		}
	}
	return strings.Join(append(parts, s.Key), "+")
}

// Label returns a display label, e.g. "Ctrl+Shift+Space"
func (s Spec) Label() string {
	parts := make([]string, 0, 5)
	for _, m := range modOrder {
		if s.Mods&m.mod != 0 {
			parts = append(parts, m.label)
		}
	}
	key := s.Key
	switch {
	case s.Key == KeyFn:
		key = "Fn"
	case strings.HasPrefix(s.Key, "keycode:"):
		key = "Keycode " + strings.TrimPrefix(s.Key, "keycode:")
	case len(s.Key) == 1:
		key = strings.ToUpper(s.Key)
	default:
		key = strings.ToUpper(s.Key[:1]) + s.Key[1:]
	}
	return strings.Join(append(parts, key), "+")
}

// Pack encodes the binding into one word: key code in the low 32 bits,
// modifiers above. The zero Spec packs to 0.
func (s Spec) Pack() uint64 {
	var code uint64
	if n, ok := s.RawKeycode(); ok {
		code = rawKeyFlag | uint64(n)
	} else if i := keyIndex(s.Key); i >= 0 {
		code = uint64(i + 1)
	}
	if code == 0 {
		return 0
	}
	return code | uint64(s.Mods)<<32
}

// Unpack decodes a word produced by Pack
func Unpack(v uint64) Spec {
	code := uint32(v)
	mods := Modifier(v >> 32)
	switch {
	case code == 0:
		return Spec{}
	case code&rawKeyFlag != 0:
		return Spec{Key: "keycode:" + strconv.FormatUint(uint64(code&0xFFFF), 10), Mods: mods}
	case int(code) <= len(namedKeys):
		return Spec{Key: namedKeys[code-1], Mods: mods}
	default:
		return Spec{}
	}
}
