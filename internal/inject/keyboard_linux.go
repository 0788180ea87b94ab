package inject

import (
	"fmt"
	"strconv"

	"github.com/micmonay/keybd_event"
)

const needsWarmup = true

func pasteModifier(kb *keybd_event.KeyBonding) { kb.HasCTRL(true) }

var letterKeys = [26]int{
	keybd_event.VK_A, keybd_event.VK_B, keybd_event.VK_C, keybd_event.VK_D,
	keybd_event.VK_E, keybd_event.VK_F, keybd_event.VK_G, keybd_event.VK_H,
	keybd_event.VK_I, keybd_event.VK_J, keybd_event.VK_K, keybd_event.VK_L,
	keybd_event.VK_M, keybd_event.VK_N, keybd_event.VK_O, keybd_event.VK_P,
	keybd_event.VK_Q, keybd_event.VK_R, keybd_event.VK_S, keybd_event.VK_T,
	keybd_event.VK_U, keybd_event.VK_V, keybd_event.VK_W, keybd_event.VK_X,
	keybd_event.VK_Y, keybd_event.VK_Z,
}

var digitKeys = [10]int{
	keybd_event.VK_0, keybd_event.VK_1, keybd_event.VK_2, keybd_event.VK_3,
	keybd_event.VK_4, keybd_event.VK_5, keybd_event.VK_6, keybd_event.VK_7,
	keybd_event.VK_8, keybd_event.VK_9,
}

// usPunctuation maps ASCII punctuation and whitespace to keys on a US layout
var usPunctuation = map[rune]keystroke{
	'.': {code: keybd_event.VK_DOT}, '>': {code: keybd_event.VK_DOT, shift: true},
	',': {code: keybd_event.VK_COMMA}, '<': {code: keybd_event.VK_COMMA, shift: true},
	'-': {code: keybd_event.VK_MINUS}, '_': {code: keybd_event.VK_MINUS, shift: true},
	'=': {code: keybd_event.VK_EQUAL}, '+': {code: keybd_event.VK_EQUAL, shift: true},
	';': {code: keybd_event.VK_SEMICOLON}, ':': {code: keybd_event.VK_SEMICOLON, shift: true},
	'\'': {code: keybd_event.VK_APOSTROPHE}, '"': {code: keybd_event.VK_APOSTROPHE, shift: true},
	'`': {code: keybd_event.VK_GRAVE}, '~': {code: keybd_event.VK_GRAVE, shift: true},
	'\\': {code: keybd_event.VK_BACKSLASH}, '|': {code: keybd_event.VK_BACKSLASH, shift: true},
	'/': {code: keybd_event.VK_SLASH}, '?': {code: keybd_event.VK_SLASH, shift: true},
	'[': {code: keybd_event.VK_LEFTBRACE}, '{': {code: keybd_event.VK_LEFTBRACE, shift: true},
	']': {code: keybd_event.VK_RIGHTBRACE}, '}': {code: keybd_event.VK_RIGHTBRACE, shift: true},
	'!': {code: keybd_event.VK_1, shift: true}, '@': {code: keybd_event.VK_2, shift: true},
	'#': {code: keybd_event.VK_3, shift: true}, '$': {code: keybd_event.VK_4, shift: true},
	'%': {code: keybd_event.VK_5, shift: true}, '^': {code: keybd_event.VK_6, shift: true},
	'&': {code: keybd_event.VK_7, shift: true}, '*': {code: keybd_event.VK_8, shift: true},
	'(': {code: keybd_event.VK_9, shift: true}, ')': {code: keybd_event.VK_0, shift: true},
	' ':  {code: keybd_event.VK_SPACE},
	'\t': {code: keybd_event.VK_TAB},
	'\n': {code: keybd_event.VK_ENTER},
}

type keystroke struct {
	code  int
	shift bool
	ctrl  bool
}

// keystrokeFor maps r to a key press on a US layout, or false when no key exists
func keystrokeFor(r rune) (keystroke, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return keystroke{code: letterKeys[r-'a']}, true
	case r >= 'A' && r <= 'Z':
		return keystroke{code: letterKeys[r-'A'], shift: true}, true
	case r >= '0' && r <= '9':
		return keystroke{code: digitKeys[r-'0']}, true
	}
	ks, ok := usPunctuation[r]
	return ks, ok
}

// planKeys maps text to key presses. Runes without a key use the
// ctrl+shift+u hex entry understood by GTK and IBus input methods.
func planKeys(text string) []keystroke {
	strokes := make([]keystroke, 0, len(text))
	for _, r := range text {
		if ks, ok := keystrokeFor(r); ok {
			strokes = append(strokes, ks)
			continue
		}
		strokes = append(strokes, keystroke{code: keybd_event.VK_U, shift: true, ctrl: true})
		for _, h := range strconv.FormatInt(int64(r), 16) {
			ks, _ := keystrokeFor(h)
			strokes = append(strokes, ks)
		}
		strokes = append(strokes, keystroke{code: keybd_event.VK_SPACE})
	}
	return strokes
}

// Type presses the keys for text, one event per stroke
func (v *VirtualKeyboard) Type(text string) error {
	strokes := planKeys(text)
	kb, err := v.bonding()
	if err != nil {
		return err
	}
	for _, ks := range strokes {
		kb.Clear()
		kb.HasCTRL(ks.ctrl)
		kb.HasSHIFT(ks.shift)
		kb.SetKeys(ks.code)
		if err := kb.Launching(); err != nil {
			return fmt.Errorf("failed to send key: %w", err)
		}
	}
	return nil
}
