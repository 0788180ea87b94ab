package inject

import (
	"fmt"
	"unicode/utf16"
	"unsafe"

	"github.com/micmonay/keybd_event"
	"golang.org/x/sys/windows"
)

const needsWarmup = false

func pasteModifier(kb *keybd_event.KeyBonding) { kb.HasCTRL(true) }

const (
	inputKeyboard    = 1
	keyeventfKeyUp   = 0x0002
	keyeventfUnicode = 0x0004
)

var procSendInput = windows.NewLazySystemDLL("user32.dll").NewProc("SendInput")

// keybdInput mirrors KEYBDINPUT
type keybdInput struct {
	vk        uint16
	scan      uint16
	flags     uint32
	time      uint32
	extraInfo uintptr
}

// keyboardInput mirrors INPUT holding a KEYBDINPUT. The tail pads the
// union to the size of MOUSEINPUT, its largest member.
type keyboardInput struct {
	typ uint32
	ki  keybdInput
	_   [8]byte
}

// unicodeInputs builds a key down and key up per UTF-16 code unit
func unicodeInputs(text string) []keyboardInput {
	units := utf16.Encode([]rune(text))
	inputs := make([]keyboardInput, 0, 2*len(units))
	for _, u := range units {
		inputs = append(inputs,
			keyboardInput{typ: inputKeyboard, ki: keybdInput{scan: u, flags: keyeventfUnicode}},
			keyboardInput{typ: inputKeyboard, ki: keybdInput{scan: u, flags: keyeventfUnicode | keyeventfKeyUp}},
		)
	}
	return inputs
}

// Type sends text as Unicode key events, independent of the keyboard layout
func (v *VirtualKeyboard) Type(text string) error {
	inputs := unicodeInputs(text)
	if len(inputs) == 0 {
		return nil
	}
	n, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(n) != len(inputs) {
		return fmt.Errorf("SendInput delivered %d of %d events: %w", n, len(inputs), err)
	}
	return nil
}
