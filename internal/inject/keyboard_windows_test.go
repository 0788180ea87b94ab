package inject

import (
	"testing"
	"unsafe"
)

func TestUnicodeInputs(t *testing.T) {
	// 😀 is a surrogate pair, so it takes two code units
	inputs := unicodeInputs("a你😀")
	if len(inputs) != 8 {
		t.Fatalf("got %d inputs, want 8", len(inputs))
	}
	wantScan := []uint16{'a', 'a', 0x4F60, 0x4F60, 0xD83D, 0xD83D, 0xDE00, 0xDE00}
	for i, in := range inputs {
		if in.typ != inputKeyboard || in.ki.vk != 0 || in.ki.scan != wantScan[i] {
			t.Fatalf("input %d = %+v", i, in)
		}
		up := in.ki.flags&keyeventfKeyUp != 0
		if in.ki.flags&keyeventfUnicode == 0 || up != (i%2 == 1) {
			t.Fatalf("input %d flags = %#x", i, in.ki.flags)
		}
	}
}

func TestKeyboardInputSize(t *testing.T) {
	want := uintptr(40)
	if unsafe.Sizeof(uintptr(0)) == 4 {
		want = 28
	}
	if got := unsafe.Sizeof(keyboardInput{}); got != want {
		t.Fatalf("sizeof INPUT = %d, want %d", got, want)
	}
}
