package inject

/*
#cgo LDFLAGS: -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>

static int post_unicode(const UniChar *chars, int n) {
	CGEventRef down = CGEventCreateKeyboardEvent(NULL, 0, true);
	CGEventRef up = CGEventCreateKeyboardEvent(NULL, 0, false);
	if (down == NULL || up == NULL) {
		if (down != NULL) CFRelease(down);
		if (up != NULL) CFRelease(up);
		return -1;
	}
	CGEventKeyboardSetUnicodeString(down, n, chars);
	CGEventKeyboardSetUnicodeString(up, n, chars);
	CGEventPost(kCGHIDEventTap, down);
	CGEventPost(kCGHIDEventTap, up);
	CFRelease(down);
	CFRelease(up);
	return 0;
}
*/
import "C"

import (
	"errors"
	"unicode/utf16"
	"unsafe"

	"github.com/micmonay/keybd_event"
)

const needsWarmup = false

func pasteModifier(kb *keybd_event.KeyBonding) { kb.HasSuper(true) }

// maxEventChars is the most UTF-16 units one keyboard event carries
const maxEventChars = 20

// utf16Chunks splits text into UTF-16 runs of at most max units without
// separating surrogate pairs
func utf16Chunks(text string, max int) [][]uint16 {
	var chunks [][]uint16
	var cur []uint16
	for _, r := range text {
		units := utf16.Encode([]rune{r})
		if len(cur)+len(units) > max {
			chunks = append(chunks, cur)
			cur = nil
		}
		cur = append(cur, units...)
	}
	if len(cur) > 0 {
		chunks = append(chunks, cur)
	}
	return chunks
}

// Type posts text as Unicode keyboard events, independent of the layout
func (v *VirtualKeyboard) Type(text string) error {
	for _, chunk := range utf16Chunks(text, maxEventChars) {
		if C.post_unicode((*C.UniChar)(unsafe.Pointer(&chunk[0])), C.int(len(chunk))) != 0 {
			return errors.New("failed to create keyboard event")
		}
	}
	return nil
}
