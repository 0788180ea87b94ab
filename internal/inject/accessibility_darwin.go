package inject

/*
#cgo LDFLAGS: -framework ApplicationServices
#include <stdint.h>
#include <stdlib.h>
#include <ApplicationServices/ApplicationServices.h>

static int ax_trusted(void) { return AXIsProcessTrusted() ? 1 : 0; }

static uintptr_t ax_focused(int *status) {
	AXUIElementRef system = AXUIElementCreateSystemWide();
	CFTypeRef focused = NULL;
	AXError err = AXUIElementCopyAttributeValue(system, kAXFocusedUIElementAttribute, &focused);
	CFRelease(system);
	*status = (int)err;
	if (err != kAXErrorSuccess) return 0;
	return (uintptr_t)focused;
}

static int ax_set(uintptr_t el, CFStringRef attr, const char *text) {
	CFStringRef value = CFStringCreateWithCString(kCFAllocatorDefault, text, kCFStringEncodingUTF8);
	if (value == NULL) return -1;
	AXError err = AXUIElementSetAttributeValue((AXUIElementRef)el, attr, value);
	CFRelease(value);
	return (int)err;
}

static int ax_set_selected_text(uintptr_t el, const char *text) {
	return ax_set(el, kAXSelectedTextAttribute, text);
}

static int ax_set_value(uintptr_t el, const char *text) {
	return ax_set(el, kAXValueAttribute, text);
}

// ax_copy_value returns the string value as malloc'd UTF-8, NULL on failure
static char *ax_copy_value(uintptr_t el, int *status) {
	CFTypeRef value = NULL;
	AXError err = AXUIElementCopyAttributeValue((AXUIElementRef)el, kAXValueAttribute, &value);
	*status = (int)err;
	if (err != kAXErrorSuccess) return NULL;
	if (value == NULL || CFGetTypeID(value) != CFStringGetTypeID()) {
		if (value != NULL) CFRelease(value);
		*status = -1;
		return NULL;
	}
	CFIndex size = CFStringGetMaximumSizeForEncoding(CFStringGetLength((CFStringRef)value), kCFStringEncodingUTF8) + 1;
	char *buf = malloc(size);
	if (buf == NULL || !CFStringGetCString((CFStringRef)value, buf, size, kCFStringEncodingUTF8)) {
		free(buf);
		CFRelease(value);
		*status = -1;
		return NULL;
	}
	CFRelease(value);
	return buf;
}

static void ax_release(uintptr_t el) {
	if (el != 0) CFRelease((CFTypeRef)el);
}
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// SystemAccessibility reaches the focused element through the macOS
// accessibility API. The process needs the Accessibility permission.
type SystemAccessibility struct{}

func platformAccessibility() Accessibility { return SystemAccessibility{} }

// Trusted reports whether the Accessibility permission is granted
func (SystemAccessibility) Trusted() bool { return C.ax_trusted() == 1 }

// Focused returns the system-wide focused element
func (SystemAccessibility) Focused() (Element, error) {
	var status C.int
	ref := C.ax_focused(&status)
	if ref == 0 {
		return nil, axError("read focused element", status)
	}
	return &axElement{ref: ref}, nil
}

// axElement is a retained AXUIElementRef, released by Close
type axElement struct {
	ref C.uintptr_t
}

func (e *axElement) SetSelectedText(text string) error {
	cs := C.CString(text)
	defer C.free(unsafe.Pointer(cs))
	if status := C.ax_set_selected_text(e.ref, cs); status != 0 {
		return axError("set selected text", status)
	}
	return nil
}

func (e *axElement) Value() (string, error) {
	var status C.int
	cs := C.ax_copy_value(e.ref, &status)
	if cs == nil {
		return "", axError("read value", status)
	}
	defer C.free(unsafe.Pointer(cs))
	return C.GoString(cs), nil
}

func (e *axElement) SetValue(text string) error {
	cs := C.CString(text)
	defer C.free(unsafe.Pointer(cs))
	if status := C.ax_set_value(e.ref, cs); status != 0 {
		return axError("set value", status)
	}
	return nil
}

func (e *axElement) Close() error {
	C.ax_release(e.ref)
	e.ref = 0
	return nil
}

func axError(op string, status C.int) error {
	return fmt.Errorf("failed to %s: AXError %d", op, int(status))
}
