//go:build darwin

package input

import "golang.design/x/hotkey"

// modAlt maps Alt to the Option key on macOS
func modAlt() hotkey.Modifier {
	return hotkey.ModOption
}

// modSuper maps Super to Command on macOS
func modSuper() hotkey.Modifier {
	return hotkey.ModCmd
}

// fnRawcode is kVK_Function, which the hook reports as a raw code only
const fnRawcode uint16 = 63

// platformDefaultSpec is the fn key alone
var platformDefaultSpec = Spec{Key: KeyFn}
