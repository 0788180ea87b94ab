//go:build windows

package input

import "golang.design/x/hotkey"

// modAlt returns the Alt modifier for Windows
func modAlt() hotkey.Modifier {
	return hotkey.ModAlt
}

// modSuper returns the Windows-key modifier
func modSuper() hotkey.Modifier {
	return hotkey.ModWin
}

// fnRawcode is zero: the fn key is handled by firmware and never reaches the hook
const fnRawcode uint16 = 0

// platformDefaultSpec avoids fn, which this platform cannot observe
var platformDefaultSpec = Spec{Key: "space", Mods: ModCtrl | ModShift}
