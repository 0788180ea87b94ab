//go:build darwin

package models

import "golang.org/x/sys/unix"

// TotalMemoryGB returns installed RAM in whole GB
func TotalMemoryGB() (uint64, bool) {
	bytes, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0, false
	}
	return bytes >> 30, true
}
