//go:build linux

package models

import "golang.org/x/sys/unix"

// TotalMemoryGB returns installed RAM in whole GB
func TotalMemoryGB() (uint64, bool) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, false
	}
	return uint64(info.Totalram) * uint64(info.Unit) >> 30, true
}
