//go:build !linux && !darwin

package models

// TotalMemoryGB is not probed on this platform
func TotalMemoryGB() (uint64, bool) {
	return 0, false
}
