//go:build !darwin

package inject

func platformAccessibility() Accessibility { return NoAccessibility{} }
