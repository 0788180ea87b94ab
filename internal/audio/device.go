package audio

import (
	"fmt"

	"github.com/gen2brain/malgo"
)

// DeviceInfo describes a capture device
type DeviceInfo struct {
	Index     int    // Position in the backend's enumeration
	Name      string // Human-readable device name
	IsDefault bool   // Whether capture opens this device
}

// String returns a human-readable representation of the device
func (d DeviceInfo) String() string {
	defaultMarker := ""
	if d.IsDefault {
		defaultMarker = " [DEFAULT]"
	}
	return fmt.Sprintf("capture-%d: %s%s", d.Index, d.Name, defaultMarker)
}

// ListDevices returns the available capture devices
func ListDevices() ([]DeviceInfo, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	defer freeContext(ctx)

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	devices := make([]DeviceInfo, 0, len(infos))
	for i, info := range infos {
		devices = append(devices, DeviceInfo{
			Index:     i,
			Name:      info.Name(),
			IsDefault: info.IsDefault > 0,
		})
	}
	return devices, nil
}

// DefaultDevice returns the device capture will open
func DefaultDevice(devices []DeviceInfo) (DeviceInfo, error) {
	for _, d := range devices {
		if d.IsDefault {
			return d, nil
		}
	}
	if len(devices) > 0 {
		return devices[0], nil
	}
	return DeviceInfo{}, ErrNoInputDevice
}
