package app

import (
	"fmt"
	"io"

	"github.com/emmett/voxtype/internal/audio"
)

// DeviceManager lists audio input devices
type DeviceManager struct {
	list func() ([]audio.DeviceInfo, error)
}

// NewDeviceManager creates a new DeviceManager instance
func NewDeviceManager() *DeviceManager {
	return &DeviceManager{list: audio.ListDevices}
}

// ListDevices writes all capture devices to w, marking the one dictation uses
func (dm *DeviceManager) ListDevices(w io.Writer) error {
	devices, err := dm.list()
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}

	if len(devices) == 0 {
		fmt.Fprintln(w, "No audio capture devices found.")
		return fmt.Errorf("no devices found")
	}

	fmt.Fprintf(w, "Found %d capture device(s):\n\n", len(devices))
	for i, device := range devices {
		marker := ""
		if device.IsDefault {
			marker = " [DEFAULT]"
		}
		fmt.Fprintf(w, "%d. %s%s\n", i+1, device.Name, marker)
	}

	if d, err := audio.DefaultDevice(devices); err == nil {
		fmt.Fprintf(w, "\nDictation records from: %s\n", d.Name)
	}
	return nil
}
