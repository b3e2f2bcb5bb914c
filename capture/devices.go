package capture

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
)

// DevicePattern matches V4L2 video device nodes.
const DevicePattern = "/dev/video*"

// ErrNoDevices is returned when no capture device can be found.
var ErrNoDevices = errors.New("capture: no capture devices found")

// Devices lists device nodes matching pattern in a stable order.
func Devices(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("capture: listing devices: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// SelectDevice returns preferred if set, otherwise the first device matching
// pattern. Returns ErrNoDevices when nothing is available.
func SelectDevice(preferred, pattern string) (string, error) {
	if preferred != "" {
		return preferred, nil
	}

	devices, err := Devices(pattern)
	if err != nil {
		return "", err
	}
	if len(devices) == 0 {
		return "", ErrNoDevices
	}
	return devices[0], nil
}
