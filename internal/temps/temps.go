// Package temps reads temperatures through the operating system's generic
// thermal interfaces. It backs the sensors library on machines without a
// hwmon sysfs tree.
package temps

import (
	"context"
	"strings"
)

// Sensor represents a temperature sensor
type Sensor struct {
	Chip        string  `json:"chip"`
	Label       string  `json:"label"`
	Temperature float64 `json:"temperature_celsius"`
	High        float64 `json:"high_celsius"`
	Critical    float64 `json:"critical_celsius"`
}

// Reader interface for temperature monitoring
type Reader interface {
	GetSensors(ctx context.Context) ([]*Sensor, error)
}

// NewReader creates a new temperature reader for the current platform
func NewReader() Reader {
	return newPlatformReader()
}

// splitKey splits a sensor key such as "coretemp_core_0" into the chip name
// and the sensor label.
func splitKey(key string) (chipName, label string) {
	key = strings.TrimSuffix(strings.TrimSuffix(key, "_input"), "_label")
	chipName, label, ok := strings.Cut(key, "_")
	if !ok || label == "" {
		return key, "temp"
	}
	return chipName, label
}
