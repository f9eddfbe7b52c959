//go:build windows

package temps

import (
	"context"
	"fmt"
	"strings"

	"github.com/StackExchange/wmi"
)

// WindowsReader implements temperature monitoring for Windows
type WindowsReader struct{}

// newPlatformReader creates a new Windows temperature reader
func newPlatformReader() Reader {
	return &WindowsReader{}
}

// Win32_TemperatureProbe represents WMI temperature probe data
type Win32_TemperatureProbe struct {
	DeviceID        string
	Name            string
	Description     string
	CurrentReading  *uint32
	NominalReading  *uint32
	MaxReadableHigh *uint32
}

// Win32_PerfRawData_Counters_ThermalZoneInformation represents thermal zone data
type Win32_PerfRawData_Counters_ThermalZoneInformation struct {
	Name        string
	Temperature uint64
}

// GetSensors returns temperature sensors from WMI probes, falling back to
// ACPI thermal zones.
func (r *WindowsReader) GetSensors(ctx context.Context) ([]*Sensor, error) {
	sensors, err := r.getTemperatureProbes()
	if err == nil && len(sensors) > 0 {
		return sensors, nil
	}

	sensors, zoneErr := r.getThermalZones()
	if zoneErr != nil {
		if err != nil {
			return nil, fmt.Errorf("temperature probes: %v; thermal zones: %w", err, zoneErr)
		}
		return nil, zoneErr
	}
	return sensors, nil
}

// getTemperatureProbes gets temperature data from WMI temperature probes
func (r *WindowsReader) getTemperatureProbes() ([]*Sensor, error) {
	var probes []Win32_TemperatureProbe
	if err := wmi.Query("SELECT * FROM Win32_TemperatureProbe", &probes); err != nil {
		return nil, err
	}

	var sensors []*Sensor
	for _, probe := range probes {
		if probe.CurrentReading == nil {
			continue
		}

		label := probe.Name
		if probe.Description != "" {
			label = probe.Description
		}

		sensor := &Sensor{
			Chip:        "wmi",
			Label:       strings.TrimSpace(label),
			Temperature: deciKelvin(uint64(*probe.CurrentReading)),
		}
		if probe.NominalReading != nil {
			sensor.High = deciKelvin(uint64(*probe.NominalReading))
		}
		if probe.MaxReadableHigh != nil {
			sensor.Critical = deciKelvin(uint64(*probe.MaxReadableHigh))
		}
		sensors = append(sensors, sensor)
	}

	return sensors, nil
}

// getThermalZones gets temperature data from thermal zone information
func (r *WindowsReader) getThermalZones() ([]*Sensor, error) {
	var zones []Win32_PerfRawData_Counters_ThermalZoneInformation
	if err := wmi.Query("SELECT * FROM Win32_PerfRawData_Counters_ThermalZoneInformation", &zones); err != nil {
		return nil, err
	}

	var sensors []*Sensor
	for _, zone := range zones {
		temp := deciKelvin(zone.Temperature)

		// Skip unrealistic temperatures
		if temp < -50 || temp > 150 {
			continue
		}

		sensors = append(sensors, &Sensor{
			Chip:        "acpitz",
			Label:       zone.Name,
			Temperature: temp,
		})
	}

	return sensors, nil
}

// deciKelvin converts tenths of Kelvin to Celsius
func deciKelvin(v uint64) float64 {
	return float64(v)/10.0 - 273.15
}
