//go:build !windows

package temps

import (
	"context"

	"github.com/shirou/gopsutil/v3/host"
)

// GopsutilReader implements temperature monitoring through gopsutil
type GopsutilReader struct{}

// newPlatformReader creates a new gopsutil temperature reader
func newPlatformReader() Reader {
	return &GopsutilReader{}
}

// GetSensors returns temperature sensors
func (r *GopsutilReader) GetSensors(ctx context.Context) ([]*Sensor, error) {
	temps, err := host.SensorsTemperaturesWithContext(ctx)
	if err != nil && len(temps) == 0 {
		return nil, err
	}

	return fromStats(temps), nil
}

func fromStats(temps []host.TemperatureStat) []*Sensor {
	sensors := make([]*Sensor, 0, len(temps))
	for _, temp := range temps {
		chipName, label := splitKey(temp.SensorKey)
		sensors = append(sensors, &Sensor{
			Chip:        chipName,
			Label:       label,
			Temperature: temp.Temperature,
			High:        temp.High,
			Critical:    temp.Critical,
		})
	}
	return sensors
}
