package sensors

import (
	"log/slog"

	"github.com/CristiGvl/gosensors/internal/platform"
	"github.com/CristiGvl/gosensors/internal/temps"
)

// New returns the library for the current machine: the hwmon sysfs backend
// when hwmon devices exist, the generic temperature backend otherwise.
func New() Library {
	if platform.HasHwmon(DefaultSysfsRoot) {
		return NewSysfs(DefaultSysfsRoot)
	}
	slog.Debug("no hwmon devices, using generic temperature readings", "os", platform.GetOS())
	return NewVirtual(temps.NewReader())
}
