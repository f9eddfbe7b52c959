package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// SupportedOS represents supported operating systems
type SupportedOS string

const (
	Linux   SupportedOS = "linux"
	Windows SupportedOS = "windows"
	Darwin  SupportedOS = "darwin"
	FreeBSD SupportedOS = "freebsd"
)

var supported = []SupportedOS{Linux, Windows, Darwin, FreeBSD}

// GetOS returns the current operating system
func GetOS() SupportedOS {
	return SupportedOS(runtime.GOOS)
}

// IsSupported returns true if the current OS is supported
func IsSupported() bool {
	os := GetOS()
	for _, s := range supported {
		if os == s {
			return true
		}
	}
	return false
}

// ValidateSupport returns an error if the current OS is not supported
func ValidateSupport() error {
	if !IsSupported() {
		names := make([]string, len(supported))
		for i, s := range supported {
			names[i] = string(s)
		}
		return fmt.Errorf("unsupported operating system: %s. Supported: %s", runtime.GOOS, strings.Join(names, ", "))
	}
	return nil
}

// HasHwmon reports whether the sysfs tree at root exposes hwmon devices
func HasHwmon(root string) bool {
	entries, err := os.ReadDir(filepath.Join(root, "class", "hwmon"))
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "hwmon") {
			return true
		}
	}
	return false
}
