// Package version provides build-time metadata for the sensors command.
//
// Variables can be overridden at build time using -ldflags:
//
//	go build -ldflags "\
//	  -X 'github.com/CristiGvl/gosensors/internal/version.Version=3.0.1' \
//	  -X 'github.com/CristiGvl/gosensors/internal/version.GitCommit=$(git rev-parse HEAD)'"
package version

import "runtime/debug"

var (
	// Version is the current version of the application
	Version = "0.0.0"

	// GitCommit is the commit hash the application was built from
	GitCommit = ""
)

// String returns the version, preferring the module version recorded by the
// Go toolchain when no version was set at build time.
func String() string {
	if Version != "0.0.0" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
