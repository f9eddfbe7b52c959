// Package sensors is the hardware monitoring library behind the sensors
// command: it detects chips, reads their features, names their adapters and
// applies the "set" statements of the configuration file.
package sensors

import (
	"io"
	"iter"

	"github.com/CristiGvl/gosensors/internal/chip"
	"github.com/CristiGvl/gosensors/internal/version"
)

// Version is the library version reported by "sensors -v".
var Version = version.String()

// Library is the interface the command uses to talk to the hardware.
type Library interface {
	// Init loads the configuration from r and detects chips. It must be
	// called once before any other method.
	Init(r io.Reader) error
	// Chips yields every detected chip once, in detection order.
	Chips() iter.Seq[chip.Name]
	// AdapterName returns a human-readable name for a bus.
	AdapterName(bus chip.Bus) (string, bool)
	// DoChipSets applies the configured "set" statements to a chip.
	DoChipSets(name chip.Name) error
	// Features returns the readings of a chip.
	Features(name chip.Name) ([]Feature, error)
}

// FeatureType represents the kind of quantity a feature measures
type FeatureType int

const (
	FeatureIn FeatureType = iota
	FeatureFan
	FeatureTemp
	FeaturePower
	FeatureCurr
	FeatureHumidity
	FeatureIntrusion
)

var featurePrefixes = map[string]FeatureType{
	"in":        FeatureIn,
	"fan":       FeatureFan,
	"temp":      FeatureTemp,
	"power":     FeaturePower,
	"curr":      FeatureCurr,
	"humidity":  FeatureHumidity,
	"intrusion": FeatureIntrusion,
}

func (t FeatureType) String() string {
	for prefix, ft := range featurePrefixes {
		if ft == t {
			return prefix
		}
	}
	return "unknown"
}

// Subfeature is a single reading or limit of a feature, e.g. temp1_max.
type Subfeature struct {
	Name  string  `json:"name"`
	Kind  string  `json:"kind"` // "input", "max", "crit", ...
	Value float64 `json:"value"`
}

// Feature is a group of subfeatures sharing a type and number, e.g. temp1.
type Feature struct {
	Name        string       `json:"name"`
	Type        FeatureType  `json:"type"`
	Number      int          `json:"number"`
	Label       string       `json:"label"`
	Subfeatures []Subfeature `json:"subfeatures"`
}

// Sub returns the value of the subfeature of the given kind.
func (f Feature) Sub(kind string) (float64, bool) {
	for _, s := range f.Subfeatures {
		if s.Kind == kind {
			return s.Value, true
		}
	}
	return 0, false
}
