// Package sensorstest provides an in-memory sensors.Library for tests.
package sensorstest

import (
	"io"
	"iter"

	"github.com/CristiGvl/gosensors/internal/chip"
	"github.com/CristiGvl/gosensors/internal/sensors"
)

// Library is a fake sensors.Library serving fixed chips. It records the
// calls made to it.
type Library struct {
	Detected []chip.Name
	Adapters map[chip.Bus]string
	Readings map[chip.Name][]sensors.Feature
	SetErrs  map[chip.Name]error
	InitErr  error

	Config      string
	InitCalls   int
	SetCalls    []chip.Name
	FeatureCall []chip.Name
}

var _ sensors.Library = (*Library)(nil)

// Init records the configuration text.
func (l *Library) Init(r io.Reader) error {
	l.InitCalls++
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	l.Config = string(data)
	return l.InitErr
}

// Chips yields Detected in order.
func (l *Library) Chips() iter.Seq[chip.Name] {
	return func(yield func(chip.Name) bool) {
		for _, n := range l.Detected {
			if !yield(n) {
				return
			}
		}
	}
}

// AdapterName looks the bus up in Adapters.
func (l *Library) AdapterName(bus chip.Bus) (string, bool) {
	name, ok := l.Adapters[bus]
	return name, ok
}

// DoChipSets returns the error configured for the chip.
func (l *Library) DoChipSets(name chip.Name) error {
	l.SetCalls = append(l.SetCalls, name)
	return l.SetErrs[name]
}

// Features returns the readings configured for the chip.
func (l *Library) Features(name chip.Name) ([]sensors.Feature, error) {
	l.FeatureCall = append(l.FeatureCall, name)
	return l.Readings[name], nil
}
