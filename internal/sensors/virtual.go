package sensors

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strconv"
	"time"

	"github.com/CristiGvl/gosensors/internal/chip"
	"github.com/CristiGvl/gosensors/internal/temps"
)

// virtualChip is a chip assembled from generic temperature readings.
type virtualChip struct {
	name     chip.Name
	features []Feature
}

// Virtual implements Library on top of a temps.Reader, for systems that have
// no hwmon sysfs tree. Every chip sits on the "virtual" dummy bus.
type Virtual struct {
	reader  temps.Reader
	timeout time.Duration
	cfg     *Config
	chips   []virtualChip
	ready   bool
}

// NewVirtual creates a library backed by reader.
func NewVirtual(reader temps.Reader) *Virtual {
	return &Virtual{
		reader:  reader,
		timeout: 10 * time.Second,
	}
}

// Init loads the configuration and reads the temperature sensors once.
func (v *Virtual) Init(r io.Reader) error {
	cfg, err := ParseConfig(r)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	sensors, err := v.reader.GetSensors(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKernel, err)
	}

	v.cfg = cfg
	v.chips = groupSensors(sensors)
	v.ready = true
	return nil
}

// groupSensors turns readings into chips, one per chip name, in order of
// first appearance. Chips are numbered by that order.
func groupSensors(sensors []*temps.Sensor) []virtualChip {
	var chips []virtualChip
	index := make(map[string]int)

	for _, s := range sensors {
		i, ok := index[s.Chip]
		if !ok {
			i = len(chips)
			index[s.Chip] = i
			chips = append(chips, virtualChip{
				name: chip.Name{
					Prefix: s.Chip,
					Bus:    chip.Bus{Kind: chip.BusDummy, Name: "virtual"},
					Addr:   i,
				},
			})
		}

		c := &chips[i]
		n := len(c.features) + 1
		f := Feature{
			Name:   "temp" + strconv.Itoa(n),
			Type:   FeatureTemp,
			Number: n,
			Label:  s.Label,
			Subfeatures: []Subfeature{
				{Name: fmt.Sprintf("temp%d_input", n), Kind: "input", Value: s.Temperature},
			},
		}
		if s.Critical != 0 {
			f.Subfeatures = append(f.Subfeatures, Subfeature{Name: fmt.Sprintf("temp%d_crit", n), Kind: "crit", Value: s.Critical})
		}
		if s.High != 0 {
			f.Subfeatures = append(f.Subfeatures, Subfeature{Name: fmt.Sprintf("temp%d_max", n), Kind: "max", Value: s.High})
		}
		if f.Label == "" {
			f.Label = f.Name
		}
		c.features = append(c.features, f)
	}

	return chips
}

// Chips yields the chips found by Init.
func (v *Virtual) Chips() iter.Seq[chip.Name] {
	return func(yield func(chip.Name) bool) {
		for _, c := range v.chips {
			if !yield(c.name) {
				return
			}
		}
	}
}

// AdapterName names the virtual bus; other buses are unknown here.
func (v *Virtual) AdapterName(bus chip.Bus) (string, bool) {
	if bus.Kind != chip.BusDummy {
		return "", false
	}
	return dummyAdapterName(bus.Name)
}

// Features returns the readings captured by Init.
func (v *Virtual) Features(name chip.Name) ([]Feature, error) {
	c, err := v.lookup(name)
	if err != nil {
		return nil, err
	}

	features := make([]Feature, len(c.features))
	copy(features, c.features)
	return v.cfg.apply(name, features), nil
}

// DoChipSets fails for any chip with "set" statements: generic thermal
// interfaces are read-only.
func (v *Virtual) DoChipSets(name chip.Name) error {
	if _, err := v.lookup(name); err != nil {
		return err
	}
	if sets := v.cfg.sets(name); len(sets) > 0 {
		return fmt.Errorf("%w: %s has no writable attributes", ErrNoEntry, chip.FormatName(name))
	}
	return nil
}

func (v *Virtual) lookup(name chip.Name) (*virtualChip, error) {
	if !v.ready {
		return nil, ErrNotInitialized
	}
	for i := range v.chips {
		if v.chips[i].name == name {
			return &v.chips[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoEntry, chip.FormatName(name))
}
