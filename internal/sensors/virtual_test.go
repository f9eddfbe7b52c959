package sensors

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CristiGvl/gosensors/internal/chip"
	"github.com/CristiGvl/gosensors/internal/temps"
)

type fakeReader struct {
	sensors []*temps.Sensor
	err     error
}

func (r fakeReader) GetSensors(ctx context.Context) ([]*temps.Sensor, error) {
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("no deadline")
	}
	return r.sensors, r.err
}

var (
	virtualBus   = chip.Bus{Kind: chip.BusDummy, Name: "virtual"}
	coretempName = chip.Name{Prefix: "coretemp", Bus: virtualBus, Addr: 0}
	acpiName     = chip.Name{Prefix: "acpitz", Bus: virtualBus, Addr: 1}
)

func newVirtual(t *testing.T, config string) *Virtual {
	t.Helper()
	v := NewVirtual(fakeReader{sensors: []*temps.Sensor{
		{Chip: "coretemp", Label: "Core 0", Temperature: 45, High: 80, Critical: 100},
		{Chip: "acpitz", Label: "temp", Temperature: 30},
		{Chip: "coretemp", Label: "Core 1", Temperature: 47},
	}})
	require.NoError(t, v.Init(strings.NewReader(config)))
	return v
}

func TestVirtualChips(t *testing.T) {
	v := newVirtual(t, "")

	got := slices.Collect(v.Chips())
	assert.Equal(t, []chip.Name{coretempName, acpiName}, got)
	assert.Equal(t, "acpitz-virtual-0001", chip.FormatName(got[1]))

	name, ok := v.AdapterName(virtualBus)
	assert.True(t, ok)
	assert.Equal(t, "Virtual device", name)

	_, ok = v.AdapterName(chip.Bus{Kind: chip.BusISA})
	assert.False(t, ok)
}

func TestVirtualFeatures(t *testing.T) {
	v := newVirtual(t, "chips:\n  - match: coretemp-*\n    label: {temp2: Second}\n")

	features, err := v.Features(coretempName)
	require.NoError(t, err)
	require.Len(t, features, 2)

	assert.Equal(t, "temp1", features[0].Name)
	assert.Equal(t, "Core 0", features[0].Label)
	assert.Equal(t, []Subfeature{
		{Name: "temp1_input", Kind: "input", Value: 45},
		{Name: "temp1_crit", Kind: "crit", Value: 100},
		{Name: "temp1_max", Kind: "max", Value: 80},
	}, features[0].Subfeatures)

	assert.Equal(t, "temp2", features[1].Name)
	assert.Equal(t, "Second", features[1].Label)

	// The stored readings are not changed by the configuration.
	again, err := v.Features(coretempName)
	require.NoError(t, err)
	assert.Equal(t, "Second", again[1].Label)
	assert.Equal(t, "Core 1", v.chips[0].features[1].Label)

	_, err = v.Features(chip.Name{Prefix: "nope", Bus: virtualBus})
	assert.ErrorIs(t, err, ErrNoEntry)
}

func TestVirtualDoChipSets(t *testing.T) {
	v := newVirtual(t, "chips:\n  - match: coretemp-*\n    set: {temp1_max: 90}\n")

	assert.ErrorIs(t, v.DoChipSets(coretempName), ErrNoEntry)
	assert.NoError(t, v.DoChipSets(acpiName))
}

func TestVirtualInitErrors(t *testing.T) {
	v := NewVirtual(fakeReader{err: errors.New("wmi unavailable")})
	assert.ErrorIs(t, v.Init(strings.NewReader("")), ErrKernel)

	_, err := v.Features(coretempName)
	assert.ErrorIs(t, err, ErrNotInitialized)

	v = NewVirtual(fakeReader{})
	var cerr *ConfigError
	assert.ErrorAs(t, v.Init(strings.NewReader("chips: [")), &cerr)
}
