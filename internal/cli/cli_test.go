package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/CristiGvl/gosensors/internal/chip"
	"github.com/CristiGvl/gosensors/internal/sensors"
	"github.com/CristiGvl/gosensors/internal/sensors/sensorstest"
)

var lm78 = chip.Name{Prefix: "lm78", Bus: chip.Bus{Kind: chip.BusI2C}, Addr: 0x2d}

type harness struct {
	lib    *sensorstest.Library
	files  map[string]string
	vars   map[string]string
	stdin  string
	stdout bytes.Buffer
	stderr bytes.Buffer
	opened []string
	calls  int
}

func newHarness() *harness {
	return &harness{
		lib: &sensorstest.Library{
			Detected: []chip.Name{lm78},
			Adapters: map[chip.Bus]string{lm78.Bus: "SMBus adapter"},
			Readings: map[chip.Name][]sensors.Feature{
				lm78: {{
					Name:  "temp1",
					Type:  sensors.FeatureTemp,
					Label: "temp1",
					Subfeatures: []sensors.Subfeature{
						{Name: "temp1_input", Kind: "input", Value: 40},
					},
				}},
			},
		},
		files: map[string]string{},
		vars:  map[string]string{},
	}
}

func (h *harness) env() Env {
	return Env{
		Stdin:  strings.NewReader(h.stdin),
		Stdout: &h.stdout,
		Stderr: &h.stderr,
		Getenv: func(key string) string { return h.vars[key] },
		Open: func(name string) (io.ReadCloser, error) {
			h.opened = append(h.opened, name)
			data, ok := h.files[name]
			if !ok {
				return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
			}
			return io.NopCloser(strings.NewReader(data)), nil
		},
		Lookup: ianaindex.IANA.Encoding,
		NewLibrary: func() sensors.Library {
			h.calls++
			return h.lib
		},
	}
}

func (h *harness) run(args ...string) int {
	return Run(args, h.env())
}

func TestParseArgs(t *testing.T) {
	opts, err := ParseArgs([]string{"-sfA", "--no-unknown", "-c", "my.yaml", "lm78-*", "*-isa-0290"})
	require.NoError(t, err)

	assert.Equal(t, "my.yaml", opts.ConfigFile)
	assert.True(t, opts.ConfigExplicit)
	assert.True(t, opts.Dispatch.DoSets)
	assert.True(t, opts.Dispatch.Fahrenheit)
	assert.True(t, opts.Dispatch.HideAdapter)
	assert.True(t, opts.Dispatch.HideUnknown)
	assert.False(t, opts.Dispatch.DoUnknown)
	require.Len(t, opts.Dispatch.Patterns, 2)
	assert.Equal(t, "lm78", opts.Dispatch.Patterns[0].Prefix)
	assert.Equal(t, chip.BusISA, opts.Dispatch.Patterns[1].Bus.Kind)
	assert.False(t, opts.MatchAll())
}

func TestParseArgsDefaults(t *testing.T) {
	opts, err := ParseArgs(nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfigFile, opts.ConfigFile)
	assert.False(t, opts.ConfigExplicit)
	assert.True(t, opts.MatchAll())
}

func TestParseArgsPatternLimit(t *testing.T) {
	args := make([]string, chip.MaxPatterns)
	for i := range args {
		args[i] = fmt.Sprintf("lm78-i2c-%d-2d", i)
	}

	opts, err := ParseArgs(args)
	require.NoError(t, err)
	assert.Len(t, opts.Dispatch.Patterns, chip.MaxPatterns)

	_, err = ParseArgs(append(args, "lm78-*"))
	assert.ErrorIs(t, err, ErrTooManyChips)
}

func TestParseArgsErrors(t *testing.T) {
	_, err := ParseArgs([]string{"-x"})
	var usage *UsageError
	assert.ErrorAs(t, err, &usage)

	_, err = ParseArgs([]string{"lm78-i2c-x-2d"})
	var perr *chip.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "lm78-i2c-x-2d", perr.Input)
}

func TestRunPrints(t *testing.T) {
	h := newHarness()
	h.vars["LANG"] = "en_US.UTF-8"

	code := h.run()

	assert.Equal(t, 0, code)
	assert.Equal(t, "lm78-i2c-0-2d\nAdapter: SMBus adapter\ntemp1:  +40.0°C\n\n", h.stdout.String())
	assert.Empty(t, h.stderr.String())
	assert.Equal(t, []string{DefaultConfigFile}, h.opened)
	assert.Equal(t, 1, h.lib.InitCalls)
}

func TestRunFahrenheitWithoutConversion(t *testing.T) {
	h := newHarness()
	env := h.env()
	env.Lookup = nil

	code := Run([]string{"-f", "-A"}, env)

	assert.Equal(t, 0, code)
	assert.Equal(t, "lm78-i2c-0-2d\ntemp1: +104.0 F\n\n", h.stdout.String())
}

func TestRunHelpAndVersion(t *testing.T) {
	h := newHarness()
	assert.Equal(t, 0, h.run("-h"))
	assert.Contains(t, h.stdout.String(), "Usage: sensors [OPTION]... [CHIP]...")
	assert.Contains(t, h.stdout.String(), "\tlm78-i2c-0-2d\t*-i2c-0-2d\n")
	assert.Zero(t, h.calls)

	h = newHarness()
	assert.Equal(t, 0, h.run("--version"))
	assert.True(t, strings.HasPrefix(h.stdout.String(), "sensors version "))
	assert.Contains(t, h.stdout.String(), " with libsensors version "+sensors.Version+"\n")
	assert.Zero(t, h.calls)
}

func TestRunInputErrors(t *testing.T) {
	tooMany := make([]string, chip.MaxPatterns+1)
	for i := range tooMany {
		tooMany[i] = "lm78-*"
	}

	tests := []struct {
		name   string
		args   []string
		stderr string
	}{
		{
			name:   "unknown option",
			args:   []string{"-x"},
			stderr: "sensors: unknown shorthand flag: 'x' in -x\nTry `sensors -h' for more information\n",
		},
		{
			name:   "bad chip name",
			args:   []string{"lm78-*", "lm78-i2c-0"},
			stderr: "Parse error in chip name `lm78-i2c-0'\nTry `sensors -h' for more information\n",
		},
		{
			name:   "too many chips",
			args:   tooMany,
			stderr: "Too many chips on command line!\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			assert.Equal(t, 1, h.run(tt.args...))
			assert.Equal(t, tt.stderr, h.stderr.String())
			assert.Empty(t, h.stdout.String())
			assert.Zero(t, h.calls)
			assert.Empty(t, h.opened)
		})
	}
}

func TestRunConfigFile(t *testing.T) {
	h := newHarness()
	h.files["/tmp/s.yaml"] = "chips: []\n"

	assert.Equal(t, 0, h.run("-c", "/tmp/s.yaml"))
	assert.Equal(t, "chips: []\n", h.lib.Config)
}

func TestRunConfigFromStdin(t *testing.T) {
	h := newHarness()
	h.stdin = "chips:\n  - match: lm78-*\n"

	assert.Equal(t, 0, h.run("-c", "-"))
	assert.Equal(t, h.stdin, h.lib.Config)
	assert.Empty(t, h.opened)
}

func TestRunMissingExplicitConfig(t *testing.T) {
	h := newHarness()

	assert.Equal(t, 1, h.run("-c", "/nonexistent.yaml"))
	assert.Equal(t, "Could not open config file\n/nonexistent.yaml: file does not exist\n", h.stderr.String())
	assert.Zero(t, h.lib.InitCalls)
}

func TestRunInitError(t *testing.T) {
	h := newHarness()
	h.lib.InitErr = &sensors.ConfigError{Statement: 2, Err: fmt.Errorf("%w: no chip names to match", sensors.ErrParse)}

	assert.Equal(t, 1, h.run())
	assert.Equal(t, "sensors_init: config chip statement 2: general parse error: no chip names to match\n", h.stderr.String())
	assert.Empty(t, h.stdout.String())

	h = newHarness()
	h.lib.InitErr = fmt.Errorf("%w: boom", sensors.ErrKernel)
	assert.Equal(t, 1, h.run())
	assert.Equal(t, "sensors_init: Kernel interface error\n", h.stderr.String())
}

func TestRunNothingFound(t *testing.T) {
	h := newHarness()
	h.lib.Detected = nil

	assert.Equal(t, 1, h.run())
	assert.Equal(t, "No sensors found!\n"+
		"Make sure you loaded all the kernel drivers you need.\n"+
		"Try sensors-detect to find out which these are.\n", h.stderr.String())

	h = newHarness()
	assert.Equal(t, 1, h.run("it87-*"))
	assert.Equal(t, "Specified sensor(s) not found!\n", h.stderr.String())
}

func TestRunSetAccessDenied(t *testing.T) {
	h := newHarness()
	h.lib.SetErrs = map[chip.Name]error{lm78: fmt.Errorf("%w: %w", sensors.ErrAccessDenied, errors.New("permission denied"))}

	assert.Equal(t, 1, h.run("-s"))
	assert.Equal(t, "lm78-i2c-0-2d: Can't access procfs/sysfs file for writing;\nRun as root?\n", h.stderr.String())
	assert.Empty(t, h.stdout.String())
}

func TestRunDebugLogging(t *testing.T) {
	h := newHarness()
	h.vars["SENSORS_DEBUG"] = "1"

	assert.Equal(t, 0, h.run("-A"))
	assert.Contains(t, h.stderr.String(), "level=DEBUG")
	assert.Contains(t, h.stderr.String(), "no config file, using defaults")
}
