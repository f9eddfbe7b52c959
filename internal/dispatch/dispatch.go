// Package dispatch walks the detected chips and runs the print or set action
// on those matching the requested patterns.
package dispatch

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/CristiGvl/gosensors/internal/chip"
	"github.com/CristiGvl/gosensors/internal/printer"
	"github.com/CristiGvl/gosensors/internal/sensors"
)

// Exit codes of the sensors command.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Options selects what Run does with each matching chip.
type Options struct {
	Patterns    []chip.Pattern
	DoSets      bool
	Fahrenheit  bool
	HideAdapter bool
	HideUnknown bool
	DoUnknown   bool
	Degree      string
}

// Result summarizes a run.
type Result struct {
	Dispatched int  // chips an action was run on
	Failed     bool // an action failed in a way that affects the exit status
	Code       int  // exit code of the failed action
}

// Engine runs actions against a library.
type Engine struct {
	lib    sensors.Library
	opts   Options
	stdout io.Writer
	stderr io.Writer
}

// New creates an engine writing readings to stdout and diagnostics to
// stderr.
func New(lib sensors.Library, opts Options, stdout, stderr io.Writer) *Engine {
	return &Engine{
		lib:    lib,
		opts:   opts,
		stdout: stdout,
		stderr: stderr,
	}
}

// Run consumes chips and runs exactly one action on each chip matching at
// least one pattern.
func (e *Engine) Run(chips iter.Seq[chip.Name]) Result {
	var res Result
	for name := range chips {
		i, ok := chip.FirstMatch(name, e.opts.Patterns)
		if !ok {
			continue
		}
		slog.Debug("chip matched", "chip", chip.FormatName(name), "pattern", e.opts.Patterns[i].String())

		res.Dispatched++
		if e.opts.DoSets {
			if code := e.set(name); code != ExitSuccess {
				res.Failed = true
				res.Code = code
			}
		} else {
			e.print(name)
		}
	}
	return res
}

func (e *Engine) set(name chip.Name) int {
	err := e.lib.DoChipSets(name)
	if err == nil {
		return ExitSuccess
	}

	label := chip.FormatName(name)
	switch {
	case errors.Is(err, sensors.ErrAccessDenied):
		fmt.Fprintf(e.stderr, "%s: %s for writing;\n", label, sensors.StrError(err))
		fmt.Fprintln(e.stderr, "Run as root?")
		return ExitFailure
	case errors.Is(err, sensors.ErrPartialSet):
		slog.Debug("set statements failed", "chip", label, "error", err)
		fmt.Fprintf(e.stderr, "%s: At least one \"set\" statement failed\n", label)
	default:
		fmt.Fprintf(e.stderr, "%s: %s\n", label, sensors.StrError(err))
	}
	return ExitSuccess
}

func (e *Engine) print(name chip.Name) {
	label := chip.FormatName(name)

	features, err := e.lib.Features(name)
	if err != nil {
		fmt.Fprintf(e.stderr, "%s: %s\n", label, sensors.StrError(err))
		return
	}
	if e.opts.HideUnknown && len(features) == 0 {
		return
	}

	fmt.Fprintln(e.stdout, label)
	if !e.opts.HideAdapter {
		if adapter, ok := e.lib.AdapterName(name.Bus); ok {
			fmt.Fprintf(e.stdout, "Adapter: %s\n", adapter)
		} else {
			fmt.Fprintf(e.stderr, "Can't get adapter name for bus %s\n", name.Bus)
		}
	}

	if e.opts.DoUnknown {
		printer.Unknown(e.stdout, features)
	} else {
		printer.Generic(e.stdout, features, printer.Options{
			Fahrenheit: e.opts.Fahrenheit,
			Degree:     e.opts.Degree,
		})
	}
	fmt.Fprintln(e.stdout)
}

// ExitStatus reports a run that found nothing and returns the process exit
// code.
func ExitStatus(res Result, matchAll bool, stderr io.Writer) int {
	if res.Dispatched == 0 {
		if matchAll {
			fmt.Fprintln(stderr, "No sensors found!")
			fmt.Fprintln(stderr, "Make sure you loaded all the kernel drivers you need.")
			fmt.Fprintln(stderr, "Try sensors-detect to find out which these are.")
		} else {
			fmt.Fprintln(stderr, "Specified sensor(s) not found!")
		}
		return ExitFailure
	}
	if res.Failed {
		return res.Code
	}
	return ExitSuccess
}
