// Package printer renders chip features as text.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/CristiGvl/gosensors/internal/sensors"
)

// Options controls how readings are rendered
type Options struct {
	Fahrenheit bool
	// Degree is the unit suffix for temperatures, e.g. "°C" or " F".
	Degree string
}

// Generic prints features in the human readable format, one line per
// feature, with labels aligned.
func Generic(w io.Writer, features []sensors.Feature, opts Options) {
	width := 0
	for _, f := range features {
		width = max(width, len(f.Label))
	}

	for _, f := range features {
		fmt.Fprintf(w, "%-*s ", width+1, f.Label+":")
		switch f.Type {
		case sensors.FeatureIn:
			printIn(w, f)
		case sensors.FeatureFan:
			printFan(w, f)
		case sensors.FeatureTemp:
			printTemp(w, f, opts)
		case sensors.FeaturePower:
			printSimple(w, f, "%6.2f W")
		case sensors.FeatureCurr:
			printSimple(w, f, "%+6.2f A")
		case sensors.FeatureHumidity:
			printSimple(w, f, "%6.1f %%RH")
		case sensors.FeatureIntrusion:
			printIntrusion(w, f)
		default:
			fmt.Fprint(w, "N/A")
		}
		fmt.Fprintln(w)
	}
}

func printIn(w io.Writer, f sensors.Feature) {
	in, ok := f.Sub("input")
	if !ok {
		fmt.Fprint(w, "    N/A  ")
	} else {
		fmt.Fprintf(w, "%+6.2f V", in)
	}
	limits(w, f, "%+6.2f V", "min", "max")
	alarm(w, f)
}

func printFan(w io.Writer, f sensors.Feature) {
	in, ok := f.Sub("input")
	if !ok {
		fmt.Fprint(w, "     N/A")
	} else {
		fmt.Fprintf(w, "%4.0f RPM", in)
	}
	limits(w, f, "%4.0f RPM", "min")
	if div, ok := f.Sub("div"); ok {
		fmt.Fprintf(w, "  (div = %.0f)", div)
	}
	alarm(w, f)
}

func printTemp(w io.Writer, f sensors.Feature, opts Options) {
	conv := func(v float64) float64 {
		if opts.Fahrenheit {
			return v*9/5 + 32
		}
		return v
	}

	if fault, ok := f.Sub("fault"); ok && fault != 0 {
		fmt.Fprint(w, "  FAULT  ")
	} else if in, ok := f.Sub("input"); ok {
		fmt.Fprintf(w, "%+6.1f%s", conv(in), opts.Degree)
	} else {
		fmt.Fprint(w, "    N/A  ")
	}

	var parts []string
	for _, kind := range []string{"min", "max", "max_hyst", "crit", "crit_hyst"} {
		v, ok := f.Sub(kind)
		if !ok {
			continue
		}
		name := kind
		switch kind {
		case "max":
			name = "high"
		case "min":
			name = "low"
		case "max_hyst", "crit_hyst":
			name = "hyst"
		}
		parts = append(parts, fmt.Sprintf("%s = %+.1f%s", name, conv(v), opts.Degree))
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "  (%s)", strings.Join(parts, ", "))
	}
	alarm(w, f)
}

func printSimple(w io.Writer, f sensors.Feature, format string) {
	in, ok := f.Sub("input")
	if !ok {
		fmt.Fprint(w, "N/A")
		return
	}
	fmt.Fprintf(w, format, in)
	limits(w, f, format, "min", "max", "crit")
	alarm(w, f)
}

func printIntrusion(w io.Writer, f sensors.Feature) {
	if a, ok := f.Sub("alarm"); ok && a != 0 {
		fmt.Fprint(w, "ALARM")
		return
	}
	fmt.Fprint(w, "OK")
}

// limits prints the given limit subfeatures in parentheses, when present.
func limits(w io.Writer, f sensors.Feature, format string, kinds ...string) {
	var parts []string
	for _, kind := range kinds {
		if v, ok := f.Sub(kind); ok {
			parts = append(parts, kind+" = "+strings.TrimSpace(fmt.Sprintf(format, v)))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "  (%s)", strings.Join(parts, ", "))
	}
}

// alarm appends ALARM when any alarm subfeature is raised.
func alarm(w io.Writer, f sensors.Feature) {
	for _, s := range f.Subfeatures {
		if strings.HasSuffix(s.Kind, "alarm") && s.Value != 0 {
			fmt.Fprint(w, "  ALARM")
			return
		}
	}
}

// Unknown prints every subfeature with its raw value.
func Unknown(w io.Writer, features []sensors.Feature) {
	for _, f := range features {
		fmt.Fprintf(w, "%s:\n", f.Label)
		for _, s := range f.Subfeatures {
			fmt.Fprintf(w, "  %s: %.3f\n", s.Name, s.Value)
		}
	}
}
