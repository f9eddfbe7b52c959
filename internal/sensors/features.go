package sensors

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// attrPattern matches hwmon attribute file names such as temp1_input.
var attrPattern = regexp.MustCompile(`^(in|fan|temp|power|curr|humidity|intrusion)(\d+)_([a-z0-9_]+)$`)

// scale returns the factor between a physical value and its sysfs
// representation, following the hwmon sysfs ABI.
func scale(t FeatureType, kind string) float64 {
	switch {
	case kind == "div", kind == "pulses", kind == "type", kind == "enable",
		kind == "beep", kind == "fault", strings.HasSuffix(kind, "alarm"):
		return 1
	}

	switch t {
	case FeatureIn, FeatureTemp, FeatureCurr, FeatureHumidity:
		return 1000
	case FeaturePower:
		return 1000000
	default:
		return 1
	}
}

// rawValue converts a physical value for attr into the text written to sysfs.
func rawValue(attr string, v float64) (string, error) {
	m := attrPattern.FindStringSubmatch(attr)
	if m == nil || m[3] == "label" {
		return "", fmt.Errorf("%w: %q", ErrNoEntry, attr)
	}
	t := featurePrefixes[m[1]]
	return strconv.FormatInt(int64(math.Round(v*scale(t, m[3]))), 10), nil
}

// readAttr reads a sysfs attribute and trims the trailing newline.
func readAttr(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// readFeatures reads every hwmon feature found in dir.
func readFeatures(dir string) ([]Feature, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAccessRead, err)
	}

	byName := make(map[string]*Feature)
	for _, entry := range entries {
		m := attrPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}

		key := m[1] + m[2]
		f, ok := byName[key]
		if !ok {
			n, _ := strconv.Atoi(m[2])
			f = &Feature{Name: key, Type: featurePrefixes[m[1]], Number: n}
			byName[key] = f
		}

		path := filepath.Join(dir, entry.Name())
		text, err := readAttr(path)
		if err != nil {
			slog.Debug("skipping unreadable attribute", "path", path, "error", err)
			continue
		}

		kind := m[3]
		if kind == "label" {
			f.Label = text
			continue
		}

		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			continue
		}
		f.Subfeatures = append(f.Subfeatures, Subfeature{
			Name:  entry.Name(),
			Kind:  kind,
			Value: v / scale(f.Type, kind),
		})
	}

	return sortFeatures(byName), nil
}

func sortFeatures(byName map[string]*Feature) []Feature {
	features := make([]Feature, 0, len(byName))
	for _, f := range byName {
		if len(f.Subfeatures) == 0 {
			continue
		}
		if f.Label == "" {
			f.Label = f.Name
		}
		sort.Slice(f.Subfeatures, func(i, j int) bool {
			a, b := f.Subfeatures[i], f.Subfeatures[j]
			if (a.Kind == "input") != (b.Kind == "input") {
				return a.Kind == "input"
			}
			return a.Name < b.Name
		})
		features = append(features, *f)
	}

	sort.Slice(features, func(i, j int) bool {
		if features[i].Type != features[j].Type {
			return features[i].Type < features[j].Type
		}
		return features[i].Number < features[j].Number
	})
	return features
}
