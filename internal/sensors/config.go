package sensors

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/CristiGvl/gosensors/internal/chip"
	"gopkg.in/yaml.v3"
)

// Config is the parsed configuration file.
//
//	chips:
//	  - match: ["lm78-*", "it87-isa-0290"]
//	    label: {temp1: "CPU Temp"}
//	    ignore: [in7]
//	    set: {temp1_max: 60, in0_min: 1.7}
type Config struct {
	Chips []ChipConfig `yaml:"chips"`
}

// ChipConfig holds the statements that apply to the chips matching any of
// its patterns. Later statements override earlier ones.
type ChipConfig struct {
	Match  NameList           `yaml:"match"`
	Label  map[string]string  `yaml:"label,omitempty"`
	Ignore []string           `yaml:"ignore,omitempty"`
	Set    map[string]float64 `yaml:"set,omitempty"`

	patterns []chip.Pattern
}

// NameList accepts either a single chip pattern or a list of them.
type NameList []string

func (l *NameList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*l = NameList{value.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := value.Decode(&list); err != nil {
			return err
		}
		*l = list
		return nil
	default:
		return fmt.Errorf("line %d: match must be a chip name or a list of chip names", value.Line)
	}
}

// ParseConfig reads a configuration document. An empty document is a valid,
// empty configuration.
func ParseConfig(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("%w: %w", ErrIO, err)}
	}

	cfg := &Config{}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ConfigError{Err: fmt.Errorf("%w: %w", ErrParse, err)}
	}

	for i := range cfg.Chips {
		c := &cfg.Chips[i]
		if len(c.Match) == 0 {
			return nil, &ConfigError{Statement: i + 1, Err: fmt.Errorf("%w: no chip names to match", ErrParse)}
		}
		for _, s := range c.Match {
			p, err := chip.ParsePattern(s)
			if err != nil {
				return nil, &ConfigError{Statement: i + 1, Err: fmt.Errorf("%w: %w", ErrChipName, err)}
			}
			c.patterns = append(c.patterns, p)
		}
	}

	return cfg, nil
}

// statements returns the chip statements that apply to name, in file order.
func (c *Config) statements(name chip.Name) []*ChipConfig {
	if c == nil {
		return nil
	}

	var out []*ChipConfig
	for i := range c.Chips {
		for _, p := range c.Chips[i].patterns {
			if chip.Match(name, p) {
				out = append(out, &c.Chips[i])
				break
			}
		}
	}
	return out
}

// label returns the configured label of a feature.
func (c *Config) label(name chip.Name, feature string) (string, bool) {
	var (
		label string
		found bool
	)
	for _, st := range c.statements(name) {
		if l, ok := st.Label[feature]; ok {
			label, found = l, true
		}
	}
	return label, found
}

// ignored reports whether a feature is hidden by the configuration.
func (c *Config) ignored(name chip.Name, feature string) bool {
	for _, st := range c.statements(name) {
		for _, f := range st.Ignore {
			if f == feature {
				return true
			}
		}
	}
	return false
}

// sets returns the "set" statements that apply to name.
func (c *Config) sets(name chip.Name) map[string]float64 {
	out := make(map[string]float64)
	for _, st := range c.statements(name) {
		for attr, v := range st.Set {
			out[attr] = v
		}
	}
	return out
}

// apply relabels and filters features according to the configuration.
func (c *Config) apply(name chip.Name, features []Feature) []Feature {
	out := features[:0]
	for _, f := range features {
		if c.ignored(name, f.Name) {
			continue
		}
		if l, ok := c.label(name, f.Name); ok {
			f.Label = l
		}
		out = append(out, f)
	}
	return out
}
