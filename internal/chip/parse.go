package chip

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError records a chip name that could not be parsed.
// Use [errors.As] to extract the offending input from wrapped errors.
type ParseError struct {
	Input  string // the chip name as given
	Reason string // what was wrong with it
}

// Error returns a human-readable description of the parse failure.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in chip name %q: %s", e.Input, e.Reason)
}

// ParsePattern parses a chip name pattern such as "lm78-i2c-0-2d",
// "*-isa-0290", "k10temp-pci-*" or "acpitz-virtual-0".
func ParsePattern(s string) (Pattern, error) {
	fail := func(format string, args ...any) (Pattern, error) {
		return Pattern{}, &ParseError{Input: s, Reason: fmt.Sprintf(format, args...)}
	}

	fields := strings.Split(s, "-")
	p := Pattern{
		Prefix: fields[0],
		Bus:    Bus{Kind: BusAny, Number: AnyNumber},
		Addr:   AnyAddr,
	}
	if p.Prefix == "" {
		return fail("empty prefix")
	}

	rest := fields[1:]
	if len(rest) == 0 {
		return p, nil
	}

	bus := rest[0]
	rest = rest[1:]
	switch bus {
	case "":
		return fail("empty bus type")
	case Any:
		if len(rest) != 0 {
			return fail("unexpected %q after bus wildcard", strings.Join(rest, "-"))
		}
		return p, nil
	case "isa":
		p.Bus.Kind = BusISA
	case "pci":
		p.Bus.Kind = BusPCI
	case "i2c", "smbus":
		p.Bus.Kind = BusI2C
		if bus == "smbus" {
			p.Bus.Kind = BusSMBus
		}
		if len(rest) == 0 {
			return fail("missing %s bus number", bus)
		}
		n, err := parseField(rest[0], 10)
		if err != nil {
			return fail("bad bus number %q", rest[0])
		}
		p.Bus.Number = n
		rest = rest[1:]
	default:
		p.Bus = Bus{Kind: BusDummy, Number: AnyNumber, Name: bus}
	}

	if len(rest) == 0 {
		return fail("missing address")
	}
	if len(rest) > 1 {
		return fail("unexpected %q after address", strings.Join(rest[1:], "-"))
	}

	addr, err := parseField(rest[0], 16)
	if err != nil {
		return fail("bad address %q", rest[0])
	}
	p.Addr = addr

	return p, nil
}

// parseField parses a non-negative number in the given base, mapping the
// wildcard token to -1.
func parseField(s string, base int) (int, error) {
	if s == Any {
		return -1, nil
	}
	v, err := strconv.ParseUint(s, base, 31)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
