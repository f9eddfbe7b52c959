// Package chip models hardware monitoring chip names, the wildcard patterns
// users select them with, and the rules for matching one against the other.
package chip

import (
	"fmt"
	"strconv"
)

// Any is the wildcard token accepted in the prefix, bus and address positions.
const Any = "*"

// MaxPatterns is the maximum number of chip patterns accepted in one invocation.
const MaxPatterns = 20

const (
	// AnyNumber matches every bus number.
	AnyNumber = -1
	// AnyAddr matches every chip address.
	AnyAddr = -1
)

// BusKind represents the bus a chip is attached to
type BusKind int

const (
	BusAny BusKind = iota
	BusISA
	BusPCI
	BusI2C
	BusSMBus
	BusDummy
)

func (k BusKind) String() string {
	switch k {
	case BusAny:
		return Any
	case BusISA:
		return "isa"
	case BusPCI:
		return "pci"
	case BusI2C:
		return "i2c"
	case BusSMBus:
		return "smbus"
	case BusDummy:
		return "dummy"
	default:
		return "unknown"
	}
}

// Bus identifies a bus instance. Number is only meaningful for I2C and SMBus,
// Name only for the dummy (virtual) kind.
type Bus struct {
	Kind   BusKind
	Number int
	Name   string
}

func (b Bus) String() string {
	switch b.Kind {
	case BusI2C, BusSMBus:
		if b.Number == AnyNumber {
			return b.Kind.String() + "-" + Any
		}
		return b.Kind.String() + "-" + strconv.Itoa(b.Number)
	case BusDummy:
		return b.Name
	default:
		return b.Kind.String()
	}
}

// Name is a concrete, detected chip identifier.
type Name struct {
	Prefix string
	Bus    Bus
	Addr   int
}

func (n Name) String() string {
	return FormatName(n)
}

// Pattern is a chip identifier in which the prefix, bus kind, bus number,
// bus name and address may be wildcards.
type Pattern struct {
	Prefix string
	Bus    Bus
	Addr   int
}

// MatchAll returns the pattern used when no chips are given on the command line.
func MatchAll() Pattern {
	return Pattern{
		Prefix: Any,
		Bus:    Bus{Kind: BusAny, Number: AnyNumber},
		Addr:   AnyAddr,
	}
}

// IsMatchAll reports whether p matches every chip.
func (p Pattern) IsMatchAll() bool {
	return p.Prefix == Any && p.Bus.Kind == BusAny && p.Addr == AnyAddr
}

func (p Pattern) String() string {
	if p.Bus.Kind == BusAny {
		return p.Prefix + "-" + Any
	}

	addr := Any
	if p.Addr != AnyAddr {
		addr = fmt.Sprintf("%04x", p.Addr)
	}

	switch p.Bus.Kind {
	case BusI2C, BusSMBus:
		if p.Addr != AnyAddr {
			addr = fmt.Sprintf("%02x", p.Addr)
		}
		return p.Prefix + "-" + p.Bus.String() + "-" + addr
	case BusDummy:
		return p.Prefix + "-" + p.Bus.Name + "-" + addr
	default:
		return p.Prefix + "-" + p.Bus.Kind.String() + "-" + addr
	}
}

// FormatName renders a chip name in its canonical, bus-specific text form.
func FormatName(n Name) string {
	switch n.Bus.Kind {
	case BusISA:
		return fmt.Sprintf("%s-isa-%04x", n.Prefix, n.Addr)
	case BusPCI:
		return fmt.Sprintf("%s-pci-%04x", n.Prefix, n.Addr)
	case BusDummy:
		return fmt.Sprintf("%s-%s-%04x", n.Prefix, n.Bus.Name, n.Addr)
	default:
		return fmt.Sprintf("%s-i2c-%d-%02x", n.Prefix, n.Bus.Number, n.Addr)
	}
}
