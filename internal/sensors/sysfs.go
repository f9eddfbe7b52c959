package sensors

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/CristiGvl/gosensors/internal/chip"
)

// DefaultSysfsRoot is where sysfs is mounted.
const DefaultSysfsRoot = "/sys"

// hwmonChip is a detected chip and the directory holding its attributes.
type hwmonChip struct {
	name chip.Name
	dir  string
}

// Sysfs implements Library on top of the Linux hwmon sysfs interface.
type Sysfs struct {
	root      string
	cfg       *Config
	chips     []hwmonChip
	ready     bool
	writeAttr func(path, value string) error
}

// NewSysfs creates a library reading the sysfs tree mounted at root.
func NewSysfs(root string) *Sysfs {
	return &Sysfs{
		root:      root,
		writeAttr: writeAttr,
	}
}

// Init loads the configuration and detects chips.
func (s *Sysfs) Init(r io.Reader) error {
	cfg, err := ParseConfig(r)
	if err != nil {
		return err
	}

	chips, err := s.scan()
	if err != nil {
		return err
	}

	s.cfg = cfg
	s.chips = chips
	s.ready = true
	return nil
}

// Chips yields the detected chips in hwmon index order.
func (s *Sysfs) Chips() iter.Seq[chip.Name] {
	return func(yield func(chip.Name) bool) {
		for _, c := range s.chips {
			if !yield(c.name) {
				return
			}
		}
	}
}

// AdapterName returns the name of the adapter a bus hangs off.
func (s *Sysfs) AdapterName(bus chip.Bus) (string, bool) {
	switch bus.Kind {
	case chip.BusISA:
		return "ISA adapter", true
	case chip.BusPCI:
		return "PCI adapter", true
	case chip.BusI2C, chip.BusSMBus:
		adapter := "i2c-" + strconv.Itoa(bus.Number)
		for _, path := range []string{
			filepath.Join(s.root, "class", "i2c-adapter", adapter, "name"),
			filepath.Join(s.root, "bus", "i2c", "devices", adapter, "name"),
		} {
			if name, err := readAttr(path); err == nil && name != "" {
				return name, true
			}
		}
		return "", false
	case chip.BusDummy:
		return dummyAdapterName(bus.Name)
	default:
		return "", false
	}
}

func dummyAdapterName(bus string) (string, bool) {
	switch bus {
	case "virtual":
		return "Virtual device", true
	case "acpi":
		return "ACPI interface", true
	case "hid":
		return "HID adapter", true
	case "spi":
		return "SPI adapter", true
	case "mdio":
		return "MDIO adapter", true
	case "scsi":
		return "SCSI adapter", true
	default:
		return "", false
	}
}

// Features reads the features of a detected chip, applying configured
// labels and ignore statements.
func (s *Sysfs) Features(name chip.Name) ([]Feature, error) {
	c, err := s.lookup(name)
	if err != nil {
		return nil, err
	}

	features, err := readFeatures(c.dir)
	if err != nil {
		return nil, err
	}
	return s.cfg.apply(name, features), nil
}

func (s *Sysfs) lookup(name chip.Name) (*hwmonChip, error) {
	if !s.ready {
		return nil, ErrNotInitialized
	}
	for i := range s.chips {
		if s.chips[i].name == name {
			return &s.chips[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoEntry, chip.FormatName(name))
}

// scan walks class/hwmon. A missing hwmon class means no chips.
func (s *Sysfs) scan() ([]hwmonChip, error) {
	dir := filepath.Join(s.root, "class", "hwmon")
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no hwmon class in sysfs", "path", dir)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrKernel, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return hwmonIndex(entries[i].Name()) < hwmonIndex(entries[j].Name())
	})

	var chips []hwmonChip
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "hwmon") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		c, err := identify(path)
		if err != nil {
			slog.Debug("skipping hwmon device", "path", path, "error", err)
			continue
		}
		chips = append(chips, c)
	}
	return chips, nil
}

func hwmonIndex(name string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(name, "hwmon"))
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}

// identify builds the chip name of a hwmon device from its name attribute
// and the bus its parent device sits on.
func identify(path string) (hwmonChip, error) {
	c := hwmonChip{dir: path}

	devPath, err := filepath.EvalSymlinks(filepath.Join(path, "device"))
	hasDevice := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c, err
	}

	prefix, err := readAttr(filepath.Join(path, "name"))
	if err != nil && hasDevice {
		// Older drivers keep their attributes on the parent device.
		prefix, err = readAttr(filepath.Join(devPath, "name"))
		c.dir = devPath
	}
	if err != nil {
		return c, err
	}
	if prefix == "" {
		return c, fmt.Errorf("empty chip name")
	}
	c.name.Prefix = prefix

	if !hasDevice {
		c.name.Bus = chip.Bus{Kind: chip.BusDummy, Name: "virtual"}
		return c, nil
	}

	subsystem, err := filepath.EvalSymlinks(filepath.Join(devPath, "subsystem"))
	if err != nil {
		return c, fmt.Errorf("device %s has no subsystem: %w", devPath, err)
	}

	bus, addr, err := parseDevice(filepath.Base(subsystem), filepath.Base(devPath))
	if err != nil {
		return c, err
	}
	c.name.Bus = bus
	c.name.Addr = addr
	return c, nil
}

// parseDevice decodes a sysfs device name according to its subsystem.
func parseDevice(subsystem, dev string) (chip.Bus, int, error) {
	switch subsystem {
	case "i2c":
		var nr, addr int
		if _, err := fmt.Sscanf(dev, "%d-%x", &nr, &addr); err != nil {
			return chip.Bus{}, 0, fmt.Errorf("bad i2c device name %q: %w", dev, err)
		}
		return chip.Bus{Kind: chip.BusI2C, Number: nr}, addr, nil
	case "pci":
		var domain, bus, slot, fn int
		if _, err := fmt.Sscanf(dev, "%x:%x:%x.%x", &domain, &bus, &slot, &fn); err != nil {
			return chip.Bus{}, 0, fmt.Errorf("bad pci device name %q: %w", dev, err)
		}
		return chip.Bus{Kind: chip.BusPCI}, (domain << 16) + (bus << 8) + (slot << 3) + fn, nil
	case "platform", "isa":
		addr := 0
		if i := strings.LastIndexByte(dev, '.'); i >= 0 {
			n, err := strconv.Atoi(dev[i+1:])
			if err != nil {
				return chip.Bus{}, 0, fmt.Errorf("bad %s device name %q: %w", subsystem, dev, err)
			}
			addr = n
		}
		return chip.Bus{Kind: chip.BusISA}, addr, nil
	default:
		return chip.Bus{Kind: chip.BusDummy, Name: subsystem}, trailingNumber(dev), nil
	}
}

// trailingNumber returns the decimal number ending s, or 0.
func trailingNumber(s string) int {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return 0
	}
	return n
}

// DoChipSets writes the configured "set" values of a chip. The first
// attribute that cannot be opened for lack of permission aborts with
// ErrAccessDenied; other failures are collected into ErrPartialSet.
func (s *Sysfs) DoChipSets(name chip.Name) error {
	c, err := s.lookup(name)
	if err != nil {
		return err
	}

	sets := s.cfg.sets(name)
	attrs := make([]string, 0, len(sets))
	for attr := range sets {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)

	chipName := chip.FormatName(name)
	var failed []error
	for _, attr := range attrs {
		value, err := rawValue(attr, sets[attr])
		if err != nil {
			failed = append(failed, &SetError{Chip: chipName, Attr: attr, Err: err})
			continue
		}

		err = s.writeAttr(filepath.Join(c.dir, attr), value)
		switch {
		case err == nil:
			slog.Debug("applied set statement", "chip", chipName, "attr", attr, "value", value)
		case errors.Is(err, fs.ErrPermission):
			return &SetError{Chip: chipName, Attr: attr, Err: fmt.Errorf("%w: %w", ErrAccessDenied, err)}
		default:
			failed = append(failed, &SetError{Chip: chipName, Attr: attr, Err: err})
		}
	}

	if len(failed) > 0 {
		return errors.Join(append([]error{ErrPartialSet}, failed...)...)
	}
	return nil
}

// writeAttr writes an existing sysfs attribute.
func writeAttr(path, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(value); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
