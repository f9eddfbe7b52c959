package chip

// Match reports whether the detected chip n satisfies pattern p.
// Wildcard fields in p match anything; the bus number is only compared for
// I2C and SMBus chips and the bus name only for dummy buses.
func Match(n Name, p Pattern) bool {
	if p.Prefix != Any && p.Prefix != n.Prefix {
		return false
	}

	if p.Bus.Kind != BusAny {
		if p.Bus.Kind != n.Bus.Kind {
			return false
		}
		switch p.Bus.Kind {
		case BusI2C, BusSMBus:
			if p.Bus.Number != AnyNumber && p.Bus.Number != n.Bus.Number {
				return false
			}
		case BusDummy:
			if p.Bus.Name != Any && p.Bus.Name != n.Bus.Name {
				return false
			}
		}
	}

	return p.Addr == AnyAddr || p.Addr == n.Addr
}

// FirstMatch returns the index of the first pattern that n satisfies.
func FirstMatch(n Name, patterns []Pattern) (int, bool) {
	for i, p := range patterns {
		if Match(n, p) {
			return i, true
		}
	}
	return -1, false
}
