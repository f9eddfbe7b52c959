package sensors

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by [Library] implementations. [StrError] maps
// them to the messages printed by the command.
var (
	// ErrAccessDenied is returned by DoChipSets when a chip attribute cannot
	// be opened for writing at all, typically because the caller is not root.
	ErrAccessDenied = errors.New("can't access sysfs file")

	// ErrPartialSet is returned by DoChipSets when at least one "set"
	// statement could not be applied.
	ErrPartialSet = errors.New("can't write")

	// ErrNoEntry is returned when a chip or feature is not known.
	ErrNoEntry = errors.New("no such chip or feature")

	// ErrAccessRead is returned when an attribute cannot be read.
	ErrAccessRead = errors.New("can't read")

	// ErrKernel is returned when the kernel interface is not usable.
	ErrKernel = errors.New("kernel interface error")

	// ErrParse is returned for malformed configuration input.
	ErrParse = errors.New("general parse error")

	// ErrChipName is returned for a malformed chip name in the configuration.
	ErrChipName = errors.New("can't parse chip name")

	// ErrIO is returned when the configuration stream cannot be read.
	ErrIO = errors.New("I/O error")

	// ErrNotInitialized is returned when a library is used before Init.
	ErrNotInitialized = errors.New("library not initialized")
)

var errorText = []struct {
	err  error
	text string
}{
	{ErrAccessDenied, "Can't access procfs/sysfs file"},
	{ErrPartialSet, "Can't write"},
	{ErrNoEntry, "No such subfeature known"},
	{ErrAccessRead, "Can't read"},
	{ErrKernel, "Kernel interface error"},
	{ErrParse, "General parse error"},
	{ErrChipName, "Can't parse chip name"},
	{ErrIO, "I/O error"},
	{ErrNotInitialized, "Library not initialized"},
}

// StrError returns the user-facing description of a library error.
func StrError(err error) string {
	if err == nil {
		return ""
	}

	var cerr *ConfigError
	if errors.As(err, &cerr) {
		return cerr.Error()
	}

	for _, e := range errorText {
		if errors.Is(err, e.err) {
			return e.text
		}
	}
	return err.Error()
}

// ConfigError records a failure while loading the configuration.
// Statement is the 1-based index of the chip statement, or 0 when the error
// concerns the whole document.
type ConfigError struct {
	Statement int
	Err       error
}

// Error returns a human-readable description of the configuration failure.
func (e *ConfigError) Error() string {
	if e.Statement > 0 {
		return fmt.Sprintf("config chip statement %d: %v", e.Statement, e.Err)
	}
	return fmt.Sprintf("config: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// SetError records a "set" statement that could not be applied to a chip.
// Use [errors.As] to extract the attribute from wrapped errors.
type SetError struct {
	Chip string // formatted chip name
	Attr string // attribute name, e.g. "temp1_max"
	Err  error  // underlying error
}

// Error returns a human-readable description of the set failure.
func (e *SetError) Error() string {
	return fmt.Sprintf("%s: set %s: %v", e.Chip, e.Attr, e.Err)
}

// Unwrap returns the underlying error.
func (e *SetError) Unwrap() error {
	return e.Err
}
