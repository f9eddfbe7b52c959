// Package degree resolves the suffix printed after temperature values: the
// degree sign and unit letter in the terminal's character encoding, or a
// plain ASCII form when the sign cannot be represented.
package degree

import (
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// maxLen is the longest suffix accepted from a conversion, in bytes.
const maxLen = 4

// asciiCodeset is the codeset of the C and POSIX locales.
const asciiCodeset = "ANSI_X3.4-1968"

var (
	latin1Text   = [2]string{"\xb0C", "\xb0F"}
	fallbackText = [2]string{" C", " F"}
)

// LookupFunc returns the encoding for a codeset name. A nil encoding with a
// nil error means the codeset is known but not supported.
type LookupFunc func(codeset string) (encoding.Encoding, error)

// Resolver computes the degree string for the active locale.
type Resolver struct {
	// Lookup is nil when no conversion support is available.
	Lookup LookupFunc
	Getenv func(string) string
}

// NewResolver creates a resolver backed by the IANA encoding index and the
// process environment.
func NewResolver() *Resolver {
	return &Resolver{
		Lookup: ianaindex.IANA.Encoding,
		Getenv: os.Getenv,
	}
}

// Resolve returns "°C" or "°F" in the active codeset, falling back to " C"
// or " F" when the conversion is unavailable or fails.
func (r *Resolver) Resolve(fahrenheit bool) string {
	unit := 0
	if fahrenheit {
		unit = 1
	}

	if s, ok := r.convert(latin1Text[unit]); ok {
		return s
	}
	return fallbackText[unit]
}

func (r *Resolver) convert(latin1 string) (string, bool) {
	if r.Lookup == nil {
		return "", false
	}

	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	enc, err := r.Lookup(Codeset(getenv))
	if err != nil || enc == nil {
		return "", false
	}

	text, err := charmap.ISO8859_1.NewDecoder().String(latin1)
	if err != nil {
		return "", false
	}

	out, err := enc.NewEncoder().String(text)
	if err != nil || out == "" || len(out) > maxLen {
		return "", false
	}

	// Some encoders substitute unrepresentable runes instead of failing.
	back, err := enc.NewDecoder().String(out)
	if err != nil || back != text {
		return "", false
	}

	return out, true
}

// Codeset returns the character encoding named by the locale environment,
// consulting LC_ALL, LC_CTYPE and LANG in that order.
func Codeset(getenv func(string) string) string {
	var locale string
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		if v := getenv(key); v != "" {
			locale = v
			break
		}
	}

	if i := strings.IndexByte(locale, '@'); i >= 0 {
		locale = locale[:i]
	}

	switch locale {
	case "", "C", "POSIX":
		return asciiCodeset
	}

	i := strings.IndexByte(locale, '.')
	if i < 0 {
		// glibc's default for a locale without an explicit codeset
		return "ISO-8859-1"
	}

	codeset := locale[i+1:]
	switch strings.ToLower(strings.ReplaceAll(codeset, "-", "")) {
	case "utf8":
		return "UTF-8"
	case "iso88591":
		return "ISO-8859-1"
	case "iso885915":
		return "ISO-8859-15"
	}
	return codeset
}
