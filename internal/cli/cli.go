// Package cli implements the sensors command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/CristiGvl/gosensors/internal/chip"
	"github.com/CristiGvl/gosensors/internal/degree"
	"github.com/CristiGvl/gosensors/internal/dispatch"
	"github.com/CristiGvl/gosensors/internal/sensors"
	"github.com/CristiGvl/gosensors/internal/version"
)

const applicationName = "sensors"

// DefaultConfigFile is read when no -c option is given.
const DefaultConfigFile = "/etc/sensors.yaml"

// ErrTooManyChips is returned by ParseArgs when more than
// chip.MaxPatterns chip names are given.
var ErrTooManyChips = errors.New("too many chips on command line")

// UsageError is an unknown or malformed command line option.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// Options is a parsed command line.
type Options struct {
	ConfigFile     string
	ConfigExplicit bool
	Help           bool
	Version        bool
	Dispatch       dispatch.Options
}

// Env is everything Run needs from the outside world.
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Open   func(name string) (io.ReadCloser, error)
	// Lookup resolves codeset names for the degree sign; nil disables
	// conversion.
	Lookup     degree.LookupFunc
	NewLibrary func() sensors.Library
}

// DefaultEnv returns the process environment backed by lib.
func DefaultEnv(newLibrary func() sensors.Library) Env {
	return Env{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
		Open: func(name string) (io.ReadCloser, error) {
			return os.Open(name)
		},
		Lookup:     ianaindex.IANA.Encoding,
		NewLibrary: newLibrary,
	}
}

// ParseArgs parses the command line arguments, without the program name.
// Chip names are validated before anything touches the hardware.
func ParseArgs(args []string) (*Options, error) {
	opts := &Options{}

	flags := pflag.NewFlagSet(applicationName, pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	flags.Usage = func() {}

	flags.StringVarP(&opts.ConfigFile, "config-file", "c", DefaultConfigFile, "config file")
	flags.BoolVarP(&opts.Help, "help", "h", false, "display help")
	flags.BoolVarP(&opts.Version, "version", "v", false, "display version")
	flags.BoolVarP(&opts.Dispatch.DoSets, "set", "s", false, "execute set statements")
	flags.BoolVarP(&opts.Dispatch.Fahrenheit, "fahrenheit", "f", false, "fahrenheit")
	flags.BoolVarP(&opts.Dispatch.HideAdapter, "no-adapter", "A", false, "hide adapter")
	flags.BoolVarP(&opts.Dispatch.HideUnknown, "no-unknown", "U", false, "hide unknown chips")
	flags.BoolVarP(&opts.Dispatch.DoUnknown, "unknown", "u", false, "treat chips as unknown")

	if err := flags.Parse(args); err != nil {
		return nil, &UsageError{Err: err}
	}
	opts.ConfigExplicit = flags.Changed("config-file")

	if flags.NArg() == 0 {
		opts.Dispatch.Patterns = []chip.Pattern{chip.MatchAll()}
		return opts, nil
	}

	for _, arg := range flags.Args() {
		p, err := chip.ParsePattern(arg)
		if err != nil {
			return nil, err
		}
		opts.Dispatch.Patterns = append(opts.Dispatch.Patterns, p)
		if len(opts.Dispatch.Patterns) > chip.MaxPatterns {
			return nil, ErrTooManyChips
		}
	}
	return opts, nil
}

// MatchAll reports whether the options select every chip.
func (o *Options) MatchAll() bool {
	p := o.Dispatch.Patterns
	return len(p) == 1 && p[0].IsMatchAll()
}

// Run executes the sensors command and returns its exit code.
func Run(args []string, env Env) int {
	setupLogging(env)

	opts, err := ParseArgs(args)
	if err != nil {
		var (
			usage *UsageError
			perr  *chip.ParseError
		)
		switch {
		case errors.As(err, &usage):
			fmt.Fprintf(env.Stderr, "%s: %v\n", applicationName, usage.Err)
			printShortHelp(env.Stderr)
		case errors.As(err, &perr):
			fmt.Fprintf(env.Stderr, "Parse error in chip name `%s'\n", perr.Input)
			printShortHelp(env.Stderr)
		case errors.Is(err, ErrTooManyChips):
			fmt.Fprintln(env.Stderr, "Too many chips on command line!")
		default:
			fmt.Fprintf(env.Stderr, "%s: %v\n", applicationName, err)
		}
		return dispatch.ExitFailure
	}

	if opts.Help {
		printLongHelp(env.Stdout)
		return dispatch.ExitSuccess
	}
	if opts.Version {
		fmt.Fprintf(env.Stdout, "%s version %s with libsensors version %s\n",
			applicationName, version.String(), sensors.Version)
		return dispatch.ExitSuccess
	}

	lib := env.NewLibrary()
	if code, ok := initLibrary(lib, opts, env); !ok {
		return code
	}

	resolver := &degree.Resolver{Lookup: env.Lookup, Getenv: env.Getenv}
	opts.Dispatch.Degree = resolver.Resolve(opts.Dispatch.Fahrenheit)

	engine := dispatch.New(lib, opts.Dispatch, env.Stdout, env.Stderr)
	res := engine.Run(lib.Chips())
	slog.Debug("run finished", "dispatched", res.Dispatched, "failed", res.Failed)

	return dispatch.ExitStatus(res, opts.MatchAll(), env.Stderr)
}

// initLibrary feeds the configuration file to lib.
func initLibrary(lib sensors.Library, opts *Options, env Env) (int, bool) {
	var (
		r      io.Reader
		closer io.Closer
	)

	if opts.ConfigFile == "-" {
		r = env.Stdin
	} else {
		f, err := env.Open(opts.ConfigFile)
		switch {
		case err == nil:
			r, closer = f, f
		case errors.Is(err, fs.ErrNotExist) && !opts.ConfigExplicit:
			slog.Debug("no config file, using defaults", "path", opts.ConfigFile)
			r = strings.NewReader("")
		default:
			fmt.Fprintln(env.Stderr, "Could not open config file")
			fmt.Fprintf(env.Stderr, "%s: %v\n", opts.ConfigFile, cause(err))
			return dispatch.ExitFailure, false
		}
	}

	if err := lib.Init(r); err != nil {
		if closer != nil {
			closer.Close()
		}
		slog.Debug("library init failed", "error", err)
		fmt.Fprintf(env.Stderr, "sensors_init: %s\n", sensors.StrError(err))
		return dispatch.ExitFailure, false
	}

	if closer != nil {
		if err := closer.Close(); err != nil {
			fmt.Fprintln(env.Stderr, "Could not close config file")
			fmt.Fprintf(env.Stderr, "%s: %v\n", opts.ConfigFile, cause(err))
		}
	}
	return dispatch.ExitSuccess, true
}

// cause strips the operation and path from file errors.
func cause(err error) error {
	var perr *fs.PathError
	if errors.As(err, &perr) {
		return perr.Err
	}
	return err
}

func setupLogging(env Env) {
	level := slog.LevelWarn
	if env.Getenv != nil && env.Getenv("SENSORS_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(env.Stderr, &slog.HandlerOptions{Level: level})))
}

func printShortHelp(w io.Writer) {
	fmt.Fprintf(w, "Try `%s -h' for more information\n", applicationName)
}

func printLongHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s [OPTION]... [CHIP]...\n", applicationName)
	fmt.Fprintf(w, "  -c, --config-file     Specify a config file (default: %s)\n", DefaultConfigFile)
	fmt.Fprintln(w, "  -h, --help            Display this help text")
	fmt.Fprintln(w, "  -s, --set             Execute `set' statements instead of printing (root only)")
	fmt.Fprintln(w, "  -f, --fahrenheit      Show temperatures in degrees fahrenheit")
	fmt.Fprintln(w, "  -A, --no-adapter      Do not show adapter for each chip")
	fmt.Fprintln(w, "  -U, --no-unknown      Do not show chips without known features")
	fmt.Fprintln(w, "  -u, --unknown         Treat chips as unknown ones (testing only)")
	fmt.Fprintln(w, "  -v, --version         Display the program version")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Use `-' after `-c' to read the config file from stdin.")
	fmt.Fprintln(w, "If no chips are specified, all chip info will be printed.")
	fmt.Fprintln(w, "Set SENSORS_DEBUG to any value to enable debug logging.")
	fmt.Fprintln(w, "Example chip names:")
	fmt.Fprintln(w, "\tlm78-i2c-0-2d\t*-i2c-0-2d")
	fmt.Fprintln(w, "\tlm78-i2c-0-*\t*-i2c-0-*")
	fmt.Fprintln(w, "\tlm78-i2c-*-2d\t*-i2c-*-2d")
	fmt.Fprintln(w, "\tlm78-i2c-*-*\t*-i2c-*-*")
	fmt.Fprintln(w, "\tlm78-isa-0290\t*-isa-0290")
	fmt.Fprintln(w, "\tlm78-isa-*\t*-isa-*")
	fmt.Fprintln(w, "\tcoretemp-virtual-0000")
	fmt.Fprintln(w, "\tlm78-*")
}
