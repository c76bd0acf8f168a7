package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/rtm/log"
)

// logFormat configures the logger format as a side effect of parsing via
// encoding.TextUnmarshaler, early enough to affect errors reported while
// kong is still parsing.
type logFormat log.Format

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	var v log.Format
	if err := v.UnmarshalText(text); err != nil {
		return err
	}

	*f = logFormat(v)
	log.Config(log.WithFormat(v))

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (f logFormat) MarshalText() ([]byte, error) { return log.Format(f).MarshalText() }

// logLevel configures the logger level as a side effect of parsing via
// encoding.TextUnmarshaler.
type logLevel log.Level

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	var v log.Level
	if err := v.UnmarshalText(text); err != nil {
		return err
	}

	*l = logLevel(v)
	log.Config(log.WithLevel(v))

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (l logLevel) MarshalText() ([]byte, error) { return log.Level(l).MarshalText() }

type logConfig struct {
	Level      logLevel  `default:"${logLevelDefault}"  help:"Set log level (${logLevels})."  placeholder:"LEVEL"`
	Format     logFormat `default:"${logFormatDefault}" help:"Set log format (${logFormats})." placeholder:"FORMAT"`
	TimeLayout string    `default:"RFC3339"             help:"Set timestamp format."                                    name:"time"`
	Caller     bool      `default:"false"               help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevels":        strings.Join(slices.Collect(log.Levels()), ", "),
		"logLevelDefault":  log.DefaultLevel.String(),
		"logFormats":       strings.Join(slices.Collect(log.Formats()), ", "),
		"logFormatDefault": log.DefaultFormat.String(),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.Level(f.Level)),
		log.WithFormat(log.Format(f.Format)),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", log.Level(f.Level).String()),
		slog.String("format", log.Format(f.Format).String()),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan performs an early pass over command-line arguments to extract and
// apply logger configuration before Kong begins parsing, so the logger is
// configured regardless of flag position on the command line.
//
// Level and format also configure the logger from UnmarshalText during
// parsing, but boolean flags never pass through that interface.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return
		}

		name, value, assigned := strings.Cut(args[i], "=")

		key, negated := strings.CutPrefix(name, "--no-log-")
		if !negated {
			var ok bool
			if key, ok = strings.CutPrefix(name, "--log-"); !ok {
				continue
			}
		}

		switch key {
		case "level", "format", "time":
			if negated {
				continue
			}

			// Non-boolean flag: consume next arg as value if not assigned
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				value = args[i+1]
				i++
			}

			f.apply(key, value)

		case "caller", "pretty":
			// Boolean flag: only parse value if explicitly assigned with =
			enable := true

			if assigned {
				v, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				enable = v
			}

			f.apply(key, strconv.FormatBool(enable != negated))
		}
	}
}

// apply sets the flag named key to value and reconfigures the logger.
// Invalid values are left for kong to report.
func (f *logConfig) apply(key, value string) {
	switch key {
	case "level":
		_ = f.Level.UnmarshalText([]byte(value))

	case "format":
		_ = f.Format.UnmarshalText([]byte(value))

	case "time":
		f.TimeLayout = value
		log.Config(log.WithTimeLayout(value))

	case "caller":
		f.Caller, _ = strconv.ParseBool(value)
		log.Config(log.WithCaller(f.Caller))

	case "pretty":
		f.Pretty, _ = strconv.ParseBool(value)
		log.Config(log.WithPretty(f.Pretty))
	}
}
