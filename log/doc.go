// Package log is a small leveled logger over [log/slog].
//
// A [Logger] is built once from functional options and is immutable
// afterwards; derived loggers come from [Logger.Wrap] and [Logger.With].
// Every method takes a message and typed [slog.Attr] values:
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Info("lint complete", slog.Int("diagnostics", 3))
//
// The zero Logger discards all records, which lets library code accept a
// Logger option without requiring callers to supply one.
//
// # Levels
//
// Besides the four [slog] levels there is [LevelTrace], below Debug, for
// per-stage records of the manifest pipeline. Levels and formats implement
// [encoding.TextUnmarshaler] so they can be decoded directly from flags and
// configuration files.
//
// # Output
//
// [FormatText] and [FormatJSON] select the slog text and JSON handlers.
// [WithPretty] replaces them with colored handlers meant for a terminal;
// colors are dropped when the output is not one.
//
// # Package logger
//
// The package-level functions write to a shared logger that [Config]
// reconfigures. Functions without a context argument use the context
// returned by [DefaultContextProvider].
package log
