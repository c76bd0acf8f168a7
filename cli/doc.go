// Package cli contains the command line interface for rtm.
//
// # Usage
//
//	rtm [flags] <command> [args]
//
// lint is the default command, so "rtm withdraw.rtm" lints a file. Every
// command that reads a manifest accepts "-", or no source at all, for
// standard input.
//
// # Variables
//
// Variables are layered in increasing precedence:
//
//  1. the defaults of the selected --network (XRD and my_account)
//  2. vars.yaml in the configuration directory, if present
//  3. each --vars FILE in order; bare names are searched in $RTM_PATH,
//     the working directory and the configuration directory
//  4. each --var NAME=VALUE
//
// Read-only entries, such as XRD, keep the value of the first layer that
// defines them.
//
// # Configuration
//
// Flag defaults are read from config.json and config.yaml in the
// configuration directory, and from RTM_* environment variables. YAML keys
// are flag names spelled with hyphens or underscores:
//
//	network: stokenet
//	log_level: debug
//
// "rtm init" writes the current flag values to config.yaml.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output on terminals
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o rtm .
//
// --pprof-mode selects the profile (allocs, block, clock, cpu, goroutine,
// heap, mem, mutex, thread, trace) and --pprof-dir its output directory,
// which defaults to pprof under the cache directory.
package cli
