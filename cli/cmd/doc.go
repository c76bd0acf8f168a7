// Package cmd implements the rtm subcommands.
//
// Commands read the state prepared by package cli from their
// [context.Context]: the network ([WithNetwork]), the merged variable table
// ([WithTable]), the document cache ([WithCache]) and the writer results
// go to ([WithOutput]). Manifest sources are named on the command line;
// "-" or no source at all reads standard input.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// of the YAML configuration file.
	ConfigIdentifier = "config"

	// VarsIdentifier is the kong variable identifier containing the path of
	// the default variables file.
	VarsIdentifier = "varsFile"
)
