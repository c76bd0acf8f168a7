//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// version is the semantic version of the module, embedded at build time.
//
//go:embed VERSION
var version string

// Version returns the module version without surrounding whitespace.
func Version() string { return strings.TrimSpace(version) }

const (
	// Name is the command name. It appears in help text, the configuration
	// directory and environment variable prefixes.
	Name = "rtm"
	// Description summarizes the command in help output.
	Description = "Radix transaction manifest linter and variable expander"
)

// AuthorInfo names an author.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the authors shown in version output.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
