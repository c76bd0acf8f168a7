package cmd

import "github.com/ardnew/rtm/manifest"

// Error is the structured error returned by commands. It shares its
// implementation with the manifest package so a single errors.Is idiom
// covers every layer.
type Error = manifest.Error

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error { return manifest.NewError(msg) }

var (
	ErrReadSource  = NewError("read source")
	ErrWriteOutput = NewError("write output")
	ErrLintFailed  = NewError("manifest has errors")
	ErrNoMatch     = NewError("no matching instruction")
	ErrWriteConfig = NewError("write configuration file")
	ErrFileExists  = NewError("file exists (use --force to overwrite)")
)
