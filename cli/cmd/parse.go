package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/rtm/manifest"
)

// Parse prints the syntax tree of a manifest.
type Parse struct {
	Format manifest.Encoding `default:"tree" help:"Output format (tree, json, yaml)" short:"f"`
	Indent int               `default:"2"    help:"Indent width for JSON and YAML output; 0 selects compact output" short:"i"`

	Source string `arg:"" default:"-" help:"Manifest file or '-' for stdin" name:"source" optional:""`
}

// Run executes the parse command.
func (p *Parse) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := sources([]string{p.Source})
	if err != nil {
		return err
	}

	doc, err := srcs[0].parse(ctx)
	if err != nil {
		return err
	}

	out := outputFrom(ctx)

	switch p.Format {
	case manifest.EncodingJSON:
		err = doc.FormatJSON(ctx, out, p.Indent)
	case manifest.EncodingYAML:
		err = doc.FormatYAML(ctx, out, p.Indent)
	default:
		err = doc.Print(out)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err).With(
			slog.String("source", p.Source),
			slog.String("format", p.Format.String()),
		)
	}

	return nil
}
