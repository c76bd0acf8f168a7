package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/rtm/manifest"
)

// Complete ranks completion candidates for a partial word.
type Complete struct {
	Format manifest.Encoding `default:"text" help:"Output format (text, json, yaml)" short:"f"`
	Limit  int               `default:"0"    help:"Maximum number of candidates; 0 prints all" short:"l"`

	Word string `arg:"" help:"Partial instruction, object, enum variant or $variable" name:"word"`
}

// Run executes the complete command.
func (c *Complete) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	vm, err := resolve(ctx)
	if err != nil {
		return err
	}

	list := manifest.Complete(c.Word, vm)
	if c.Limit > 0 && len(list) > c.Limit {
		list = list[:c.Limit]
	}

	out := outputFrom(ctx)

	switch c.Format {
	case manifest.EncodingJSON:
		data, err := json.MarshalIndent(list, "", "  ")
		if err == nil {
			_, err = fmt.Fprintln(out, string(data))
		}

		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil

	case manifest.EncodingYAML:
		data, err := yaml.MarshalContext(ctx, list, yaml.Indent(2))
		if err == nil {
			_, err = out.Write(data)
		}

		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	hl := newHighlighter(out)

	var b strings.Builder
	for _, item := range list {
		fmt.Fprintf(&b, "%s\t%s\n", hl.render(item.Label, item.Matched), item.Kind)
	}

	if _, err := io.WriteString(out, b.String()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
