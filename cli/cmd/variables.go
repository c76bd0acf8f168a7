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

// Variables prints the variable table in effect.
type Variables struct {
	Format manifest.Encoding `default:"text" help:"Output format (text, json, yaml)" short:"f"`
	Raw    bool              `help:"Print the merged definitions instead of resolved values"`
}

// Run executes the vars command. Text output lists NAME=VALUE pairs in
// table order, marking read-only entries.
func (v *Variables) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	table := tableFrom(ctx)
	out := outputFrom(ctx)

	if v.Raw {
		if err := table.Encode(ctx, out); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	vm, err := resolve(ctx)
	if err != nil {
		return err
	}

	switch v.Format {
	case manifest.EncodingJSON:
		data, err := json.MarshalIndent(vm, "", "  ")
		if err == nil {
			_, err = fmt.Fprintln(out, string(data))
		}

		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil

	case manifest.EncodingYAML:
		ordered := make(yaml.MapSlice, 0, len(vm))
		for _, name := range table.Names() {
			ordered = append(ordered, yaml.MapItem{Key: name, Value: vm[name]})
		}

		data, err := yaml.MarshalContext(ctx, ordered, yaml.Indent(2))
		if err == nil {
			_, err = out.Write(data)
		}

		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	var b strings.Builder

	for e := range table.All() {
		b.WriteString(e.Name)
		b.WriteByte('=')
		b.WriteString(vm[e.Name])

		if e.ReadOnly {
			b.WriteString("  (read-only)")
		}

		b.WriteByte('\n')
	}

	if _, err := io.WriteString(out, b.String()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
