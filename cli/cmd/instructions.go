package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/rtm/manifest"
)

// Instructions lists the instruction catalog.
type Instructions struct {
	Hints bool `help:"Print the template of each instruction" short:"H"`

	Query string `arg:"" help:"Fuzzy filter applied to instruction names" name:"query" optional:""`
}

// Run executes the instructions command. With a query, names are ranked
// best match first; without one they are listed alphabetically.
func (i *Instructions) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	names := manifest.Names()

	var matches fuzzy.Matches

	if i.Query == "" {
		matches = make(fuzzy.Matches, len(names))
		for n, name := range names {
			matches[n] = fuzzy.Match{Str: name, Index: n}
		}
	} else {
		matches = fuzzy.Find(i.Query, names)
		if len(matches) == 0 {
			return ErrNoMatch.With(slog.String("query", i.Query))
		}
	}

	out := outputFrom(ctx)
	hl := newHighlighter(out)
	width := longest(names)

	var b strings.Builder

	for _, m := range matches {
		spec, _ := manifest.Lookup(m.Str)

		// Pad the plain name so escape sequences do not skew the column.
		pad := strings.Repeat(" ", width-len(m.Str)+2)

		fmt.Fprintf(&b, "%s%s%s\n", hl.render(m.Str, m.MatchedIndexes), pad, arity(spec))

		if i.Hints && spec.Hint != "" {
			for line := range strings.Lines(spec.Hint) {
				fmt.Fprintf(&b, "    %s\n", strings.TrimRight(line, "\n"))
			}

			b.WriteByte('\n')
		}
	}

	if _, err := io.WriteString(out, b.String()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func arity(spec manifest.InstructionSpec) string {
	if spec.MaxArgs == 1 && spec.MinArgs == 1 {
		return "1 argument"
	}

	return spec.Arity() + " arguments"
}

func longest(names []string) int {
	n := 0
	for _, name := range names {
		n = max(n, len(name))
	}

	return n
}
