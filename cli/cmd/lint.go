package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/rtm/log"
	"github.com/ardnew/rtm/manifest"
)

// Lint parses and lints manifests, reporting every diagnostic.
type Lint struct {
	Format manifest.Encoding `default:"text" help:"Output format (text, json, yaml)" short:"f"`
	Color  bool              `default:"true" help:"Colorize severities of text output when writing to a terminal" negatable:""`

	Sources []string `arg:"" help:"Manifest file(s) or '-' for stdin" name:"source" optional:""`
}

// Run executes the lint command. It fails with [ErrLintFailed] when any
// error-severity diagnostic is reported.
func (l *Lint) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := sources(l.Sources)
	if err != nil {
		return err
	}

	vm, err := resolve(ctx)
	if err != nil {
		return err
	}

	out := outputFrom(ctx)
	network := networkFrom(ctx)

	var errs, warns int

	for _, src := range srcs {
		doc, err := src.parse(ctx)
		if err != nil {
			return err
		}

		diags := manifest.Lint(doc, vm,
			manifest.WithNetwork(network),
			manifest.WithLogger(log.Default()),
		)

		for _, d := range diags {
			if d.Severity == manifest.SeverityError {
				errs++
			} else {
				warns++
			}
		}

		printer := manifest.DiagnosticPrinter{
			Name:     src.name,
			Encoding: l.Format,
		}

		if l.Color {
			printer.Style = severityStyle(out)
		}

		if err := printer.Print(ctx, out, doc, diags); err != nil {
			return ErrWriteOutput.Wrap(err).With(slog.String("source", src.name))
		}

		log.DebugContext(ctx, "linted",
			slog.String("source", src.name),
			slog.Int("diagnostics", len(diags)),
		)
	}

	if errs > 0 {
		return ErrLintFailed.With(
			slog.Int("errors", errs),
			slog.Int("warnings", warns),
		)
	}

	return nil
}

// severityStyle colors severity labels when w is a terminal. The renderer
// detects the color profile of w, so redirected output stays plain.
func severityStyle(w io.Writer) func(manifest.Severity, string) string {
	r := lipgloss.NewRenderer(w)

	styles := map[manifest.Severity]lipgloss.Style{
		manifest.SeverityError:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		manifest.SeverityWarning: r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
	}

	return func(s manifest.Severity, label string) string {
		if style, ok := styles[s]; ok {
			return style.Render(label)
		}

		return label
	}
}
