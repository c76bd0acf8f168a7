package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/rtm/log"
	"github.com/ardnew/rtm/manifest"
)

// ErrUndefined reports variable references left unresolved by subst
// --strict.
var ErrUndefined = NewError("undefined variables")

// Subst replaces variable references in a manifest with their values.
type Subst struct {
	Strict bool `help:"Fail when a reference names an undefined variable"`

	Source string `arg:"" default:"-" help:"Manifest file or '-' for stdin" name:"source" optional:""`
}

// Run executes the subst command. Unresolved references are left in place
// and logged as warnings.
func (s *Subst) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := sources([]string{s.Source})
	if err != nil {
		return err
	}

	text, err := srcs[0].read(ctx)
	if err != nil {
		return err
	}

	vm, err := resolve(ctx)
	if err != nil {
		return err
	}

	var misses []string

	out := manifest.Substitute(text, vm,
		manifest.WithSubstituteLogger(log.Default().With(slog.String("source", s.Source))),
		manifest.WithMissHandler(func(m manifest.Miss) {
			misses = append(misses, m.Name)
		}),
	)

	if s.Strict && len(misses) > 0 {
		return ErrUndefined.With(slog.Any("names", misses))
	}

	if _, err := io.WriteString(outputFrom(ctx), out); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
