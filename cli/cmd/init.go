package cmd

import (
	"context"
	"encoding"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/rtm/log"
	"github.com/ardnew/rtm/profile"
	"github.com/ardnew/rtm/vars"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force    bool `help:"Overwrite existing files" short:"f"`
	WithVars bool `help:"Also write the default variables file for the selected network"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	data, err := yaml.MarshalContext(ctx, i.config(ktx), yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	err = i.write(confPath, func(f *os.File) error {
		_, err := f.Write(data)

		return err
	})
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	if !i.WithVars {
		return nil
	}

	varsPath, ok := ktx.Model.Vars()[VarsIdentifier]
	if !ok {
		panic("internal error: variables path undefined")
	}

	err = i.write(varsPath, func(f *os.File) error {
		return vars.Defaults(networkFrom(ctx)).Encode(ctx, f)
	})
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "initialized variables file",
		slog.String("path", varsPath),
		slog.String("network", networkFrom(ctx).Name),
	)

	return nil
}

// write creates path, refusing to replace an existing file unless Force is
// set, and fills it with fill.
func (i *Init) write(path string, fill func(*os.File) error) error {
	_, err := os.Stat(path)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", path)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	file, err := os.Create(path)
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}
	defer file.Close()

	if err := fill(file); err != nil {
		return ErrWriteConfig.With(slog.String("file", path)).Wrap(err)
	}

	return nil
}

// config collects the current value of every configurable flag, keyed by
// flag name in the order kong reports them.
func (i *Init) config(ktx *kong.Context) yaml.MapSlice {
	prefixIgnore := []string{"help", "version", profile.Tag}

	var doc yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		val := flagValue(ktx.FlagValue(flag))
		if val != nil {
			doc = append(doc, yaml.MapItem{Key: flag.Name, Value: val})
		}
	}

	return doc
}

// flagValue converts a flag value to a YAML-friendly form, or nil when the
// flag is unset or empty.
func flagValue(val any) any {
	switch v := val.(type) {
	case nil:
		return nil

	case encoding.TextMarshaler:
		text, err := v.MarshalText()
		if err != nil || len(text) == 0 {
			return nil
		}

		return string(text)

	case string:
		if v == "" {
			return nil
		}

		return v

	case []string:
		if len(v) == 0 {
			return nil
		}

		return v

	case map[string]string:
		if len(v) == 0 {
			return nil
		}

		return v

	default:
		return v
	}
}
