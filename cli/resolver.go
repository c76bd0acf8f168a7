package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/rtm/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads a flat YAML
// mapping of flag names to values.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx, path), path)
//
// Keys may spell flag names with hyphens or underscores:
//
//	network: stokenet
//	log_level: debug
//	log-pretty: false
//	vars: [team.yaml, local.yaml]
//	var:
//	  my_account: account_tdx_2_1...
//
// A file that does not parse is reported and ignored. Command-line flags
// override config file values.
func resolve(ctx context.Context, name string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		ra := readahead.NewReader(r)
		defer ra.Close()

		data, err := io.ReadAll(ra)
		if err != nil {
			return nil, err
		}

		var doc map[string]any
		if err := yaml.UnmarshalContext(ctx, data, &doc); err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.String("path", name),
				slog.Any("error", err),
			)

			return config{}, nil
		}

		return makeConfig(doc), nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// makeConfig normalizes keys to use hyphens and scalar numbers to strings,
// which is how kong expects to parse them.
func makeConfig(doc map[string]any) config {
	c := make(config, len(doc))

	for key, value := range doc {
		key = strings.ReplaceAll(key, "_", "-")

		switch v := value.(type) {
		case int:
			c[key] = strconv.Itoa(v)
		case int64:
			c[key] = strconv.FormatInt(v, 10)
		case uint64:
			c[key] = strconv.FormatUint(v, 10)
		case float64:
			c[key] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			c[key] = v
		}
	}

	return c
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
