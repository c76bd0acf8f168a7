package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"

	"github.com/ardnew/rtm/log"
	"github.com/ardnew/rtm/manifest"
	"github.com/ardnew/rtm/vars"
)

type (
	contextKey  struct{}
	networkKey  struct{}
	tableKey    struct{}
	outputKey   struct{}
	stdinKey    struct{}
	documentKey struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithNetwork returns a context selecting the network commands validate
// against.
func WithNetwork(ctx context.Context, network manifest.Network) context.Context {
	return context.WithValue(ctx, networkKey{}, network)
}

func networkFrom(ctx context.Context) manifest.Network {
	if n, ok := ctx.Value(networkKey{}).(manifest.Network); ok {
		return n
	}

	return manifest.Mainnet
}

// WithTable returns a context holding the merged variable table.
func WithTable(ctx context.Context, table *vars.Table) context.Context {
	return context.WithValue(ctx, tableKey{}, table)
}

func tableFrom(ctx context.Context) *vars.Table {
	t, _ := ctx.Value(tableKey{}).(*vars.Table)

	return t
}

// WithOutput returns a context whose commands write their results to w
// instead of os.Stdout.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// WithStdin returns a context whose commands read the "-" source from r
// instead of os.Stdin.
func WithStdin(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, stdinKey{}, r)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// WithCache returns a context whose commands share parsed documents
// through c.
func WithCache(ctx context.Context, c *manifest.Cache) context.Context {
	return context.WithValue(ctx, documentKey{}, c)
}

func cacheFrom(ctx context.Context) *manifest.Cache {
	if c, ok := ctx.Value(documentKey{}).(*manifest.Cache); ok && c != nil {
		return c
	}

	return new(manifest.Cache)
}

// resolve computes the variable map of the table in ctx for its network.
func resolve(ctx context.Context) (manifest.VariableMap, error) {
	vm, err := tableFrom(ctx).Resolve(ctx, networkFrom(ctx), log.Default())
	if err != nil {
		return nil, err
	}

	return vm, nil
}

// source is one manifest input named on the command line.
type source struct {
	// name is the path as given, or "-" for standard input.
	name string
	path string
}

func (s source) isStdin() bool { return s.name == stdinSource }

// read returns the full text of s.
func (s source) read(ctx context.Context) (string, error) {
	var r io.Reader

	if s.isStdin() {
		r = stdinFrom(ctx)
	} else {
		f, err := os.Open(s.path)
		if err != nil {
			return "", ErrReadSource.Wrap(err).With(slog.String("source", s.name))
		}
		defer f.Close()

		r = f
	}

	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadSource.Wrap(err).With(slog.String("source", s.name))
	}

	return string(data), nil
}

// parse reads s and returns its document through the cache in ctx.
func (s source) parse(ctx context.Context) (*manifest.Document, error) {
	text, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	return cacheFrom(ctx).Parse(ctx, text, manifest.WithLogger(log.Default())), nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// sources resolves the named inputs, dropping duplicates. Two names refer
// to the same input when they resolve to the same device and inode. Every
// "-" collapses into one stdin source placed last. An empty list means
// stdin alone.
func sources(names []string) ([]source, error) {
	if len(names) == 0 {
		return []source{{name: stdinSource}}, nil
	}

	out := make([]source, 0, len(names))
	seen := make(map[any]struct{})
	stdin := false

	for _, name := range names {
		if name == stdinSource {
			stdin = true

			continue
		}

		src, key, err := stat(name)
		if err != nil {
			return nil, err
		}

		if _, dup := seen[key]; dup {
			continue
		}

		seen[key] = struct{}{}

		out = append(out, src)
	}

	if stdin {
		out = append(out, source{name: stdinSource})
	}

	return out, nil
}

// stat resolves name to an absolute, symlink-free path and its identity:
// a fileKey where the platform provides one, the resolved path otherwise.
func stat(name string) (source, any, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return source{}, nil, ErrReadSource.Wrap(err).With(slog.String("source", name))
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return source{}, nil, ErrReadSource.Wrap(err).With(slog.String("source", name))
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return source{}, nil, ErrReadSource.Wrap(err).With(slog.String("source", name))
	}

	src := source{name: name, path: resolved}

	key, ok := makeFileKey(info)
	if !ok {
		return src, resolved, nil
	}

	return src, key, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
