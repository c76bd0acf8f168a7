package vars

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"maps"
	"os"
	"regexp"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/rtm/log"
	"github.com/ardnew/rtm/manifest"
)

// Predefined errors (sentinel values).
var (
	ErrLoad     = manifest.NewError("failed to load variables")
	ErrName     = manifest.NewError("invalid variable name")
	ErrEntry    = manifest.NewError("invalid variable entry")
	ErrReadOnly = manifest.NewError("variable is read-only")
	ErrExpr     = manifest.NewError("failed to evaluate variable expression")
)

// Names bound in the expression environment ahead of any entry.
const (
	EnvNetwork = "network"
	EnvHRP     = "hrp"
	EnvXRD     = "xrd"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidName reports whether name can be referenced from manifest text.
func ValidName(name string) bool { return namePattern.MatchString(name) }

// Entry is one named variable. Exactly one of Value and Expr is meaningful:
// an entry with a non-empty Expr is computed by [Table.Resolve].
type Entry struct {
	Name     string `yaml:"-"`
	Value    string `yaml:"value,omitempty"`
	Expr     string `yaml:"expr,omitempty"`
	ReadOnly bool   `yaml:"readonly,omitempty"`
}

// Table is an ordered set of entries keyed by name. The zero Table is empty
// and ready to use.
type Table struct {
	entries []Entry
	index   map[string]int
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.entries)
}

// Get returns the entry called name.
func (t *Table) Get(name string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}

	i, ok := t.index[name]
	if !ok {
		return Entry{}, false
	}

	return t.entries[i], true
}

// All yields the entries in insertion order.
func (t *Table) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if t == nil {
			return
		}

		for _, e := range t.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Names returns the entry names in insertion order.
func (t *Table) Names() []string {
	names := make([]string, 0, t.Len())
	for e := range t.All() {
		names = append(names, e.Name)
	}

	return names
}

// Set adds e or replaces the entry with the same name, keeping its
// position. Replacing a read-only entry fails with [ErrReadOnly].
func (t *Table) Set(e Entry) error {
	if !ValidName(e.Name) {
		return ErrName.With(slog.String("name", e.Name))
	}

	if e.Value != "" && e.Expr != "" {
		return ErrEntry.Wrap(fmt.Errorf("value and expr are exclusive")).
			With(slog.String("name", e.Name))
	}

	if t.index == nil {
		t.index = make(map[string]int)
	}

	if i, ok := t.index[e.Name]; ok {
		if t.entries[i].ReadOnly {
			return ErrReadOnly.With(slog.String("name", e.Name))
		}

		t.entries[i] = e

		return nil
	}

	t.index[e.Name] = len(t.entries)
	t.entries = append(t.entries, e)

	return nil
}

// Delete removes the entry called name. Read-only entries stay.
func (t *Table) Delete(name string) error {
	i, ok := t.index[name]
	if !ok {
		return nil
	}

	if t.entries[i].ReadOnly {
		return ErrReadOnly.With(slog.String("name", name))
	}

	t.entries = slices.Delete(t.entries, i, i+1)

	delete(t.index, name)

	for j := i; j < len(t.entries); j++ {
		t.index[t.entries[j].Name] = j
	}

	return nil
}

// Defaults returns the table every network starts from: a read-only XRD
// holding the network's native token address and a placeholder my_account.
func Defaults(network manifest.Network) *Table {
	var t Table

	_ = t.Set(Entry{Name: "XRD", Value: network.XRD, ReadOnly: true})
	_ = t.Set(Entry{Name: "my_account", Value: "CHANGE_ME"})

	return &t
}

// Merge layers tables into a new one. Later tables win, except that a
// read-only entry is never replaced; each refused override is passed to
// logger.
func Merge(logger log.Logger, tables ...*Table) *Table {
	var out Table

	for _, t := range tables {
		for e := range t.All() {
			if prev, ok := out.Get(e.Name); ok && prev == e {
				continue
			}

			err := out.Set(e)
			if err != nil {
				logger.Warn("variable override ignored", slog.Any("error", err))
			}
		}
	}

	return &out
}

// Load reads a YAML mapping of variables from r. Each value is either a
// scalar, taken as the variable's text, or a mapping with the optional keys
// value, expr and readonly.
//
//	my_account: account_tdx_2_1...
//	amount: 5
//	fee:
//	  expr: string(int(amount) * 2)
//	admin:
//	  value: account_tdx_2_1...
//	  readonly: true
func Load(ctx context.Context, r io.Reader) (*Table, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrLoad.Wrap(err)
	}

	var doc yaml.MapSlice
	if err := yaml.UnmarshalContext(ctx, data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, ErrLoad.Wrap(err)
	}

	var t Table

	for _, item := range doc {
		e, err := entry(item)
		if err != nil {
			return nil, ErrLoad.Wrap(err)
		}

		if err := t.Set(e); err != nil {
			return nil, ErrLoad.Wrap(err)
		}
	}

	return &t, nil
}

// LoadFile reads the variables file at path.
func LoadFile(ctx context.Context, path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrLoad.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	t, err := Load(ctx, f)
	if err != nil {
		return nil, manifest.WrapError(err).With(slog.String("path", path))
	}

	return t, nil
}

func entry(item yaml.MapItem) (Entry, error) {
	e := Entry{Name: fmt.Sprint(item.Key)}

	switch v := item.Value.(type) {
	case nil:
	case yaml.MapSlice:
		for _, field := range v {
			key := fmt.Sprint(field.Key)

			switch key {
			case "value":
				e.Value = scalar(field.Value)
			case "expr":
				e.Expr = scalar(field.Value)
			case "readonly":
				ro, ok := field.Value.(bool)
				if !ok {
					return e, ErrEntry.With(
						slog.String("name", e.Name),
						slog.String("field", key),
					)
				}

				e.ReadOnly = ro
			default:
				return e, ErrEntry.With(
					slog.String("name", e.Name),
					slog.String("field", key),
				)
			}
		}
	case map[string]any:
		keys := slices.Sorted(maps.Keys(v))

		fields := make(yaml.MapSlice, len(keys))
		for i, k := range keys {
			fields[i] = yaml.MapItem{Key: k, Value: v[k]}
		}

		return entry(yaml.MapItem{Key: item.Key, Value: fields})
	case []any:
		return e, ErrEntry.With(slog.String("name", e.Name))
	default:
		e.Value = scalar(v)
	}

	return e, nil
}

func scalar(v any) string {
	if v == nil {
		return ""
	}

	return fmt.Sprint(v)
}

// Encode writes t in the format read by [Load]. Plain entries are written
// as scalars.
func (t *Table) Encode(ctx context.Context, w io.Writer) error {
	doc := make(yaml.MapSlice, 0, t.Len())

	for e := range t.All() {
		if e.Expr == "" && !e.ReadOnly {
			doc = append(doc, yaml.MapItem{Key: e.Name, Value: e.Value})

			continue
		}

		doc = append(doc, yaml.MapItem{Key: e.Name, Value: e})
	}

	data, err := yaml.MarshalContext(ctx, doc, yaml.Indent(2))
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// Resolve computes the value of every entry for network and returns them as
// a [manifest.VariableMap]. Expressions are evaluated in table order with
// expr-lang against an environment holding network, hrp, xrd and every
// entry resolved so far, so an expression may refer to any entry above it.
func (t *Table) Resolve(
	ctx context.Context,
	network manifest.Network,
	logger log.Logger,
) (manifest.VariableMap, error) {
	out := make(manifest.VariableMap, t.Len())

	env := map[string]any{
		EnvNetwork: network.Name,
		EnvHRP:     network.HRP,
		EnvXRD:     network.XRD,
	}

	for e := range t.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		value := e.Value

		if e.Expr != "" {
			v, err := eval(e, env)
			if err != nil {
				return nil, err
			}

			value = v

			logger.DebugContext(ctx, "variable evaluated",
				slog.String("name", e.Name),
				slog.String("expr", e.Expr),
				slog.String("value", value),
			)
		}

		out[e.Name] = value

		if _, builtin := builtins[e.Name]; !builtin {
			env[e.Name] = value
		}
	}

	return out, nil
}

var builtins = map[string]struct{}{EnvNetwork: {}, EnvHRP: {}, EnvXRD: {}}

func eval(e Entry, env map[string]any) (string, error) {
	program, err := expr.Compile(e.Expr, expr.Env(env))
	if err != nil {
		return "", ErrExpr.Wrap(err).With(
			slog.String("name", e.Name),
			slog.String("expr", e.Expr),
		)
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return "", ErrExpr.Wrap(err).With(
			slog.String("name", e.Name),
			slog.String("expr", e.Expr),
		)
	}

	if result == nil {
		return "", nil
	}

	return fmt.Sprint(result), nil
}
