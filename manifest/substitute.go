package manifest

import (
	"log/slog"
	"maps"
	"regexp"
	"slices"

	"github.com/ardnew/rtm/log"
)

// Variables resolves variable names, given without the $ sigil, to
// replacement text. Implementations are only read from.
type Variables interface {
	Lookup(name string) (string, bool)
}

// VariableMap is a [Variables] backed by a map.
type VariableMap map[string]string

// Lookup implements [Variables].
func (m VariableMap) Lookup(name string) (string, bool) {
	v, ok := m[name]

	return v, ok
}

// Names returns the variable names in lexical order.
func (m VariableMap) Names() []string {
	return slices.Sorted(maps.Keys(m))
}

// noVariables is used when the caller passes a nil [Variables].
type noVariables struct{}

func (noVariables) Lookup(string) (string, bool) { return "", false }

func orEmpty(vars Variables) Variables {
	if vars == nil {
		return noVariables{}
	}

	return vars
}

// variablePattern matches $name and ${name}. The first group holds a braced
// name, the second a bare one.
var variablePattern = regexp.MustCompile(`\$(?:\{([A-Za-z0-9_]+)\}|([A-Za-z0-9_]+))`)

// Reference is one occurrence of a variable token in text.
type Reference struct {
	// Token is the matched text including the sigil, e.g. "${x}".
	Token string
	// Name is the variable name without sigil or braces.
	Name string
	Span Span
}

// References returns every variable token in text in order of appearance.
func References(text string) []Reference {
	locs := variablePattern.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	refs := make([]Reference, len(locs))
	for i, loc := range locs {
		var name string
		if loc[2] >= 0 {
			name = text[loc[2]:loc[3]]
		} else {
			name = text[loc[4]:loc[5]]
		}

		refs[i] = Reference{
			Token: text[loc[0]:loc[1]],
			Name:  name,
			Span:  Span{From: loc[0], To: loc[1]},
		}
	}

	return refs
}

// Miss reports a variable token that could not be resolved.
type Miss struct {
	Token string
	Name  string
	// Span locates the first occurrence of Token.
	Span Span
}

// SubstituteOption configures [Substitute].
type SubstituteOption func(substituteConfig) substituteConfig

type substituteConfig struct {
	onMiss func(Miss)
	logger log.Logger
}

// WithMissHandler registers a function called once for every distinct
// unresolved token.
func WithMissHandler(fn func(Miss)) SubstituteOption {
	return func(c substituteConfig) substituteConfig {
		c.onMiss = fn

		return c
	}
}

// WithSubstituteLogger sets the logger that receives a warning for every
// distinct unresolved token.
func WithSubstituteLogger(logger log.Logger) SubstituteOption {
	return func(c substituteConfig) substituteConfig {
		c.logger = logger

		return c
	}
}

// Substitute replaces every $name and ${name} token in text whose name
// resolves in vars. Unresolved tokens are left verbatim. Replacement is a
// single left-to-right pass, so a value that itself contains a variable
// token is never expanded again, and $x is never mistaken for a prefix of
// $xy.
func Substitute(text string, vars Variables, opts ...SubstituteOption) string {
	var cfg substituteConfig
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	vars = orEmpty(vars)

	refs := References(text)
	if len(refs) == 0 {
		return text
	}

	var (
		buf    = make([]byte, 0, len(text))
		last   = 0
		missed map[string]bool
	)

	for _, ref := range refs {
		buf = append(buf, text[last:ref.Span.From]...)
		last = ref.Span.To

		if value, ok := vars.Lookup(ref.Name); ok {
			buf = append(buf, value...)

			continue
		}

		buf = append(buf, ref.Token...)

		if missed[ref.Token] {
			continue
		}

		if missed == nil {
			missed = make(map[string]bool)
		}

		missed[ref.Token] = true

		cfg.logger.Warn("undefined variable",
			slog.String("token", ref.Token),
			slog.Int("offset", ref.Span.From),
		)

		if cfg.onMiss != nil {
			cfg.onMiss(Miss{Token: ref.Token, Name: ref.Name, Span: ref.Span})
		}
	}

	return string(append(buf, text[last:]...))
}
