package manifest

import (
	"cmp"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// Severity ranks a [Diagnostic].
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "error":
		*s = SeverityError
	case "warning", "warn":
		*s = SeverityWarning
	default:
		return fmt.Errorf("invalid severity %q", text)
	}

	return nil
}

// Diagnostic is a problem found in manifest text.
type Diagnostic struct {
	Span     Span     `json:"span"     yaml:"span"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message"  yaml:"message"`
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}

	return false
}

// addressPrefixes are the entity types an Address literal may name.
var addressPrefixes = []string{
	"account", "resource", "component", "package", "internal_vault",
}

// addressPatterns caches compiled patterns by network address marker.
var addressPatterns sync.Map

// AddressPattern returns the expression that a resolved Address literal
// must match on the network. Patterns are compiled once per network.
func AddressPattern(network Network) *regexp.Regexp {
	marker := network.AddressMarker()
	if re, ok := addressPatterns.Load(marker); ok {
		return re.(*regexp.Regexp)
	}

	re := regexp.MustCompile(`^(?:` + strings.Join(addressPrefixes, "|") + `)_` +
		regexp.QuoteMeta(marker) + `\w+$`)

	actual, _ := addressPatterns.LoadOrStore(marker, re)

	return actual.(*regexp.Regexp)
}

// Lint checks a parsed document and returns its diagnostics in document
// order. vars supplies the values substituted into Address literals before
// they are validated and may be nil. The document is not modified.
func Lint(doc *Document, vars Variables, opts ...Option) []Diagnostic {
	cfg := makeConfig(opts...)

	l := &linter{
		doc:     doc,
		vars:    orEmpty(vars),
		address: AddressPattern(cfg.network),
		covered: make(map[NodeID]bool),
	}

	for id := range doc.Lines() {
		l.line(id)
	}

	cfg.logger.Trace("lint complete",
		slog.String("network", cfg.network.Name),
		slog.Int("lines", l.lines),
		slog.Int("diagnostics", len(l.diags)),
	)

	return l.diags
}

type linter struct {
	doc     *Document
	vars    Variables
	address *regexp.Regexp
	diags   []Diagnostic
	lines   int

	// covered holds Error nodes already explained by a specific rule.
	covered map[NodeID]bool
	// syntax counts generic syntax errors reported in this call; only the
	// first is kept.
	syntax int
}

func (l *linter) errorf(span Span, format string, args ...any) {
	l.diags = append(l.diags, Diagnostic{
		Span:     span,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (l *linter) warnf(span Span, format string, args ...any) {
	l.diags = append(l.diags, Diagnostic{
		Span:     span,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
	})
}

// first returns the first non-comment child of id.
func (l *linter) first(id NodeID) NodeID {
	for c := range l.doc.Arguments(id) {
		return c
	}

	return NoNode
}

// spanOr returns the span of id, or of fallback when id is absent.
func (l *linter) spanOr(id, fallback NodeID) Span {
	if id.Valid() {
		return l.doc.Span(id)
	}

	return l.doc.Span(fallback)
}

// cover marks id, and every Error node directly below it, as explained.
func (l *linter) cover(id NodeID) {
	if !id.Valid() {
		return
	}

	if l.doc.Kind(id) == NodeError {
		l.covered[id] = true
	}

	for c := range l.doc.Children(id) {
		if l.doc.Kind(c) == NodeError {
			l.covered[c] = true
		}
	}
}

func (l *linter) line(id NodeID) {
	l.lines++

	// Rules run in a fixed order, not source order.
	defer l.sortFrom(len(l.diags))

	span := l.doc.Span(id)
	method := l.first(id)

	if l.doc.Kind(method) != NodeMethod {
		// Up to the first child, or over it when it starts the line.
		to := span.To
		if method.Valid() {
			if first := l.doc.Span(method); first.From > span.From {
				to = first.From
			} else if first.To > span.From {
				to = first.To
			}
		}

		l.errorf(Span{From: span.From, To: to}, "missing instruction")
		l.cover(method)

		return
	}

	var (
		name = l.doc.Text(method)
		args []NodeID
		semi = NoNode
		last = method
	)

	for c := range l.doc.Arguments(id) {
		switch l.doc.Kind(c) {
		case NodeMethod:
		case NodeSemicolon:
			semi = c

			continue
		default:
			args = append(args, c)
		}

		last = c
	}

	spec, known := Lookup(name)
	if !known {
		l.errorf(l.doc.Span(method), "invalid instruction")
	} else {
		l.shape(name, method, args)
		l.arity(spec, method, args)
	}

	for _, arg := range args {
		l.doc.Walk(arg, l.visit)
	}

	if known && !semi.Valid() {
		end := l.doc.Span(last).To
		l.errorf(Span{From: end, To: end}, "missing semicolon")
	}
}

// sortFrom orders the diagnostics appended since start by position,
// keeping the rule order of diagnostics that start at the same offset.
func (l *linter) sortFrom(start int) {
	slices.SortStableFunc(l.diags[start:], func(a, b Diagnostic) int {
		return cmp.Compare(a.Span.From, b.Span.From)
	})
}

// shape checks the leading arguments of the generic call instructions.
func (l *linter) shape(name string, method NodeID, args []NodeID) {
	var want []NodeKind

	switch name {
	case "CALL_METHOD":
		want = []NodeKind{NodeAddress, NodeString}
	case "CALL_FUNCTION":
		want = []NodeKind{NodeAddress, NodeString, NodeString}
	default:
		return
	}

	ordinals := []string{"first", "second", "third"}
	prev := method

	for i, kind := range want {
		var span Span

		switch {
		case i >= len(args):
			end := l.doc.Span(prev).To
			span = Span{From: end, To: end}
		case l.doc.Kind(args[i]) != kind:
			span = l.doc.Span(args[i])
		default:
			prev = args[i]

			continue
		}

		switch {
		case kind == NodeString:
			l.errorf(span, "the %s argument of %s must be a string", ordinals[i], name)
		case name == "CALL_METHOD":
			l.errorf(span, "the %s argument of %s must be a component address", ordinals[i], name)
		default:
			l.errorf(span, "the %s argument of %s must be a package address", ordinals[i], name)
		}

		return
	}
}

func (l *linter) arity(spec InstructionSpec, method NodeID, args []NodeID) {
	n := 0
	for _, arg := range args {
		if l.doc.Kind(arg).IsArgument() {
			n++
		}
	}

	if spec.Accepts(n) {
		return
	}

	noun := "arguments"
	if spec.MinArgs == 1 && spec.MaxArgs == 1 {
		noun = "argument"
	}

	l.warnf(l.doc.Span(method), "%s expects %s %s, got %d",
		spec.Name, spec.Arity(), noun, n)
}

// visit applies the argument rules to one node of an argument subtree.
func (l *linter) visit(id NodeID, n Node) bool {
	switch n.Kind {
	case NodeAddress:
		l.addressRule(id)
	case NodeDecimal:
		l.decimalRule(id)
	case NodeArray:
		l.arrayRule(id)
	case NodeMap:
		l.mapRule(id)
	case NodeEnum:
		l.enumRule(id)
	case NodeString, NodeVariable:
		l.undefined(n.Span, l.doc.Text(id))
	case NodeError:
		if !l.covered[id] {
			if l.syntax == 0 {
				l.errorf(n.Span, "invalid syntax")
			}

			l.syntax++
		}
	}

	return true
}

func (l *linter) addressRule(id NodeID) {
	lit := l.first(id)

	if l.doc.Kind(lit) != NodeString {
		l.errorf(l.spanOr(lit, id), "address must be a string")
		l.cover(lit)

		return
	}

	text := strings.ReplaceAll(l.doc.Text(lit), `"`, "")
	resolved := Substitute(text, l.vars)

	if !l.address.MatchString(resolved) {
		l.errorf(l.doc.Span(lit), "invalid address %s", resolved)
	}
}

func (l *linter) decimalRule(id NodeID) {
	lit := l.first(id)

	if l.doc.Kind(lit) != NodeString {
		l.errorf(l.spanOr(lit, id), "decimal value must be enclosed in quotes")
		l.cover(lit)
	}
}

func (l *linter) arrayRule(id NodeID) {
	typ := l.doc.ChildOf(id, NodeArrayType)
	l.cover(typ)

	switch name, ok := l.typeName(typ); {
	case !ok:
		l.errorf(l.spanOr(typ, id), "missing array type")
	case !IsValueType(name):
		l.errorf(l.doc.Span(typ), "invalid array type")
	}
}

func (l *linter) mapRule(id NodeID) {
	key := l.doc.ChildOf(id, NodeMapKeyType)
	val := l.doc.ChildOf(id, NodeMapValueType)
	l.cover(key)
	l.cover(val)

	switch name, ok := l.typeName(key); {
	case !ok:
		l.errorf(l.spanOr(key, id), "missing key type")
	case !IsValueType(name):
		l.errorf(l.doc.Span(key), "invalid type")
	}

	switch name, ok := l.typeName(val); {
	case !ok:
		l.errorf(l.spanOr(val, id), "missing value type")
	case !IsValueType(name):
		l.errorf(l.doc.Span(val), "invalid type")
	}
}

func (l *linter) enumRule(id NodeID) {
	name := l.doc.ChildOf(id, NodeEnumName)
	l.cover(name)

	if !name.Valid() || l.doc.FirstChild(name).Valid() || l.doc.Span(name).Empty() {
		l.errorf(l.spanOr(name, id), "invalid enum name")
	}
}

// typeName returns the text of a type parameter node. It reports false when
// the parameter is absent or holds no name at all. A name followed by stray
// tokens is returned with them, which makes it invalid.
func (l *linter) typeName(id NodeID) (string, bool) {
	if !id.Valid() {
		return "", false
	}

	span := l.doc.Span(id)

	if c := l.doc.FirstChild(id); c.Valid() && l.doc.Span(c).From <= span.From {
		return "", false
	}

	if span.Empty() {
		return "", false
	}

	return l.doc.Text(id), true
}

// undefined warns about variable tokens in text that vars cannot resolve.
// span locates text in the source.
func (l *linter) undefined(span Span, text string) {
	for _, ref := range References(text) {
		if _, ok := l.vars.Lookup(ref.Name); ok {
			continue
		}

		l.warnf(Span{
			From: span.From + ref.Span.From,
			To:   span.From + ref.Span.To,
		}, "undefined variable name")
	}
}
