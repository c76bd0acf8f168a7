package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of pretty output. Styles come from a renderer
// bound to the output, so color is only emitted when the output supports it.
type palette struct {
	key, str, num, yes, no, dur, tim, null lipgloss.Style

	trace, debug, info, warn, err lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return &palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		dur:   fg("5"),
		tim:   fg("4"),
		null:  fg("8"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3").Bold(true),
		err:   fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// value renders v without quoting.
func (p *palette) value(v slog.Value) string {
	switch v = v.Resolve(); v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())
	case slog.KindInt64:
		return p.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return p.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")
	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())
	case slog.KindTime:
		return p.tim.Render(v.Time().Format(time.RFC3339))
	case slog.KindAny:
		if v.Any() == nil {
			return p.null.Render("null")
		}
	}

	return p.str.Render(v.String())
}

// prettyState is shared by the handlers derived from one another through
// WithAttrs and WithGroup.
type prettyState struct {
	mu   sync.Mutex
	w    io.Writer
	opts slog.HandlerOptions
	pal  *palette
}

// header resolves the built-in record fields through ReplaceAttr.
func (s *prettyState) header(r slog.Record) []slog.Attr {
	fields := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		fields = append(fields, slog.Time(slog.TimeKey, r.Time))
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if s.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			fields = append(fields, slog.String(slog.SourceKey,
				src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))

	out := fields[:0]
	for _, a := range fields {
		if s.opts.ReplaceAttr != nil {
			a = s.opts.ReplaceAttr(nil, a)
		}

		if !a.Equal(slog.Attr{}) {
			out = append(out, a)
		}
	}

	return out
}

func (s *prettyState) write(b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.w.Write(b)

	return err
}

// prettyTextHandler writes one colored key=value line per record.
type prettyTextHandler struct {
	*prettyState

	prefix string // qualifies keys added under WithGroup
	attrs  []slog.Attr
}

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyTextHandler {
	return &prettyTextHandler{
		prettyState: &prettyState{w: w, opts: *opts, pal: newPalette(w)},
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	for _, a := range h.header(r) {
		if a.Key == slog.LevelKey {
			h.field(&buf, a.Key, h.pal.level(r.Level).Render(a.Value.String()))

			continue
		}

		h.field(&buf, a.Key, h.pal.value(a.Value))
	}

	for _, a := range h.attrs {
		h.attr(&buf, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.attr(&buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	return h.write(buf.Bytes())
}

func (h *prettyTextHandler) field(buf *bytes.Buffer, key, value string) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(h.pal.key.Render(key))
	buf.WriteByte('=')
	buf.WriteString(value)
}

func (h *prettyTextHandler) attr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			h.attr(buf, prefix, g)
		}

		return
	}

	if a.Equal(slog.Attr{}) {
		return
	}

	h.field(buf, prefix+a.Key, h.pal.value(a.Value))
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	c.attrs = append(c.attrs, h.attrs...)

	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}

		c.attrs = append(c.attrs, a)
	}

	return &c
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix += name + "."

	return &c
}

// prettyJSONHandler writes each record as an indented, colored object.
// Keys are unquoted and string values are not escaped, so the output is for
// people rather than JSON parsers.
type prettyJSONHandler struct {
	*prettyState

	groups []string
	attrs  []slog.Attr
}

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyJSONHandler {
	return &prettyJSONHandler{
		prettyState: &prettyState{w: w, opts: *opts, pal: newPalette(w)},
	}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	var (
		buf   bytes.Buffer
		first = true
	)

	buf.WriteString("{")

	for _, a := range h.header(r) {
		value := h.pal.value(a.Value)
		if a.Key == slog.LevelKey {
			value = h.pal.level(r.Level).Render(a.Value.String())
		}

		h.member(&buf, 1, a.Key, value, &first)
	}

	attrs := append([]slog.Attr(nil), h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	// Nest record attributes under the open groups.
	for i := len(h.groups) - 1; i >= 0 && r.NumAttrs() > 0; i-- {
		attrs = append(attrs[:len(h.attrs):len(h.attrs)],
			slog.Attr{Key: h.groups[i], Value: slog.GroupValue(attrs[len(h.attrs):]...)})
	}

	for _, a := range attrs {
		h.attr(&buf, 1, a, &first)
	}

	buf.WriteString("\n}\n")

	return h.write(buf.Bytes())
}

func (h *prettyJSONHandler) member(buf *bytes.Buffer, depth int, key, value string, first *bool) {
	if !*first {
		buf.WriteByte(',')
	}

	*first = false

	fmt.Fprintf(buf, "\n%s%s: %s", strings.Repeat("  ", depth), h.pal.key.Render(key), value)
}

func (h *prettyJSONHandler) attr(buf *bytes.Buffer, depth int, a slog.Attr, first *bool) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() != slog.KindGroup {
		h.member(buf, depth, a.Key, h.pal.value(a.Value), first)

		return
	}

	if a.Key == "" {
		for _, g := range a.Value.Group() {
			h.attr(buf, depth, g, first)
		}

		return
	}

	h.member(buf, depth, a.Key, "{", first)

	inner := true
	for _, g := range a.Value.Group() {
		h.attr(buf, depth+1, g, &inner)
	}

	fmt.Fprintf(buf, "\n%s}", strings.Repeat("  ", depth))
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h

	if len(h.groups) > 0 {
		// Attributes added inside a group belong to it.
		for i := len(h.groups) - 1; i >= 0; i-- {
			attrs = []slog.Attr{{Key: h.groups[i], Value: slog.GroupValue(attrs...)}}
		}
	}

	c.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)

	return &c
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}
