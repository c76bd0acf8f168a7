package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-yaml"
)

// Encoding selects how documents and diagnostics are written.
type Encoding uint8

const (
	EncodingText Encoding = iota
	EncodingJSON
	EncodingYAML
)

var encodingNames = [...]string{
	EncodingText: "text",
	EncodingJSON: "json",
	EncodingYAML: "yaml",
}

func (e Encoding) String() string {
	if int(e) < len(encodingNames) {
		return encodingNames[e]
	}

	return "Encoding(" + strconv.Itoa(int(e)) + ")"
}

// Encodings returns the accepted encoding names.
func Encodings() []string { return slices.Clone(encodingNames[:]) }

// MarshalText implements [encoding.TextMarshaler].
func (e Encoding) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler]. "tree" is accepted as
// an alias of "text".
func (e *Encoding) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "text", "tree", "":
		*e = EncodingText
	case "json":
		*e = EncodingJSON
	case "yaml", "yml":
		*e = EncodingYAML
	default:
		return fmt.Errorf("invalid encoding %q", text)
	}

	return nil
}

// Print writes an indented outline of the tree, one node per line. Leaves
// show their source text.
func (d *Document) Print(w io.Writer) error {
	var err error

	depth := map[NodeID]int{NoNode: -1}

	d.Walk(d.Root(), func(id NodeID, n Node) bool {
		depth[id] = depth[n.Parent] + 1

		line := strings.Repeat("  ", depth[id]) + n.Kind.String() +
			" [" + strconv.Itoa(n.Span.From) + "," + strconv.Itoa(n.Span.To) + ")"

		if id+1 == n.End {
			line += " " + strconv.Quote(n.Span.Text(d.source))
		}

		_, err = fmt.Fprintln(w, line)

		return err == nil
	})

	return err
}

// ToMap converts the subtree rooted at the document node into nested maps
// and slices suitable for generic encoders.
func (d *Document) ToMap() map[string]any { return d.nodeMap(d.Root()) }

func (d *Document) nodeMap(id NodeID) map[string]any {
	n := d.Node(id)

	m := map[string]any{
		"kind": n.Kind.String(),
		"span": map[string]any{"from": n.Span.From, "to": n.Span.To},
	}

	if id+1 == n.End {
		m["text"] = n.Span.Text(d.source)

		return m
	}

	var children []any
	for c := range d.Children(id) {
		children = append(children, d.nodeMap(c))
	}

	m["children"] = children

	return m
}

// FormatJSON writes the tree as JSON. A positive indent pretty-prints.
func (d *Document) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	return writeJSON(w, d.ToMap(), indent)
}

// FormatYAML writes the tree as YAML. A non-positive indent selects flow
// style.
func (d *Document) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return writeYAML(ctx, w, d.ToMap(), indent)
}

func writeJSON(w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func writeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// DiagnosticPrinter writes diagnostics for one document.
type DiagnosticPrinter struct {
	// Name identifies the source in text output, typically a file path.
	Name     string
	Encoding Encoding
	// Style, if set, decorates the severity label of text output.
	Style func(Severity, string) string
}

type diagnosticRecord struct {
	File     string   `json:"file,omitempty" yaml:"file,omitempty"`
	Line     int      `json:"line"           yaml:"line"`
	Column   int      `json:"column"         yaml:"column"`
	From     int      `json:"from"           yaml:"from"`
	To       int      `json:"to"             yaml:"to"`
	Severity Severity `json:"severity"       yaml:"severity"`
	Message  string   `json:"message"        yaml:"message"`
}

// Print writes diags to w.
func (p DiagnosticPrinter) Print(
	ctx context.Context,
	w io.Writer,
	doc *Document,
	diags []Diagnostic,
) error {
	switch p.Encoding {
	case EncodingJSON, EncodingYAML:
		records := make([]diagnosticRecord, len(diags))
		for i, diag := range diags {
			pos := doc.Position(diag.Span.From)
			records[i] = diagnosticRecord{
				File:     p.Name,
				Line:     pos.Line,
				Column:   pos.Column,
				From:     diag.Span.From,
				To:       diag.Span.To,
				Severity: diag.Severity,
				Message:  diag.Message,
			}
		}

		if p.Encoding == EncodingJSON {
			return writeJSON(w, records, 2)
		}

		return writeYAML(ctx, w, records, 2)
	}

	for _, diag := range diags {
		if _, err := io.WriteString(w, p.text(doc, diag)); err != nil {
			return err
		}
	}

	return nil
}

// text renders one diagnostic as
//
//	name:line:col: severity: message
//	  line | source text
//	       | ^~~~
func (p DiagnosticPrinter) text(doc *Document, diag Diagnostic) string {
	pos := doc.Position(diag.Span.From)

	label := diag.Severity.String()
	if p.Style != nil {
		label = p.Style(diag.Severity, label)
	}

	var buf strings.Builder

	name := p.Name
	if name == "" {
		name = "<input>"
	}

	fmt.Fprintf(&buf, "%s:%d:%d: %s: %s\n",
		name, pos.Line, pos.Column, label, diag.Message)

	src := doc.LineText(pos.Line)
	num := strconv.Itoa(pos.Line)
	gutter := strings.Repeat(" ", len(num)+2)

	// Tabs keep their width so the caret lines up with the source.
	pad := []rune(src)[:pos.Column-1]
	for i, r := range pad {
		if r != '\t' {
			pad[i] = ' '
		}
	}

	width := utf8.RuneCountInString(diag.Span.Text(doc.source))
	width = min(max(width, 1), max(utf8.RuneCountInString(src)-(pos.Column-1), 1))

	fmt.Fprintf(&buf, "  %s | %s\n", num, src)
	fmt.Fprintf(&buf, "%s | %s^%s\n", gutter, string(pad), strings.Repeat("~", width-1))

	return buf.String()
}
