package cmd

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// highlighter renders labels with their matched bytes emphasized. Output
// to anything but a color terminal is left plain.
type highlighter struct {
	base, match lipgloss.Style
}

func newHighlighter(w io.Writer) highlighter {
	r := lipgloss.NewRenderer(w)

	return highlighter{
		base:  r.NewStyle(),
		match: r.NewStyle().Foreground(lipgloss.Color("4")).Bold(true),
	}
}

func (h highlighter) render(label string, matched []int) string {
	if len(matched) == 0 {
		return h.base.Render(label)
	}

	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}

	var b strings.Builder

	for i, r := range label {
		if set[i] {
			b.WriteString(h.match.Render(string(r)))
		} else {
			b.WriteString(h.base.Render(string(r)))
		}
	}

	return b.String()
}
