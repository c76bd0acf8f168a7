package manifest

import "fmt"

// assertf panics when cond is false. It guards internal invariants of the
// parser and the document arena; user input can never trip it.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic("manifest: invariant violation: " + fmt.Sprintf(format, args...))
	}
}
