package manifest

import (
	"context"
	"testing"
)

func FuzzParse(f *testing.F) {
	for _, src := range recoveryInputs {
		f.Add(src)
	}

	f.Add(`CALL_METHOD Address("$a") "m" Map<String, Tuple>("k" => Tuple(Decimal("1"))) Enum<1u8>();`)

	f.Fuzz(func(t *testing.T, src string) {
		doc := Parse(context.Background(), src)

		if root := doc.Node(doc.Root()); root.Span != (Span{0, len(src)}) {
			t.Fatalf("root span %v, want [0,%d)", root.Span, len(src))
		}

		checkTree(t, src, doc)

		for _, d := range Lint(doc, VariableMap{"a": "account_rdx1x"}) {
			if d.Span.From > d.Span.To || d.Span.To > len(src) {
				t.Errorf("diagnostic %q has span %v outside [0,%d)", d.Message, d.Span, len(src))
			}
		}
	})
}

func FuzzSubstitute(f *testing.F) {
	f.Add("$a ${a} $ab ${", "x")
	f.Add("${loop}$loop", "$loop")
	f.Add("", "")

	f.Fuzz(func(t *testing.T, text, value string) {
		if got := Substitute(text, nil); got != text {
			t.Fatalf("Substitute(%q, nil) = %q", text, got)
		}

		vars := VariableMap{}
		for _, ref := range References(text) {
			vars[ref.Name] = value
		}

		var misses int

		Substitute(text, vars, WithMissHandler(func(Miss) { misses++ }))

		if misses != 0 {
			t.Errorf("Substitute(%q) missed %d tokens with every name defined", text, misses)
		}
	})
}
