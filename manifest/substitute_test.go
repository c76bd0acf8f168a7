package manifest

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSubstitute(t *testing.T) {
	vars := VariableMap{
		"x":       "1",
		"account": "account_rdx12xtest",
		"loop":    "$loop",
		"empty":   "",
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"no tokens", `CALL_METHOD Address("a") "m";`, `CALL_METHOD Address("a") "m";`},
		{"bare", `Address("$account")`, `Address("account_rdx12xtest")`},
		{"braced", `Address("${account}")`, `Address("account_rdx12xtest")`},
		{"braced alone", "${x}", "1"},
		{"prefix is not a match", "$x ${x} $xy", "1 1 $xy"},
		{"adjacent text", "${x}y", "1y"},
		{"value is not expanded again", "$loop", "$loop"},
		{"empty value", "a${empty}b", "ab"},
		{"lone sigil", "$ ${} $-", "$ ${} $-"},
		{"unknown left verbatim", "$nope ${nope}", "$nope ${nope}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Substitute(tt.text, vars); got != tt.want {
				t.Errorf("Substitute(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSubstitute_WholeTokens(t *testing.T) {
	vars := VariableMap{"x": "A", "xy": "B"}

	for text, want := range map[string]string{
		"$x $xy":     "A B",
		"$xy $x":     "B A",
		"${x}${xy}":  "AB",
		"$xy${x}$xy": "BAB",
	} {
		if got := Substitute(text, vars); got != want {
			t.Errorf("Substitute(%q) = %q, want %q", text, got, want)
		}
	}
}

func TestSubstitute_NilVariables(t *testing.T) {
	const text = "CALL_METHOD $a;"

	if got := Substitute(text, nil); got != text {
		t.Errorf("Substitute(nil vars) = %q", got)
	}
}

func TestSubstitute_Misses(t *testing.T) {
	var misses []Miss

	text := "$x ${y} $y $y ${y}"
	got := Substitute(text, VariableMap{"x": "1"},
		WithMissHandler(func(m Miss) { misses = append(misses, m) }))

	if got != "1 ${y} $y $y ${y}" {
		t.Errorf("Substitute = %q", got)
	}

	want := []Miss{
		{Token: "${y}", Name: "y", Span: Span{3, 7}},
		{Token: "$y", Name: "y", Span: Span{8, 10}},
	}

	if diff := cmp.Diff(want, misses); diff != "" {
		t.Errorf("misses (-want +got):\n%s", diff)
	}
}

func TestSubstitute_Complete(t *testing.T) {
	vars := VariableMap{"a": "alpha", "b_2": "beta"}
	text := "CALL_METHOD Address(\"$a\") \"${b_2}\" $a$b_2;"

	got := Substitute(text, vars)

	if refs := References(got); len(refs) != 0 {
		t.Errorf("unresolved tokens remain: %v", refs)
	}

	if !strings.Contains(got, "alphabeta") {
		t.Errorf("Substitute = %q", got)
	}
}

func TestReferences(t *testing.T) {
	got := References(`x $a "${b_1}"$c9`)

	want := []Reference{
		{Token: "$a", Name: "a", Span: Span{2, 4}},
		{Token: "${b_1}", Name: "b_1", Span: Span{6, 12}},
		{Token: "$c9", Name: "c9", Span: Span{13, 16}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("References mismatch (-want +got):\n%s", diff)
	}

	if References("no tokens") != nil {
		t.Error("References without tokens is not nil")
	}
}

func TestVariableMap_Names(t *testing.T) {
	got := VariableMap{"b": "", "a": "", "c": ""}.Names()
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}

func BenchmarkSubstitute(b *testing.B) {
	vars := VariableMap{"account": "account_rdx12xtest", "xrd": Mainnet.XRD}
	text := strings.Repeat(`CALL_METHOD Address("$account") "withdraw" Address("${xrd}") Decimal("1");`+"\n", 100)

	b.ReportAllocs()

	for b.Loop() {
		Substitute(text, vars)
	}
}
