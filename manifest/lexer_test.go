package manifest

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type tok struct {
	Kind TokenKind
	Text string
}

func kindsAndText(toks []Token) []tok {
	out := make([]tok, 0, len(toks))
	for _, t := range toks {
		out = append(out, tok{t.Kind, t.Text})
	}

	return out
}

func TestLex(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []tok
	}{
		{
			name: "empty",
			src:  "",
			want: []tok{{TokenEOF, ""}},
		},
		{
			name: "instruction",
			src:  `CALL_METHOD Address("x") "m";`,
			want: []tok{
				{TokenKeyword, "CALL_METHOD"},
				{TokenIdentifier, "Address"},
				{TokenLParen, "("},
				{TokenString, `"x"`},
				{TokenRParen, ")"},
				{TokenString, `"m"`},
				{TokenSemicolon, ";"},
				{TokenEOF, ""},
			},
		},
		{
			name: "comment",
			src:  "# note\nX",
			want: []tok{
				{TokenComment, "# note"},
				{TokenKeyword, "X"},
				{TokenEOF, ""},
			},
		},
		{
			name: "unterminated string",
			src:  "\"abc\nD",
			want: []tok{
				{TokenString, `"abc`},
				{TokenKeyword, "D"},
				{TokenEOF, ""},
			},
		},
		{
			name: "variables",
			src:  "$x ${y_1} $ ${}",
			want: []tok{
				{TokenVariable, "$x"},
				{TokenVariable, "${y_1}"},
				{TokenUnknown, "$"},
				{TokenUnknown, "$"},
				{TokenUnknown, "{"},
				{TokenUnknown, "}"},
				{TokenEOF, ""},
			},
		},
		{
			name: "integers",
			src:  "12u8 -5 7i128 9u1",
			want: []tok{
				{TokenInteger, "12u8"},
				{TokenInteger, "-5"},
				{TokenInteger, "7i128"},
				{TokenInteger, "9"},
				{TokenIdentifier, "u1"},
				{TokenEOF, ""},
			},
		},
		{
			name: "paths",
			src:  "OwnerRole::Fixed A::",
			want: []tok{
				{TokenIdentifier, "OwnerRole::Fixed"},
				{TokenKeyword, "A"},
				{TokenUnknown, ":"},
				{TokenUnknown, ":"},
				{TokenEOF, ""},
			},
		},
		{
			name: "words",
			src:  "true false U8 Array FOO_BAR2 none",
			want: []tok{
				{TokenBoolean, "true"},
				{TokenBoolean, "false"},
				{TokenIdentifier, "U8"},
				{TokenIdentifier, "Array"},
				{TokenKeyword, "FOO_BAR2"},
				{TokenIdentifier, "none"},
				{TokenEOF, ""},
			},
		},
		{
			name: "punctuation",
			src:  "=> < > , ( ) ; =",
			want: []tok{
				{TokenArrow, "=>"},
				{TokenLAngle, "<"},
				{TokenRAngle, ">"},
				{TokenComma, ","},
				{TokenLParen, "("},
				{TokenRParen, ")"},
				{TokenSemicolon, ";"},
				{TokenUnknown, "="},
				{TokenEOF, ""},
			},
		},
		{
			name: "multibyte rune",
			src:  "é",
			want: []tok{
				{TokenUnknown, "é"},
				{TokenEOF, ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kindsAndText(Lex(tt.src))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Lex(%q) mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestLex_Spans(t *testing.T) {
	src := `CALL_METHOD Address("x") "m";`

	want := []Span{
		{0, 11}, {12, 19}, {19, 20}, {20, 23}, {23, 24}, {25, 28}, {28, 29}, {29, 29},
	}

	var got []Span
	for _, tok := range Lex(src) {
		got = append(got, tok.Span)
		if tok.Kind != TokenEOF && tok.Span.Text(src) != tok.Text {
			t.Errorf("token %v: span text %q != token text %q",
				tok.Kind, tok.Span.Text(src), tok.Text)
		}
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestLex_LineStart(t *testing.T) {
	toks := Lex("A B\n  C")

	want := []bool{true, false, true, false}

	got := make([]bool, len(toks))
	for i, tok := range toks {
		got[i] = tok.LineStart
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LineStart mismatch (-want +got):\n%s", diff)
	}
}

func TestLexer_Tokens_Restartable(t *testing.T) {
	lx := NewLexer(`A Tuple(1u8, "x"); # done`)

	var first, second []Token

	for tok := range lx.Tokens() {
		first = append(first, tok)
	}

	for tok := range lx.Tokens() {
		second = append(second, tok)
	}

	if len(first) == 0 || first[len(first)-1].Kind != TokenEOF {
		t.Fatalf("sequence does not end with EOF: %v", first)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second iteration differs (-first +second):\n%s", diff)
	}
}

func TestLexer_Next_StaysAtEOF(t *testing.T) {
	lx := NewLexer("A")

	lx.Next()

	for range 3 {
		if tok := lx.Next(); tok.Kind != TokenEOF {
			t.Fatalf("Next() = %v, want EOF", tok.Kind)
		}
	}
}
