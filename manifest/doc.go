// Package manifest parses, lints and expands transaction manifests: the
// textual programs of ledger instructions submitted to a Radix network.
//
// # Pipeline
//
// Source text flows through four stages:
//
//	src ── Lex ──▶ []Token ── Parse ──▶ *Document ── Lint ──▶ []Diagnostic
//	src ── Substitute(vars) ──▶ resolved text
//
// None of the stages fail on malformed input. The lexer turns stray
// characters into Unknown tokens, the parser wraps what it cannot make
// sense of in Error nodes and resumes at the next statement boundary, and
// the linter reports what it finds as diagnostics.
//
// # Grammar
//
// Informal EBNF:
//
//	Document    → (Comment | Line)*
//	Line        → Method Argument* ';'?
//	Argument    → String | Boolean | Integer | Variable | Constructor
//	Constructor → Identifier TypeParams? Args?
//	TypeParams  → '<' Name (',' Name)? '>'
//	Args        → '(' (Argument ','?)* ')'
//	MapArgs     → '(' (Argument '=>' Argument ','?)* ')'
//
// Address, Decimal, Bucket, Proof, Tuple, Array, Map, Enum,
// NonFungibleGlobalId and NonFungibleLocalId constructors get their own
// node kinds; any other identifier, such as None or Expression, is an
// Object.
//
// # Document
//
// A [Document] stores its nodes in a flat pre-order arena. Every [Node]
// records its parent and the index one past its last descendant, so
// children, siblings and subtrees are found by index arithmetic and the
// tree can be shared between goroutines without copying.
//
// # Example
//
//	doc := manifest.Parse(ctx, src)
//	vars := manifest.VariableMap{"account": "account_rdx1..."}
//	for _, d := range manifest.Lint(doc, vars, manifest.WithNetwork(manifest.Stokenet)) {
//		fmt.Println(d.Span, d.Severity, d.Message)
//	}
//	out := manifest.Substitute(src, vars)
package manifest
