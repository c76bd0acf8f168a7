package manifest

// TokenKind classifies a lexical token.
type TokenKind uint8

const (
	TokenEOF        TokenKind = iota // EOF
	TokenUnknown                     // Unknown
	TokenComment                     // Comment
	TokenIdentifier                  // Identifier
	TokenKeyword                     // Keyword
	TokenString                      // String
	TokenInteger                     // Integer
	TokenBoolean                     // Boolean
	TokenVariable                    // Variable
	TokenLParen                      // (
	TokenRParen                      // )
	TokenLAngle                      // <
	TokenRAngle                      // >
	TokenComma                       // ,
	TokenSemicolon                   // ;
	TokenArrow                       // =>
)

var tokenKindNames = [...]string{
	TokenEOF:        "EOF",
	TokenUnknown:    "Unknown",
	TokenComment:    "Comment",
	TokenIdentifier: "Identifier",
	TokenKeyword:    "Keyword",
	TokenString:     "String",
	TokenInteger:    "Integer",
	TokenBoolean:    "Boolean",
	TokenVariable:   "Variable",
	TokenLParen:     "(",
	TokenRParen:     ")",
	TokenLAngle:     "<",
	TokenRAngle:     ">",
	TokenComma:      ",",
	TokenSemicolon:  ";",
	TokenArrow:      "=>",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}

	return "TokenKind(?)"
}

// IsPunctuation reports whether k is one of the structural punctuation kinds.
func (k TokenKind) IsPunctuation() bool {
	return k >= TokenLParen && k <= TokenArrow
}

// Span is a half-open byte range [From, To) into the source text.
type Span struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to"   yaml:"to"`
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int { return s.To - s.From }

// Empty reports whether s covers no bytes.
func (s Span) Empty() bool { return s.To <= s.From }

// Contains reports whether offset lies inside s.
func (s Span) Contains(offset int) bool {
	return offset >= s.From && offset < s.To
}

// Text returns the slice of src covered by s, clamped to the bounds of src.
func (s Span) Text(src string) string {
	from, to := max(s.From, 0), min(s.To, len(src))
	if from >= to {
		return ""
	}

	return src[from:to]
}

// Token is a single lexical unit. Tokens are values and never change after
// the lexer produces them.
type Token struct {
	Kind TokenKind
	Text string
	Span Span

	// LineStart is set when no other token precedes this one on its line.
	LineStart bool
}

// Is reports whether t has kind k.
func (t Token) Is(k TokenKind) bool { return t.Kind == k }

// Position identifies a location in source text by byte offset and by
// 1-based line and column. Columns count runes, not bytes.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}
