package manifest

import (
	"iter"
	"strings"
)

// Lexer splits manifest source into tokens. It never fails: characters that
// match no rule come out as single-character [TokenUnknown] tokens, and the
// final token is always [TokenEOF].
type Lexer struct {
	src       string
	pos       int
	lineStart bool
}

// NewLexer returns a Lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, lineStart: true}
}

// Lex tokenizes src in one go. The returned slice ends with [TokenEOF].
func Lex(src string) []Token {
	// Manifests average roughly one token per five bytes.
	toks := make([]Token, 0, len(src)/5+1)

	for tok := range NewLexer(src).Tokens() {
		toks = append(toks, tok)
	}

	return toks
}

// Tokens returns an iterator over every token of the source, ending with
// [TokenEOF]. Each call restarts from the beginning of the source, so the
// sequence may be ranged over any number of times.
func (l *Lexer) Tokens() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		lx := NewLexer(l.src)

		for {
			tok := lx.Next()
			if !yield(tok) || tok.Kind == TokenEOF {
				return
			}
		}
	}
}

// Next returns the next token. Once [TokenEOF] has been returned every
// further call returns it again.
func (l *Lexer) Next() Token {
	l.skipSpace()

	if l.pos >= len(l.src) {
		return Token{
			Kind:      TokenEOF,
			Span:      Span{From: len(l.src), To: len(l.src)},
			LineStart: l.lineStart,
		}
	}

	start := l.pos
	kind := l.scan()

	tok := Token{
		Kind:      kind,
		Text:      l.src[start:l.pos],
		Span:      Span{From: start, To: l.pos},
		LineStart: l.lineStart,
	}
	l.lineStart = false

	return tok
}

func (l *Lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\n':
			l.lineStart = true
		case ' ', '\t', '\r', '\f', '\v':
		default:
			return
		}

		l.pos++
	}
}

// scan consumes one token starting at l.pos and returns its kind.
func (l *Lexer) scan() TokenKind {
	c := l.src[l.pos]

	switch {
	case c == '#':
		l.pos += lineLen(l.src[l.pos:])

		return TokenComment

	case c == '"':
		end := strings.IndexByte(l.src[l.pos+1:], '"')
		eol := lineLen(l.src[l.pos+1:])

		if end < 0 || end > eol {
			// Unterminated: the literal runs to the end of the line.
			l.pos += 1 + eol
		} else {
			l.pos += end + 2
		}

		return TokenString

	case c == '$':
		return l.scanVariable()

	case isDigit(c) || (c == '-' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
		return l.scanInteger()

	case isWordStart(c):
		return l.scanWord()

	case c == '=' && strings.HasPrefix(l.src[l.pos:], "=>"):
		l.pos += 2

		return TokenArrow
	}

	l.pos++

	switch c {
	case '(':
		return TokenLParen
	case ')':
		return TokenRParen
	case '<':
		return TokenLAngle
	case '>':
		return TokenRAngle
	case ',':
		return TokenComma
	case ';':
		return TokenSemicolon
	}

	// Consume a whole UTF-8 sequence so that a multi-byte rune yields one
	// Unknown token instead of several invalid fragments.
	for l.pos < len(l.src) && l.src[l.pos]&0xC0 == 0x80 {
		l.pos++
	}

	return TokenUnknown
}

func (l *Lexer) scanVariable() TokenKind {
	rest := l.src[l.pos+1:]

	if strings.HasPrefix(rest, "{") {
		n := wordLen(rest[1:])
		if n > 0 && len(rest) > n+1 && rest[n+1] == '}' {
			l.pos += n + 3

			return TokenVariable
		}
	} else if n := wordLen(rest); n > 0 {
		l.pos += n + 1

		return TokenVariable
	}

	l.pos++

	return TokenUnknown
}

func (l *Lexer) scanInteger() TokenKind {
	if l.src[l.pos] == '-' {
		l.pos++
	}

	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}

	if n := integerSuffixLen(l.src[l.pos:]); n > 0 {
		l.pos += n
	}

	return TokenInteger
}

func (l *Lexer) scanWord() TokenKind {
	start := l.pos

	for {
		l.pos += wordLen(l.src[l.pos:])

		// Enum variant paths such as AccessRule::AllowAll form one word.
		if strings.HasPrefix(l.src[l.pos:], "::") &&
			l.pos+2 < len(l.src) && isWordStart(l.src[l.pos+2]) {
			l.pos += 2

			continue
		}

		break
	}

	word := l.src[start:l.pos]

	switch {
	case word == "true" || word == "false":
		return TokenBoolean
	case isKeyword(word):
		return TokenKeyword
	default:
		return TokenIdentifier
	}
}

// isKeyword reports whether word has the shape of an instruction name:
// upper-case letters, digits and underscores, not a value-type name.
func isKeyword(word string) bool {
	if word == "" || word[0] < 'A' || word[0] > 'Z' {
		return false
	}

	for i := range len(word) {
		c := word[i]
		if !(c >= 'A' && c <= 'Z') && !isDigit(c) && c != '_' {
			return false
		}
	}

	return !IsValueType(word)
}

// integerSuffixLen returns the length of a type suffix such as u8 or i128 at
// the start of s, or zero when there is none.
func integerSuffixLen(s string) int {
	if s == "" || (s[0] != 'u' && s[0] != 'i') {
		return 0
	}

	for _, width := range []string{"128", "16", "32", "64", "8"} {
		if strings.HasPrefix(s[1:], width) {
			n := 1 + len(width)
			if n < len(s) && isWordPart(s[n]) {
				return 0
			}

			return n
		}
	}

	return 0
}

func lineLen(s string) int {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return i
	}

	return len(s)
}

func wordLen(s string) int {
	n := 0
	for n < len(s) && isWordPart(s[n]) {
		n++
	}

	return n
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isWordPart(c byte) bool { return isWordStart(c) || isDigit(c) }
