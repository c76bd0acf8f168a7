package manifest

import (
	"context"
	"io"
	"log/slog"

	"github.com/klauspost/readahead"
)

// Parse builds the concrete syntax tree of src. It never fails: malformed
// input yields Error nodes whose spans mark the offending text, and parsing
// resumes at the next statement boundary.
func Parse(ctx context.Context, src string, opts ...Option) *Document {
	cfg := makeConfig(opts...)

	p := &parser{
		toks: Lex(src),
		doc: &Document{
			source: src,
			nodes:  make([]Node, 0, len(src)/4+1),
			lines:  lineOffsets(src),
		},
	}

	p.document()

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.Int("bytes", len(src)),
		slog.Int("tokens", len(p.toks)),
		slog.Int("nodes", len(p.doc.nodes)),
	)

	return p.doc
}

// ParseReader reads all of r and parses it.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Document, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	src, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return Parse(ctx, string(src), opts...), nil
}

type parser struct {
	toks    []Token
	i       int
	lastEnd int // end offset of the last consumed token
	depth   int // nesting of open argument lists
	doc     *Document
	stack   []NodeID
}

func (p *parser) peek() Token { return p.toks[p.i] }

func (p *parser) advance() Token {
	tok := p.toks[p.i]
	if tok.Kind != TokenEOF {
		p.i++
		p.lastEnd = tok.Span.To
	}

	return tok
}

// accept consumes the current token if it has kind k.
func (p *parser) accept(k TokenKind) bool {
	if p.peek().Kind != k {
		return false
	}

	p.advance()

	return true
}

func (p *parser) open(kind NodeKind, from int) {
	parent := NoNode
	if n := len(p.stack); n > 0 {
		parent = p.stack[n-1]
	}

	id := NodeID(len(p.doc.nodes))
	p.doc.nodes = append(p.doc.nodes, Node{
		Kind:   kind,
		Span:   Span{From: from, To: from},
		Parent: parent,
		End:    NoNode,
	})
	p.stack = append(p.stack, id)
}

func (p *parser) close(to int) {
	n := len(p.stack)
	assertf(n > 0, "close without open")

	id := p.stack[n-1]
	p.stack = p.stack[:n-1]

	node := &p.doc.nodes[id]
	node.Span.To = max(to, node.Span.From)
	node.End = NodeID(len(p.doc.nodes))
}

func (p *parser) leaf(kind NodeKind, span Span) {
	p.open(kind, span.From)
	p.close(span.To)
}

// token consumes the current token as a leaf of the given kind.
func (p *parser) token(kind NodeKind) {
	p.leaf(kind, p.advance().Span)
}

// boundary reports whether the current token ends error recovery. stops
// lists additional kinds that close the construct being recovered.
func (p *parser) boundary(stops ...TokenKind) bool {
	tok := p.peek()

	switch {
	case tok.Kind == TokenEOF, tok.Kind == TokenSemicolon, tok.LineStart:
		return true
	case p.depth > 0 && (tok.Kind == TokenComma || tok.Kind == TokenRParen):
		return true
	}

	for _, k := range stops {
		if tok.Kind == k {
			return true
		}
	}

	return false
}

// missing records an Error node for an expected construct that is absent.
// Tokens up to the next boundary are skipped and covered by the node, which
// is zero-width at the end of the last consumed token when nothing is
// skipped. Parenthesized groups among the skipped tokens are skipped whole.
func (p *parser) missing(stops ...TokenKind) {
	p.open(NodeError, p.lastEnd)

	for nest := 0; ; {
		tok := p.peek()

		if tok.Kind == TokenEOF || tok.Kind == TokenSemicolon || tok.LineStart {
			break
		}

		if nest == 0 && p.boundary(stops...) {
			break
		}

		switch tok.Kind {
		case TokenLParen:
			nest++
		case TokenRParen:
			nest = max(nest-1, 0)
		}

		p.advance()
	}

	p.close(p.lastEnd)
}

// unexpected wraps the current token in an Error node.
func (p *parser) unexpected() {
	p.token(NodeError)
}

func (p *parser) document() {
	p.open(NodeDocument, 0)

	for {
		tok := p.peek()

		switch tok.Kind {
		case TokenEOF:
			p.close(len(p.doc.source))
			assertf(len(p.stack) == 0, "unbalanced node stack")

			return

		case TokenComment:
			p.token(NodeComment)

		case TokenKeyword:
			p.line()

		default:
			p.errorLine()
		}
	}
}

// line parses an instruction and its arguments. The line ends after a
// semicolon, before the next instruction keyword, or at the end of input.
func (p *parser) line() {
	p.open(NodeLine, p.peek().Span.From)
	p.token(NodeMethod)

	for p.lineArgument() {
	}

	p.close(p.lastEnd)
}

// lineArgument parses one element of a line and reports whether the line
// continues.
func (p *parser) lineArgument() bool {
	before := p.i

	switch p.peek().Kind {
	case TokenEOF, TokenKeyword:
		return false

	case TokenSemicolon:
		p.token(NodeSemicolon)

		return false

	case TokenComment:
		p.token(NodeComment)

	default:
		p.argument()
	}

	assertf(p.i > before, "line made no progress at token %d", before)

	return true
}

// errorLine parses a line that does not start with an instruction keyword.
// Everything up to the next semicolon, comment or source line is covered by
// one Error node.
func (p *parser) errorLine() {
	start, first := p.peek().Span, p.i

	p.open(NodeLine, start.From)
	p.open(NodeError, start.From)

	for tok := p.peek(); tok.Kind != TokenEOF &&
		tok.Kind != TokenSemicolon && tok.Kind != TokenComment; tok = p.peek() {
		p.advance()

		if p.peek().LineStart {
			break
		}
	}

	p.close(p.lastEnd)

	if tok := p.peek(); tok.Kind == TokenComment && !tok.LineStart {
		p.token(NodeComment)
	}

	if tok := p.peek(); tok.Kind == TokenSemicolon && (!tok.LineStart || p.i == first) {
		p.token(NodeSemicolon)
	}

	assertf(p.i > first, "error line made no progress at token %d", first)
	p.close(p.lastEnd)
}

// argument parses a single value. It always consumes at least one token.
func (p *parser) argument() {
	switch p.peek().Kind {
	case TokenString:
		p.token(NodeString)
	case TokenBoolean:
		p.token(NodeBoolean)
	case TokenInteger:
		p.token(NodeInteger)
	case TokenVariable:
		p.token(NodeVariable)
	case TokenIdentifier:
		p.constructor()
	default:
		p.unexpected()
	}
}

// constructor parses a value introduced by an identifier. The identifier
// selects the node kind; names without a dedicated kind become Object nodes
// whose argument list is optional.
func (p *parser) constructor() {
	name := p.peek()

	kind, ok := constructors[name.Text]
	if !ok {
		kind = NodeObject
	}

	p.open(kind, name.Span.From)
	p.advance()

	switch kind {
	case NodeArray:
		p.typeParams(NodeArrayType)
	case NodeMap:
		p.typeParams(NodeMapKeyType, NodeMapValueType)
	case NodeEnum:
		p.typeParams(NodeEnumName)
	}

	switch {
	case p.peek().Kind == TokenLParen:
		p.arguments(kind == NodeMap)
	case kind != NodeObject:
		p.missing()
	}

	p.close(p.lastEnd)
}

// typeParams parses the angle-bracketed parameters of Array, Map and Enum.
// Each parameter gets a node of the corresponding kind even when it is
// absent, in which case the node holds the Error.
func (p *parser) typeParams(kinds ...NodeKind) {
	stops := []TokenKind{TokenRAngle, TokenLParen}

	if !p.accept(TokenLAngle) {
		p.absentType(kinds[0], stops)

		return
	}

	for n, kind := range kinds {
		if n > 0 && !p.accept(TokenComma) {
			p.absentType(kind, stops)

			return
		}

		p.typeName(kind, n < len(kinds)-1)
	}

	if !p.accept(TokenRAngle) {
		p.missing(stops...)
		p.accept(TokenRAngle)
	}
}

func (p *parser) absentType(kind NodeKind, stops []TokenKind) {
	p.open(kind, p.lastEnd)
	p.missing(stops...)
	p.close(p.lastEnd)
	p.accept(TokenRAngle)
}

// typeName parses one type parameter. The parameter's position, not its
// token, decides that it is a type name: any identifier or keyword is
// accepted here, as is an integer discriminator for enum names. Tokens
// trailing the name inside the brackets become an Error child.
func (p *parser) typeName(kind NodeKind, more bool) {
	stops := []TokenKind{TokenRAngle, TokenLParen}
	if more {
		stops = append(stops, TokenComma)
	}

	tok := p.peek()

	named := tok.Kind == TokenIdentifier || tok.Kind == TokenKeyword ||
		(kind == NodeEnumName && tok.Kind == TokenInteger)

	if !named {
		p.open(kind, p.lastEnd)
		p.missing(stops...)
		p.close(p.lastEnd)

		return
	}

	p.open(kind, tok.Span.From)
	p.advance()

	if !p.boundary(stops...) {
		p.missing(stops...)
	}

	p.close(p.lastEnd)
}

// arguments parses a parenthesized argument list. Commas between arguments
// are optional and a trailing comma is allowed. In a map, arguments come in
// key => value pairs.
func (p *parser) arguments(pairs bool) {
	p.advance()
	p.depth++

	defer func() { p.depth-- }()

	for {
		before := p.i
		tok := p.peek()

		switch {
		case tok.Kind == TokenRParen:
			p.advance()

			return

		case tok.Kind == TokenEOF, tok.Kind == TokenSemicolon,
			tok.Kind == TokenKeyword && tok.LineStart:
			// Unclosed list.
			p.missing()

			return

		case tok.Kind == TokenComma:
			p.advance()

		case tok.Kind == TokenComment:
			p.token(NodeComment)

		case pairs:
			p.pair()

		default:
			p.argument()
		}

		assertf(p.i > before, "argument list made no progress at token %d", before)
	}
}

// pair parses key => value inside a map.
func (p *parser) pair() {
	p.argument()

	if !p.accept(TokenArrow) {
		p.missing()

		return
	}

	for p.peek().Kind == TokenComment {
		p.token(NodeComment)
	}

	switch p.peek().Kind {
	case TokenRParen, TokenComma, TokenSemicolon, TokenEOF:
		p.missing()
	default:
		p.argument()
	}
}
