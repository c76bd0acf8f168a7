package manifest

import (
	"iter"
	"sort"
	"unicode/utf8"
)

// NodeKind identifies the syntactic category of a CST node.
type NodeKind uint8

const (
	NodeDocument            NodeKind = iota // Document
	NodeLine                                // Line
	NodeMethod                              // Method
	NodeAddress                             // Address
	NodeDecimal                             // Decimal
	NodeBucket                              // Bucket
	NodeProof                               // Proof
	NodeTuple                               // Tuple
	NodeArray                               // Array
	NodeArrayType                           // ArrayType
	NodeMap                                 // Map
	NodeMapKeyType                          // MapKeyType
	NodeMapValueType                        // MapValueType
	NodeEnum                                // Enum
	NodeEnumName                            // EnumName
	NodeNonFungibleGlobalID                 // NonFungibleGlobalId
	NodeNonFungibleLocalID                  // NonFungibleLocalId
	NodeObject                              // Object
	NodeString                              // StringLiteral
	NodeBoolean                             // Boolean
	NodeInteger                             // Integer
	NodeVariable                            // Variable
	NodeComment                             // Comment
	NodeSemicolon                           // Semicolon
	NodeError                               // Error
)

var nodeKindNames = [...]string{
	NodeDocument:            "Document",
	NodeLine:                "Line",
	NodeMethod:              "Method",
	NodeAddress:             "Address",
	NodeDecimal:             "Decimal",
	NodeBucket:              "Bucket",
	NodeProof:               "Proof",
	NodeTuple:               "Tuple",
	NodeArray:               "Array",
	NodeArrayType:           "ArrayType",
	NodeMap:                 "Map",
	NodeMapKeyType:          "MapKeyType",
	NodeMapValueType:        "MapValueType",
	NodeEnum:                "Enum",
	NodeEnumName:            "EnumName",
	NodeNonFungibleGlobalID: "NonFungibleGlobalId",
	NodeNonFungibleLocalID:  "NonFungibleLocalId",
	NodeObject:              "Object",
	NodeString:              "StringLiteral",
	NodeBoolean:             "Boolean",
	NodeInteger:             "Integer",
	NodeVariable:            "Variable",
	NodeComment:             "Comment",
	NodeSemicolon:           "Semicolon",
	NodeError:               "Error",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}

	return "NodeKind(?)"
}

// IsArgument reports whether a node of kind k can appear as an instruction
// argument.
func (k NodeKind) IsArgument() bool {
	switch k {
	case NodeAddress, NodeDecimal, NodeBucket, NodeProof, NodeTuple,
		NodeArray, NodeMap, NodeEnum, NodeNonFungibleGlobalID,
		NodeNonFungibleLocalID, NodeObject, NodeString, NodeBoolean,
		NodeInteger, NodeVariable:
		return true
	}

	return false
}

// constructors maps the leading identifier of a constructor-shaped argument
// to the node kind it produces. Identifiers absent here produce NodeObject.
var constructors = map[string]NodeKind{
	"Address":             NodeAddress,
	"Decimal":             NodeDecimal,
	"Bucket":              NodeBucket,
	"Proof":               NodeProof,
	"Tuple":               NodeTuple,
	"Array":               NodeArray,
	"Map":                 NodeMap,
	"Enum":                NodeEnum,
	"NonFungibleGlobalId": NodeNonFungibleGlobalID,
	"NonFungibleLocalId":  NodeNonFungibleLocalID,
}

// NodeID indexes a node in its [Document]. The root is always 0.
type NodeID int32

// NoNode is returned by navigation methods when the requested node does not
// exist.
const NoNode NodeID = -1

// Valid reports whether id refers to a node.
func (id NodeID) Valid() bool { return id >= 0 }

// Node is one entry of the document arena. Nodes are stored in pre-order, so
// the descendants of node i occupy indices i+1 up to (not including) End.
type Node struct {
	Kind   NodeKind
	Span   Span
	Parent NodeID
	End    NodeID
}

// Document is an immutable concrete syntax tree. Its nodes live in a flat
// pre-order arena, so navigation is index arithmetic and a Document may be
// read from any number of goroutines at once.
type Document struct {
	source string
	nodes  []Node
	lines  []int // byte offset of the start of each source line
}

// Source returns the text the document was parsed from.
func (d *Document) Source() string { return d.source }

// Len returns the number of nodes, including the root.
func (d *Document) Len() int { return len(d.nodes) }

// Root returns the ID of the document node.
func (d *Document) Root() NodeID { return 0 }

// Node returns the node with the given ID.
func (d *Document) Node(id NodeID) Node {
	assertf(int(id) >= 0 && int(id) < len(d.nodes), "node %d out of range", id)

	return d.nodes[id]
}

// Kind returns the kind of node id, or [NodeError] for [NoNode].
func (d *Document) Kind(id NodeID) NodeKind {
	if !id.Valid() {
		return NodeError
	}

	return d.nodes[id].Kind
}

// Span returns the source range of node id.
func (d *Document) Span(id NodeID) Span { return d.Node(id).Span }

// Text returns the source text covered by node id.
func (d *Document) Text(id NodeID) string {
	return d.Node(id).Span.Text(d.source)
}

// Parent returns the parent of id, or [NoNode] for the root.
func (d *Document) Parent(id NodeID) NodeID { return d.Node(id).Parent }

// FirstChild returns the first child of id, or [NoNode] if it is a leaf.
func (d *Document) FirstChild(id NodeID) NodeID {
	if n := d.Node(id); id+1 < n.End {
		return id + 1
	}

	return NoNode
}

// NextSibling returns the sibling following id, or [NoNode] if id is the
// last child of its parent.
func (d *Document) NextSibling(id NodeID) NodeID {
	n := d.Node(id)
	if !n.Parent.Valid() {
		return NoNode
	}

	if n.End < d.nodes[n.Parent].End {
		return n.End
	}

	return NoNode
}

// LastChild returns the last child of id, or [NoNode] if it is a leaf.
func (d *Document) LastChild(id NodeID) NodeID {
	last := NoNode
	for c := range d.Children(id) {
		last = c
	}

	return last
}

// Children returns an iterator over the direct children of id in source
// order.
func (d *Document) Children(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		end := d.Node(id).End
		for c := id + 1; c < end; c = d.nodes[c].End {
			if !yield(c) {
				return
			}
		}
	}
}

// ChildOf returns the first direct child of id with the given kind.
func (d *Document) ChildOf(id NodeID, kind NodeKind) NodeID {
	for c := range d.Children(id) {
		if d.nodes[c].Kind == kind {
			return c
		}
	}

	return NoNode
}

// Arguments returns an iterator over the children of id that are not
// comments, which is how the positional structure of a line or constructor
// is observed.
func (d *Document) Arguments(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for c := range d.Children(id) {
			if d.nodes[c].Kind == NodeComment {
				continue
			}

			if !yield(c) {
				return
			}
		}
	}
}

// Lines returns an iterator over the top-level Line nodes.
func (d *Document) Lines() iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for c := range d.Children(d.Root()) {
			if d.nodes[c].Kind == NodeLine && !yield(c) {
				return
			}
		}
	}
}

// Visitor receives nodes during [Document.Walk]. Returning false skips the
// subtree of the visited node.
type Visitor func(id NodeID, n Node) bool

// Walk visits the subtree rooted at id in pre-order.
func (d *Document) Walk(id NodeID, visit Visitor) {
	end := d.Node(id).End
	for i := id; i < end; {
		if visit(i, d.nodes[i]) {
			i++
		} else {
			i = d.nodes[i].End
		}
	}
}

// Position converts a byte offset into a line/column position.
func (d *Document) Position(offset int) Position {
	offset = min(max(offset, 0), len(d.source))

	line := sort.Search(len(d.lines), func(i int) bool {
		return d.lines[i] > offset
	}) - 1

	col := utf8.RuneCountInString(d.source[d.lines[line]:offset]) + 1

	return Position{Offset: offset, Line: line + 1, Column: col}
}

// LineText returns the text of the 1-based source line n without its line
// terminator.
func (d *Document) LineText(n int) string {
	if n < 1 || n > len(d.lines) {
		return ""
	}

	start := d.lines[n-1]

	return d.source[start : start+lineLen(d.source[start:])]
}

func lineOffsets(src string) []int {
	lines := make([]int, 1, 16)

	for i := range len(src) {
		if src[i] == '\n' {
			lines = append(lines, i+1)
		}
	}

	return lines
}
