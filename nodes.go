package beecalc

import (
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind
	// name is the literal text, variable or assignment target name, or
	// comparison operator, depending on kind.
	name string
	// pos is the column of the token that produced the node.
	pos int

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // literal number in name
	nodeStr  // literal string in name
	nodeName // lookup(name)

	nodeCall // left is the callee, right is link to nodeArg or nil
	nodeArg  // eval left, right is link to next arg

	nodeNeg    // -left
	nodePos    // +left
	nodeInvert // ~left
	nodeAdd    // left + right
	nodeSub    // left - right
	nodeMul    // left * right
	nodeDiv    // left / right
	nodeFloor  // left // right
	nodeMod    // left % right
	nodePow    // left ** right
	nodeShl    // left << right
	nodeShr    // left >> right
	nodeAnd    // left & right
	nodeOr     // left | right
	nodeXor    // left ^ right

	nodeCompare // left name right, name is the comparison operator
	nodeConvert // left in right
	nodeAssign  // name = left
)

//go:generate go mod edit -require=golang.org/x/tools@v0.1.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=nodeKind -trimprefix=node
//go:generate go mod tidy

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes the node with parentheses around each term. Assignments are
// written bare because they only appear at the start of a line.
func (n *node) fmt(b *strings.Builder) {
	if n.kind == nodeAssign {
		b.WriteString(n.name)
		b.WriteString(" = ")
		n.left.fmt(b)
		return
	}
	b.WriteByte('(')
	defer b.WriteByte(')')
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b)
		}
		b.WriteByte('$')
	case nodeNum, nodeName:
		b.WriteString(n.name)
	case nodeStr:
		q := byte('\'')
		if strings.IndexByte(n.name, q) >= 0 {
			q = '"'
		}
		b.WriteByte(q)
		b.WriteString(n.name)
		b.WriteByte(q)
	case nodeCall:
		n.left.fmt(b)
		n.fmtargs(b)
	case nodeArg:
		// Args usually only appear inside calls, which are handled by fmtargs.
		b.WriteByte(':')
		n.left.fmt(b)
		if n.right != nil {
			n.right.fmt(b)
		}
	case nodeNeg, nodePos, nodeInvert:
		b.WriteString(unopText[n.kind])
		n.left.fmt(b)
	case nodeCompare:
		n.left.fmt(b)
		b.WriteString(" " + n.name + " ")
		n.right.fmt(b)
	default:
		op, ok := binopText[n.kind]
		if !ok {
			panic("beecalc: invalid node kind " + n.kind.String() + " after writing " + b.String())
		}
		n.left.fmt(b)
		b.WriteString(" " + op + " ")
		n.right.fmt(b)
	}
}

func (n *node) fmtargs(b *strings.Builder) {
	b.WriteByte('(')
	defer b.WriteByte(')')
	for a := n.right; a != nil; a = a.right {
		if a != n.right {
			b.WriteString(", ")
		}
		a.left.fmt(b)
	}
}

// args collects the argument nodes of a call.
func (n *node) args() []*node {
	var r []*node
	for a := n.right; a != nil; a = a.right {
		r = append(r, a.left)
	}
	return r
}

var unopText = map[nodeKind]string{
	nodeNeg:    "-",
	nodePos:    "+",
	nodeInvert: "~",
}

var binopText = map[nodeKind]string{
	nodeAdd:     "+",
	nodeSub:     "-",
	nodeMul:     "*",
	nodeDiv:     "/",
	nodeFloor:   "//",
	nodeMod:     "%",
	nodePow:     "**",
	nodeShl:     "<<",
	nodeShr:     ">>",
	nodeAnd:     "&",
	nodeOr:      "|",
	nodeXor:     "^",
	nodeConvert: "in",
}
