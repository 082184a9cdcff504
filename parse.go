package beecalc

import (
	"io"
	"strings"
)

// Line    = [name "=" { name "=" }] Compare
// Compare = Or [ ("<" | ">" | "<=" | ">=" | "==" | "!=" | "in") Or ]
// Or      = Xor { "|" Xor }
// Xor     = And { "^" And }
// And     = Shift { "&" Shift }
// Shift   = Arith { ("<<" | ">>") Arith }
// Arith   = Term { ("+" | "-") Term }
// Term    = Factor { ("*" | "/" | "//" | "%") Factor }
// Factor  = ("-" | "+" | "~") Factor | Power
// Power   = Primary [ "**" Factor ]
// Primary = Atom { "(" [ Compare { "," Compare } ] ")" }
// Atom    = num | str | name | "(" Compare ")"

// Expr is a parsed line that can be evaluated by a Calc.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the list of names the expression reads as values.
	names []string
}

// Parse parses one preprocessed line. Operator precedence and associativity
// follow Python: ** binds tighter than unary minus on its left and is
// right-associative, and comparisons do not chain.
func Parse(src io.RuneScanner) (*Expr, error) {
	scan := lex(src)
	n, err := parseline(scan)
	if err != nil {
		return nil, err
	}
	if tok := scan.must(); tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, false)
	}
	seen := make(map[string]bool)
	n.names(seen)
	ex := Expr{
		n:     n,
		names: make([]string, 0, len(seen)),
	}
	for k := range seen {
		ex.names = append(ex.names, k)
	}
	sortstrs(ex.names)
	return &ex, nil
}

// ParseString is a shortcut to parse a string.
func ParseString(src string) (*Expr, error) {
	return Parse(strings.NewReader(src))
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// names adds the names n reads as values to seen. Callee names and
// assignment targets are not included.
func (n *node) names(seen map[string]bool) {
	if n == nil {
		return
	}
	switch n.kind {
	case nodeName:
		seen[n.name] = true
	case nodeCall:
		if n.left.kind != nodeName {
			n.left.names(seen)
		}
		for a := n.right; a != nil; a = a.right {
			a.left.names(seen)
		}
	default:
		n.left.names(seen)
		n.right.names(seen)
	}
}

// parseline parses an expression optionally preceded by assignment targets.
// The token following the line is pushed.
func parseline(scan *lexer) (*node, error) {
	n, err := parseterm(scan, exprprec)
	if err != nil {
		return nil, err
	}
	tok := scan.must()
	if n == nil {
		return nil, itShouldNotHaveEndedThisWay(tok, false)
	}
	if tok.kind != tokenOp || tok.text != "=" {
		scan.push(tok)
		return n, nil
	}
	// Unit is the constructor the preprocessor emits for unit literals.
	if n.kind != nodeName || n.name == "Unit" {
		return nil, &AssignError{Col: tok.pos, Target: n.String()}
	}
	rhs, err := parseline(scan)
	if err != nil {
		return nil, err
	}
	return &node{kind: nodeAssign, name: n.name, pos: n.pos, left: rhs}, nil
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, including EOF. If the input is an empty
// subexpression, the result is nil with no error; callers must create an error
// in contexts where empty subexpressions are illegal.
func parseterm(scan *lexer, until operator) (*node, error) {
	n, err := parselhs(scan, until)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	// compared records whether this level has already parsed a comparison,
	// because comparisons do not chain.
	compared := false
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		var prec operator
		switch tok.kind {
		case tokenOp:
			if tok.text == "=" {
				// Assignment; parseline decides whether it is legal.
				scan.push(tok)
				return n, nil
			}
			prec = binop(tok.text)
			if prec.op == nodeNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
		case tokenIdent:
			if tok.text != "in" {
				return nil, &TokenError{Col: tok.pos, Text: tok.text}
			}
			prec = binop(tok.text)
		case tokenNum, tokenStr, tokenOpen:
			// Juxtaposed terms. The preprocessor makes implied
			// multiplication explicit, so anything left over is an error.
			return nil, &TokenError{Col: tok.pos, Text: tok.text}
		case tokenClose, tokenSep, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			panic("beecalc: unknown token: " + tok.String())
		}
		if !prec.moreBinding(until) {
			scan.push(tok)
			return n, nil
		}
		if prec.op == nodeCompare || prec.op == nodeConvert {
			if compared {
				return nil, &CompareError{Col: tok.pos, Operator: tok.text}
			}
			compared = true
		}
		rhs, err := parseterm(scan, prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			end := scan.must()
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		n = &node{kind: prec.op, pos: tok.pos, left: n, right: rhs}
		if prec.op == nodeCompare {
			n.name = tok.text
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary
// and any encountered token must be valid as the start of a subexpression.
func parselhs(scan *lexer, until operator) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	var n *node
	switch tok.kind {
	case tokenNum:
		n = &node{kind: nodeNum, name: tok.text, pos: tok.pos}
	case tokenStr:
		n = &node{kind: nodeStr, name: tok.text, pos: tok.pos}
	case tokenIdent:
		if tok.text == "in" {
			return nil, &TokenError{Col: tok.pos, Text: tok.text}
		}
		n = &node{kind: nodeName, name: tok.text, pos: tok.pos}
	case tokenOp:
		// unary operator
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		if !prec.moreBinding(until) {
			// x**-y -> x**(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			end := scan.must()
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		return &node{kind: prec.op, pos: tok.pos, left: rhs}, nil
	case tokenOpen:
		rhs, err := parseterm(scan, exprprec)
		if err != nil {
			return nil, err
		}
		end := scan.must()
		if end.kind != tokenClose {
			return nil, itShouldNotHaveEndedThisWay(end, true)
		}
		if rhs == nil {
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		n = rhs
	case tokenClose:
		// Let the caller decide what an empty term means here.
		scan.push(tok)
		return nil, nil
	case tokenSep:
		return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	default:
		panic("beecalc: unknown token: " + tok.String())
	}
	return parsetrailers(scan, n)
}

// parsetrailers parses any number of argument lists following a primary.
func parsetrailers(scan *lexer, n *node) (*node, error) {
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		if tok.kind != tokenOpen {
			scan.push(tok)
			return n, nil
		}
		args, err := parsearglist(scan)
		if err != nil {
			return nil, err
		}
		n = &node{kind: nodeCall, pos: tok.pos, left: n, right: args}
	}
}

// parsearglist parses a parenthesized list of zero or more args after the
// open parenthesis, through the close parenthesis.
func parsearglist(scan *lexer) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenClose {
		return nil, nil
	}
	scan.push(tok)
	var head node
	l := &head
	for {
		rhs, err := parseterm(scan, exprprec)
		if err != nil {
			// As a special case, reporting an unclosed bracket is more
			// helpful than empty expression, if that's what we'd do here.
			if ee, _ := err.(*EmptyExpressionError); ee != nil && ee.End == "" {
				err = &BracketError{Col: ee.Col, Left: "("}
			}
			return nil, err
		}
		end := scan.must()
		if rhs == nil {
			// f(a,) and f(,a) are not allowed.
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		l.right = &node{kind: nodeArg, pos: rhs.pos, left: rhs}
		l = l.right
		switch end.kind {
		case tokenClose:
			return head.right, nil
		case tokenSep:
			// next arg
		case tokenEOF:
			return nil, &BracketError{Col: end.pos, Left: "(", Right: ""}
		default:
			return nil, itShouldNotHaveEndedThisWay(end, true)
		}
	}
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. paren is whether the subexpression
// should have been closed by a parenthesis.
func itShouldNotHaveEndedThisWay(tok lexToken, paren bool) error {
	left := ""
	if paren {
		left = "("
	}
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: left, Right: ""}
	case tokenClose:
		return &BracketError{Col: tok.pos, Left: left, Right: tok.text}
	case tokenSep:
		// Separator outside a function call.
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenOp:
		// Only = stops a term without being consumed.
		return &OperatorError{Col: tok.pos, Operator: tok.text}
	default:
		panic("beecalc: it really should not have ended this way: " + tok.String())
	}
}

// Vars returns the names the expression reads as values, in sorted order.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a string representation of the parsed expression, with
// parentheses grouping each term. The result parses to the same expression.
func (e *Expr) String() string {
	return e.n.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "<", ">", "<=", ">=", "==", "!=":
		return operator{1, false, nodeCompare}
	case "in":
		return operator{1, false, nodeConvert}
	case "|":
		return operator{2, false, nodeOr}
	case "^":
		return operator{3, false, nodeXor}
	case "&":
		return operator{4, false, nodeAnd}
	case "<<":
		return operator{5, false, nodeShl}
	case ">>":
		return operator{5, false, nodeShr}
	case "+":
		return operator{6, false, nodeAdd}
	case "-":
		return operator{6, false, nodeSub}
	case "*", "×":
		return operator{7, false, nodeMul}
	case "/", "÷":
		return operator{7, false, nodeDiv}
	case "//":
		return operator{7, false, nodeFloor}
	case "%":
		return operator{7, false, nodeMod}
	case "**":
		return operator{10, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{8, true, nodePos}
	case "-":
		return operator{8, true, nodeNeg}
	case "~":
		return operator{8, true, nodeInvert}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
