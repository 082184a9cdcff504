package beecalc

import (
	"strconv"
	"strings"
)

// OperatorError is an error indicating an operator token that is not
// understood by the parser. It implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "unexpected "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// BracketError is an error indicating mismatched parentheses in the input. It
// implements InputError.
type BracketError struct {
	// Col is the position of the token where the mismatch was found.
	Col int
	// Left is the opening bracket, or empty if there is none.
	Left string
	// Right is the mismatched closing bracket, or empty if the input ended.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

// SeparatorError is an error indicating a comma outside a call. It implements
// InputError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

// CallError is an error indicating a function call with the wrong number of
// arguments. It implements InputError.
type CallError struct {
	// Col is the position of the call's argument list.
	Col int
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments given.
	Len int
}

func (err *CallError) Error() string {
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" arguments")
}

func (err *CallError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an empty subexpression.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// TokenError is an error indicating a token where an operator or the end of
// the expression was expected, e.g. the second number in "2 3".
type TokenError struct {
	Col  int
	Text string
}

func (err *TokenError) Error() string {
	return errpos(err.Col, "unexpected token "+strconv.Quote(err.Text))
}

func (err *TokenError) Pos() int {
	return err.Col
}

// CompareError is an error indicating a chained comparison like "1 < x < 3".
type CompareError struct {
	// Col is the position of the second comparison operator.
	Col      int
	Operator string
}

func (err *CompareError) Error() string {
	return errpos(err.Col, "chained comparison at "+strconv.Quote(err.Operator))
}

func (err *CompareError) Pos() int {
	return err.Col
}

// AssignError is an error indicating an assignment to something that is not
// a name.
type AssignError struct {
	// Col is the position of the = operator.
	Col int
	// Target is the parsed left side of the assignment.
	Target string
}

func (err *AssignError) Error() string {
	return errpos(err.Col, "cannot assign to "+err.Target)
}

func (err *AssignError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// unparseable input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*LexError)(nil)
	_ InputError = (*TokenError)(nil)
	_ InputError = (*CompareError)(nil)
	_ InputError = (*AssignError)(nil)
)

// SyntaxError is returned when a preprocessed line cannot be parsed.
type SyntaxError struct {
	// Text is the preprocessed text given to the parser.
	Text string
	// Err is the parser's error.
	Err InputError
}

func (err *SyntaxError) Error() string {
	if err.Unclosed() {
		return "syntax error: '(' was never closed"
	}
	return "syntax error: " + err.Err.Error()
}

func (err *SyntaxError) Unwrap() error {
	return err.Err
}

// Unclosed reports whether the line failed to parse because an open
// parenthesis was never closed.
func (err *SyntaxError) Unclosed() bool {
	if b, ok := err.Err.(*BracketError); ok && b.Left != "" && b.Right == "" {
		return true
	}
	return openParens(err.Text) > 0
}

// openParens counts parentheses left open at the end of s, ignoring quoted
// text.
func openParens(s string) int {
	depth := 0
	var quote rune
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case strings.ContainsRune(`'"`, r):
			quote = r
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		}
	}
	return depth
}
