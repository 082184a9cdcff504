package beecalc

import (
	"errors"
	"strconv"

	"github.com/zephyrtronium/beecalc/units"
)

var (
	// ErrDivisionByZero is returned for division, floor division, or modulo
	// by zero, including by a zero-magnitude quantity, and for zero raised to
	// a negative power.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrOverflow is returned when a result is too large to represent.
	ErrOverflow = errors.New("numeric result out of range")
)

// NameError is an error from a lookup for a name that is not a constant, a
// variable, or a unit.
type NameError struct {
	// Name is the name that was missing.
	Name string
	// Suggest is a known name similar to Name, if any.
	Suggest string
}

func (err *NameError) Error() string {
	s := "no such unit, variable, or constant: " + strconv.Quote(err.Name)
	if err.Suggest != "" {
		s += " (did you mean " + strconv.Quote(err.Suggest) + "?)"
	}
	return s
}

// FuncError is an error from a call to a name that is not a function.
type FuncError struct {
	// Name is the name that was called.
	Name string
	// Suggest is a known function name similar to Name, if any.
	Suggest string
}

func (err *FuncError) Error() string {
	s := "no such function: " + strconv.Quote(err.Name)
	if err.Suggest != "" {
		s += " (did you mean " + strconv.Quote(err.Suggest) + "?)"
	}
	return s
}

// TypeError is an error from an operator or function applied to a kind of
// value it does not support.
type TypeError struct {
	// Op is the operator or function name.
	Op string
	// Left and Right are the kinds of the operands. Right is empty for unary
	// operators and functions.
	Left, Right string
}

func (err *TypeError) Error() string {
	if err.Right == "" {
		return "bad operand type for " + err.Op + ": " + strconv.Quote(err.Left)
	}
	return "unsupported operand types for " + err.Op + ": " + strconv.Quote(err.Left) + " and " + strconv.Quote(err.Right)
}

// BadOperatorError is an error from an operator the evaluator does not
// implement, such as ^ (which the preprocessor always rewrites to **) or ~.
type BadOperatorError struct {
	Op string
}

func (err *BadOperatorError) Error() string {
	return "bad operator: " + strconv.Quote(err.Op)
}

// DomainError is an error returned when a function is called on arguments
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X Value
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
}

func (err *DomainError) Error() string {
	r := err.X.String() + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

// Placeholder returns the short marker a notebook shows in place of a result
// for a line that failed with err. It returns the empty string for a nil
// error.
func Placeholder(err error) string {
	var (
		syn   *SyntaxError
		name  *NameError
		fn    *FuncError
		unav  *units.UnavailableUnitError
		incon *units.InconsistentUnitsError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &syn):
		if syn.Unclosed() {
			return "<Unclosed '('>"
		}
		return "?"
	case errors.Is(err, ErrDivisionByZero):
		return "<Zero Division>"
	case errors.As(err, &incon):
		return "<Inconsistent units>"
	case errors.As(err, &fn):
		return "<Unknown function>"
	case errors.As(err, &name), errors.As(err, &unav):
		return "<No unit/var>"
	default:
		return "?"
	}
}
