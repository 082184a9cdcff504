package beecalc

import (
	"math"
	"math/big"
	"math/cmplx"
	"strconv"

	"github.com/zephyrtronium/beecalc/units"
)

// Value is the result of evaluating an expression. The concrete type is one
// of Int, Real, Complex, Quantity, Text, or Empty. Values are immutable.
type Value interface {
	// String formats the value for display.
	String() string
	value()
}

// Int is an integer of any size.
type Int struct {
	x *big.Int
}

// NewInt creates an Int.
func NewInt(v int64) Int {
	return Int{big.NewInt(v)}
}

// BigInt creates an Int holding a copy of x.
func BigInt(x *big.Int) Int {
	return Int{new(big.Int).Set(x)}
}

// Big returns a copy of v as a big.Int.
func (v Int) Big() *big.Int {
	if v.x == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v.x)
}

func (v Int) String() string {
	if v.x == nil {
		return "0"
	}
	return v.x.String()
}

// Real is a floating-point number.
type Real float64

func (v Real) String() string {
	return formatFloat(float64(v))
}

// Complex is a complex number.
type Complex complex128

// String formats v like Python does, e.g. 2j or (1-2j).
func (v Complex) String() string {
	re, im := real(v), imag(v)
	s := formatFloat(im)
	if math.Signbit(im) {
		s = "-" + formatFloat(-im)
	} else if re != 0 {
		s = "+" + s
	}
	if re == 0 && !math.Signbit(re) {
		return s + "j"
	}
	return "(" + formatFloat(re) + s + "j)"
}

// Quantity is a magnitude with a unit.
type Quantity struct {
	units.Quantity
}

// Text is a string, produced by bin, hex, and oct or by a quoted literal.
type Text string

func (v Text) String() string {
	return string(v)
}

// Empty is the value of a blank or comment-only line.
type Empty struct{}

func (Empty) String() string {
	return ""
}

func (Int) value()      {}
func (Real) value()     {}
func (Complex) value()  {}
func (Quantity) value() {}
func (Text) value()     {}
func (Empty) value()    {}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 15, 64)
}

// kind names the type of a value for error messages.
func kind(v Value) string {
	switch v.(type) {
	case Int:
		return "int"
	case Real:
		return "float"
	case Complex:
		return "complex"
	case Quantity:
		return "quantity"
	case Text:
		return "text"
	case Empty:
		return "empty"
	case nil:
		return "nil"
	default:
		panic("beecalc: unknown value type")
	}
}

// Float returns the magnitude of a numeric value as a float64: the value of an
// Int or Real, or the magnitude of a Quantity in its own unit. The second
// result is false for other values and for Ints too large for a float64.
func Float(v Value) (float64, bool) {
	switch v := v.(type) {
	case Int:
		f, err := intFloat(v.x)
		return f, err == nil
	case Real:
		return float64(v), true
	case Quantity:
		return v.Value, true
	default:
		return 0, false
	}
}

// intFloat converts x to a float64, failing if it is too large.
func intFloat(x *big.Int) (float64, error) {
	if x == nil {
		return 0, nil
	}
	f, _ := new(big.Float).SetInt(x).Float64()
	if math.IsInf(f, 0) {
		return 0, ErrOverflow
	}
	return f, nil
}

// toReal coerces a value to a float64 for real-valued math. Quantities must
// be dimensionless.
func toReal(op string, v Value) (float64, error) {
	switch v := v.(type) {
	case Int:
		return intFloat(v.x)
	case Real:
		return float64(v), nil
	case Quantity:
		f, ok := v.Float()
		if !ok {
			return 0, &units.InconsistentUnitsError{From: v.Unit.String(), To: ""}
		}
		return f, nil
	default:
		return 0, &TypeError{Op: op, Left: kind(v)}
	}
}

// toComplex coerces a numeric value to a complex128.
func toComplex(op string, v Value) (complex128, error) {
	if c, ok := v.(Complex); ok {
		return complex128(c), nil
	}
	f, err := toReal(op, v)
	return complex(f, 0), err
}

// realValue checks that f is finite.
func realValue(f float64) (Value, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, ErrOverflow
	}
	return Real(f), nil
}

func complexValue(c complex128) (Value, error) {
	if cmplx.IsInf(c) || cmplx.IsNaN(c) {
		return nil, ErrOverflow
	}
	return Complex(c), nil
}

// quantityValue wraps q, collapsing it to a Real if its unit has cancelled
// entirely.
func quantityValue(q units.Quantity) (Value, error) {
	if math.IsInf(q.Value, 0) || math.IsNaN(q.Value) {
		return nil, ErrOverflow
	}
	if q.Unit.IsZero() {
		return Real(q.Value), nil
	}
	return Quantity{q}, nil
}

// boolValue converts a truth value to Int 1 or 0.
func boolValue(b bool) Value {
	if b {
		return NewInt(1)
	}
	return NewInt(0)
}
