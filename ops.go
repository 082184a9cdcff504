package beecalc

import (
	"math"
	"math/big"
	"math/cmplx"
	"strings"

	"github.com/zephyrtronium/bigfloat"

	"github.com/zephyrtronium/beecalc/units"
)

// maxIntBits bounds the size of integers produced by ** and <<.
const maxIntBits = 1 << 22

// powPrec is the precision for integer powers too large for float64.
const powPrec = 256

var one = big.NewInt(1)

// binary applies an arithmetic operator to two values. Integer operations
// follow Python: / always produces a Real, // and % round toward negative
// infinity, and ** with a negative exponent produces a Real.
func binary(op nodeKind, l, r Value) (Value, error) {
	sym := binopText[op]
	if op == nodeXor {
		return nil, &BadOperatorError{Op: sym}
	}
	_, lq := l.(Quantity)
	_, rq := r.(Quantity)
	if lq || rq {
		return quantityOp(op, l, r)
	}
	lr, rr := rank(l), rank(r)
	if lr < 0 || rr < 0 {
		return nil, &TypeError{Op: sym, Left: kind(l), Right: kind(r)}
	}
	switch op {
	case nodeShl, nodeShr, nodeAnd, nodeOr:
		if lr != 0 || rr != 0 {
			return nil, &TypeError{Op: sym, Left: kind(l), Right: kind(r)}
		}
	}
	switch max(lr, rr) {
	case 0:
		return intOp(op, l.(Int).Big(), r.(Int).Big())
	case 1:
		if li, ok := l.(Int); ok && op == nodePow {
			return intRealPow(li.x, float64(r.(Real)))
		}
		a, err := toReal(sym, l)
		if err != nil {
			return nil, err
		}
		b, err := toReal(sym, r)
		if err != nil {
			return nil, err
		}
		return realOp(op, a, b)
	default:
		a, err := toComplex(sym, l)
		if err != nil {
			return nil, err
		}
		b, err := toComplex(sym, r)
		if err != nil {
			return nil, err
		}
		return complexOp(op, a, b)
	}
}

// rank orders the plain numeric types for promotion. Other values have rank
// -1.
func rank(v Value) int {
	switch v.(type) {
	case Int:
		return 0
	case Real:
		return 1
	case Complex:
		return 2
	default:
		return -1
	}
}

func intOp(op nodeKind, a, b *big.Int) (Value, error) {
	switch op {
	case nodeAdd:
		return Int{a.Add(a, b)}, nil
	case nodeSub:
		return Int{a.Sub(a, b)}, nil
	case nodeMul:
		return Int{a.Mul(a, b)}, nil
	case nodeDiv:
		if b.Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		f, _ := new(big.Rat).SetFrac(a, b).Float64()
		return realValue(f)
	case nodeFloor, nodeMod:
		if b.Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		q, m := new(big.Int).QuoRem(a, b, new(big.Int))
		if m.Sign() != 0 && m.Sign() != b.Sign() {
			q.Sub(q, one)
			m.Add(m, b)
		}
		if op == nodeFloor {
			return Int{q}, nil
		}
		return Int{m}, nil
	case nodePow:
		if b.Sign() < 0 {
			if a.Sign() == 0 {
				return nil, ErrDivisionByZero
			}
			y, _ := new(big.Float).SetInt(b).Float64()
			return intRealPow(a, y)
		}
		if a.BitLen() > 1 && (!b.IsInt64() || int64(a.BitLen()-1)*b.Int64() > maxIntBits) {
			return nil, ErrOverflow
		}
		return Int{new(big.Int).Exp(a, b, nil)}, nil
	case nodeShl:
		if b.Sign() < 0 {
			return nil, &DomainError{X: Int{b}, Func: "<<"}
		}
		if a.Sign() == 0 {
			return Int{a}, nil
		}
		if !b.IsInt64() || b.Int64()+int64(a.BitLen()) > maxIntBits {
			return nil, ErrOverflow
		}
		return Int{a.Lsh(a, uint(b.Int64()))}, nil
	case nodeShr:
		if b.Sign() < 0 {
			return nil, &DomainError{X: Int{b}, Func: ">>"}
		}
		if !b.IsInt64() || b.Int64() > int64(a.BitLen()) {
			if a.Sign() < 0 {
				return NewInt(-1), nil
			}
			return NewInt(0), nil
		}
		return Int{a.Rsh(a, uint(b.Int64()))}, nil
	case nodeAnd:
		return Int{a.And(a, b)}, nil
	case nodeOr:
		return Int{a.Or(a, b)}, nil
	default:
		return nil, &BadOperatorError{Op: binopText[op]}
	}
}

func realOp(op nodeKind, a, b float64) (Value, error) {
	switch op {
	case nodeAdd:
		return realValue(a + b)
	case nodeSub:
		return realValue(a - b)
	case nodeMul:
		return realValue(a * b)
	case nodeDiv:
		if b == 0 {
			return nil, ErrDivisionByZero
		}
		return realValue(a / b)
	case nodeFloor:
		if b == 0 {
			return nil, ErrDivisionByZero
		}
		return realValue(math.Floor(a / b))
	case nodeMod:
		if b == 0 {
			return nil, ErrDivisionByZero
		}
		return realValue(pymod(a, b))
	case nodePow:
		return realPow(a, b)
	default:
		return nil, &BadOperatorError{Op: binopText[op]}
	}
}

// pymod is the float modulus with the sign of the divisor.
func pymod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// realPow raises a to b, producing a Complex for a negative base with a
// fractional exponent.
func realPow(a, b float64) (Value, error) {
	if a == 0 && b < 0 {
		return nil, ErrDivisionByZero
	}
	if a < 0 && b != math.Trunc(b) {
		return complexValue(cmplx.Pow(complex(a, 0), complex(b, 0)))
	}
	return realValue(math.Pow(a, b))
}

// intRealPow raises an integer to a real power. Bases too large for a float64
// are handled in arbitrary precision.
func intRealPow(a *big.Int, b float64) (Value, error) {
	if x, err := intFloat(a); err == nil {
		return realPow(x, b)
	}
	if math.IsInf(b, -1) {
		return Real(0), nil
	}
	x := new(big.Float).SetPrec(powPrec).SetInt(a)
	neg := x.Signbit()
	x.Abs(x)
	y := new(big.Float).SetPrec(powPrec).SetFloat64(b)
	z := bigfloat.Pow(new(big.Float).SetPrec(powPrec), x, y)
	m, _ := z.Float64()
	switch {
	case math.IsInf(m, 0):
		return nil, ErrOverflow
	case !neg:
		return Real(m), nil
	case b == math.Trunc(b):
		if math.Mod(b, 2) != 0 {
			m = -m
		}
		return Real(m), nil
	default:
		return complexValue(cmplx.Rect(m, math.Pi*b))
	}
}

func complexOp(op nodeKind, a, b complex128) (Value, error) {
	switch op {
	case nodeAdd:
		return complexValue(a + b)
	case nodeSub:
		return complexValue(a - b)
	case nodeMul:
		return complexValue(a * b)
	case nodeDiv:
		if b == 0 {
			return nil, ErrDivisionByZero
		}
		return complexValue(a / b)
	case nodePow:
		if a == 0 && (real(b) < 0 || imag(b) != 0) {
			return nil, ErrDivisionByZero
		}
		if a == 0 && b == 0 {
			return Complex(1), nil
		}
		return complexValue(cmplx.Pow(a, b))
	default:
		return nil, &TypeError{Op: binopText[op], Left: "complex", Right: "complex"}
	}
}

// asQuantity views a real value as a dimensionless quantity.
func asQuantity(v Value) (units.Quantity, bool) {
	switch v := v.(type) {
	case Quantity:
		return v.Quantity, true
	case Int:
		f, err := intFloat(v.x)
		return units.Quantity{Value: f}, err == nil
	case Real:
		return units.Quantity{Value: float64(v)}, true
	default:
		return units.Quantity{}, false
	}
}

// quantityOp applies an arithmetic operator where at least one operand is a
// Quantity. A plain number is a dimensionless quantity, so adding one to a
// length is an inconsistent-units error while multiplying is fine.
func quantityOp(op nodeKind, l, r Value) (Value, error) {
	sym := binopText[op]
	a, lok := asQuantity(l)
	b, rok := asQuantity(r)
	if !lok || !rok {
		return nil, &TypeError{Op: sym, Left: kind(l), Right: kind(r)}
	}
	switch op {
	case nodeAdd:
		q, err := a.Add(b)
		if err != nil {
			return nil, err
		}
		return quantityValue(q)
	case nodeSub:
		q, err := a.Sub(b)
		if err != nil {
			return nil, err
		}
		return quantityValue(q)
	case nodeMul:
		return quantityValue(a.Mul(b))
	case nodeDiv:
		if b.Value == 0 {
			return nil, ErrDivisionByZero
		}
		return quantityValue(a.Div(b))
	case nodeFloor, nodeMod:
		c, err := b.To(a.Unit)
		if err != nil {
			return nil, err
		}
		if c.Value == 0 {
			return nil, ErrDivisionByZero
		}
		if op == nodeFloor {
			return realValue(math.Floor(a.Value / c.Value))
		}
		return quantityValue(units.Quantity{Value: pymod(a.Value, c.Value), Unit: a.Unit})
	case nodePow:
		k, ok := b.Float()
		if !ok {
			return nil, &units.InconsistentUnitsError{From: b.Unit.String(), To: ""}
		}
		if _, ok := l.(Quantity); !ok {
			return realPow(a.Value, k)
		}
		if a.Value == 0 && k < 0 {
			return nil, ErrDivisionByZero
		}
		return quantityValue(a.Pow(k))
	default:
		return nil, &TypeError{Op: sym, Left: kind(l), Right: kind(r)}
	}
}

// unary applies a unary operator.
func unary(op nodeKind, v Value) (Value, error) {
	sym := unopText[op]
	if op == nodeInvert {
		return nil, &BadOperatorError{Op: sym}
	}
	switch v := v.(type) {
	case Int:
		if op == nodeNeg {
			return Int{new(big.Int).Neg(v.Big())}, nil
		}
		return v, nil
	case Real:
		if op == nodeNeg {
			return -v, nil
		}
		return v, nil
	case Complex:
		if op == nodeNeg {
			return -v, nil
		}
		return v, nil
	case Quantity:
		if op == nodeNeg {
			return Quantity{v.Neg()}, nil
		}
		return v, nil
	default:
		return nil, &TypeError{Op: sym, Left: kind(v)}
	}
}

// convert implements "l in r": l expressed in the unit of r. A plain number
// on the left takes the unit directly, so "3 in mm" is 3 mm.
func convert(l, r Value) (Value, error) {
	target, ok := r.(Quantity)
	if !ok {
		return nil, &TypeError{Op: "in", Left: kind(l), Right: kind(r)}
	}
	switch l := l.(type) {
	case Quantity:
		q, err := l.To(target.Unit)
		if err != nil {
			return nil, err
		}
		return quantityValue(q)
	case Int, Real:
		q, _ := asQuantity(l)
		q.Unit = target.Unit
		return quantityValue(q)
	default:
		return nil, &TypeError{Op: "in", Left: kind(l), Right: kind(r)}
	}
}

// compare applies a comparison operator, producing Int 1 or 0.
func compare(op string, l, r Value) (Value, error) {
	eq := op == "==" || op == "!="
	lt, lText := l.(Text)
	rt, rText := r.(Text)
	switch {
	case lText && rText:
		return cmpResult(op, strings.Compare(string(lt), string(rt))), nil
	case lText || rText:
		if !eq {
			return nil, &TypeError{Op: op, Left: kind(l), Right: kind(r)}
		}
		return boolValue(op == "!="), nil
	}
	_, lq := l.(Quantity)
	_, rq := r.(Quantity)
	if lq || rq {
		a, lok := asQuantity(l)
		b, rok := asQuantity(r)
		if !lok || !rok {
			return nil, &TypeError{Op: op, Left: kind(l), Right: kind(r)}
		}
		c, err := a.Cmp(b)
		if err != nil {
			return nil, err
		}
		return cmpResult(op, c), nil
	}
	if rank(l) < 0 || rank(r) < 0 {
		return nil, &TypeError{Op: op, Left: kind(l), Right: kind(r)}
	}
	if rank(l) == 2 || rank(r) == 2 {
		if !eq {
			return nil, &TypeError{Op: op, Left: kind(l), Right: kind(r)}
		}
		a, _ := toComplex(op, l)
		b, _ := toComplex(op, r)
		return boolValue((a == b) == (op == "==")), nil
	}
	if a, ok := l.(Int); ok {
		if b, ok := r.(Int); ok {
			return cmpResult(op, a.Big().Cmp(b.Big())), nil
		}
	}
	return cmpResult(op, bigFloat(l).Cmp(bigFloat(r))), nil
}

// bigFloat converts an Int or Real exactly.
func bigFloat(v Value) *big.Float {
	switch v := v.(type) {
	case Int:
		return new(big.Float).SetInt(v.Big())
	case Real:
		return big.NewFloat(float64(v))
	default:
		panic("beecalc: bigFloat of " + kind(v))
	}
}

func cmpResult(op string, c int) Value {
	switch op {
	case "<":
		return boolValue(c < 0)
	case ">":
		return boolValue(c > 0)
	case "<=":
		return boolValue(c <= 0)
	case ">=":
		return boolValue(c >= 0)
	case "==":
		return boolValue(c == 0)
	case "!=":
		return boolValue(c != 0)
	default:
		panic("beecalc: unknown comparison " + op)
	}
}
