package beecalc

import (
	"math"
	"math/big"
	"math/cmplx"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a function that can be called from an expression.
type Func interface {
	// Call evaluates the function. args has a length for which CanCall
	// returned true. Call must not modify the elements of args. If Call
	// panics with an error that unwraps to big.ErrNaN, the evaluator reports
	// a DomainError.
	Call(c *Calc, args []Value) (Value, error)

	// CanCall returns whether the function can be called with n arguments.
	CanCall(n int) bool
}

type monadic struct {
	name string
	f    func(float64) float64
	// dom reports whether an argument is inside the function's domain. A nil
	// dom accepts every real.
	dom func(float64) bool
}

func (m monadic) Call(c *Calc, args []Value) (Value, error) {
	x, err := toReal(m.name, args[0])
	if err != nil {
		return nil, err
	}
	if m.dom != nil && !m.dom(x) {
		return nil, &DomainError{X: args[0], Func: m.name}
	}
	r := m.f(x)
	if math.IsNaN(r) {
		return nil, &DomainError{X: args[0], Func: m.name}
	}
	return realValue(r)
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a real function of one variable into a Func. The argument may
// be an Int, a Real, or a dimensionless Quantity. A NaN result is reported as
// a DomainError and an infinite result as ErrOverflow.
func Monadic(name string, f func(float64) float64) Func {
	return monadic{name: name, f: f}
}

// angular is a trigonometric function whose argument may be an angle.
type angular struct {
	monadic
}

func (a angular) Call(c *Calc, args []Value) (Value, error) {
	if q, ok := args[0].(Quantity); ok {
		r, err := q.To(c.rad)
		if err != nil {
			return nil, err
		}
		return a.monadic.Call(c, []Value{Real(r.Value)})
	}
	return a.monadic.Call(c, args)
}

type variadic struct {
	min, max int
	f        func(c *Calc, args []Value) (Value, error)
}

func (v variadic) Call(c *Calc, args []Value) (Value, error) {
	return v.f(c, args)
}

func (v variadic) CanCall(n int) bool {
	return n >= v.min && (v.max < 0 || n <= v.max)
}

// Variadic wraps a function accepting between min and max arguments into a
// Func. A negative max means no upper limit.
func Variadic(min, max int, f func(c *Calc, args []Value) (Value, error)) Func {
	return variadic{min: min, max: max, f: f}
}

// dyadic wraps a real function of two variables.
func dyadic(name string, f func(x, y float64) float64) Func {
	return Variadic(2, 2, func(c *Calc, args []Value) (Value, error) {
		x, err := toReal(name, args[0])
		if err != nil {
			return nil, err
		}
		y, err := toReal(name, args[1])
		if err != nil {
			return nil, err
		}
		r := f(x, y)
		if math.IsNaN(r) {
			return nil, &DomainError{X: args[1], Arg: 2, Func: name}
		}
		return realValue(r)
	})
}

// factorialLimit is the largest argument to factorial, comb, and perm.
const factorialLimit = 100000

var builtinFuncs = map[string]Func{
	"sin":   angular{monadic{name: "sin", f: math.Sin}},
	"cos":   angular{monadic{name: "cos", f: math.Cos}},
	"tan":   angular{monadic{name: "tan", f: math.Tan}},
	"asin":  monadic{name: "asin", f: math.Asin, dom: within(-1, 1)},
	"acos":  monadic{name: "acos", f: math.Acos, dom: within(-1, 1)},
	"atan":  Monadic("atan", math.Atan),
	"atan2": dyadic("atan2", math.Atan2),
	"sinh":  Monadic("sinh", math.Sinh),
	"cosh":  Monadic("cosh", math.Cosh),
	"tanh":  Monadic("tanh", math.Tanh),
	"asinh": Monadic("asinh", math.Asinh),
	"acosh": monadic{name: "acosh", f: math.Acosh, dom: func(x float64) bool { return x >= 1 }},
	"atanh": monadic{name: "atanh", f: math.Atanh, dom: func(x float64) bool { return x > -1 && x < 1 }},

	"degrees": Monadic("degrees", func(x float64) float64 { return x * (180 / math.Pi) }),
	"radians": Monadic("radians", func(x float64) float64 { return x * (math.Pi / 180) }),

	"exp":   Monadic("exp", math.Exp),
	"expm1": Monadic("expm1", math.Expm1),
	"log":   Variadic(1, 2, logfn),
	"log10": Variadic(1, 1, logBase("log10", math.Log10, math.Ln10)),
	"log2":  Variadic(1, 1, logBase("log2", math.Log2, math.Ln2)),
	"log1p": monadic{name: "log1p", f: math.Log1p, dom: func(x float64) bool { return x > -1 }},
	"sqrt":  Variadic(1, 1, sqrtfn),

	"erf":    Monadic("erf", math.Erf),
	"erfc":   Monadic("erfc", math.Erfc),
	"gamma":  monadic{name: "gamma", f: math.Gamma, dom: notPole},
	"lgamma": monadic{name: "lgamma", f: lgamma, dom: notPole},

	"ceil":  rounding("ceil", math.Ceil),
	"floor": rounding("floor", math.Floor),
	"trunc": rounding("trunc", math.Trunc),
	"round": Variadic(1, 2, roundfn),
	"abs":   Variadic(1, 1, absfn),
	"fabs":  Variadic(1, 1, fabsfn),

	"fmod":      dyadic("fmod", math.Mod),
	"remainder": dyadic("remainder", math.Remainder),
	"mod": Variadic(2, 2, func(c *Calc, args []Value) (Value, error) {
		return binary(nodeMod, args[0], args[1])
	}),
	"hypot": Variadic(0, -1, hypotfn),
	"ldexp": Variadic(2, 2, ldexpfn),
	"ulp":   Monadic("ulp", ulp),
	"pow":   Variadic(2, 3, powfn),

	"factorial": Variadic(1, 1, factorialfn),
	"comb":      Variadic(2, 2, combfn),
	"perm":      Variadic(1, 2, permfn),
	"gcd":       Variadic(0, -1, gcdfn),
	"lcm":       Variadic(0, -1, lcmfn),

	"bin":     Variadic(1, 1, radix("bin", 2, "0b")),
	"oct":     Variadic(1, 1, radix("oct", 8, "0o")),
	"hex":     Variadic(1, 1, radix("hex", 16, "0x")),
	"complex": Variadic(0, 2, complexfn),
	"float":   Variadic(1, 1, floatfn),
	"int":     Variadic(1, 2, intfn),
	"max":     Variadic(1, -1, extremum(">")),
	"min":     Variadic(1, -1, extremum("<")),

	"simplify": Variadic(1, 1, func(c *Calc, args []Value) (Value, error) {
		if q, ok := args[0].(Quantity); ok {
			return quantityValue(c.reg.Simplify(q.Quantity))
		}
		return args[0], nil
	}),
	"expand": Variadic(1, 1, func(c *Calc, args []Value) (Value, error) {
		if q, ok := args[0].(Quantity); ok {
			return quantityValue(c.reg.Expand(q.Quantity))
		}
		return args[0], nil
	}),
}

// DefaultFuncs returns a copy of the built-in function table.
func DefaultFuncs() map[string]Func {
	m := make(map[string]Func, len(builtinFuncs))
	for k, v := range builtinFuncs {
		m[k] = v
	}
	return m
}

func within(lo, hi float64) func(float64) bool {
	return func(x float64) bool { return lo <= x && x <= hi }
}

// notPole excludes zero and the negative integers.
func notPole(x float64) bool {
	return x > 0 || x != math.Trunc(x)
}

func lgamma(x float64) float64 {
	r, _ := math.Lgamma(x)
	return r
}

func ulp(x float64) float64 {
	x = math.Abs(x)
	if x == math.MaxFloat64 {
		return x - math.Nextafter(x, 0)
	}
	return math.Nextafter(x, math.Inf(1)) - x
}

// lnOf computes the natural logarithm of a positive value, including Ints too
// large for a float64.
func lnOf(name string, v Value) (float64, error) {
	if i, ok := v.(Int); ok && i.x.Sign() > 0 {
		if _, err := intFloat(i.x); err != nil {
			x := new(big.Float).SetPrec(powPrec).SetInt(i.x)
			r, _ := bigfloat.Log(new(big.Float).SetPrec(powPrec), x).Float64()
			return r, nil
		}
	}
	x, err := toReal(name, v)
	if err != nil {
		return 0, err
	}
	if x <= 0 {
		return 0, &DomainError{X: v, Func: name}
	}
	return math.Log(x), nil
}

func logfn(c *Calc, args []Value) (Value, error) {
	x, err := lnOf("log", args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return realValue(x)
	}
	b, err := lnOf("log", args[1])
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, ErrDivisionByZero
	}
	return realValue(x / b)
}

// logBase creates a logarithm using f for float64 arguments, which is exact
// for powers of the base, and ln(x)/ln(base) otherwise.
func logBase(name string, f func(float64) float64, lnb float64) func(*Calc, []Value) (Value, error) {
	return func(c *Calc, args []Value) (Value, error) {
		if i, ok := args[0].(Int); ok {
			if _, err := intFloat(i.x); err != nil {
				x, err := lnOf(name, i)
				if err != nil {
					return nil, err
				}
				return realValue(x / lnb)
			}
		}
		x, err := toReal(name, args[0])
		if err != nil {
			return nil, err
		}
		if x <= 0 {
			return nil, &DomainError{X: args[0], Func: name}
		}
		return realValue(f(x))
	}
}

func sqrtfn(c *Calc, args []Value) (Value, error) {
	switch v := args[0].(type) {
	case Quantity:
		if v.Value < 0 {
			return nil, &DomainError{X: v, Func: "sqrt"}
		}
		return quantityValue(v.Pow(0.5))
	case Int:
		if v.x.Sign() < 0 {
			return nil, &DomainError{X: v, Func: "sqrt"}
		}
		x := new(big.Float).SetPrec(powPrec).SetInt(v.x)
		r, _ := x.Sqrt(x).Float64()
		return realValue(r)
	}
	x, err := toReal("sqrt", args[0])
	if err != nil {
		return nil, err
	}
	if x < 0 {
		return nil, &DomainError{X: args[0], Func: "sqrt"}
	}
	return realValue(math.Sqrt(x))
}

// rounding creates ceil, floor, or trunc. Reals round to Ints, and Quantities
// keep their unit.
func rounding(name string, f func(float64) float64) Func {
	return Variadic(1, 1, func(c *Calc, args []Value) (Value, error) {
		switch v := args[0].(type) {
		case Int:
			return v, nil
		case Real:
			return floatInt(f(float64(v)))
		case Quantity:
			v.Value = f(v.Value)
			return v, nil
		default:
			return nil, &TypeError{Op: name, Left: kind(v)}
		}
	})
}

// floatInt converts an integral float64 to an Int.
func floatInt(f float64) (Value, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, ErrOverflow
	}
	x, _ := big.NewFloat(f).Int(nil)
	return Int{x}, nil
}

// toInt requires an Int or an integral Real.
func toInt(name string, v Value) (*big.Int, error) {
	switch v := v.(type) {
	case Int:
		return v.Big(), nil
	case Real:
		f := float64(v)
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			x, _ := big.NewFloat(f).Int(nil)
			return x, nil
		}
	}
	return nil, &TypeError{Op: name, Left: kind(v)}
}

func roundfn(c *Calc, args []Value) (Value, error) {
	if len(args) == 1 {
		switch v := args[0].(type) {
		case Int:
			return v, nil
		case Real:
			return floatInt(math.RoundToEven(float64(v)))
		case Quantity:
			v.Value = math.RoundToEven(v.Value)
			return v, nil
		default:
			return nil, &TypeError{Op: "round", Left: kind(v)}
		}
	}
	nd, ok := args[1].(Int)
	if !ok {
		return nil, &TypeError{Op: "round", Left: kind(args[0]), Right: kind(args[1])}
	}
	if !nd.x.IsInt64() {
		// Far more digits than any value has.
		if nd.x.Sign() > 0 {
			return args[0], nil
		}
		return zeroLike(args[0])
	}
	n := nd.x.Int64()
	switch v := args[0].(type) {
	case Int:
		return roundInt(v.x, n), nil
	case Real:
		return realValue(roundFloat(float64(v), n))
	case Quantity:
		v.Value = roundFloat(v.Value, n)
		return v, nil
	default:
		return nil, &TypeError{Op: "round", Left: kind(v), Right: "int"}
	}
}

func zeroLike(v Value) (Value, error) {
	switch v := v.(type) {
	case Int:
		return NewInt(0), nil
	case Real:
		return Real(0), nil
	case Quantity:
		v.Value = 0
		return v, nil
	default:
		return nil, &TypeError{Op: "round", Left: kind(v), Right: "int"}
	}
}

// roundInt rounds x to a multiple of 10^-n, half to even.
func roundInt(x *big.Int, n int64) Value {
	if n >= 0 {
		return BigInt(x)
	}
	if -n > maxIntBits {
		return NewInt(0)
	}
	p := new(big.Int).Exp(big.NewInt(10), big.NewInt(-n), nil)
	q, m := new(big.Int).DivMod(x, p, new(big.Int))
	switch c := new(big.Int).Lsh(m, 1).Cmp(p); {
	case c > 0, c == 0 && q.Bit(0) == 1:
		q.Add(q, one)
	}
	return Int{q.Mul(q, p)}
}

// roundFloat rounds x to n decimal digits, half to even on the exact binary
// value.
func roundFloat(x float64, n int64) float64 {
	if n >= 0 {
		if n > 400 {
			return x
		}
		r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', int(n), 64), 64)
		if err != nil {
			return x
		}
		return r
	}
	if n < -400 {
		return 0
	}
	p := math.Pow(10, float64(-n))
	return math.RoundToEven(x/p) * p
}

func absfn(c *Calc, args []Value) (Value, error) {
	switch v := args[0].(type) {
	case Int:
		return Int{new(big.Int).Abs(v.Big())}, nil
	case Real:
		return Real(math.Abs(float64(v))), nil
	case Complex:
		return realValue(cmplx.Abs(complex128(v)))
	case Quantity:
		return Quantity{v.Abs()}, nil
	default:
		return nil, &TypeError{Op: "abs", Left: kind(v)}
	}
}

func fabsfn(c *Calc, args []Value) (Value, error) {
	if q, ok := args[0].(Quantity); ok {
		return Quantity{q.Abs()}, nil
	}
	x, err := toReal("fabs", args[0])
	if err != nil {
		return nil, err
	}
	return Real(math.Abs(x)), nil
}

func hypotfn(c *Calc, args []Value) (Value, error) {
	r := 0.0
	for _, a := range args {
		x, err := toReal("hypot", a)
		if err != nil {
			return nil, err
		}
		r = math.Hypot(r, x)
	}
	return realValue(r)
}

func ldexpfn(c *Calc, args []Value) (Value, error) {
	x, err := toReal("ldexp", args[0])
	if err != nil {
		return nil, err
	}
	e, ok := args[1].(Int)
	if !ok {
		return nil, &TypeError{Op: "ldexp", Left: kind(args[0]), Right: kind(args[1])}
	}
	switch {
	case x == 0:
		return Real(x), nil
	case !e.x.IsInt64() || e.x.Int64() > 1<<16:
		if e.x.Sign() < 0 {
			return Real(0), nil
		}
		return nil, ErrOverflow
	case e.x.Int64() < -1<<16:
		return Real(0), nil
	}
	return realValue(math.Ldexp(x, int(e.x.Int64())))
}

func powfn(c *Calc, args []Value) (Value, error) {
	if len(args) == 2 {
		return binary(nodePow, args[0], args[1])
	}
	var n [3]*big.Int
	for i, a := range args {
		v, ok := a.(Int)
		if !ok {
			return nil, &TypeError{Op: "pow", Left: kind(args[0]), Right: kind(a)}
		}
		n[i] = v.Big()
	}
	x, y, m := n[0], n[1], n[2]
	if m.Sign() == 0 {
		return nil, &DomainError{X: args[2], Arg: 3, Func: "pow"}
	}
	am := new(big.Int).Abs(m)
	r := new(big.Int).Exp(x, y, am)
	if r == nil || (y.Sign() < 0 && new(big.Int).GCD(nil, nil, new(big.Int).Mod(x, am), am).Cmp(one) != 0) {
		// Exp cannot invert x.
		return nil, &DomainError{X: args[0], Arg: 1, Func: "pow"}
	}
	if m.Sign() < 0 && r.Sign() != 0 {
		r.Add(r, m)
	}
	return Int{r}, nil
}

func factorialfn(c *Calc, args []Value) (Value, error) {
	n, err := toInt("factorial", args[0])
	if err != nil {
		return nil, err
	}
	if n.Sign() < 0 {
		return nil, &DomainError{X: args[0], Func: "factorial"}
	}
	if !n.IsInt64() || n.Int64() > factorialLimit {
		return nil, ErrOverflow
	}
	return Int{new(big.Int).MulRange(1, n.Int64())}, nil
}

// counts converts the arguments of comb and perm.
func counts(name string, args []Value) (n, k int64, err error) {
	var v [2]int64
	for i, a := range args {
		x, err := toInt(name, a)
		if err != nil {
			return 0, 0, err
		}
		if x.Sign() < 0 {
			return 0, 0, &DomainError{X: a, Arg: i + 1, Func: name}
		}
		if !x.IsInt64() || x.Int64() > factorialLimit {
			return 0, 0, ErrOverflow
		}
		v[i] = x.Int64()
	}
	if len(args) == 1 {
		v[1] = v[0]
	}
	return v[0], v[1], nil
}

func combfn(c *Calc, args []Value) (Value, error) {
	n, k, err := counts("comb", args)
	if err != nil {
		return nil, err
	}
	if k > n {
		return NewInt(0), nil
	}
	return Int{new(big.Int).Binomial(n, k)}, nil
}

func permfn(c *Calc, args []Value) (Value, error) {
	n, k, err := counts("perm", args)
	if err != nil {
		return nil, err
	}
	if k > n {
		return NewInt(0), nil
	}
	return Int{new(big.Int).MulRange(n-k+1, n)}, nil
}

func gcdfn(c *Calc, args []Value) (Value, error) {
	r := new(big.Int)
	for _, a := range args {
		x, err := toInt("gcd", a)
		if err != nil {
			return nil, err
		}
		r.GCD(nil, nil, r, x)
	}
	return Int{r}, nil
}

func lcmfn(c *Calc, args []Value) (Value, error) {
	r := big.NewInt(1)
	for _, a := range args {
		x, err := toInt("lcm", a)
		if err != nil {
			return nil, err
		}
		if x.Sign() == 0 || r.Sign() == 0 {
			r.SetInt64(0)
			continue
		}
		g := new(big.Int).GCD(nil, nil, r, x)
		r.Mul(r, x.Abs(x)).Quo(r, g)
	}
	return Int{r}, nil
}

// radix creates bin, oct, or hex.
func radix(name string, base int, prefix string) func(*Calc, []Value) (Value, error) {
	return func(c *Calc, args []Value) (Value, error) {
		v, ok := args[0].(Int)
		if !ok {
			return nil, &TypeError{Op: name, Left: kind(args[0])}
		}
		x := v.Big()
		sign := ""
		if x.Sign() < 0 {
			sign = "-"
			x.Neg(x)
		}
		return Text(sign + prefix + x.Text(base)), nil
	}
}

func complexfn(c *Calc, args []Value) (Value, error) {
	var parts [2]complex128
	for i, a := range args {
		z, err := toComplex("complex", a)
		if err != nil {
			return nil, err
		}
		parts[i] = z
	}
	return complexValue(parts[0] + parts[1]*1i)
}

func floatfn(c *Calc, args []Value) (Value, error) {
	switch v := args[0].(type) {
	case Int:
		f, err := intFloat(v.x)
		if err != nil {
			return nil, err
		}
		return Real(f), nil
	case Real:
		return v, nil
	case Quantity:
		return Real(v.Value), nil
	case Text:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		if err != nil {
			return nil, &DomainError{X: v, Func: "float"}
		}
		return realValue(f)
	default:
		return nil, &TypeError{Op: "float", Left: kind(v)}
	}
}

func intfn(c *Calc, args []Value) (Value, error) {
	if len(args) == 2 {
		s, ok := args[0].(Text)
		b, bok := args[1].(Int)
		if !ok || !bok {
			return nil, &TypeError{Op: "int", Left: kind(args[0]), Right: kind(args[1])}
		}
		base := b.x.Int64()
		if !b.x.IsInt64() || base == 1 || base < 0 || base > 36 {
			return nil, &DomainError{X: b, Arg: 2, Func: "int"}
		}
		return parseInt(s, int(base))
	}
	switch v := args[0].(type) {
	case Int:
		return v, nil
	case Real:
		return floatInt(math.Trunc(float64(v)))
	case Quantity:
		return floatInt(math.Trunc(v.Value))
	case Text:
		return parseInt(v, 10)
	default:
		return nil, &TypeError{Op: "int", Left: kind(v)}
	}
}

func parseInt(s Text, base int) (Value, error) {
	x, ok := new(big.Int).SetString(strings.TrimSpace(string(s)), base)
	if !ok {
		return nil, &DomainError{X: s, Func: "int"}
	}
	return Int{x}, nil
}

// extremum creates max or min using the comparison op.
func extremum(op string) func(*Calc, []Value) (Value, error) {
	return func(c *Calc, args []Value) (Value, error) {
		r := args[0]
		for _, a := range args[1:] {
			b, err := compare(op, a, r)
			if err != nil {
				return nil, err
			}
			if b.(Int).x.Sign() != 0 {
				r = a
			}
		}
		return r, nil
	}
}
