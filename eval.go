package beecalc

import (
	"errors"
	"math/big"
	"strconv"
	"strings"

	"fortio.org/log"
)

// Context holds the variables of a calculation session. It is not safe to use
// a Context concurrently.
type Context struct {
	vars map[string]Value
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  Value
	}
	varsopt map[string]Value
)

func (varopt) ctxOption()  {}
func (varsopt) ctxOption() {}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val Value) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]Value) ContextOption {
	return varsopt(vars)
}

// NewContext creates a new, empty variable environment.
func NewContext(opts ...ContextOption) *Context {
	var ctx Context
	return ctx.Clone(opts...)
}

// Set sets the value of a variable. Returns ctx for chaining.
func (ctx *Context) Set(name string, value Value) *Context {
	if ctx.vars == nil {
		ctx.vars = make(map[string]Value)
	}
	ctx.vars[name] = value
	return ctx
}

// Lookup returns the value of a variable, or nil if there is no such variable.
func (ctx *Context) Lookup(name string) Value {
	return ctx.vars[name]
}

// Vars returns the names of the variables in the context in sorted order.
func (ctx *Context) Vars() []string {
	r := make([]string, 0, len(ctx.vars))
	for k := range ctx.vars {
		r = append(r, k)
	}
	sortstrs(r)
	return r
}

// Clear removes every variable.
func (ctx *Context) Clear() {
	ctx.vars = nil
}

// Clone creates a copy of a context and applies options to it.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{vars: make(map[string]Value, len(ctx.vars))}
	for k, v := range ctx.vars {
		n.vars[k] = v
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.vars[opt.name] = opt.val
		case varsopt:
			for k, v := range opt {
				n.vars[k] = v
			}
		default:
			panic("beecalc: unknown option type")
		}
	}
	return &n
}

// Eval evaluates a parsed line. Assignments in the line update ctx. Real and
// Quantity results within the Calc's epsilon of zero are reported as exactly
// zero.
func (c *Calc) Eval(ctx *Context, e *Expr) (Value, error) {
	log.Debugf("eval %v", e.n)
	v, err := c.eval(ctx, e.n)
	if err != nil {
		return nil, err
	}
	return c.snap(v), nil
}

// snap replaces values within epsilon of zero with zero.
func (c *Calc) snap(v Value) Value {
	switch x := v.(type) {
	case Real:
		if x < Real(c.eps) && x > Real(-c.eps) {
			return Real(0)
		}
	case Quantity:
		if x.Value < c.eps && x.Value > -c.eps {
			x.Value = 0
			return x
		}
	}
	return v
}

func (c *Calc) eval(ctx *Context, n *node) (Value, error) {
	switch n.kind {
	case nodeNum:
		return number(n)
	case nodeStr:
		return Text(n.name), nil
	case nodeName:
		return c.lookup(ctx, n.name)
	case nodeCall:
		return c.call(ctx, n)
	case nodeArg:
		panic("beecalc: eval on nodeArg")
	case nodeNeg, nodePos, nodeInvert:
		v, err := c.eval(ctx, n.left)
		if err != nil {
			return nil, err
		}
		return unary(n.kind, v)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeFloor, nodeMod, nodePow,
		nodeShl, nodeShr, nodeAnd, nodeOr, nodeXor:
		l, r, err := c.operands(ctx, n)
		if err != nil {
			return nil, err
		}
		return binary(n.kind, l, r)
	case nodeCompare:
		l, r, err := c.operands(ctx, n)
		if err != nil {
			return nil, err
		}
		return compare(n.name, l, r)
	case nodeConvert:
		l, r, err := c.operands(ctx, n)
		if err != nil {
			return nil, err
		}
		return convert(l, r)
	case nodeAssign:
		v, err := c.eval(ctx, n.left)
		if err != nil {
			return nil, err
		}
		log.Debugf("assign %s = %v", n.name, v)
		ctx.Set(n.name, v)
		return v, nil
	default:
		return nil, &BadOperatorError{Op: n.kind.String()}
	}
}

func (c *Calc) operands(ctx *Context, n *node) (l, r Value, err error) {
	l, err = c.eval(ctx, n.left)
	if err != nil {
		return nil, nil, err
	}
	r, err = c.eval(ctx, n.right)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

// number evaluates a numeric literal. Literals with a fraction or exponent are
// Reals; all others are Ints of any size.
func number(n *node) (Value, error) {
	s := n.name
	if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xXoObB", rune(s[1])) {
		x, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return nil, &LexError{Text: s, Kind: "number", Col: n.pos}
		}
		return Int{x}, nil
	}
	if strings.ContainsAny(s, ".eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			if errors.Is(err, strconv.ErrRange) {
				// Underflow rounds to zero without an error.
				return realValue(f)
			}
			return nil, &LexError{Text: s, Kind: "number", Col: n.pos}
		}
		return Real(f), nil
	}
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, &LexError{Text: s, Kind: "number", Col: n.pos}
	}
	return Int{x}, nil
}

// lookup resolves a name: constants first, then variables, then a bare unit
// with magnitude 1.
func (c *Calc) lookup(ctx *Context, name string) (Value, error) {
	if v, ok := c.consts[name]; ok {
		return v, nil
	}
	if v := ctx.Lookup(name); v != nil {
		return v, nil
	}
	if q, err := c.reg.New(1, name); err == nil {
		return Quantity{q}, nil
	}
	return nil, &NameError{Name: name, Suggest: c.suggestName(ctx, name)}
}

// call evaluates a call node. A call whose callee is a number, a constant, a
// variable, or any non-name expression is implied multiplication. A call to
// Unit constructs a quantity. Anything else is a function call.
func (c *Calc) call(ctx *Context, n *node) (Value, error) {
	argn := n.args()
	name := ""
	if n.left.kind == nodeName {
		name = n.left.name
	}
	_, isConst := c.consts[name]
	switch {
	case name == "", isConst, ctx.Lookup(name) != nil:
		if len(argn) != 1 {
			return nil, &CallError{Col: n.pos, Func: n.left.String(), Len: len(argn)}
		}
		l, err := c.eval(ctx, n.left)
		if err != nil {
			return nil, err
		}
		r, err := c.eval(ctx, argn[0])
		if err != nil {
			return nil, err
		}
		log.Debugf("implied multiplication %v * %v", l, r)
		return binary(nodeMul, l, r)
	case name == "Unit":
		return c.unit(ctx, n, argn)
	}
	f := c.funcs[name]
	if f == nil {
		return nil, &FuncError{Name: name, Suggest: suggest(name, c.fnames)}
	}
	if !f.CanCall(len(argn)) {
		return nil, &CallError{Col: n.pos, Func: name, Len: len(argn)}
	}
	args := make([]Value, len(argn))
	for i, a := range argn {
		v, err := c.eval(ctx, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	log.Debugf("call %s%v", name, args)
	return c.invoke(name, f, args)
}

// invoke calls f, converting a big.ErrNaN panic into a DomainError.
func (c *Calc) invoke(name string, f Func, args []Value) (r Value, err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		e, ok := p.(error)
		if !ok || !errors.As(e, new(big.ErrNaN)) {
			panic(p)
		}
		var x Value = Empty{}
		if len(args) > 0 {
			x = args[0]
		}
		r, err = nil, &DomainError{X: x, Func: name}
	}()
	return f.Call(c, args)
}

// unit constructs a quantity from Unit('N sym'), Unit('sym'), or
// Unit(x, 'sym'). A symbol that is not a unit but is a constant multiplies the
// magnitude, so that 2pi is 2*pi.
func (c *Calc) unit(ctx *Context, n *node, argn []*node) (Value, error) {
	args := make([]Value, len(argn))
	for i, a := range argn {
		v, err := c.eval(ctx, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	switch len(args) {
	case 1:
		s, ok := args[0].(Text)
		if !ok {
			return nil, &TypeError{Op: "Unit", Left: kind(args[0])}
		}
		q, err := c.reg.Parse(string(s))
		if err == nil {
			return quantityValue(q)
		}
		num, sym, found := strings.Cut(strings.TrimSpace(string(s)), " ")
		if !found {
			// A bare word is a name that was never defined.
			return nil, &NameError{Name: num, Suggest: c.suggestName(ctx, num)}
		}
		if k, ok := c.consts[sym]; ok {
			m, perr := strconv.ParseFloat(num, 64)
			if perr == nil {
				return binary(nodeMul, Real(m), k)
			}
		}
		return nil, err
	case 2:
		s, ok := args[1].(Text)
		if !ok {
			return nil, &TypeError{Op: "Unit", Left: kind(args[0]), Right: kind(args[1])}
		}
		m, err := toReal("Unit", args[0])
		if err != nil {
			return nil, err
		}
		q, err := c.reg.New(m, string(s))
		if err != nil {
			return nil, err
		}
		return quantityValue(q)
	default:
		return nil, &CallError{Col: n.pos, Func: "Unit", Len: len(args)}
	}
}

// suggestName finds a known name similar to name among constants, variables,
// and units.
func (c *Calc) suggestName(ctx *Context, name string) string {
	cands := make([]string, 0, len(c.cnames)+len(ctx.vars))
	cands = append(cands, c.cnames...)
	cands = append(cands, ctx.Vars()...)
	if s := suggest(name, cands); s != "" {
		return s
	}
	return suggest(name, c.reg.Names())
}
