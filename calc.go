package beecalc

import (
	"errors"
	"math"
	"sort"

	"fortio.org/log"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/zephyrtronium/beecalc/units"
)

// Calc evaluates lines of calculator input. Its function, constant, and unit
// tables are fixed when it is created, so a Calc may be shared by any number
// of Contexts, although each Context may be used by only one goroutine at a
// time.
type Calc struct {
	funcs  map[string]Func
	fnames []string
	consts map[string]Value
	cnames []string
	reg    *units.Registry
	rad    units.Unit
	eps    float64
}

// Option is an option used when creating a Calc.
type Option interface {
	calcOption()
}

type (
	funcsopt  map[string]Func
	constsopt map[string]float64
	regopt    struct{ reg *units.Registry }
	epsopt    float64
)

func (funcsopt) calcOption()  {}
func (constsopt) calcOption() {}
func (regopt) calcOption()    {}
func (epsopt) calcOption()    {}

// Funcs adds functions to the Calc, replacing built-in functions of the same
// name. A nil Func removes the name.
func Funcs(fns map[string]Func) Option {
	return funcsopt(fns)
}

// Constants adds named constants to the Calc. Constants take precedence over
// variables of the same name.
func Constants(consts map[string]float64) Option {
	return constsopt(consts)
}

// Registry sets the unit registry. The default is units.Default().
func Registry(reg *units.Registry) Option {
	return regopt{reg}
}

// Epsilon sets the magnitude below which real and quantity results are
// reported as zero. The default is 1e-15.
func Epsilon(eps float64) Option {
	return epsopt(eps)
}

// DefaultEpsilon is the default zero-snap threshold.
const DefaultEpsilon = 1e-15

var builtinConsts = map[string]float64{
	"e":   math.E,
	"pi":  math.Pi,
	"π":   math.Pi,
	"phi": math.Phi,
	"φ":   math.Phi,
	"tau": 2 * math.Pi,
	"τ":   2 * math.Pi,
}

// NewCalc creates a Calc with the built-in functions, constants, and units,
// modified by opts.
func NewCalc(opts ...Option) *Calc {
	c := Calc{
		funcs:  DefaultFuncs(),
		consts: make(map[string]Value, len(builtinConsts)),
		reg:    units.Default(),
		eps:    DefaultEpsilon,
	}
	for k, v := range builtinConsts {
		c.consts[k] = Real(v)
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case funcsopt:
			for k, f := range opt {
				if f == nil {
					delete(c.funcs, k)
					continue
				}
				c.funcs[k] = f
			}
		case constsopt:
			for k, v := range opt {
				c.consts[k] = Real(v)
			}
		case regopt:
			if opt.reg != nil {
				c.reg = opt.reg
			}
		case epsopt:
			c.eps = float64(opt)
		default:
			panic("beecalc: unknown option type")
		}
	}
	rad, err := c.reg.ParseUnit("rad")
	if err != nil {
		panic("beecalc: unit registry has no radian: " + err.Error())
	}
	c.rad = rad
	for k := range c.funcs {
		c.fnames = append(c.fnames, k)
	}
	sortstrs(c.fnames)
	for k := range c.consts {
		c.cnames = append(c.cnames, k)
	}
	sortstrs(c.cnames)
	return &c
}

var std = NewCalc()

// Default returns the Calc with the built-in tables.
func Default() *Calc {
	return std
}

// Funcs returns the names of the Calc's functions in sorted order.
func (c *Calc) Funcs() []string {
	return append([]string(nil), c.fnames...)
}

// Constants returns the names of the Calc's constants in sorted order.
func (c *Calc) Constants() []string {
	return append([]string(nil), c.cnames...)
}

// Units returns the Calc's unit registry.
func (c *Calc) Units() *units.Registry {
	return c.reg
}

// EvalLine preprocesses, parses, and evaluates one line of input with the
// variables in ctx. A blank or comment-only line produces Empty. If the
// preprocessed line cannot be parsed, the error is a *SyntaxError.
func (c *Calc) EvalLine(ctx *Context, line string) (Value, error) {
	src, ok := c.Preprocess(ctx, line)
	if !ok {
		return Empty{}, nil
	}
	e, err := ParseString(src)
	if err != nil {
		var ie InputError
		if errors.As(err, &ie) {
			return nil, &SyntaxError{Text: src, Err: ie}
		}
		return nil, err
	}
	v, err := c.Eval(ctx, e)
	if err != nil {
		log.LogVf("%q: %v", line, err)
		return nil, err
	}
	return v, nil
}

// EvalString is a shortcut to evaluate a single line with the default Calc in
// a new context created with opts.
func EvalString(line string, opts ...ContextOption) (Value, error) {
	return std.EvalLine(NewContext(opts...), line)
}

// suggest finds the candidate closest to name by fuzzy matching, or the empty
// string if none is close.
func suggest(name string, cands []string) string {
	if name == "" {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, cands)
	if len(ranks) == 0 {
		// Try the other direction so that typos with extra letters still
		// find something.
		for _, c := range cands {
			if len(c) > 1 && fuzzy.MatchFold(c, name) {
				ranks = append(ranks, fuzzy.Rank{Source: c, Target: c, Distance: len(name) - len(c)})
			}
		}
	}
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}
