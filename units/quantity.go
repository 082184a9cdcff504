package units

import (
	"math"
	"strconv"
)

// Quantity is a magnitude in some unit.
type Quantity struct {
	Value float64
	Unit  Unit
}

// String formats q as its magnitude followed by its unit, e.g. "8 in".
func (q Quantity) String() string {
	s := strconv.FormatFloat(q.Value, 'g', 15, 64)
	if u := q.Unit.String(); u != "" {
		s += " " + u
	}
	return s
}

// Dimensionless reports whether q has no dimension, e.g. 50% or m/km.
func (q Quantity) Dimensionless() bool {
	return q.Unit.Dims().IsZero()
}

// Float returns q as a plain number if it is dimensionless.
func (q Quantity) Float() (float64, bool) {
	if !q.Dimensionless() {
		return 0, false
	}
	return q.Value * q.Unit.Factor(), true
}

// To converts q to the unit u. Affine units such as degF are converted
// through absolute temperature when both sides are a single such unit.
func (q Quantity) To(u Unit) (Quantity, error) {
	if !sameDims(q.Unit.Dims(), u.Dims()) {
		return Quantity{}, &InconsistentUnitsError{From: q.Unit.String(), To: u.String()}
	}
	from, fo := q.Unit.offset()
	to, tf := u.offset()
	if (fo || tf) && len(q.Unit.terms) <= 1 && len(u.terms) <= 1 {
		si := q.Value*q.Unit.Factor() + from
		return Quantity{Value: (si - to) / u.Factor(), Unit: u}, nil
	}
	return Quantity{Value: q.Value * q.Unit.Factor() / u.Factor(), Unit: u}, nil
}

// Add returns q + r in the unit of q.
func (q Quantity) Add(r Quantity) (Quantity, error) {
	c, err := r.convertFor(q)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: q.Value + c, Unit: q.Unit}, nil
}

// Sub returns q - r in the unit of q.
func (q Quantity) Sub(r Quantity) (Quantity, error) {
	c, err := r.convertFor(q)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: q.Value - c, Unit: q.Unit}, nil
}

// convertFor returns the magnitude of r in the unit of q, without zero-point
// offsets: a difference of 5 degC is a difference of 5 K.
func (r Quantity) convertFor(q Quantity) (float64, error) {
	if !sameDims(q.Unit.Dims(), r.Unit.Dims()) {
		return 0, &InconsistentUnitsError{From: r.Unit.String(), To: q.Unit.String()}
	}
	return r.Value * r.Unit.Factor() / q.Unit.Factor(), nil
}

// Mul returns q * r. The units are combined without simplification.
func (q Quantity) Mul(r Quantity) Quantity {
	return Quantity{Value: q.Value * r.Value, Unit: q.Unit.mul(r.Unit, 1)}
}

// Div returns q / r. The units are combined without simplification. Callers
// must check for a zero divisor.
func (q Quantity) Div(r Quantity) Quantity {
	return Quantity{Value: q.Value / r.Value, Unit: q.Unit.mul(r.Unit, -1)}
}

// Scale returns q with its magnitude multiplied by k.
func (q Quantity) Scale(k float64) Quantity {
	return Quantity{Value: q.Value * k, Unit: q.Unit}
}

// Pow returns q^k.
func (q Quantity) Pow(k float64) Quantity {
	return Quantity{Value: math.Pow(q.Value, k), Unit: q.Unit.pow(k)}
}

// Neg returns -q.
func (q Quantity) Neg() Quantity {
	return Quantity{Value: -q.Value, Unit: q.Unit}
}

// Abs returns |q|.
func (q Quantity) Abs() Quantity {
	return Quantity{Value: math.Abs(q.Value), Unit: q.Unit}
}

// Cmp compares q and r after converting r to the unit of q.
func (q Quantity) Cmp(r Quantity) (int, error) {
	c, err := r.convertFor(q)
	if err != nil {
		return 0, err
	}
	switch {
	case q.Value < c:
		return -1, nil
	case q.Value > c:
		return 1, nil
	}
	return 0, nil
}

// Simplify reduces the unit of q. Terms of equal dimension are merged into
// the first of them, so ft*in becomes ft^2 and m/km vanishes. If several
// terms remain and together they match a derived SI unit or a single base
// dimension, q is converted to that unit as r defines it.
func (r *Registry) Simplify(q Quantity) Quantity {
	v := q.Value
	var terms []term
outer:
	for _, t := range q.Unit.terms {
		for i := range terms {
			k := &terms[i]
			if !sameDims(k.def.Dims, t.def.Dims) || k.def.Offset != 0 || t.def.Offset != 0 {
				continue
			}
			v *= math.Pow(t.factor()/k.factor(), t.pow)
			k.pow += t.pow
			continue outer
		}
		terms = append(terms, t)
	}
	m := Quantity{Value: v, Unit: Unit{terms: terms}.compact()}
	if len(m.Unit.terms) <= 1 {
		return m
	}
	d := m.Unit.Dims()
	if d.IsZero() {
		return Quantity{Value: m.Value * m.Unit.Factor()}
	}
	for _, name := range derived {
		t, ok := r.exact(name)
		if !ok || !sameDims(t.def.Dims, d) || t.def.Offset != 0 {
			continue
		}
		u := Unit{terms: []term{t}}
		return Quantity{Value: m.Value * m.Unit.Factor() / u.Factor(), Unit: u}
	}
	for i := range d {
		var e Dims
		e[i] = 1
		if !sameDims(d, e) {
			continue
		}
		u := Unit{terms: []term{r.baseTerm(i)}}
		return Quantity{Value: m.Value * m.Unit.Factor() / u.Factor(), Unit: u}
	}
	return m
}

// Expand converts q to SI base units, using the symbols as r defines them.
func (r *Registry) Expand(q Quantity) Quantity {
	d := q.Unit.Dims()
	var u Unit
	for i, k := range d {
		if k == 0 {
			continue
		}
		t := r.baseTerm(i)
		t.pow = k
		u.terms = append(u.terms, t)
	}
	e, err := q.To(u)
	if err != nil {
		// Unreachable: u has the dimension of q by construction.
		panic("units: " + err.Error())
	}
	return e
}

// baseTerm returns the SI base unit of dimension i as r defines it. If r
// redefines the symbol with another dimension or an offset, the builtin unit
// is used instead.
func (r *Registry) baseTerm(i int) term {
	var e Dims
	e[i] = 1
	if t, ok := r.exact(base[i]); ok && t.def.Offset == 0 && sameDims(t.def.Dims, e) {
		return t
	}
	t, _ := std.exact(base[i])
	return t
}

// UnavailableUnitError is returned when a unit symbol is not known.
type UnavailableUnitError struct {
	// Name is the unrecognized symbol or unit text.
	Name string
}

func (err *UnavailableUnitError) Error() string {
	return "unavailable unit: " + strconv.Quote(err.Name)
}

// InconsistentUnitsError is returned when an operation mixes units of
// different dimension.
type InconsistentUnitsError struct {
	From string
	To   string
}

func (err *InconsistentUnitsError) Error() string {
	from, to := err.From, err.To
	if from == "" {
		from = "dimensionless"
	}
	if to == "" {
		to = "dimensionless"
	}
	return "cannot convert from " + strconv.Quote(from) + " to " + strconv.Quote(to)
}
