package units

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// term is one factor of a composite unit: a named unit, possibly prefixed,
// raised to a power.
type term struct {
	// sym is the symbol as written, e.g. "km" or "grams".
	sym string
	def *Def
	// scale is the prefix multiplier.
	scale float64
	pow   float64
}

func (t term) factor() float64 {
	return t.def.Factor * t.scale
}

// Unit is a product of powers of named units. The zero Unit is dimensionless.
// Units are immutable; methods return new values.
type Unit struct {
	terms []term
}

// Dims returns the dimension of u.
func (u Unit) Dims() Dims {
	var d Dims
	for _, t := range u.terms {
		d = d.add(t.def.Dims, t.pow)
	}
	return d
}

// Factor returns the size of one u in SI base units.
func (u Unit) Factor() float64 {
	f := 1.0
	for _, t := range u.terms {
		f *= math.Pow(t.factor(), t.pow)
	}
	return f
}

// IsZero reports whether u has no terms at all.
func (u Unit) IsZero() bool {
	return len(u.terms) == 0
}

// offset returns the zero-point offset of u if it is a single affine unit
// like degC raised to the first power.
func (u Unit) offset() (float64, bool) {
	if len(u.terms) != 1 || u.terms[0].pow != 1 || u.terms[0].def.Offset == 0 {
		return 0, false
	}
	return u.terms[0].def.Offset, true
}

// mul returns u * v^k, merging terms with the same symbol.
func (u Unit) mul(v Unit, k float64) Unit {
	r := Unit{terms: make([]term, 0, len(u.terms)+len(v.terms))}
	r.terms = append(r.terms, u.terms...)
outer:
	for _, t := range v.terms {
		t.pow *= k
		for i := range r.terms {
			if r.terms[i].sym == t.sym {
				r.terms[i].pow += t.pow
				continue outer
			}
		}
		r.terms = append(r.terms, t)
	}
	return r.compact()
}

// pow returns u^k.
func (u Unit) pow(k float64) Unit {
	r := Unit{terms: make([]term, len(u.terms))}
	for i, t := range u.terms {
		t.pow *= k
		r.terms[i] = t
	}
	return r.compact()
}

// compact removes terms with a zero power.
func (u Unit) compact() Unit {
	terms := u.terms[:0:0]
	for _, t := range u.terms {
		if math.Abs(t.pow) < 1e-12 {
			continue
		}
		terms = append(terms, t)
	}
	return Unit{terms: terms}
}

// String formats u as e.g. "kg*m^2/s^2". Negative powers are written as
// divisions; a unit with no positive powers begins with "1/".
func (u Unit) String() string {
	var b strings.Builder
	for _, t := range u.terms {
		if t.pow < 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('*')
		}
		writeTerm(&b, t.sym, t.pow)
	}
	if b.Len() == 0 && len(u.terms) > 0 {
		b.WriteByte('1')
	}
	for _, t := range u.terms {
		if t.pow >= 0 {
			continue
		}
		b.WriteByte('/')
		writeTerm(&b, t.sym, -t.pow)
	}
	return b.String()
}

func writeTerm(b *strings.Builder, sym string, pow float64) {
	b.WriteString(sym)
	if pow != 1 {
		b.WriteByte('^')
		b.WriteString(strconv.FormatFloat(pow, 'g', -1, 64))
	}
}

// sameDims reports whether two dimension vectors are equal up to rounding in
// fractional powers.
func sameDims(a, b Dims) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

// ParseUnit parses a unit string like "lb/ft3", "m*A/hr", "kg/m^3",
// "ft/(s*s)" or "m**2". An empty string is the dimensionless unit.
func (r *Registry) ParseUnit(s string) (Unit, error) {
	p := unitParser{reg: r, src: strings.TrimSpace(s)}
	if p.src == "" {
		return Unit{}, nil
	}
	u, err := p.product()
	if err != nil {
		return Unit{}, err
	}
	p.space()
	if p.pos < len(p.src) {
		return Unit{}, &UnavailableUnitError{Name: p.src[p.pos:]}
	}
	return u, nil
}

// Parse parses a quantity string consisting of an optional number followed by
// an optional unit, e.g. "5 mm", "2.5e3kg", "mm" or "12". A missing number
// means 1.
func (r *Registry) Parse(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	n := numberPrefix(s)
	v := 1.0
	if n > 0 {
		var err error
		v, err = strconv.ParseFloat(s[:n], 64)
		if err != nil {
			return Quantity{}, &UnavailableUnitError{Name: s}
		}
	}
	u, err := r.ParseUnit(s[n:])
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: v, Unit: u}, nil
}

// New creates a quantity with magnitude v in the given unit.
func (r *Registry) New(v float64, unit string) (Quantity, error) {
	u, err := r.ParseUnit(unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: v, Unit: u}, nil
}

// numberPrefix returns the length of the decimal number at the start of s,
// including a sign and an exponent only when digits follow it.
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	start := i
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && '0' <= s[i] && s[i] <= '9' {
			i++
		}
	}
	if i == start || (i == start+1 && s[start] == '.') {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '-' || s[j] == '+') {
			j++
		}
		k := j
		for k < len(s) && '0' <= s[k] && s[k] <= '9' {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

type unitParser struct {
	reg *Registry
	src string
	pos int
}

func (p *unitParser) peek() rune {
	if p.pos >= len(p.src) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return r
}

func (p *unitParser) space() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

// product = factor { ("*" | "/" | "·" | " ") factor }
func (p *unitParser) product() (Unit, error) {
	u, err := p.factor()
	if err != nil {
		return Unit{}, err
	}
	for {
		save := p.pos
		p.space()
		k := 1.0
		switch r := p.peek(); r {
		case '*', '·', '⋅', '×':
			if strings.HasPrefix(p.src[p.pos:], "**") {
				// Exponent without a preceding atom.
				return Unit{}, &UnavailableUnitError{Name: p.src}
			}
			p.pos += utf8.RuneLen(r)
		case '/':
			p.pos++
			k = -1
		case -1, ')':
			p.pos = save
			return u, nil
		default:
			if p.pos == save {
				// Adjacent atoms need a separator.
				return Unit{}, &UnavailableUnitError{Name: p.src[p.pos:]}
			}
		}
		p.space()
		v, err := p.factor()
		if err != nil {
			return Unit{}, err
		}
		u = u.mul(v, k)
	}
}

// factor = atom [ ("^" | "**") number ]
func (p *unitParser) factor() (Unit, error) {
	u, err := p.atom()
	if err != nil {
		return Unit{}, err
	}
	switch {
	case strings.HasPrefix(p.src[p.pos:], "**"):
		p.pos += 2
	case strings.HasPrefix(p.src[p.pos:], "^"):
		p.pos++
	default:
		return u, nil
	}
	k, err := p.exponent()
	if err != nil {
		return Unit{}, err
	}
	return u.pow(k), nil
}

func (p *unitParser) exponent() (float64, error) {
	paren := p.peek() == '('
	if paren {
		p.pos++
	}
	n := numberPrefix(p.src[p.pos:])
	if n == 0 {
		return 0, &UnavailableUnitError{Name: p.src}
	}
	k, err := strconv.ParseFloat(p.src[p.pos:p.pos+n], 64)
	if err != nil {
		return 0, &UnavailableUnitError{Name: p.src}
	}
	p.pos += n
	if paren {
		if p.peek() != ')' {
			return 0, &UnavailableUnitError{Name: p.src}
		}
		p.pos++
	}
	return k, nil
}

// atom = "(" product ")" | "1" | symbol [digits]
func (p *unitParser) atom() (Unit, error) {
	switch r := p.peek(); {
	case r == '(':
		p.pos++
		p.space()
		u, err := p.product()
		if err != nil {
			return Unit{}, err
		}
		p.space()
		if p.peek() != ')' {
			return Unit{}, &UnavailableUnitError{Name: p.src}
		}
		p.pos++
		return u, nil
	case r == '1':
		p.pos++
		return Unit{}, nil
	case isUnitRune(r):
		start := p.pos
		for isUnitRune(p.peek()) {
			p.pos += utf8.RuneLen(p.peek())
		}
		sym := p.src[start:p.pos]
		t, ok := p.reg.lookup(sym)
		if !ok {
			return Unit{}, &UnavailableUnitError{Name: sym}
		}
		// Trailing digits are a power: ft3, m2.
		d := p.pos
		for d < len(p.src) && '0' <= p.src[d] && p.src[d] <= '9' {
			d++
		}
		if d > p.pos {
			k, _ := strconv.Atoi(p.src[p.pos:d])
			t.pow = float64(k)
			p.pos = d
		}
		return Unit{terms: []term{t}}.compact(), nil
	default:
		return Unit{}, &UnavailableUnitError{Name: p.src[p.pos:]}
	}
}

// isUnitRune reports whether r may appear in a unit symbol.
func isUnitRune(r rune) bool {
	switch r {
	case '_', '°', '$', '%', '‰':
		return true
	}
	return r > 0 && unicode.IsLetter(r)
}
