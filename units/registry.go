package units

import (
	"math"
	"strings"
)

// Base dimensions. Angle, currency and information are treated as dimensions
// of their own so that e.g. degrees never silently mix with dollars.
const (
	Length = iota
	Mass
	Time
	Current
	Temperature
	Amount
	Luminosity
	Angle
	Currency
	Information

	nbase
)

// Dims is a vector of exponents of the base dimensions.
type Dims [nbase]float64

func (d Dims) add(e Dims, k float64) Dims {
	for i := range d {
		d[i] += k * e[i]
	}
	return d
}

// IsZero reports whether d is dimensionless.
func (d Dims) IsZero() bool {
	return d == Dims{}
}

// Def is the definition of a named unit.
type Def struct {
	// Names lists the symbol followed by any aliases. The first name is used
	// when printing.
	Names []string
	// Dims is the dimension of one of this unit.
	Dims Dims
	// Factor is the size of one of this unit in SI base units.
	Factor float64
	// Offset is added after scaling to reach the SI zero point. It is
	// nonzero only for temperature scales like degC.
	Offset float64
	// Prefix allows SI (and, for information units, binary) prefixes.
	Prefix bool
}

var (
	dimless = Dims{}
	length  = Dims{Length: 1}
	mass    = Dims{Mass: 1}
	tm      = Dims{Time: 1}
	current = Dims{Current: 1}
	temp    = Dims{Temperature: 1}
	area    = Dims{Length: 2}
	volume  = Dims{Length: 3}
	speed   = Dims{Length: 1, Time: -1}
	freq    = Dims{Time: -1}
	force   = Dims{Mass: 1, Length: 1, Time: -2}
	energy  = Dims{Mass: 1, Length: 2, Time: -2}
	power   = Dims{Mass: 1, Length: 2, Time: -3}
	press   = Dims{Mass: 1, Length: -1, Time: -2}
	charge  = Dims{Current: 1, Time: 1}
	voltage = Dims{Mass: 1, Length: 2, Time: -3, Current: -1}
	resist  = Dims{Mass: 1, Length: 2, Time: -3, Current: -2}
	capac   = Dims{Mass: -1, Length: -2, Time: 4, Current: 2}
	induct  = Dims{Mass: 1, Length: 2, Time: -2, Current: -2}
	flux    = Dims{Mass: 1, Length: 2, Time: -2, Current: -1}
	fluxden = Dims{Mass: 1, Time: -2, Current: -1}
	conduct = Dims{Mass: -1, Length: -2, Time: 3, Current: 2}
	density = Dims{Mass: 1, Length: -3}
)

const (
	lbKg  = 0.45359237
	ftM   = 0.3048
	inM   = 0.0254
	galM3 = 3.785411784e-3
	gn    = 9.80665
	lbfN  = lbKg * gn
	psiPa = lbfN / (inM * inM)
)

// builtin is the default unit table.
var builtin = []Def{
	// length
	{Names: []string{"m", "meter", "metre"}, Dims: length, Factor: 1, Prefix: true},
	{Names: []string{"in", "inch", "inches"}, Dims: length, Factor: inM},
	{Names: []string{"ft", "foot", "feet"}, Dims: length, Factor: ftM},
	{Names: []string{"yd", "yard"}, Dims: length, Factor: 0.9144},
	{Names: []string{"mi", "mile"}, Dims: length, Factor: 1609.344},
	{Names: []string{"nmi"}, Dims: length, Factor: 1852},
	{Names: []string{"mil", "thou"}, Dims: length, Factor: inM / 1000},
	{Names: []string{"Å", "angstrom"}, Dims: length, Factor: 1e-10},
	{Names: []string{"au"}, Dims: length, Factor: 149597870700},
	{Names: []string{"ly", "lightyear"}, Dims: length, Factor: 9460730472580800},
	{Names: []string{"pc", "parsec"}, Dims: length, Factor: 3.0856775814913673e16},
	// mass
	{Names: []string{"g", "gram", "gramme"}, Dims: mass, Factor: 1e-3, Prefix: true},
	{Names: []string{"t", "tonne"}, Dims: mass, Factor: 1000, Prefix: true},
	{Names: []string{"lb", "lbm", "pound"}, Dims: mass, Factor: lbKg},
	{Names: []string{"oz", "ounce"}, Dims: mass, Factor: lbKg / 16},
	{Names: []string{"ton"}, Dims: mass, Factor: 2000 * lbKg},
	{Names: []string{"st", "stone"}, Dims: mass, Factor: 14 * lbKg},
	{Names: []string{"gr", "grain"}, Dims: mass, Factor: lbKg / 7000},
	{Names: []string{"slug"}, Dims: mass, Factor: lbfN / ftM},
	{Names: []string{"ct", "carat"}, Dims: mass, Factor: 2e-4},
	{Names: []string{"amu", "Da", "dalton"}, Dims: mass, Factor: 1.66053906660e-27},
	// time
	{Names: []string{"s", "sec", "second"}, Dims: tm, Factor: 1, Prefix: true},
	{Names: []string{"min", "minute"}, Dims: tm, Factor: 60},
	{Names: []string{"h", "hr", "hour"}, Dims: tm, Factor: 3600},
	{Names: []string{"d", "day"}, Dims: tm, Factor: 86400},
	{Names: []string{"wk", "week"}, Dims: tm, Factor: 604800},
	{Names: []string{"fortnight"}, Dims: tm, Factor: 1209600},
	{Names: []string{"mo", "month"}, Dims: tm, Factor: 2629800},
	{Names: []string{"yr", "year"}, Dims: tm, Factor: 31557600},
	// electrical
	{Names: []string{"A", "amp", "ampere"}, Dims: current, Factor: 1, Prefix: true},
	{Names: []string{"C", "coulomb"}, Dims: charge, Factor: 1, Prefix: true},
	{Names: []string{"Ah"}, Dims: charge, Factor: 3600, Prefix: true},
	{Names: []string{"V", "volt"}, Dims: voltage, Factor: 1, Prefix: true},
	{Names: []string{"ohm", "Ω"}, Dims: resist, Factor: 1, Prefix: true},
	{Names: []string{"F", "farad"}, Dims: capac, Factor: 1, Prefix: true},
	{Names: []string{"H", "henry"}, Dims: induct, Factor: 1, Prefix: true},
	{Names: []string{"S", "siemens"}, Dims: conduct, Factor: 1, Prefix: true},
	{Names: []string{"Wb", "weber"}, Dims: flux, Factor: 1, Prefix: true},
	{Names: []string{"T", "tesla"}, Dims: fluxden, Factor: 1, Prefix: true},
	// temperature
	{Names: []string{"K", "kelvin"}, Dims: temp, Factor: 1, Prefix: true},
	{Names: []string{"degC", "°C", "celsius"}, Dims: temp, Factor: 1, Offset: 273.15},
	{Names: []string{"degF", "°F", "fahrenheit"}, Dims: temp, Factor: 5.0 / 9, Offset: 273.15 - 32*5.0/9},
	{Names: []string{"degR", "°R", "rankine"}, Dims: temp, Factor: 5.0 / 9},
	// amount, luminosity
	{Names: []string{"mol", "mole"}, Dims: Dims{Amount: 1}, Factor: 1, Prefix: true},
	{Names: []string{"cd", "candela"}, Dims: Dims{Luminosity: 1}, Factor: 1, Prefix: true},
	// angle
	{Names: []string{"rad", "radian"}, Dims: Dims{Angle: 1}, Factor: 1, Prefix: true},
	{Names: []string{"deg", "°", "degree"}, Dims: Dims{Angle: 1}, Factor: math.Pi / 180},
	{Names: []string{"grad", "gon"}, Dims: Dims{Angle: 1}, Factor: math.Pi / 200},
	{Names: []string{"arcmin"}, Dims: Dims{Angle: 1}, Factor: math.Pi / 10800},
	{Names: []string{"arcsec"}, Dims: Dims{Angle: 1}, Factor: math.Pi / 648000},
	{Names: []string{"rev", "turn"}, Dims: Dims{Angle: 1}, Factor: 2 * math.Pi},
	// dimensionless
	{Names: []string{"unitless", "_"}, Dims: dimless, Factor: 1},
	{Names: []string{"pct", "percent", "%"}, Dims: dimless, Factor: 0.01},
	{Names: []string{"permille", "‰"}, Dims: dimless, Factor: 1e-3},
	{Names: []string{"ppm"}, Dims: dimless, Factor: 1e-6},
	{Names: []string{"ppb"}, Dims: dimless, Factor: 1e-9},
	{Names: []string{"dozen"}, Dims: dimless, Factor: 12},
	// currency
	{Names: []string{"USD", "$", "dollar"}, Dims: Dims{Currency: 1}, Factor: 1},
	{Names: []string{"cent", "penny", "pennies"}, Dims: Dims{Currency: 1}, Factor: 0.01},
	// information
	{Names: []string{"bit"}, Dims: Dims{Information: 1}, Factor: 1, Prefix: true},
	{Names: []string{"B", "byte"}, Dims: Dims{Information: 1}, Factor: 8, Prefix: true},
	// area
	{Names: []string{"ha", "hectare"}, Dims: area, Factor: 1e4},
	{Names: []string{"acre", "ac"}, Dims: area, Factor: 4046.8564224},
	// volume
	{Names: []string{"L", "l", "liter", "litre"}, Dims: volume, Factor: 1e-3, Prefix: true},
	{Names: []string{"cc"}, Dims: volume, Factor: 1e-6},
	{Names: []string{"gal", "gallon"}, Dims: volume, Factor: galM3},
	{Names: []string{"qt", "quart"}, Dims: volume, Factor: galM3 / 4},
	{Names: []string{"pt", "pint"}, Dims: volume, Factor: galM3 / 8},
	{Names: []string{"cup"}, Dims: volume, Factor: galM3 / 16},
	{Names: []string{"floz"}, Dims: volume, Factor: galM3 / 128},
	{Names: []string{"tbsp"}, Dims: volume, Factor: galM3 / 256},
	{Names: []string{"tsp"}, Dims: volume, Factor: galM3 / 768},
	{Names: []string{"bbl", "barrel"}, Dims: volume, Factor: 42 * galM3},
	// speed, frequency
	{Names: []string{"mph"}, Dims: speed, Factor: 1609.344 / 3600},
	{Names: []string{"kph", "kmh"}, Dims: speed, Factor: 1000.0 / 3600},
	{Names: []string{"kn", "kt", "knot"}, Dims: speed, Factor: 1852.0 / 3600},
	{Names: []string{"Hz", "hertz"}, Dims: freq, Factor: 1, Prefix: true},
	{Names: []string{"rpm"}, Dims: freq, Factor: 1.0 / 60},
	// force
	{Names: []string{"N", "newton"}, Dims: force, Factor: 1, Prefix: true},
	{Names: []string{"lbf"}, Dims: force, Factor: lbfN},
	{Names: []string{"kip", "kips"}, Dims: force, Factor: 1000 * lbfN},
	{Names: []string{"kgf"}, Dims: force, Factor: gn},
	{Names: []string{"dyn", "dyne"}, Dims: force, Factor: 1e-5},
	// energy, power
	{Names: []string{"J", "joule"}, Dims: energy, Factor: 1, Prefix: true},
	{Names: []string{"cal", "calorie"}, Dims: energy, Factor: 4.184, Prefix: true},
	{Names: []string{"Cal"}, Dims: energy, Factor: 4184},
	{Names: []string{"BTU", "Btu"}, Dims: energy, Factor: 1055.05585262},
	{Names: []string{"eV"}, Dims: energy, Factor: 1.602176634e-19, Prefix: true},
	{Names: []string{"Wh"}, Dims: energy, Factor: 3600, Prefix: true},
	{Names: []string{"erg"}, Dims: energy, Factor: 1e-7},
	{Names: []string{"W", "watt"}, Dims: power, Factor: 1, Prefix: true},
	{Names: []string{"hp", "horsepower"}, Dims: power, Factor: 550 * lbfN * ftM},
	// pressure
	{Names: []string{"Pa", "pascal"}, Dims: press, Factor: 1, Prefix: true},
	{Names: []string{"bar"}, Dims: press, Factor: 1e5, Prefix: true},
	{Names: []string{"atm"}, Dims: press, Factor: 101325},
	{Names: []string{"psi"}, Dims: press, Factor: psiPa},
	{Names: []string{"ksi"}, Dims: press, Factor: 1000 * psiPa},
	{Names: []string{"psf"}, Dims: press, Factor: lbfN / (ftM * ftM)},
	{Names: []string{"torr", "Torr"}, Dims: press, Factor: 101325.0 / 760},
	{Names: []string{"mmHg"}, Dims: press, Factor: 133.322387415},
	{Names: []string{"inHg"}, Dims: press, Factor: 3386.389},
	// density
	{Names: []string{"pcf"}, Dims: density, Factor: lbKg / (ftM * ftM * ftM)},
}

// derived lists the named units Simplify may collapse a composite unit into,
// in order of preference.
var derived = []string{"N", "J", "W", "Pa", "C", "V", "ohm", "F", "H", "Wb", "T", "S", "Hz"}

// base holds the symbols Expand writes for each base dimension.
var base = [nbase]string{
	Length:      "m",
	Mass:        "kg",
	Time:        "s",
	Current:     "A",
	Temperature: "K",
	Amount:      "mol",
	Luminosity:  "cd",
	Angle:       "rad",
	Currency:    "USD",
	Information: "bit",
}

type prefix struct {
	sym   string
	scale float64
	// binary prefixes only apply to information units.
	binary bool
}

// prefixes is ordered so that longer prefixes are tried first.
var prefixes = []prefix{
	{"yotta", 1e24, false}, {"zetta", 1e21, false}, {"exa", 1e18, false},
	{"peta", 1e15, false}, {"tera", 1e12, false}, {"giga", 1e9, false},
	{"mega", 1e6, false}, {"kilo", 1e3, false}, {"hecto", 1e2, false},
	{"deca", 1e1, false}, {"deci", 1e-1, false}, {"centi", 1e-2, false},
	{"milli", 1e-3, false}, {"micro", 1e-6, false}, {"nano", 1e-9, false},
	{"pico", 1e-12, false}, {"femto", 1e-15, false}, {"atto", 1e-18, false},
	{"Ki", 1 << 10, true}, {"Mi", 1 << 20, true}, {"Gi", 1 << 30, true},
	{"Ti", 1 << 40, true}, {"Pi", 1 << 50, true}, {"Ei", 1 << 60, true},
	{"da", 1e1, false},
	{"Y", 1e24, false}, {"Z", 1e21, false}, {"E", 1e18, false},
	{"P", 1e15, false}, {"T", 1e12, false}, {"G", 1e9, false},
	{"M", 1e6, false}, {"k", 1e3, false}, {"h", 1e2, false},
	{"d", 1e-1, false}, {"c", 1e-2, false}, {"m", 1e-3, false},
	{"μ", 1e-6, false}, {"µ", 1e-6, false}, {"u", 1e-6, false},
	{"n", 1e-9, false}, {"p", 1e-12, false}, {"f", 1e-15, false},
	{"a", 1e-18, false}, {"z", 1e-21, false}, {"y", 1e-24, false},
}

// Registry resolves unit symbols. A Registry is not modified after it is
// created, so it is safe to share.
type Registry struct {
	defs  map[string]*Def
	names []string
}

var std = NewRegistry()

// Default returns the registry of built-in units.
func Default() *Registry {
	return std
}

// NewRegistry creates a registry containing the built-in units plus defs.
// A def whose names collide with built-in names replaces them.
func NewRegistry(defs ...Def) *Registry {
	r := &Registry{defs: make(map[string]*Def, 3*len(builtin))}
	for i := range builtin {
		r.define(&builtin[i])
	}
	for i := range defs {
		d := defs[i]
		r.define(&d)
	}
	r.names = make([]string, 0, len(r.defs))
	for k := range r.defs {
		r.names = append(r.names, k)
	}
	sortstrs(r.names)
	return r
}

func (r *Registry) define(d *Def) {
	for _, name := range d.Names {
		r.defs[name] = d
	}
}

// Names returns every symbol and alias in the registry, without prefixed
// forms, in sorted order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// lookup resolves a single symbol, trying an exact match, then an SI prefix
// on a prefixable unit, then a plural form.
func (r *Registry) lookup(sym string) (term, bool) {
	if t, ok := r.exact(sym); ok {
		return t, true
	}
	switch {
	case strings.HasSuffix(sym, "es") && len(sym) > 4:
		if t, ok := r.exact(sym[:len(sym)-2]); ok {
			t.sym = sym
			return t, true
		}
		fallthrough
	case strings.HasSuffix(sym, "s") && len(sym) > 2:
		if t, ok := r.exact(sym[:len(sym)-1]); ok {
			t.sym = sym
			return t, true
		}
	}
	return term{}, false
}

// exact resolves sym as a name or a prefixed name, without plurals.
func (r *Registry) exact(sym string) (term, bool) {
	if d := r.defs[sym]; d != nil {
		return term{sym: sym, def: d, scale: 1, pow: 1}, true
	}
	for _, p := range prefixes {
		rest := strings.TrimPrefix(sym, p.sym)
		if len(rest) == len(sym) || rest == "" {
			continue
		}
		d := r.defs[rest]
		if d == nil || !d.Prefix {
			continue
		}
		if p.binary && d.Dims != (Dims{Information: 1}) {
			continue
		}
		return term{sym: sym, def: d, scale: p.scale, pow: 1}, true
	}
	return term{}, false
}

// sortstrs sorts a string slice by insertion.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}
