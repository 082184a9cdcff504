package units_test

import (
	"errors"
	"math"
	"regexp"
	"testing"

	"github.com/zephyrtronium/beecalc/units"
)

func near(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		src  string
		v    float64
		si   float64
		str  string
	}{
		{"bare", "mm", 1, 1e-3, "1 mm"},
		{"number", "5 mm", 5, 5e-3, "5 mm"},
		{"tight", "5mm", 5, 5e-3, "5 mm"},
		{"exponent", "2.5e3 g", 2500, 2.5, "2500 g"},
		{"plural", "3 grams", 3, 3e-3, "3 grams"},
		{"plural-es", "2 inches", 2, 0.0508, "2 inches"},
		{"plural-e", "16 ounces", 16, 0.45359237, "16 ounces"},
		{"prefix", "2 km", 2, 2000, "2 km"},
		{"prefix-derived", "1 kWh", 1, 3.6e6, "1 kWh"},
		{"binary", "1 MiB", 1, 8 << 20, "1 MiB"},
		{"density", "1 lb/ft3", 1, 16.018463373960138, "1 lb/ft^3"},
		{"caret", "1 kg/m^3", 1, 1, "1 kg/m^3"},
		{"starstar", "3 m**2", 3, 3, "3 m^2"},
		{"parens", "1 ft/(s*s)", 1, 0.3048, "1 ft/s^2"},
		{"product", "2 m*A/hr", 2, 2.0 / 3600, "2 m*A/hr"},
		{"reciprocal", "4 1/s", 4, 4, "4 1/s"},
		{"symbol", "90 °", 90, math.Pi / 2, "90 °"},
		{"ohm", "10 kΩ", 10, 1e4, "10 kΩ"},
		{"dimensionless", "7", 7, 7, "7"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q, err := units.Default().Parse(c.src)
			if err != nil {
				t.Fatalf("couldn't parse %q: %v", c.src, err)
			}
			if q.Value != c.v {
				t.Errorf("wrong magnitude: want %g, got %g", c.v, q.Value)
			}
			if si := q.Value * q.Unit.Factor(); !near(si, c.si) {
				t.Errorf("wrong SI magnitude: want %g, got %g", c.si, si)
			}
			if s := q.String(); s != c.str {
				t.Errorf("wrong string: want %q, got %q", c.str, s)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		unit string
	}{
		{"unknown", "5 zzzunit", "zzzunit"},
		{"binary-length", "1 Mim", "Mim"},
		{"lone-a", "a", "a"},
		{"in-product", "m*zzz", "zzz"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := units.Default().Parse(c.src)
			var e *units.UnavailableUnitError
			if !errors.As(err, &e) {
				t.Fatalf("expected UnavailableUnitError, got %v", err)
			}
			if e.Name != c.unit {
				t.Errorf("wrong unit name: want %q, got %q", c.unit, e.Name)
			}
		})
	}
	for _, src := range []string{"m/(s", "m^", "m/", "(m"} {
		if _, err := units.Default().ParseUnit(src); err == nil {
			t.Errorf("%q: expected error", src)
		}
	}
}

func TestTo(t *testing.T) {
	cases := []struct {
		name     string
		from, to string
		want     float64
	}{
		{"lb-grams", "2 lb", "grams", 907.18474},
		{"in-mm", "1 in", "mm", 25.4},
		{"mi-km", "1 mi", "km", 1.609344},
		{"deg-rad", "180 deg", "rad", math.Pi},
		{"degC-degF", "100 degC", "degF", 212},
		{"degF-K", "32 degF", "K", 273.15},
		{"K-degC", "0 K", "°C", -273.15},
		{"mph", "60 mph", "km/h", 96.56064},
		{"pct", "50 pct", "", 0.5},
		{"cents", "250 cents", "USD", 2.5},
		{"bytes", "1 kB", "bit", 8000},
		{"psi", "1 psi", "kPa", 6.894757293168361},
	}
	reg := units.Default()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q, err := reg.Parse(c.from)
			if err != nil {
				t.Fatal(err)
			}
			u, err := reg.ParseUnit(c.to)
			if err != nil {
				t.Fatal(err)
			}
			r, err := q.To(u)
			if err != nil {
				t.Fatal(err)
			}
			if !near(r.Value, c.want) {
				t.Errorf("%s to %s: want %.12g, got %.12g", c.from, c.to, c.want, r.Value)
			}
		})
	}
}

func TestToInconsistent(t *testing.T) {
	reg := units.Default()
	q, _ := reg.Parse("3 m")
	u, _ := reg.ParseUnit("kg")
	_, err := q.To(u)
	var e *units.InconsistentUnitsError
	if !errors.As(err, &e) {
		t.Fatalf("expected InconsistentUnitsError, got %v", err)
	}
	if e.From != "m" || e.To != "kg" {
		t.Errorf("wrong units in error: %+v", e)
	}
	if ok, _ := regexp.MatchString(`^cannot convert from "m" to "kg"$`, err.Error()); !ok {
		t.Errorf("wrong message %q", err.Error())
	}
}

func TestRoundTrip(t *testing.T) {
	reg := units.Default()
	names := reg.Names()
	for _, a := range names {
		ua, err := reg.ParseUnit(a)
		if err != nil {
			continue
		}
		for _, b := range names {
			ub, err := reg.ParseUnit(b)
			if err != nil {
				continue
			}
			if ua.Dims() != ub.Dims() {
				continue
			}
			q := units.Quantity{Value: 37.5, Unit: ua}
			r, err := q.To(ub)
			if err != nil {
				t.Errorf("%s to %s: %v", a, b, err)
				continue
			}
			s, err := r.To(ua)
			if err != nil {
				t.Errorf("%s to %s: %v", b, a, err)
				continue
			}
			if !near(s.Value, q.Value) {
				t.Errorf("%s -> %s -> %s: want %g, got %g", a, b, a, q.Value, s.Value)
			}
		}
	}
}

func TestArithmetic(t *testing.T) {
	reg := units.Default()
	ft, _ := reg.Parse("1 ft")
	in, _ := reg.Parse("6 in")
	kg, _ := reg.Parse("2 kg")

	sum, err := ft.Add(in)
	if err != nil {
		t.Fatal(err)
	}
	if !near(sum.Value, 1.5) || sum.Unit.String() != "ft" {
		t.Errorf("1 ft + 6 in: got %v", sum)
	}
	diff, err := in.Sub(ft)
	if err != nil {
		t.Fatal(err)
	}
	if !near(diff.Value, -6) || diff.Unit.String() != "in" {
		t.Errorf("6 in - 1 ft: got %v", diff)
	}
	if _, err := ft.Add(kg); err == nil {
		t.Error("1 ft + 2 kg: expected error")
	}
	if c, err := ft.Cmp(in); err != nil || c != 1 {
		t.Errorf("1 ft <=> 6 in: got %d, %v", c, err)
	}
	if s := ft.Mul(kg).String(); s != "2 ft*kg" {
		t.Errorf("1 ft * 2 kg: got %q", s)
	}
	if s := ft.Div(kg).String(); s != "0.5 ft/kg" {
		t.Errorf("1 ft / 2 kg: got %q", s)
	}
	if s := in.Pow(2).String(); s != "36 in^2" {
		t.Errorf("(6 in)^2: got %q", s)
	}
	if s := in.Neg().Abs().String(); s != "6 in" {
		t.Errorf("|-(6 in)|: got %q", s)
	}
	if d := ft.Div(ft).Unit; !d.IsZero() {
		t.Errorf("ft/ft should cancel, got %q", d)
	}
}

func TestSimplify(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"merge", "12 ft*in", "1 ft^2"},
		{"cancel", "500 m/km", "0.5"},
		{"newton", "3 kg*m/s^2", "3 N"},
		{"joule", "2 N*m", "2 J"},
		{"watt", "10 J/s", "10 W"},
		{"base", "6 W*s/N", "6 m"},
		{"single", "4 ft", "4 ft"},
		{"unknown-combo", "1 m*kg", "1 m*kg"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q, err := units.Default().Parse(c.src)
			if err != nil {
				t.Fatal(err)
			}
			if s := units.Default().Simplify(q).String(); s != c.want {
				t.Errorf("want %q, got %q", c.want, s)
			}
		})
	}
}

func TestExpand(t *testing.T) {
	q, _ := units.Default().Parse("1 kWh")
	e := units.Default().Expand(q)
	if !near(e.Value, 3.6e6) {
		t.Errorf("wrong magnitude %g", e.Value)
	}
	if s := e.Unit.String(); s != "m^2*kg/s^2" {
		t.Errorf("wrong unit %q", s)
	}
	c, _ := units.Default().Parse("25 degC")
	if k := units.Default().Expand(c); !near(k.Value, 298.15) || k.Unit.String() != "K" {
		t.Errorf("25 degC expanded: got %v", k)
	}
}

func TestSimplifyRegistry(t *testing.T) {
	reg := units.NewRegistry(units.Def{
		Names:  []string{"N"},
		Dims:   units.Dims{units.Mass: 1, units.Length: 1, units.Time: -2},
		Factor: 1000,
	})
	q, err := reg.Parse("3000 kg*m/s^2")
	if err != nil {
		t.Fatal(err)
	}
	if s := reg.Simplify(q).String(); s != "3 N" {
		t.Errorf("want %q, got %q", "3 N", s)
	}
	if s := units.Default().Simplify(q).String(); s != "3000 N" {
		t.Errorf("default registry: want %q, got %q", "3000 N", s)
	}
	// Redefining a base symbol with another dimension leaves Expand on the
	// builtin unit.
	odd := units.NewRegistry(units.Def{
		Names:  []string{"m"},
		Dims:   units.Dims{units.Time: 1},
		Factor: 60,
	})
	f, err := odd.Parse("2 ft")
	if err != nil {
		t.Fatal(err)
	}
	if e := odd.Expand(f); !near(e.Value, 0.6096) || e.Unit.String() != "m" {
		t.Errorf("2 ft expanded: got %v", e)
	}
}

func TestFloat(t *testing.T) {
	q, _ := units.Default().Parse("50 pct")
	if f, ok := q.Float(); !ok || f != 0.5 {
		t.Errorf("50 pct: got %g, %t", f, ok)
	}
	m, _ := units.Default().Parse("50 m")
	if _, ok := m.Float(); ok {
		t.Error("50 m should not be a plain number")
	}
}

func TestCustomRegistry(t *testing.T) {
	reg := units.NewRegistry(units.Def{
		Names:  []string{"smoot", "smoots"},
		Dims:   units.Dims{units.Length: 1},
		Factor: 1.7018,
	})
	q, err := reg.Parse("364.4 smoots")
	if err != nil {
		t.Fatal(err)
	}
	u, _ := reg.ParseUnit("m")
	r, _ := q.To(u)
	if !near(r.Value, 364.4*1.7018) {
		t.Errorf("wrong conversion %g", r.Value)
	}
	if _, err := units.Default().Parse("1 smoot"); err == nil {
		t.Error("custom unit leaked into the default registry")
	}
}
