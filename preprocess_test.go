package beecalc

import (
	"testing"
)

func TestStages(t *testing.T) {
	cases := []struct {
		name  string
		stage func(*preprocessor, string) string
		in    string
		want  string
	}{
		{"trim", trimStage, "  2^3 \t", "2**3"},
		{"trim-noop", trimStage, "2**3", "2**3"},

		{"spaces-collapse", spacesStage, "a \t b", "a b"},
		{"spaces-arith", spacesStage, "1  +  2 * 3", "1+2*3"},
		{"spaces-parens", spacesStage, "f( x )", "f(x)"},
		{"spaces-unit", spacesStage, "2 lb", "2 lb"},
		{"spaces-compare", spacesStage, "x < 3", "x < 3"},

		{"comment", commentStage, "1+1 # sum", "1+1"},
		{"comment-only", commentStage, "# note", ""},
		{"comment-none", commentStage, "1+1", "1+1"},

		{"ans", ansStage, "@*2", "ans*2"},

		{"inch", inchStage, "12 in in ft", "12 in to ft"},
		{"inch-end", inchStage, "5 ft in in", "5 ft in in"},

		{"percent-of", percentOfStage, "20% of 80", "((20)/100)*80"},
		{"percent-of-spaced", percentOfStage, "50 % of 8", "((50 )/100)*8"},
		{"percent-of-first", percentOfStage, "1% of 2% of 3", "((1)/100)*2% of 3"},
		{"percent-of-none", percentOfStage, "20%", "20%"},

		{"percent", percentStage, "50%", "50pct"},
		{"percent-add", percentStage, "5%+1", "5pct+1"},
		{"percent-mod", percentStage, "8 % 3", "8 % 3"},
		{"percent-modtight", percentStage, "8%3", "8%3"},

		{"factorial", factorialStage, "5!", "factorial(5)"},
		{"factorial-space", factorialStage, "5 !", "factorial(5)"},
		{"factorial-two", factorialStage, "10!+2!", "factorial(10)+factorial(2)"},
		{"factorial-ne", factorialStage, "3 != 4", "3 != 4"},

		{"money", moneyStage, "$5", "5 USD"},
		{"money-cents", moneyStage, "$12.50*3", "12.50 USD*3"},
		{"money-to", moneyStage, "5 cent to $", "5 cent to USD"},

		{"convert-in", convertStage, "2 lb in g", "2 lb @@@ g"},
		{"convert-to", convertStage, "5 ft to m", "5 ft @@@ m"},
		{"convert-paren", convertStage, "(x) in m", "(x) @@@ m"},
		{"convert-power", convertStage, "m2 in ft2", "m2 @@@ ft2"},
		{"convert-superscript", convertStage, "2 m² in ft2", "2 m² @@@ ft2"},
		{"convert-inch", convertStage, "3 in+2", "3 in+2"},
		{"convert-bare", convertStage, "2 in m", "2 in m"},
		{"convert-trailing", convertStage, "2 m in", "2 m in"},

		{"superscript", superscriptStage, "m²", "m2"},
		{"superscript-cube", superscriptStage, "ft³", "ft3"},
		{"superscript-dot", superscriptStage, "a·b⋅c×d", "a*b*c*d"},

		{"units-number", unitsStage, "2 lb", "Unit('2 lb')"},
		{"units-tight", unitsStage, "90deg", "Unit('90 deg')"},
		{"units-bare", unitsStage, "lb", "Unit('lb')"},
		{"units-none", unitsStage, "2+3", "2+3"},
		{"units-call", unitsStage, "sin(x)", "sin(Unit('x'))"},
		{"units-real", unitsStage, "1.5e3 kg", "Unit('1.5e3 kg')"},
		{"units-power", unitsStage, "2 m**2", "Unit('2 m**2')"},
		{"units-digits", unitsStage, "5 ft3", "Unit('5 ft3')"},
		{"units-real-power", unitsStage, "1 m**0.5", "Unit('1 m')**0.5"},
		{"units-real-caret", unitsStage, "16 m2^2.5", "Unit('16 m2')^2.5"},
		{"units-equal", unitsStage, "1 m == 2 m", "Unit('1 m') == Unit('2 m')"},
		{"units-imag", unitsStage, "3j", "complex(0,3)"},
		{"units-imag-bare", unitsStage, "i", "complex(0,1)"},
		{"units-radix", unitsStage, "0x1f+1", "0x1f+1"},
		{"units-quoted", unitsStage, "'5 m'", "'5 m'"},
		{"units-assign", unitsStage, "x = 2", "x = 2"},
		{"units-ratio", unitsStage, "10 m/2 s", "Unit('10 m')/Unit('2 s')"},
		{"units-sentinel", unitsStage, "2 lb @@@ g", "Unit('2 lb') @@@ Unit('g')"},
		{"units-literal", unitsStage, "(Unit(5,'km'))*2", "(Unit(5,'km'))*2"},

		{"restore", restoreStage, "a @@@ b", "a in b"},

		{"implied", impliedStage, "(2+3)Unit('m')", "(2+3)*Unit('m')"},
		{"implied-space", impliedStage, "(2+3) Unit('m')", "(2+3)*Unit('m')"},
		{"implied-complex", impliedStage, "(2)complex(0,1)", "(2)*complex(0,1)"},
		{"implied-call", impliedStage, "sin(Unit('x'))", "sin(Unit('x'))"},
	}
	p := &preprocessor{c: std, ctx: NewContext()}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.stage(p, c.in); got != c.want {
				t.Errorf("wrong rewrite of %q: want %q, got %q", c.in, c.want, got)
			}
		})
	}
}

func TestNamesStage(t *testing.T) {
	km, err := std.reg.Parse("5 km")
	if err != nil {
		t.Fatal(err)
	}
	ctx := NewContext(SetVars(map[string]Value{
		"x":  NewInt(3),
		"pi": NewInt(3),
		"d":  Quantity{km},
		"h":  Text("0xff"),
	}))
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"var", "x*2", "(3)*2"},
		{"const", "pi*2", "(3.141592653589793)*2"},
		{"assign", "x = x+1", "x = (3)+1"},
		{"compare", "x == 3", "(3) == 3"},
		{"word", "2x", "2x"},
		{"unit", "2 d", "2 d"},
		{"quantity", "d in m", "(Unit(5,'km')) in m"},
		{"text", "h+1", "(0xff)+1"},
		{"quoted", "'x'", "'x'"},
		{"unknown", "y+1", "y+1"},
		{"call", "sin(x)", "sin((3))"},
	}
	p := &preprocessor{c: std, ctx: ctx}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := p.names(c.in); got != c.want {
				t.Errorf("wrong rewrite of %q: want %q, got %q", c.in, c.want, got)
			}
		})
	}
}

func TestLiteral(t *testing.T) {
	km, err := std.reg.Parse("5 km")
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name string
		v    Value
		want string
	}{
		{"int", NewInt(-7), "-7"},
		{"real", Real(0.1), "0.1"},
		{"realexp", Real(1e300), "1e+300"},
		{"complex", Complex(1 + 2i), "(1+2j)"},
		{"quantity", Quantity{km}, "Unit(5,'km')"},
		{"hex", Text("0xff"), "0xff"},
		{"text", Text("abc"), "'abc'"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := literal(c.v); got != c.want {
				t.Errorf("wrong literal for %v: want %q, got %q", c.v, c.want, got)
			}
		})
	}
}

func TestPreprocess(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"empty", "", "", false},
		{"blank", "  \t ", "", false},
		{"comment", "# shopping", "", false},
		{"trailing-comment", "1 + 1 # sum", "1+1", true},
		{"number", "42", "42", true},
		{"pow", "2^3", "2**3", true},
		{"convert", "2 lb in grams", "Unit('2 lb') in Unit('grams')", true},
		{"convert-to", "3 ft to in", "Unit('3 ft') in Unit('in')", true},
		{"inches", "12 in in ft", "Unit('12 in') in Unit('ft')", true},
		{"percent-of", "20% of 80", "((20)/100)*80", true},
		{"percent", "50%", "Unit('50 pct')", true},
		{"modulo", "8 % 3", "8 % 3", true},
		{"factorial", "5!", "factorial(5)", true},
		{"money", "$5", "Unit('5 USD')", true},
		{"angle", "sin(90deg)", "sin(Unit('90 deg'))", true},
		{"degree-sign", "cos(180°)", "cos(Unit('180 °'))", true},
		{"imag", "2+3i", "2+complex(0,3)", true},
		{"paren-unit", "(2+3) m", "(2+3)*Unit('m')", true},
		{"assign", "x = 3", "x = 3", true},
		{"assign-unit", "width = 20 ft", "width = Unit('20 ft')", true},
		{"rate", "100 km/h", "Unit('100 km')/Unit('h')", true},
		{"squared", "5 m²", "Unit('5 m2')", true},
		{"squared-convert", "2 m² in ft2", "Unit('2 m2') in Unit('ft2')", true},
		{"equal-units", "1 km == 1000 m", "Unit('1 km') == Unit('1000 m')", true},
		{"real-power", "1 m ** 0.5", "Unit('1 m')**0.5", true},
		{"const", "pi*2", "(3.141592653589793)*2", true},
		{"const-mul", "2pi", "Unit('2 pi')", true},
		{"ans", "@+1", "Unit('ans')+1", true},
		{"undefined", "y = x+1", "y = Unit('x')+1", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := std.Preprocess(NewContext(), c.in)
			if ok != c.ok {
				t.Errorf("wrong ok for %q: want %t, got %t", c.in, c.ok, ok)
			}
			if got != c.want {
				t.Errorf("wrong preprocessing of %q: want %q, got %q", c.in, c.want, got)
			}
		})
	}
}

func TestPreprocessVars(t *testing.T) {
	ctx := NewContext(SetVar("ans", NewInt(10)), SetVar("rate", Real(1.5)))
	cases := []struct {
		in   string
		want string
	}{
		{"@+1", "(10)+1"},
		{"ans * rate", "(10)*(1.5)"},
		{"rate = rate*2", "rate = (1.5)*2"},
	}
	for _, c := range cases {
		got, ok := std.Preprocess(ctx, c.in)
		if !ok || got != c.want {
			t.Errorf("wrong preprocessing of %q: want %q, got %q (%t)", c.in, c.want, got, ok)
		}
	}
}

func BenchmarkPreprocess(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"number", "2+3*4"},
		{"units", "2 lb in grams"},
		{"percent", "20% of 80"},
		{"vars", "ans * rate"},
	}
	ctx := NewContext(SetVar("ans", NewInt(10)), SetVar("rate", Real(1.5)))
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				std.Preprocess(ctx, c.src)
			}
		})
	}
}
