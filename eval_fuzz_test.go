//go:build go1.18
// +build go1.18

package beecalc_test

import (
	"testing"

	"github.com/zephyrtronium/beecalc"
)

func FuzzEval(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1×2")
	f.Add("2 lb in grams")
	f.Add("20% of 80")
	f.Add("sin(90deg)")
	f.Add("$12 * 3")
	f.Add("5!")
	f.Fuzz(func(t *testing.T, s string) {
		beecalc.EvalString(s, beecalc.SetVar("x", beecalc.NewInt(0)))
	})
}

func FuzzNotebook(f *testing.F) {
	f.Add("x = 3", "x * 2 m")
	f.Add("2+3", "@ in ft")
	f.Fuzz(func(t *testing.T, a, b string) {
		nb := beecalc.NewNotebook(nil)
		nb.Append(a)
		nb.Append(b)
		in, out := nb.History()
		if len(in) != len(out) || len(out) != nb.Len() {
			t.Errorf("history lengths differ: %d inputs, %d outputs, Len %d", len(in), len(out), nb.Len())
		}
	})
}
