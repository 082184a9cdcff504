package beecalc

import (
	"strings"

	"fortio.org/log"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Notebook is a calculation session: a history of lines and their results
// sharing one set of variables. After each line with a non-empty result, the
// variable ans holds that result. A Notebook is not safe for concurrent use.
type Notebook struct {
	calc   *Calc
	ctx    *Context
	input  []string
	output []Value
}

// Result is the outcome of one line in Notebook.Run.
type Result struct {
	// Input is the line as given.
	Input string
	// Value is the result, or nil if Err is not nil. Blank and comment-only
	// lines produce Empty.
	Value Value
	// Err is the error evaluating the line, if any.
	Err error
}

// Stats summarizes the numeric results in a notebook.
type Stats struct {
	// N is the number of results with a magnitude.
	N int
	// Sum and Avg are the sum and mean of those magnitudes.
	Sum, Avg float64
}

// NewNotebook creates a notebook evaluating with c. If c is nil, the notebook
// uses Default().
func NewNotebook(c *Calc, opts ...ContextOption) *Notebook {
	if c == nil {
		c = std
	}
	return &Notebook{calc: c, ctx: NewContext(opts...)}
}

// Append evaluates one line. A non-empty result is recorded in the history
// and assigned to ans. Errors leave the history and variables unchanged,
// except for assignments that completed before the error.
func (nb *Notebook) Append(line string) (Value, error) {
	v, err := nb.calc.EvalLine(nb.ctx, line)
	if err != nil {
		return nil, err
	}
	if _, ok := v.(Empty); ok {
		return v, nil
	}
	nb.input = append(nb.input, line)
	nb.output = append(nb.output, v)
	nb.ctx.Set("ans", v)
	return v, nil
}

// Clear empties the history and the variables.
func (nb *Notebook) Clear() {
	nb.input = nil
	nb.output = nil
	nb.ctx.Clear()
}

// Run clears the notebook and evaluates every line in order, as when a whole
// sheet is edited. Errors are recorded per line and do not stop the run.
func (nb *Notebook) Run(lines []string) []Result {
	nb.Clear()
	r := make([]Result, len(lines))
	for i, line := range lines {
		v, err := nb.Append(line)
		r[i] = Result{Input: line, Value: v, Err: err}
	}
	log.LogVf("ran %d lines, %d results", len(lines), len(nb.output))
	return r
}

// Len returns the number of recorded results.
func (nb *Notebook) Len() int {
	return len(nb.output)
}

// History returns copies of the recorded lines and their results. The two
// slices have the same length.
func (nb *Notebook) History() (input []string, output []Value) {
	input = append([]string(nil), nb.input...)
	output = append([]Value(nil), nb.output...)
	return input, output
}

// Context returns the notebook's variables.
func (nb *Notebook) Context() *Context {
	return nb.ctx
}

// Vars returns the names of the notebook's variables in sorted order.
func (nb *Notebook) Vars() []string {
	return nb.ctx.Vars()
}

// Stats computes the count, sum, and mean of the magnitudes of the recorded
// results. Results without a magnitude, like complex numbers, are skipped.
func (nb *Notebook) Stats() Stats {
	var s Stats
	for _, v := range nb.output {
		f, ok := Float(v)
		if !ok {
			continue
		}
		s.N++
		s.Sum += f
	}
	if s.N > 0 {
		s.Avg = s.Sum / float64(s.N)
	}
	return s
}

// Complete returns candidate completions of word from variables, constants,
// functions, and units. Functions are suggested with an opening paren.
// Candidates that start with word come first in sorted order, followed by
// fuzzy matches.
func (nb *Notebook) Complete(word string) []string {
	if word == "" {
		return nil
	}
	var cands []string
	seen := make(map[string]bool)
	add := func(names []string, suffix string) {
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				cands = append(cands, name+suffix)
			}
		}
	}
	add(nb.ctx.Vars(), "")
	add(nb.calc.cnames, "")
	add(nb.calc.fnames, "(")
	add(nb.calc.reg.Names(), "")

	var prefix, rest []string
	for _, c := range cands {
		if strings.HasPrefix(c, word) {
			prefix = append(prefix, c)
		} else {
			rest = append(rest, c)
		}
	}
	sortstrs(prefix)
	fz := fuzzy.FindFold(word, rest)
	sortstrs(fz)
	return append(prefix, fz...)
}
