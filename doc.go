// Package beecalc implements a line-oriented notebook calculator with units.
//
// Each line is written the way you would jot math in your notes: "2 lb in
// grams", "width = 20 ft", "sin(90deg)", "20% of 80", "5!", "$12 * 3". A
// preprocessor rewrites the line into an ordinary arithmetic expression,
// which is parsed and evaluated with Python-like semantics: integers have
// any size, / always produces a real, and ** is right-associative. Values
// carrying units are handled by package units.
//
// A Notebook keeps the variables of a session. Every line with a result
// assigns it to ans, which later lines may also spell @. Constants like pi
// take precedence over variables of the same name.
package beecalc
