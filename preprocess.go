package beecalc

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"fortio.org/log"
)

// stage is one rewrite of the preprocessor. Stages run in order over the
// output of the previous stage. A stage that finds nothing to rewrite returns
// its input unchanged.
type stage struct {
	name string
	run  func(p *preprocessor, s string) string
}

// preprocessor holds the state of preprocessing one line.
type preprocessor struct {
	c   *Calc
	ctx *Context
}

// The order of stages matters. Comments go before any substitution, percent
// of must see % before it becomes a unit, names must be substituted before
// unit scanning so that variables holding quantities scan as units, and the
// conversion keyword must be hidden while units are scanned.
var stages = []stage{
	{"trim", trimStage},
	{"spaces", spacesStage},
	{"comment", commentStage},
	{"ans", ansStage},
	{"inch", inchStage},
	{"percent-of", percentOfStage},
	{"percent", percentStage},
	{"factorial", factorialStage},
	{"names", (*preprocessor).names},
	{"money", moneyStage},
	{"convert", convertStage},
	{"superscript", superscriptStage},
	{"units", unitsStage},
	{"restore", restoreStage},
	{"implied", impliedStage},
}

// Preprocess rewrites one line of calculator input into text for Parse. The
// second result is false if the line is blank or only a comment. Variables in
// ctx and the Calc's constants are substituted by value.
func (c *Calc) Preprocess(ctx *Context, line string) (string, bool) {
	p := preprocessor{c: c, ctx: ctx}
	s := line
	for _, st := range stages {
		t := st.run(&p, s)
		if t != s {
			log.Debugf("preprocess %s: %q -> %q", st.name, s, t)
		}
		s = t
		if s == "" {
			log.Debugf("preprocess %s: %q is empty", st.name, line)
			return "", false
		}
	}
	log.LogVf("preprocessed %q as %q", line, s)
	return s, true
}

// trimStage strips surrounding whitespace and spells the power operator **.
func trimStage(_ *preprocessor, s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "^", "**")
}

var spaceRuns = regexp.MustCompile(`\s+`)

// spacesStage collapses whitespace to single spaces, then removes spaces
// after ( and before ) and around arithmetic operators.
func spacesStage(_ *preprocessor, s string) string {
	s = spaceRuns.ReplaceAllString(s, " ")
	var b strings.Builder
	b.Grow(len(s))
	var prev byte
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			var next byte
			if i+1 < len(s) {
				next = s[i+1]
			}
			if next == ')' || prev == '(' || isArith(next) || isArith(prev) {
				continue
			}
		}
		b.WriteByte(s[i])
		prev = s[i]
	}
	return b.String()
}

func isArith(c byte) bool {
	return c != 0 && strings.IndexByte("+-*/", c) >= 0
}

// commentStage discards everything from # on.
func commentStage(_ *preprocessor, s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

// ansStage spells the previous answer @ as ans.
func ansStage(_ *preprocessor, s string) string {
	return strings.ReplaceAll(s, "@", "ans")
}

var doubleIn = regexp.MustCompile(` in in\s+`)

// inchStage rewrites "x in in y", a quantity of inches converted to y, so
// that the second in is the conversion keyword to.
func inchStage(_ *preprocessor, s string) string {
	return doubleIn.ReplaceAllString(s, " in to ")
}

var percentOf = regexp.MustCompile(`%\s+of\s+`)

// percentOfStage rewrites "x % of y" as ((x)/100)*y. Only the first
// occurrence is rewritten; the rest of the line is the y operand.
func percentOfStage(_ *preprocessor, s string) string {
	loc := percentOf.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return "((" + s[:loc[0]] + ")/100)*" + s[loc[1]:]
}

// percentStage rewrites each % that is not followed by a number as the
// percent unit pct. A % followed by a number is the modulo operator.
func percentStage(_ *preprocessor, s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			b.WriteByte(s[i])
			continue
		}
		j := i + 1
		for j < len(s) && s[j] == ' ' {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			b.WriteByte('%')
		} else {
			b.WriteString("pct")
		}
	}
	return b.String()
}

var factorialRE = regexp.MustCompile(`(\d+)\s*!`)

// factorialStage rewrites n! as factorial(n). A ! that begins != is left for
// the parser.
func factorialStage(_ *preprocessor, s string) string {
	locs := factorialRE.FindAllStringSubmatchIndex(s, -1)
	if locs == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range locs {
		if m[1] < len(s) && s[m[1]] == '=' {
			continue
		}
		b.WriteString(s[last:m[0]])
		b.WriteString("factorial(" + s[m[2]:m[3]] + ")")
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// names substitutes the values of constants and variables, in that order of
// precedence, for identifiers that name them. Assignment targets are left
// alone, as are identifiers directly after a number or name and a space,
// which are units.
func (p *preprocessor) names(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); {
		r, n := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '\'' || r == '"':
			j := quoteEnd(s, i)
			b.WriteString(s[i:j])
			i = j
		case unicode.IsLetter(r):
			j := identEnd(s, i)
			name := s[i:j]
			v := p.value(name)
			if v == nil || wordBefore(s, i) || unitContext(s, i) || assignedAt(s, j) {
				b.WriteString(name)
			} else {
				b.WriteString("(" + literal(v) + ")")
			}
			i = j
		default:
			b.WriteString(s[i : i+n])
			i += n
		}
	}
	return b.String()
}

// value finds the value of a constant or variable.
func (p *preprocessor) value(name string) Value {
	if v, ok := p.c.consts[name]; ok {
		return v
	}
	return p.ctx.Lookup(name)
}

// literal formats v as text that evaluates to v. Text holding an integer
// literal, as from hex, evaluates to the integer.
func literal(v Value) string {
	switch v := v.(type) {
	case Real:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	case Quantity:
		return "Unit(" + strconv.FormatFloat(v.Value, 'g', -1, 64) + ",'" + v.Unit.String() + "')"
	case Text:
		if _, ok := new(big.Int).SetString(string(v), 0); ok {
			return string(v)
		}
		return "'" + string(v) + "'"
	}
	return v.String()
}

// unitContext reports whether the identifier at i follows a number, name,
// closing paren, or the previous answer and a single space.
func unitContext(s string, i int) bool {
	if i < 2 || s[i-1] != ' ' {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i-1])
	return isWordRune(r) || r == '.' || r == '@' || r == ')'
}

// wordBefore reports whether the rune before i is part of a word, so that i is
// not at the start of an identifier.
func wordBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return isWordRune(r)
}

// assignedAt reports whether the text at j, after at most one space, is an
// assignment operator.
func assignedAt(s string, j int) bool {
	if j < len(s) && s[j] == ' ' {
		j++
	}
	return j < len(s) && s[j] == '=' && (j+1 == len(s) || s[j+1] != '=')
}

var (
	money   = regexp.MustCompile(`\$([0-9.]+)\b`)
	moneyTo = regexp.MustCompile(` to\s+\$`)
)

// moneyStage rewrites $5 as 5 USD and a conversion to $ as to USD.
func moneyStage(_ *preprocessor, s string) string {
	s = money.ReplaceAllString(s, "${1} USD")
	return moneyTo.ReplaceAllString(s, " to USD")
}

// sentinel stands for the conversion keyword while units are scanned.
const sentinel = "@@@"

var (
	toKeyword = regexp.MustCompile(`\s+to\s+`)
	inKeyword = regexp.MustCompile(`\s+in\s+`)
)

// convertStage replaces the conversion keywords to and in with a sentinel. The
// word in is the keyword only between a unit or parenthesized expression and
// a unit or parenthesized expression. After a bare number it is the unit
// inch.
func convertStage(_ *preprocessor, s string) string {
	s = toKeyword.ReplaceAllString(s, " "+sentinel+" ")
	locs := inKeyword.FindAllStringIndex(s, -1)
	if locs == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range locs {
		if !convertsFrom(s[:m[0]]) || !convertsTo(s[m[1]:]) {
			continue
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(" " + sentinel + " ")
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

// convertsFrom reports whether the text before an in ends with a unit or a
// closing paren.
func convertsFrom(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	if r == ')' {
		return true
	}
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsDigit(r) || strings.ContainsRune("⁰¹²³⁴⁵⁶⁷⁸⁹", r)
	})
	r, _ = utf8.DecodeLastRuneInString(s)
	return isUnitRune(r)
}

// convertsTo reports whether the text after an in begins a unit or a
// parenthesized expression.
func convertsTo(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == '(' || isUnitRune(r)
}

var superscripts = strings.NewReplacer(
	"⁰", "0", "¹", "1", "²", "2", "³", "3", "⁴", "4",
	"⁵", "5", "⁶", "6", "⁷", "7", "⁸", "8", "⁹", "9",
	"⋅", "*", "·", "*", "×", "*",
)

// superscriptStage spells superscript digits and multiplication dots in ASCII.
func superscriptStage(_ *preprocessor, s string) string {
	return superscripts.Replace(s)
}

// unitsStage replaces unit literals, optionally preceded by a number, with
// calls to Unit. The imaginary units i and j become calls to complex. Each
// literal is first replaced by an indexed placeholder so that the generated
// calls are never scanned themselves.
func unitsStage(_ *preprocessor, s string) string {
	var b strings.Builder
	var repl []string
	emit := func(num, sym string) {
		var r string
		switch {
		case sym == "i", sym == "j":
			if num == "" {
				num = "1"
			}
			r = "complex(0," + num + ")"
		case num == "":
			r = "Unit('" + sym + "')"
		default:
			r = "Unit('" + num + " " + sym + "')"
		}
		repl = append(repl, r)
		b.WriteString("@@" + strconv.Itoa(len(repl)) + "@@")
	}
	for i := 0; i < len(s); {
		r, n := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == '\'' || r == '"':
			j := quoteEnd(s, i)
			b.WriteString(s[i:j])
			i = j
		case isNumberStart(s, i):
			j, radix := numberEnd(s, i)
			if radix {
				b.WriteString(s[i:j])
				i = j
				break
			}
			k := j
			for k < len(s) && s[k] == ' ' {
				k++
			}
			if sym, e, ok := unitWord(s, k); ok {
				emit(s[i:j], sym)
				i = e
				break
			}
			b.WriteString(s[i:j])
			i = j
		case isUnitRune(r) && !wordBefore(s, i):
			if sym, e, ok := unitWord(s, i); ok {
				emit("", sym)
				i = e
				break
			}
			j := identEnd(s, i)
			b.WriteString(s[i:j])
			i = j
		default:
			b.WriteString(s[i : i+n])
			i += n
		}
	}
	out := b.String()
	for k, r := range repl {
		out = strings.Replace(out, "@@"+strconv.Itoa(k+1)+"@@", r, 1)
	}
	return out
}

// unitWord scans a unit symbol with optional trailing powers starting at i.
// It fails if the symbol is followed by more of a word, by a call, or by an
// assignment.
func unitWord(s string, i int) (sym string, end int, ok bool) {
	j := i
	for j < len(s) {
		r, n := utf8.DecodeRuneInString(s[j:])
		if !isUnitRune(r) {
			break
		}
		j += n
	}
	if j == i {
		return "", i, false
	}
	for {
		k := j
		switch {
		case strings.HasPrefix(s[k:], "**"):
			k += 2
		case k < len(s) && s[k] == '^':
			k++
		}
		d := k
		for d < len(s) && isDigit(s[d]) {
			d++
		}
		// A power followed by a decimal point is a real exponent, not part of
		// the unit.
		if d == k || d < len(s) && s[d] == '.' {
			break
		}
		j = d
	}
	if j < len(s) {
		r, _ := utf8.DecodeRuneInString(s[j:])
		if isWordRune(r) || r == '(' {
			return "", i, false
		}
	}
	t := j
	for t < len(s) && s[t] == ' ' {
		t++
	}
	if t < len(s) && s[t] == '=' && !strings.HasPrefix(s[t:], "==") {
		return "", i, false
	}
	return s[i:j], j, true
}

// isNumberStart reports whether a decimal number starts at i.
func isNumberStart(s string, i int) bool {
	if wordBefore(s, i) {
		return false
	}
	if isDigit(s[i]) {
		return true
	}
	return s[i] == '.' && i+1 < len(s) && isDigit(s[i+1])
}

// numberEnd finds the end of the number at i. An exponent is included only
// when digits follow it. radix is true for 0x, 0o, and 0b literals.
func numberEnd(s string, i int) (end int, radix bool) {
	j := i
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	if s[i] == '0' && j == i+1 && j < len(s) && strings.IndexByte("xXoObB", s[j]) >= 0 {
		return identEnd(s, j), true
	}
	if j < len(s) && s[j] == '.' {
		j++
		for j < len(s) && isDigit(s[j]) {
			j++
		}
	}
	if j < len(s) && (s[j] == 'e' || s[j] == 'E') {
		k := j + 1
		if k < len(s) && (s[k] == '+' || s[k] == '-') {
			k++
		}
		d := k
		for d < len(s) && isDigit(s[d]) {
			d++
		}
		if d > k {
			j = d
		}
	}
	return j, false
}

// restoreStage spells the conversion sentinel as the keyword in.
func restoreStage(_ *preprocessor, s string) string {
	return strings.ReplaceAll(s, sentinel, "in")
}

var implied = regexp.MustCompile(`\)\s*(Unit\('|complex\()`)

// impliedStage makes multiplication explicit between a closing paren and a
// following unit literal.
func impliedStage(_ *preprocessor, s string) string {
	return implied.ReplaceAllString(s, ")*${1}")
}

// identEnd finds the end of the word starting at i.
func identEnd(s string, i int) int {
	for i < len(s) {
		r, n := utf8.DecodeRuneInString(s[i:])
		if !isWordRune(r) && !isUnitRune(r) {
			break
		}
		i += n
	}
	return i
}

// quoteEnd finds the end of the quoted text starting at i, including the
// closing quote if there is one.
func quoteEnd(s string, i int) int {
	q := s[i]
	if j := strings.IndexByte(s[i+1:], q); j >= 0 {
		return i + 1 + j + 1
	}
	return len(s)
}

// isUnitRune reports whether r can be part of a unit symbol.
func isUnitRune(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '°'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
