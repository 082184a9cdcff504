package beecalc

import (
	"io"
	"strings"
	"testing"
)

func TestLex(t *testing.T) {
	cases := []struct {
		src    string
		tokens []lexToken
		errs   int
	}{
		// spaces
		{"", nil, 0},
		{" \t \r\n ", nil, 0},
		// numbers
		{"0", []lexToken{{text: "0", kind: tokenNum, pos: 1}}, 0},
		{"9876543210", []lexToken{{text: "9876543210", kind: tokenNum, pos: 1}}, 0},
		{"1 0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"1.0", []lexToken{{text: "1.0", kind: tokenNum, pos: 1}}, 0},
		{"-1", []lexToken{{text: "-", kind: tokenOp, pos: 1}, {text: "1", kind: tokenNum, pos: 2}}, 0},
		{"1e1", []lexToken{{text: "1e1", kind: tokenNum, pos: 1}}, 0},
		{"1e", []lexToken{{pos: 1}}, 1},
		{"1e+1", []lexToken{{text: "1e+1", kind: tokenNum, pos: 1}}, 0},
		{"1e-1", []lexToken{{text: "1e-1", kind: tokenNum, pos: 1}}, 0},
		{"1.1.1", []lexToken{{pos: 1}, {text: "1", kind: tokenNum, pos: 5}}, 1},
		{"1.0e1", []lexToken{{text: "1.0e1", kind: tokenNum, pos: 1}}, 0},
		{".", []lexToken{{pos: 1}}, 1},
		{".1", []lexToken{{text: ".1", kind: tokenNum, pos: 1}}, 0},
		{".1e1", []lexToken{{text: ".1e1", kind: tokenNum, pos: 1}}, 0},
		{"1+0", []lexToken{{text: "1", kind: tokenNum, pos: 1}, {text: "+", kind: tokenOp, pos: 2}, {text: "0", kind: tokenNum, pos: 3}}, 0},
		{"1a", []lexToken{{pos: 1}}, 1},
		{"0x1f", []lexToken{{text: "0x1f", kind: tokenNum, pos: 1}}, 0},
		{"0XFF", []lexToken{{text: "0XFF", kind: tokenNum, pos: 1}}, 0},
		{"0o17", []lexToken{{text: "0o17", kind: tokenNum, pos: 1}}, 0},
		{"0b101", []lexToken{{text: "0b101", kind: tokenNum, pos: 1}}, 0},
		{"0b102", []lexToken{{pos: 1}}, 1},
		{"0x", []lexToken{{pos: 1}}, 1},
		{"10x1", []lexToken{{pos: 1}, {text: "1", kind: tokenNum, pos: 4}}, 1},
		// identifiers
		{"e", []lexToken{{text: "e", kind: tokenIdent, pos: 1}}, 0},
		{"e1", []lexToken{{text: "e1", kind: tokenIdent, pos: 1}}, 0},
		{"π", []lexToken{{text: "π", kind: tokenIdent, pos: 1}}, 0},
		{"eπ", []lexToken{{text: "eπ", kind: tokenIdent, pos: 1}}, 0},
		{"_1234_", []lexToken{{text: "_1234_", kind: tokenIdent, pos: 1}}, 0},
		{"pi(", []lexToken{{text: "pi", kind: tokenIdent, pos: 1}, {text: "(", kind: tokenOpen, pos: 3}}, 0},
		{"2 in m", []lexToken{{text: "2", kind: tokenNum, pos: 1}, {text: "in", kind: tokenIdent, pos: 3}, {text: "m", kind: tokenIdent, pos: 6}}, 0},
		// strings
		{"'m'", []lexToken{{text: "m", kind: tokenStr, pos: 1}}, 0},
		{`"lb"`, []lexToken{{text: "lb", kind: tokenStr, pos: 1}}, 0},
		{"'2 lb'", []lexToken{{text: "2 lb", kind: tokenStr, pos: 1}}, 0},
		{`'a"b'`, []lexToken{{text: `a"b`, kind: tokenStr, pos: 1}}, 0},
		{"''", []lexToken{{text: "", kind: tokenStr, pos: 1}}, 0},
		{"'abc", []lexToken{{pos: 1}}, 1},
		// operators
		{"+", []lexToken{{text: "+", kind: tokenOp, pos: 1}}, 0},
		{"++", []lexToken{{text: "+", kind: tokenOp, pos: 1}, {text: "+", kind: tokenOp, pos: 2}}, 0},
		{"**", []lexToken{{text: "**", kind: tokenOp, pos: 1}}, 0},
		{"2**3", []lexToken{{text: "2", kind: tokenNum, pos: 1}, {text: "**", kind: tokenOp, pos: 2}, {text: "3", kind: tokenNum, pos: 4}}, 0},
		{"***", []lexToken{{text: "**", kind: tokenOp, pos: 1}, {text: "*", kind: tokenOp, pos: 3}}, 0},
		{"//", []lexToken{{text: "//", kind: tokenOp, pos: 1}}, 0},
		{"<<>>", []lexToken{{text: "<<", kind: tokenOp, pos: 1}, {text: ">>", kind: tokenOp, pos: 3}}, 0},
		{"<>", []lexToken{{text: "<", kind: tokenOp, pos: 1}, {text: ">", kind: tokenOp, pos: 2}}, 0},
		{"<=", []lexToken{{text: "<=", kind: tokenOp, pos: 1}}, 0},
		{"!=", []lexToken{{text: "!=", kind: tokenOp, pos: 1}}, 0},
		{"==", []lexToken{{text: "==", kind: tokenOp, pos: 1}}, 0},
		{"a=b", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {text: "=", kind: tokenOp, pos: 2}, {text: "b", kind: tokenIdent, pos: 3}}, 0},
		{"2×3", []lexToken{{text: "2", kind: tokenNum, pos: 1}, {text: "×", kind: tokenOp, pos: 2}, {text: "3", kind: tokenNum, pos: 3}}, 0},
		{"a--b", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {text: "-", kind: tokenOp, pos: 2}, {text: "-", kind: tokenOp, pos: 3}, {text: "b", kind: tokenIdent, pos: 4}}, 0},
		{"!", []lexToken{{pos: 1}}, 1},
		{"!a", []lexToken{{pos: 1}, {text: "a", kind: tokenIdent, pos: 2}}, 1},
		// punctuation
		{"()", []lexToken{{text: "(", kind: tokenOpen, pos: 1}, {text: ")", kind: tokenClose, pos: 2}}, 0},
		{"(1, 2)", []lexToken{{text: "(", kind: tokenOpen, pos: 1}, {text: "1", kind: tokenNum, pos: 2}, {text: ",", kind: tokenSep, pos: 3}, {text: "2", kind: tokenNum, pos: 5}, {text: ")", kind: tokenClose, pos: 6}}, 0},
		// erroneous symbols
		{"$", []lexToken{{pos: 1}}, 1},
		{"a$", []lexToken{{text: "a", kind: tokenIdent, pos: 1}, {pos: 2}}, 1},
		{"$a", []lexToken{{pos: 1}, {text: "a", kind: tokenIdent, pos: 2}}, 1},
		{"0$", []lexToken{{text: "0", kind: tokenNum, pos: 1}, {pos: 2}}, 1},
		{"$$", []lexToken{{pos: 1}, {pos: 2}}, 2},
		{"[x]", []lexToken{{pos: 1}, {text: "x", kind: tokenIdent, pos: 2}, {pos: 3}}, 2},
	}

	for _, c := range cases {
		scan := lex(strings.NewReader(c.src))
		for _, want := range c.tokens {
			got, err := scan.next()
			if err == io.EOF {
				t.Errorf("scanning %q: expected token %v but got EOF", c.src, want)
				continue
			}
			if got != want {
				t.Errorf("scanning %q: want %v, got %v", c.src, want, got)
			}
			if err != nil {
				if c.errs > 0 {
					c.errs--
					continue
				}
				t.Errorf("scanning %q: unexpected error %v", c.src, err)
			}
		}
		for got, err := scan.next(); err != io.EOF; got, err = scan.next() {
			if err == nil && got.kind == tokenEOF {
				continue
			}
			if c.errs > 0 {
				c.errs--
			}
			t.Errorf("scanning %q: extra token %v with error: %v", c.src, got, err)
		}
		if c.errs > 0 {
			t.Errorf("scanning %q: not enough errors", c.src)
		}
	}
}

func TestLexPush(t *testing.T) {
	scan := lex(strings.NewReader("x y"))
	x, err := scan.next()
	if err != nil {
		t.Fatal(err)
	}
	scan.push(x)
	if got := scan.must(); got != x {
		t.Errorf("must after push: want %v, got %v", x, got)
	}
	y, err := scan.next()
	if err != nil {
		t.Fatal(err)
	}
	if y.text != "y" || y.pos != 3 {
		t.Errorf("wrong token after must: %v", y)
	}
	eof, err := scan.next()
	if err != nil || eof.kind != tokenEOF {
		t.Errorf("want EOF token, got %v with error %v", eof, err)
	}
	if _, err := scan.next(); err != io.EOF {
		t.Errorf("want io.EOF after EOF token, got %v", err)
	}
}

func TestLexErrorCol(t *testing.T) {
	cases := []struct {
		src  string
		kind string
		col  int
	}{
		{"$", "", 2},
		{"1 + $", "", 6},
		{"1.2.3", "number", 5},
		{"'abc", "string", 5},
		{"!", "operator", 2},
	}
	for _, c := range cases {
		scan := lex(strings.NewReader(c.src))
		var err error
		for err == nil {
			var tok lexToken
			tok, err = scan.next()
			if err == nil && tok.kind == tokenEOF {
				t.Fatalf("no error scanning %q", c.src)
			}
		}
		le, ok := err.(*LexError)
		if !ok {
			t.Errorf("scanning %q: want *LexError, got %#v", c.src, err)
			continue
		}
		if le.Kind != c.kind || le.Col != c.col {
			t.Errorf("scanning %q: want %s error at %d, got %s at %d", c.src, c.kind, c.col, le.Kind, le.Col)
		}
	}
}
