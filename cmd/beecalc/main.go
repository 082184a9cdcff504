package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"fortio.org/log"
	"github.com/peterh/liner"

	"github.com/zephyrtronium/beecalc"
)

const historyFile = ".beecalc_history"

func main() {
	var (
		inname, verb      string
		with              [][2]string
		echo, repl, stats bool
		verbose, debug    bool
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%v", "result formatting string")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.BoolVar(&echo, "echo", false, "print preprocessed lines")
	flag.BoolVar(&repl, "i", false, "start an interactive session")
	flag.BoolVar(&stats, "stats", false, "print count, sum, and average of results")
	flag.BoolVar(&verbose, "v", false, "log preprocessing")
	flag.BoolVar(&debug, "debug", false, "log preprocessing stages and evaluation")
	flag.Parse()
	switch {
	case debug:
		log.SetLogLevel(log.Debug)
	case verbose:
		log.SetLogLevel(log.Verbose)
	}

	calc := beecalc.Default()
	nb := beecalc.NewNotebook(calc)
	for _, d := range with {
		r, err := calc.EvalLine(nb.Context(), d[1])
		if err != nil {
			log.Fatalf("setting %s: %v", d[0], err)
		}
		nb.Context().Set(d[0], r)
	}

	if repl {
		os.Exit(interact(nb))
	}

	var lines []string
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if f != nil {
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		if err := sc.Err(); err != nil {
			log.Fatalf("reading input: %v", err)
		}
	}
	lines = append(lines, flag.Args()...)

	verb += "\n"
	for _, line := range lines {
		if echo {
			src, _ := calc.Preprocess(nb.Context(), line)
			fmt.Printf("%s : ", src)
		}
		v, err := nb.Append(line)
		show(verb, v, err)
	}
	if stats {
		printStats(nb)
	}
}

func show(verb string, v beecalc.Value, err error) {
	switch {
	case err != nil:
		fmt.Printf("%s %v\n", beecalc.Placeholder(err), err)
	case v == beecalc.Empty{}:
		fmt.Println()
	default:
		fmt.Printf(verb, v)
	}
}

func printStats(nb *beecalc.Notebook) {
	s := nb.Stats()
	fmt.Printf("n=%d sum=%g avg=%g\n", s.N, s.Sum, s.Avg)
}

// interact runs a read-eval-print loop on nb and returns the exit code.
func interact(nb *beecalc.Notebook) int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetWordCompleter(func(line string, pos int) (head string, completions []string, tail string) {
		i := strings.LastIndexFunc(line[:pos], func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
		})
		word := line[i+1 : pos]
		return line[:i+1], nb.Complete(word), line[pos:]
	})

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt("> ")
		if err != nil {
			if err != io.EOF && err != liner.ErrPromptAborted {
				log.Errf("reading input: %v", err)
				return 1
			}
			fmt.Println()
			return 0
		}
		cmd := strings.TrimSpace(line)
		if cmd == "" {
			continue
		}
		ln.AppendHistory(line)
		switch cmd {
		case ":quit", ":q":
			return 0
		case ":clear":
			nb.Clear()
			continue
		case ":vars":
			for _, name := range nb.Vars() {
				fmt.Printf("%s = %v\n", name, nb.Context().Lookup(name))
			}
			continue
		case ":stats":
			printStats(nb)
			continue
		}
		if strings.HasPrefix(cmd, ":") {
			fmt.Println("unknown command; try :clear, :vars, :stats, or :quit")
			continue
		}
		v, err := nb.Append(line)
		show("%v\n", v, err)
	}
}

func infile(inname string, std bool) (io.Reader, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", std:
		return os.Stdin, nil
	}
	return nil, nil
}
