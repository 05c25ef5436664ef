package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fwojciec/outreach"
)

// prompter asks questions on out and reads one answer per line from in.
type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{scanner: bufio.NewScanner(in), out: out}
}

// ask returns the trimmed answer, or def when the answer is blank or the
// input has ended.
func (p *prompter) ask(question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "> %s [%s]: ", question, def)
	} else {
		fmt.Fprintf(p.out, "> %s: ", question)
	}

	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		fmt.Fprintln(p.out)
		return def, nil
	}
	answer := strings.TrimSpace(p.scanner.Text())
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// confirm asks a yes/no question. Russian answers are accepted too.
func (p *prompter) confirm(question string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	answer, err := p.ask(question+" ("+hint+")", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "":
		return def, nil
	case "y", "yes", "д", "да":
		return true, nil
	case "n", "no", "н", "нет":
		return false, nil
	}
	return false, outreach.Errorf(outreach.EINVALID, "answer %q is not yes or no", answer)
}

func (p *prompter) integer(question string, def int) (int, error) {
	answer, err := p.ask(question, strconv.Itoa(def))
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return 0, outreach.Errorf(outreach.EINVALID, "%s: %q is not a number", strings.ToLower(question), answer)
	}
	return n, nil
}
