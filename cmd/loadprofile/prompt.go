package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// prompter asks questions on the console.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

// Ask prints question and returns the trimmed answer. ok is false when the
// input is exhausted or the answer is empty.
func (p *prompter) Ask(question string) (string, bool) {
	fmt.Fprint(p.out, question)
	if !p.in.Scan() {
		fmt.Fprintln(p.out)
		return "", false
	}
	answer := strings.TrimSpace(p.in.Text())
	return answer, answer != ""
}

// Confirm asks a yes/no question; anything but y or yes is a no.
func (p *prompter) Confirm(question string) bool {
	answer, ok := p.Ask(question)
	if !ok {
		return false
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
