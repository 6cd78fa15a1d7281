// Package prompt provides the line-oriented interactive I/O used for
// show disambiguation, manual episode entry and rename confirmation.
package prompt

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
)

// Prompter reads operator answers line by line. All methods return
// io.EOF when the input stream ends.
type Prompter struct {
	in  *Reader
	out io.Writer
}

// New creates a Prompter over the given streams.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: NewReader(in), out: out}
}

// Line prints the message and returns the operator's trimmed answer.
func (p *Prompter) Line(msg string) (string, error) {
	fmt.Fprint(p.out, msg)
	line, err := p.in.ReadLine()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. Empty input counts as yes.
func (p *Prompter) Confirm(msg string) (bool, error) {
	answer, err := p.Line(msg + " [Y/n] ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "" || answer == "y" || answer == "yes", nil
}

// Select asks for a 1-based choice among n options and returns its
// zero-based index. Out-of-range or non-numeric answers re-prompt.
func (p *Prompter) Select(msg string, n int) (int, error) {
	for {
		answer, err := p.Line(msg)
		if err != nil {
			return 0, err
		}
		choice, err := strconv.Atoi(answer)
		if err != nil || choice < 1 || choice > n {
			fmt.Fprintf(p.out, "enter a number between 1 and %d\n", n)
			continue
		}
		return choice - 1, nil
	}
}

// Interactive reports whether stdin is attached to a terminal.
func Interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
