package prompt

import (
	"bufio"
	"io"
	"strings"
)

// Reader wraps a buffered reader with line semantics that surface a
// final unterminated line before io.EOF.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps in for line-at-a-time reading.
func NewReader(in io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(in)}
}

// ReadLine returns the next line without its trailing newline. A last
// line missing its newline is still returned; the following call
// reports io.EOF.
func (r *Reader) ReadLine() (string, error) {
	line, err := r.r.ReadString('\n')
	if err == io.EOF && line != "" {
		return strings.TrimRight(line, "\r\n"), nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
