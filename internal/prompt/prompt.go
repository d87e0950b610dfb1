// Package prompt answers the yes/no question asked before a user is removed.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Static gives the same answer every time. HTTP callers use it to pass an
// answer the client already collected.
type Static bool

func (s Static) Confirm(string) bool {
	return bool(s)
}

// ParseAnswer reports whether s is a yes.
func ParseAnswer(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1":
		return true
	default:
		return false
	}
}

type Terminal struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewTerminal prompts on out only when in is a terminal, so piped input stays quiet.
func NewTerminal(in *os.File, out io.Writer) *Terminal {
	t := NewReader(in, out)
	t.interactive = term.IsTerminal(int(in.Fd()))
	return t
}

func NewReader(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Interactive reports whether the input is a terminal.
func (t *Terminal) Interactive() bool {
	return t.interactive
}

// ReadLine reads one line without its line ending.
func (t *Terminal) ReadLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && (line == "" || err != io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm blocks until a line is read. Anything but yes, including EOF, declines.
func (t *Terminal) Confirm(message string) bool {
	if t.interactive {
		fmt.Fprintf(t.out, "%s [y/N]: ", message)
	}
	line, err := t.ReadLine()
	if err != nil {
		return false
	}
	return ParseAnswer(line)
}
