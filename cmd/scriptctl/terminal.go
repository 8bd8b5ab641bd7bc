package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is swapped out in tests.
var readPassword = term.ReadPassword

// terminal bundles the streams a command talks to.
type terminal struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	// fd is the terminal descriptor for no-echo input, or -1.
	fd int
}

func newTerminal(in *os.File, out, errOut io.Writer) *terminal {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		fd = -1
	}
	return &terminal{in: in, out: out, errOut: errOut, fd: fd}
}

// Password prompts on errOut and reads without echo when attached to a
// terminal. Piped input is read as a single line.
func (t *terminal) Password(prompt string) (string, error) {
	fmt.Fprint(t.errOut, prompt)

	if t.fd >= 0 {
		pw, err := readPassword(t.fd)
		fmt.Fprintln(t.errOut)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}

	line, err := bufio.NewReader(t.in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
