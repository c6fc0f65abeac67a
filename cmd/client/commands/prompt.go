package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// readLine returns the next line of input. The shell and the credential
// prompts share one scanner so buffered input is never lost between them.
func (a *app) readLine() (string, bool) {
	if a.lines == nil {
		a.lines = bufio.NewScanner(a.in)
	}
	if !a.lines.Scan() {
		return "", false
	}
	return strings.TrimRight(a.lines.Text(), "\r"), true
}

// ask prompts for label when *dst is empty.
func (a *app) ask(dst *string, label string) error {
	if *dst != "" {
		return nil
	}
	fmt.Fprintf(a.out, "%s: ", label)
	line, ok := a.readLine()
	if !ok {
		fmt.Fprintln(a.out)
		return fmt.Errorf("%s: %w", strings.ToLower(label), io.ErrUnexpectedEOF)
	}
	*dst = line
	return nil
}
