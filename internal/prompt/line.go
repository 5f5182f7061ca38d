package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/acvinq/internal/inquiry"
)

// Line prompts on a line-oriented stream. End of input dismisses the
// prompt.
type Line struct {
	in  *bufio.Reader
	out io.Writer
}

var _ inquiry.Prompter = (*Line)(nil)

// NewLine returns a line prompter reading answers from in.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{in: bufio.NewReader(in), out: out}
}

// AskOpen prints question and reads one line.
func (l *Line) AskOpen(ctx context.Context, question string) (string, error) {
	fmt.Fprintf(l.out, "%s\n> ", question)
	return l.readLine(ctx)
}

// AskYesNo prints question and reads until a yes or no answer.
func (l *Line) AskYesNo(ctx context.Context, question string) (bool, error) {
	for {
		fmt.Fprintf(l.out, "%s [y/n] ", question)
		answer, err := l.readLine(ctx)
		if err != nil {
			return false, err
		}
		if yes, ok := parseYesNo(answer); ok {
			return yes, nil
		}
		fmt.Fprintln(l.out, "Please answer y or n.")
	}
}

// Notify prints message on its own line.
func (l *Line) Notify(message string) {
	fmt.Fprintln(l.out, message)
}

// readLine blocks on the reader; ctx is only checked before reading since
// the daemon ends a stuck inquiry by killing the process.
func (l *Line) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := l.in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		if line == "" {
			fmt.Fprintln(l.out)
			return "", inquiry.ErrDismissed
		}
		// Last line without a newline still counts.
		return strings.TrimRight(line, "\r"), nil
	}
	if err != nil {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func parseYesNo(answer string) (yes bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "s", "sim":
		return true, true
	case "n", "no", "nao", "não":
		return false, true
	}
	return false, false
}
