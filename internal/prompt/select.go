package prompt

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/roach88/acvinq/internal/config"
	"github.com/roach88/acvinq/internal/inquiry"
)

// IsTerminal reports whether f is a terminal, including Cygwin ptys.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ForFiles picks the TUI when both in and out are terminals and the line
// prompter otherwise.
func ForFiles(in, out *os.File, theme config.Theme) inquiry.Prompter {
	if IsTerminal(in) && IsTerminal(out) {
		return NewTUI(in, out, theme)
	}
	return NewLine(in, out)
}
