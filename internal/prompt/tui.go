package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/roach88/acvinq/internal/config"
	"github.com/roach88/acvinq/internal/inquiry"
)

// TUI prompts with a bubbletea program per question.
type TUI struct {
	in     io.Reader
	out    io.Writer
	styles Styles

	// notice is shown on the next question and then cleared.
	notice string
}

var _ inquiry.Prompter = (*TUI)(nil)

// NewTUI returns a terminal prompter using theme's palette.
func NewTUI(in io.Reader, out io.Writer, theme config.Theme) *TUI {
	return &TUI{in: in, out: out, styles: NewStyles(out, theme)}
}

// AskOpen runs a free-text question.
func (t *TUI) AskOpen(ctx context.Context, question string) (string, error) {
	m, err := t.run(ctx, newOpenModel(question, t.takeNotice(), t.styles))
	if err != nil {
		return "", err
	}
	return m.answer, nil
}

// AskYesNo runs a yes/no question.
func (t *TUI) AskYesNo(ctx context.Context, question string) (bool, error) {
	m, err := t.run(ctx, newYesNoModel(question, t.takeNotice(), t.styles))
	if err != nil {
		return false, err
	}
	return m.yes, nil
}

// Notify prints confirmations directly. The empty-answer warning is held
// for the next question's screen instead.
func (t *TUI) Notify(message string) {
	if message == inquiry.MsgEmpty {
		t.notice = message
		return
	}
	fmt.Fprintln(t.out, t.styles.Notice.Render(message))
}

func (t *TUI) takeNotice() string {
	n := t.notice
	t.notice = ""
	return n
}

func (t *TUI) run(ctx context.Context, m questionModel) (questionModel, error) {
	p := tea.NewProgram(m,
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return questionModel{}, ctxErr
		}
		if errors.Is(err, tea.ErrProgramKilled) {
			return questionModel{}, inquiry.ErrDismissed
		}
		return questionModel{}, fmt.Errorf("run prompt: %w", err)
	}

	qm, ok := final.(questionModel)
	if !ok {
		return questionModel{}, fmt.Errorf("run prompt: unexpected model %T", final)
	}
	if qm.dismissed || !qm.answered {
		return questionModel{}, inquiry.ErrDismissed
	}
	return qm, nil
}
