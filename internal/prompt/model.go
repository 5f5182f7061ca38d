package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// questionKind selects how a questionModel collects its answer.
type questionKind int

const (
	kindOpen questionKind = iota
	kindYesNo
)

// questionModel shows one question and quits once it has an answer or
// the user dismisses it.
type questionModel struct {
	kind     questionKind
	question string
	notice   string
	input    textinput.Model
	styles   Styles

	answer    string
	yes       bool
	answered  bool
	dismissed bool
}

func newOpenModel(question, notice string, styles Styles) questionModel {
	in := textinput.New()
	in.Placeholder = "e.g. writing the weekly report"
	in.CharLimit = 500
	in.Width = 60
	in.Prompt = "> "
	in.Focus()

	return questionModel{
		kind:     kindOpen,
		question: question,
		notice:   notice,
		input:    in,
		styles:   styles,
	}
}

func newYesNoModel(question, notice string, styles Styles) questionModel {
	return questionModel{
		kind:     kindYesNo,
		question: question,
		notice:   notice,
		styles:   styles,
	}
}

func (m questionModel) Init() tea.Cmd {
	if m.kind == kindOpen {
		return textinput.Blink
	}
	return nil
}

func (m questionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.kind == kindOpen {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.dismissed = true
		return m, tea.Quit
	}

	if m.kind == kindYesNo {
		switch strings.ToLower(key.String()) {
		case "y", "s":
			m.yes, m.answered = true, true
			return m, tea.Quit
		case "n":
			m.yes, m.answered = false, true
			return m, tea.Quit
		}
		return m, nil
	}

	if key.Type == tea.KeyEnter {
		m.answer = m.input.Value()
		m.answered = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m questionModel) View() string {
	if m.answered || m.dismissed {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Activity Inquirer"))
	b.WriteString("\n\n")
	if m.notice != "" {
		b.WriteString(m.styles.Warning.Render(m.notice))
		b.WriteString("\n\n")
	}
	b.WriteString(m.styles.Prompt.Render(m.question))
	b.WriteString("\n\n")

	if m.kind == kindOpen {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(m.styles.Hint.Render("enter: save • esc: close"))
	} else {
		b.WriteString(m.styles.Hint.Render("y: yes • n: no • esc: close"))
	}
	b.WriteString("\n")
	return b.String()
}
