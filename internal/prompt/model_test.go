package prompt

import (
	"bytes"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/acvinq/internal/config"
)

func testStyles() Styles {
	return NewStyles(&bytes.Buffer{}, config.ThemeGruvboxDark)
}

func update(t *testing.T, m questionModel, msg tea.Msg) (questionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	qm, ok := next.(questionModel)
	require.True(t, ok)
	return qm, cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestOpenModel_TypeAndSubmit(t *testing.T) {
	m := newOpenModel("What are you doing right now?", "", testStyles())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("code review")})
	assert.Equal(t, "code review", m.input.Value())
	assert.False(t, m.answered)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.answered)
	assert.Equal(t, "code review", m.answer)
	assert.True(t, isQuit(cmd))
}

func TestOpenModel_EmptySubmitIsStillAnAnswer(t *testing.T) {
	m := newOpenModel("q", "", testStyles())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.answered)
	assert.Equal(t, "", m.answer)
	assert.True(t, isQuit(cmd))
}

func TestModel_Dismiss(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		t.Run(key.String(), func(t *testing.T) {
			open, cmd := update(t, newOpenModel("q", "", testStyles()), tea.KeyMsg{Type: key})
			assert.True(t, open.dismissed)
			assert.True(t, isQuit(cmd))

			yn, cmd := update(t, newYesNoModel("q", "", testStyles()), tea.KeyMsg{Type: key})
			assert.True(t, yn.dismissed)
			assert.True(t, isQuit(cmd))
		})
	}
}

func TestYesNoModel_Keys(t *testing.T) {
	tests := []struct {
		key      string
		answered bool
		yes      bool
	}{
		{"y", true, true},
		{"Y", true, true},
		{"s", true, true},
		{"n", true, false},
		{"N", true, false},
		{"x", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := newYesNoModel(`Are you still doing "coding"?`, "", testStyles())
			m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.key)})

			assert.Equal(t, tt.answered, m.answered)
			assert.Equal(t, tt.yes, m.yes)
			assert.Equal(t, tt.answered, isQuit(cmd))
		})
	}
}

func TestModel_View(t *testing.T) {
	m := newOpenModel("What are you doing right now?", "Please type an activity.", testStyles())
	view := m.View()

	assert.Contains(t, view, "Activity Inquirer")
	assert.Contains(t, view, "What are you doing right now?")
	assert.Contains(t, view, "Please type an activity.")
	assert.Contains(t, view, "esc: close")

	yn := newYesNoModel(`Are you still doing "coding"?`, "", testStyles())
	assert.Contains(t, yn.View(), "y: yes")

	yn, _ = update(t, yn, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	assert.Empty(t, yn.View())
}
