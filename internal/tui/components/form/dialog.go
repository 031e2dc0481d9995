package form

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/colonyops/mingle/internal/core/styles"
)

// popupHolder is implemented by fields that can claim tab/enter/esc while
// an inline popup is open.
type popupHolder interface {
	popupOpen() bool
}

// Dialog is a form container that manages focus cycling, submission, and
// cancellation across a set of form fields.
type Dialog struct {
	fields       []Field
	names        []string // parallel slice: value name for each field
	focusedField int
	submitted    bool
	cancelled    bool
	Title        string
}

// NewDialog creates a form dialog with the given fields and value names.
// The first field is focused automatically.
func NewDialog(title string, fields []Field, names []string) *Dialog {
	d := &Dialog{
		fields: fields,
		names:  names,
		Title:  title,
	}
	if len(fields) > 0 {
		fields[0].Focus()
	}
	return d
}

// Update handles key input for the dialog, managing focus cycling and
// submit/cancel. Mention lookup messages are fan-out delivered to every
// mention field since they can arrive after focus has moved on.
func (d *Dialog) Update(msg tea.Msg) (*Dialog, tea.Cmd) {
	switch msg.(type) {
	case mentionDebounceMsg, mentionResultsMsg, mentionCreatedMsg:
		return d.updateMentionFields(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d.updateFocusedField(msg)
	}

	key := keyMsg.String()

	switch key {
	case "tab":
		if d.isFocusedPopupOpen() {
			return d.updateFocusedField(msg)
		}
		return d.advanceFocus()
	case "shift+tab":
		return d.retreatFocus()
	case "enter":
		if d.isFocusedPopupOpen() {
			return d.updateFocusedField(msg)
		}
		return d.advanceFocus()
	case "esc":
		if d.isFocusedPopupOpen() {
			return d.updateFocusedField(msg)
		}
		d.cancelled = true
		return d, nil
	}

	return d.updateFocusedField(msg)
}

// View renders all fields vertically with spacing and help text.
func (d *Dialog) View() string {
	parts := []string{styles.FormTitleStyle.Render(d.Title)}
	for _, field := range d.fields {
		parts = append(parts, "", field.View())
	}

	help := styles.TextMutedStyle.Render("tab: next  shift+tab: prev  enter: submit  esc: cancel")
	parts = append(parts, "", help)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// FormValues returns a map of value names to field values.
func (d *Dialog) FormValues() map[string]any {
	result := make(map[string]any, len(d.fields))
	for i, field := range d.fields {
		result[d.names[i]] = field.Value()
	}
	return result
}

// Submitted returns whether the form was submitted.
func (d *Dialog) Submitted() bool { return d.submitted }

// Cancelled returns whether the form was cancelled.
func (d *Dialog) Cancelled() bool { return d.cancelled }

func (d *Dialog) advanceFocus() (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 {
		return d, nil
	}

	next := d.focusedField + 1
	if next >= len(d.fields) {
		// Past the last field. Submit.
		d.submitted = true
		return d, nil
	}

	d.fields[d.focusedField].Blur()
	d.focusedField = next
	cmd := d.fields[d.focusedField].Focus()
	return d, cmd
}

func (d *Dialog) retreatFocus() (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 || d.focusedField == 0 {
		return d, nil
	}

	d.fields[d.focusedField].Blur()
	d.focusedField--
	cmd := d.fields[d.focusedField].Focus()
	return d, cmd
}

func (d *Dialog) updateFocusedField(msg tea.Msg) (*Dialog, tea.Cmd) {
	if len(d.fields) == 0 {
		return d, nil
	}

	var cmd tea.Cmd
	d.fields[d.focusedField], cmd = d.fields[d.focusedField].Update(msg)
	return d, cmd
}

func (d *Dialog) updateMentionFields(msg tea.Msg) (*Dialog, tea.Cmd) {
	var cmds []tea.Cmd
	for i, field := range d.fields {
		if _, ok := field.(*MentionField); !ok {
			continue
		}
		var cmd tea.Cmd
		d.fields[i], cmd = field.Update(msg)
		cmds = append(cmds, cmd)
	}
	return d, tea.Batch(cmds...)
}

func (d *Dialog) isFocusedPopupOpen() bool {
	if len(d.fields) == 0 {
		return false
	}
	if f, ok := d.fields[d.focusedField].(popupHolder); ok {
		return f.popupOpen()
	}
	return false
}
