// Package form provides the input fields and dialog used by the event
// composer, including the mention-aware description field.
package form

import tea "github.com/charmbracelet/bubbletea"

// Field is the interface implemented by all form field types.
type Field interface {
	Update(msg tea.Msg) (Field, tea.Cmd)
	View() string
	Focus() tea.Cmd
	Blur()
	Focused() bool
	Value() any    // string for text fields, mention markup for mention fields
	Label() string // Display label for the field
}
