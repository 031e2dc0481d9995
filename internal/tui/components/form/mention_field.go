package form

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/colonyops/mingle/internal/core/directory"
	"github.com/colonyops/mingle/internal/core/logging"
	"github.com/colonyops/mingle/internal/core/mention"
	"github.com/colonyops/mingle/internal/core/styles"
)

// SuggestFunc resolves a mention query to candidate participants. An empty
// query asks for default suggestions (recents, follows).
type SuggestFunc func(ctx context.Context, query string) ([]directory.Participant, error)

// CreateFunc registers an ad hoc external participant by display name.
type CreateFunc func(ctx context.Context, displayName string) (directory.Participant, error)

// MentionOptions configures a MentionField.
type MentionOptions struct {
	Suggest  SuggestFunc
	Create   CreateFunc
	Debounce time.Duration
}

// Messages internal to the mention workflow. The dialog forwards these to
// mention fields regardless of focus, since a lookup may land after the
// user has tabbed away.
type (
	// mentionDebounceMsg fires when the keystroke debounce window elapses.
	mentionDebounceMsg struct {
		seq   int
		query string
	}
	// mentionResultsMsg carries candidates for the query that was looked up.
	mentionResultsMsg struct {
		query      string
		candidates []directory.Participant
	}
	// mentionCreatedMsg carries a freshly registered external participant.
	mentionCreatedMsg struct {
		participant directory.Participant
	}
)

// MentionField is a single-line input whose value is mention markup. The
// user edits plain text; committed mentions are tracked structurally so
// edits elsewhere in the line never corrupt them. Typing "@" at a word
// start opens a debounced candidate popup fed by opts.Suggest.
type MentionField struct {
	input   textinput.Model
	editor  *mention.Editor
	label   string
	focused bool
	opts    MentionOptions

	// popup state
	open       bool
	candidates []directory.Participant
	selected   int
	canCreate  bool

	// seq guards the debounce window: only the tick scheduled by the most
	// recent keystroke may trigger a lookup.
	seq int
}

// NewMentionField creates a mention-aware input seeded from existing markup.
func NewMentionField(label, placeholder, markup string, opts MentionOptions) *MentionField {
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}

	editor := mention.NewEditor(markup)

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.Width = 60
	ti.PlaceholderStyle = styles.TextMutedStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(styles.ColorPrimary)
	ti.SetValue(editor.PlainText())
	ti.CursorEnd()

	return &MentionField{
		input:  ti,
		editor: editor,
		label:  label,
		opts:   opts,
	}
}

func (f *MentionField) Update(msg tea.Msg) (Field, tea.Cmd) {
	switch msg := msg.(type) {
	case mentionDebounceMsg:
		return f, f.handleDebounce(msg)
	case mentionResultsMsg:
		f.handleResults(msg)
		return f, nil
	case mentionCreatedMsg:
		f.commit(msg.participant)
		return f, nil
	}

	if !f.focused {
		return f, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && f.open {
		switch key.String() {
		case "up", "ctrl+p":
			f.selected = (f.selected + f.optionCount() - 1) % f.optionCount()
			return f, nil
		case "down", "ctrl+n":
			f.selected = (f.selected + 1) % f.optionCount()
			return f, nil
		case "enter", "tab":
			return f, f.commitSelected()
		case "esc":
			f.closePopup()
			return f, nil
		}
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)

	syncCmd := f.syncFromInput()
	return f, tea.Batch(cmd, syncCmd)
}

// syncFromInput reconciles the editor with the live input contents and
// schedules a debounced lookup when a mention is in progress.
func (f *MentionField) syncFromInput() tea.Cmd {
	plain := f.input.Value()
	f.editor.SetPlainText(plain)

	loc, ok := mention.LocateActiveMention(plain, f.input.Position())
	if !ok {
		f.editor.ClearActive()
		f.closePopup()
		return nil
	}

	// A span inside an intact committed mention is the cursor resting on
	// prior work, not a new composition. The popup stays closed until the
	// user actually edits the name.
	if f.editor.InMention(loc.Start, loc.Start+1+len([]rune(loc.Query))) {
		f.editor.ClearActive()
		f.closePopup()
		return nil
	}

	prev, hadActive := f.editor.Active()
	f.editor.SetActive(loc.Start, loc.Query)

	if hadActive && prev.Query == loc.Query && prev.Start == loc.Start {
		return nil // cursor moved within the same composition, nothing new to look up
	}

	f.seq++
	seq := f.seq
	query := loc.Query
	return tea.Tick(f.opts.Debounce, func(time.Time) tea.Msg {
		return mentionDebounceMsg{seq: seq, query: query}
	})
}

// handleDebounce runs the directory lookup if the window is still the
// current one. A newer keystroke bumps seq, silently cancelling this tick.
func (f *MentionField) handleDebounce(msg mentionDebounceMsg) tea.Cmd {
	if msg.seq != f.seq {
		return nil
	}
	active, ok := f.editor.Active()
	if !ok || active.Query != msg.query {
		return nil
	}

	suggest := f.opts.Suggest
	query := msg.query
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		candidates, err := suggest(ctx, query)
		if err != nil {
			logger := logging.Component("tui")
			logger.Warn().Err(err).Str("query", query).Msg("mention lookup failed")
			candidates = nil
		}
		return mentionResultsMsg{query: query, candidates: candidates}
	}
}

// handleResults applies a lookup response. Responses for anything but the
// query currently being composed are dropped, so a slow lookup can never
// clobber fresher results.
func (f *MentionField) handleResults(msg mentionResultsMsg) {
	active, ok := f.editor.Active()
	if !ok || active.Query != msg.query {
		return
	}

	f.candidates = msg.candidates
	f.canCreate = f.opts.Create != nil && strings.TrimSpace(msg.query) != "" && !f.hasExactMatch(msg.query)
	f.selected = 0

	f.open = len(f.candidates) > 0 || f.canCreate
}

func (f *MentionField) hasExactMatch(query string) bool {
	for _, c := range f.candidates {
		if strings.EqualFold(c.DisplayName, query) {
			return true
		}
	}
	return false
}

// optionCount is candidates plus the optional create row.
func (f *MentionField) optionCount() int {
	n := len(f.candidates)
	if f.canCreate {
		n++
	}
	return n
}

// commitSelected resolves the highlighted row. Picking the create row
// registers the external participant first; the commit happens when the
// mentionCreatedMsg comes back.
func (f *MentionField) commitSelected() tea.Cmd {
	if f.selected < len(f.candidates) {
		f.commit(f.candidates[f.selected])
		return nil
	}

	active, ok := f.editor.Active()
	if !ok {
		f.closePopup()
		return nil
	}

	create := f.opts.Create
	name := strings.TrimSpace(active.Query)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		p, err := create(ctx, name)
		if err != nil {
			logger := logging.Component("tui")
			logger.Error().Err(err).Str("name", name).Msg("create external participant failed")
			return nil
		}
		return mentionCreatedMsg{participant: p}
	}
}

// commit inserts the chosen participant at the active mention and moves the
// cursor past the inserted display text.
func (f *MentionField) commit(p directory.Participant) {
	active, ok := f.editor.Active()
	if !ok {
		return
	}

	if !f.editor.Commit(p) {
		f.closePopup()
		return
	}

	cursor := active.Start + 1 + len([]rune(p.DisplayName))
	f.input.SetValue(f.editor.PlainText())
	f.input.SetCursor(cursor)
	f.closePopup()
}

func (f *MentionField) popupOpen() bool { return f.open }

func (f *MentionField) closePopup() {
	f.open = false
	f.candidates = nil
	f.canCreate = false
	f.selected = 0
}

func (f *MentionField) View() string {
	titleStyle := styles.TextMutedStyle
	if f.focused {
		titleStyle = styles.FormTitleStyle
	}
	title := titleStyle.Render(f.label)

	parts := []string{title, f.input.View()}
	if f.open {
		parts = append(parts, f.viewPopup())
	}
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	borderStyle := styles.FormFieldStyle
	if f.focused {
		borderStyle = styles.FormFieldFocusedStyle
	}
	return borderStyle.Render(content)
}

func (f *MentionField) viewPopup() string {
	var rows []string
	for i, c := range f.candidates {
		label := c.DisplayName
		if c.Handle != "" {
			label += "  @" + c.Handle
		}
		if c.External {
			label += "  (external)"
		}
		rows = append(rows, f.rowStyle(i).Render(label))
	}
	if f.canCreate {
		active, _ := f.editor.Active()
		label := "+ add \"" + strings.TrimSpace(active.Query) + "\" as guest"
		rows = append(rows, f.rowStyle(len(f.candidates)).Render(label))
	}
	return styles.PopupStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (f *MentionField) rowStyle(i int) lipgloss.Style {
	if i == f.selected {
		return styles.PopupSelectedStyle
	}
	return styles.PopupItemStyle
}

func (f *MentionField) Focus() tea.Cmd {
	f.focused = true
	return f.input.Focus()
}

func (f *MentionField) Blur() {
	f.focused = false
	f.input.Blur()
	f.editor.ClearActive()
	f.closePopup()
}

func (f *MentionField) Focused() bool { return f.focused }

// Value returns the current mention markup.
func (f *MentionField) Value() any { return f.editor.Markup() }

func (f *MentionField) Label() string { return f.label }

// Participants returns the committed mentions, deduplicated by id.
func (f *MentionField) Participants() []directory.Participant {
	return f.editor.Participants()
}
