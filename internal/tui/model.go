// Package tui implements the interactive event browser and composer.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/colonyops/mingle/internal/core/event"
	"github.com/colonyops/mingle/internal/core/logging"
	"github.com/colonyops/mingle/internal/core/mention"
	"github.com/colonyops/mingle/internal/mingle"
	"github.com/colonyops/mingle/internal/tui/components/form"
	"github.com/rs/zerolog"
)

// UIState represents the current mode of the TUI.
type UIState int

const (
	stateBrowsing UIState = iota
	stateComposing
	stateDetail
)

// Messages produced by service commands.
type (
	eventsLoadedMsg struct {
		events []event.Event
		err    error
	}
	detailLoadedMsg struct {
		detail   mingle.Detail
		segments []mention.Segment
		err      error
	}
	eventSavedMsg struct {
		event event.Event
		err   error
	}
	rsvpDoneMsg struct {
		err error
	}
)

// Model is the root bubbletea model.
type Model struct {
	app  *mingle.App
	keys KeyMap
	log  zerolog.Logger

	state  UIState
	width  int
	height int

	// browsing
	events []event.Event
	cursor int

	// composing
	dialog *form.Dialog

	// detail
	detail   mingle.Detail
	segments []mention.Segment

	status string
	err    error
}

// NewModel creates the root model.
func NewModel(app *mingle.App) *Model {
	return &Model{
		app:  app,
		keys: DefaultKeyMap(),
		log:  logging.Component("tui"),
	}
}

func (m *Model) Init() tea.Cmd {
	return m.loadEvents()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case eventsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.events = msg.events
		if m.cursor >= len(m.events) {
			m.cursor = max(0, len(m.events)-1)
		}
		return m, nil

	case detailLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.detail = msg.detail
		m.segments = msg.segments
		m.state = stateDetail
		return m, nil

	case eventSavedMsg:
		if msg.err != nil {
			// keep the dialog open so nothing typed is lost
			m.status = msg.err.Error()
			return m, nil
		}
		m.state = stateBrowsing
		m.dialog = nil
		m.status = "created " + msg.event.Title
		return m, m.loadEvents()

	case rsvpDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		if m.state == stateDetail {
			return m, m.openDetail(m.detail.Event.ID)
		}
		return m, nil
	}

	switch m.state {
	case stateComposing:
		return m.updateComposing(msg)
	case stateDetail:
		return m.updateDetail(msg)
	default:
		return m.updateBrowsing(msg)
	}
}

func (m *Model) updateBrowsing(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.status = ""

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.events)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Refresh):
		return m, m.loadEvents()
	case key.Matches(keyMsg, m.keys.New):
		m.dialog = m.newComposer()
		m.state = stateComposing
	case key.Matches(keyMsg, m.keys.Open):
		if ev, ok := m.selected(); ok {
			return m, m.openDetail(ev.ID)
		}
	case key.Matches(keyMsg, m.keys.Accept):
		if ev, ok := m.selected(); ok {
			return m, m.rsvp(ev.ID, true)
		}
	case key.Matches(keyMsg, m.keys.Decline):
		if ev, ok := m.selected(); ok {
			return m, m.rsvp(ev.ID, false)
		}
	}
	return m, nil
}

func (m *Model) updateComposing(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.dialog, cmd = m.dialog.Update(msg)

	switch {
	case m.dialog.Cancelled():
		m.state = stateBrowsing
		m.dialog = nil
		return m, nil
	case m.dialog.Submitted():
		return m, m.saveComposed(m.dialog.FormValues())
	}
	return m, cmd
}

func (m *Model) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.status = ""

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Back):
		m.state = stateBrowsing
		return m, nil
	case key.Matches(keyMsg, m.keys.Accept):
		return m, m.rsvp(m.detail.Event.ID, true)
	case key.Matches(keyMsg, m.keys.Decline):
		return m, m.rsvp(m.detail.Event.ID, false)
	case key.Matches(keyMsg, m.keys.Follow):
		return m, m.followOrganizer()
	}
	return m, nil
}

func (m *Model) selected() (event.Event, bool) {
	if m.cursor < 0 || m.cursor >= len(m.events) {
		return event.Event{}, false
	}
	return m.events[m.cursor], true
}

// newComposer builds the event dialog. The description field talks to the
// directory service for live mention suggestions.
func (m *Model) newComposer() *form.Dialog {
	mentionOpts := form.MentionOptions{
		Suggest:  m.app.Directory.Suggest,
		Create:   m.app.Directory.CreateExternal,
		Debounce: m.app.Config.Directory.Debounce(),
	}

	return form.NewDialog("New Event",
		[]form.Field{
			form.NewTextField("Title", "Garage Show", ""),
			form.NewTextField("When", "2026-09-12 20:00", ""),
			form.NewTextField("Venue", "optional", ""),
			form.NewMentionField("Description", "who is coming? @ to mention", "", mentionOpts),
		},
		[]string{"title", "when", "venue", "description"},
	)
}

func (m *Model) loadEvents() tea.Cmd {
	svc := m.app.Events
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		events, err := svc.Upcoming(ctx, time.Now())
		return eventsLoadedMsg{events: events, err: err}
	}
}

func (m *Model) openDetail(id string) tea.Cmd {
	svc := m.app.Events
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		detail, err := svc.Detail(ctx, id)
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		segments, err := svc.Rendered(ctx, id)
		return detailLoadedMsg{detail: detail, segments: segments, err: err}
	}
}

func (m *Model) saveComposed(values map[string]any) tea.Cmd {
	svc := m.app.Events
	title, _ := values["title"].(string)
	when, _ := values["when"].(string)
	venue, _ := values["venue"].(string)
	description, _ := values["description"].(string)
	organizerID := m.app.Config.ProfileID

	return func() tea.Msg {
		startsAt, err := event.ParseStartsAt(when)
		if err != nil {
			return eventSavedMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		ev, err := svc.Create(ctx, mingle.CreateOptions{
			Title:       title,
			Venue:       venue,
			StartsAt:    startsAt,
			Description: description,
			OrganizerID: organizerID,
		})
		return eventSavedMsg{event: ev, err: err}
	}
}

func (m *Model) rsvp(eventID string, accept bool) tea.Cmd {
	profileID := m.app.Config.ProfileID
	if profileID == "" {
		m.status = "no profile configured, run 'mingle init'"
		return nil
	}

	status := directoryStatus(accept)
	svc := m.app.Events
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return rsvpDoneMsg{err: svc.RSVP(ctx, eventID, profileID, status)}
	}
}

func (m *Model) followOrganizer() tea.Cmd {
	organizerID := m.detail.Event.OrganizerID
	if organizerID == "" {
		m.status = "event has no organizer on record"
		return nil
	}

	svc := m.app.Follows
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := svc.Follow(ctx, organizerID); err != nil {
			return rsvpDoneMsg{err: err}
		}
		return rsvpDoneMsg{}
	}
}
