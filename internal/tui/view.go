package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/colonyops/mingle/internal/core/directory"
	"github.com/colonyops/mingle/internal/core/styles"
)

func directoryStatus(accept bool) directory.Status {
	if accept {
		return directory.StatusAccepted
	}
	return directory.StatusDeclined
}

func (m *Model) View() string {
	switch m.state {
	case stateComposing:
		return m.dialog.View() + m.footer()
	case stateDetail:
		return m.viewDetail() + m.footer()
	default:
		return m.viewBrowser() + m.footer()
	}
}

func (m *Model) viewBrowser() string {
	var sb strings.Builder
	sb.WriteString(styles.TitleStyle.Render("mingle") + "  " +
		styles.TextMutedStyle.Render("upcoming events") + "\n\n")

	if len(m.events) == 0 {
		sb.WriteString(styles.TextMutedStyle.Render("nothing coming up, press n to plan something") + "\n")
		return sb.String()
	}

	for i, ev := range m.events {
		line := fmt.Sprintf("%s  %s",
			ev.StartsAt.Local().Format("Jan 02 15:04"),
			ev.Title,
		)
		if ev.Venue != "" {
			line += styles.TextMutedStyle.Render("  at "+ev.Venue)
		}

		prefix := "  "
		if i == m.cursor {
			prefix = styles.TitleStyle.Render("> ")
		}
		sb.WriteString(prefix + line + "\n")
	}
	return sb.String()
}

func (m *Model) viewDetail() string {
	ev := m.detail.Event

	parts := []string{
		styles.TitleStyle.Render(ev.Title),
		ev.StartsAt.Local().Format("Mon Jan 02 2006, 15:04"),
	}
	if ev.Venue != "" {
		parts = append(parts, "at "+ev.Venue)
	}
	if len(m.segments) > 0 {
		parts = append(parts, "", styles.RenderSegments(m.segments))
	}

	if len(m.detail.Participants) > 0 {
		parts = append(parts, "", styles.TextMutedStyle.Render("Guests"))
		for _, p := range m.detail.Participants {
			name := p.Participant.DisplayName
			if p.Participant.External {
				name += " (external)"
			}
			parts = append(parts, "  "+statusGlyph(p.Status)+" "+name)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

func statusGlyph(s directory.Status) string {
	switch s {
	case directory.StatusAccepted:
		return styles.MentionStyle.Render("✓")
	case directory.StatusDeclined:
		return styles.MentionDeclinedStyle.Render("✗")
	default:
		return styles.MentionPendingStyle.Render("•")
	}
}

func (m *Model) footer() string {
	var help string
	switch m.state {
	case stateComposing:
		help = "" // the dialog renders its own help line
	case stateDetail:
		help = "a: accept  d: decline  f: follow organizer  esc: back  q: quit"
	default:
		help = "n: new  enter: open  a/d: rsvp  r: refresh  q: quit"
	}

	var sb strings.Builder
	sb.WriteString("\n")
	if m.err != nil {
		sb.WriteString(styles.FormErrorStyle.Render(m.err.Error()) + "\n")
	}
	if m.status != "" {
		sb.WriteString(styles.TextMutedStyle.Render(m.status) + "\n")
	}
	if help != "" {
		sb.WriteString(styles.TextMutedStyle.Render(help) + "\n")
	}
	return sb.String()
}
