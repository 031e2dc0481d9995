package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/colonyops/mingle/internal/core/directory"
	"github.com/colonyops/mingle/internal/core/mention"
)

// SegmentStyle picks the style for a projected mention segment. Navigable
// mentions read as links; the rest signal their RSVP state.
func SegmentStyle(seg mention.Segment) lipgloss.Style {
	switch {
	case seg.External:
		return MentionExternalStyle
	case seg.Status == directory.StatusDeclined:
		return MentionDeclinedStyle
	case seg.Status == directory.StatusPending:
		return MentionPendingStyle
	default:
		return MentionStyle
	}
}

// RenderSegments flattens projected segments into one styled string.
func RenderSegments(segments []mention.Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		if seg.Kind == mention.SegmentPlain {
			sb.WriteString(seg.Text)
			continue
		}
		sb.WriteString(SegmentStyle(seg).Render(seg.Text))
	}
	return sb.String()
}
