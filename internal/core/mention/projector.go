package mention

import "github.com/colonyops/mingle/internal/core/directory"

// SegmentKind discriminates projected segments.
type SegmentKind int

// Segment kinds.
const (
	SegmentPlain SegmentKind = iota
	SegmentMention
)

// Segment is one run of a read-only rendering: either literal text or a
// mention with its RSVP status. Navigable is the interactivity contract for
// the UI: external mentions are never navigable, and internal ones only
// when the participant has accepted.
type Segment struct {
	Text      string
	Kind      SegmentKind
	MentionID string
	External  bool
	Status    directory.Status
	Navigable bool
}

// Project renders a markup string as an ordered segment sequence.
// statusByID carries per-participant RSVP states; a mention with no entry
// defaults to accepted, for markup created before status tracking existed.
// A nil map is fine.
func Project(markup string, statusByID map[string]directory.Status) []Segment {
	mentions := Parse(markup)
	if len(mentions) == 0 {
		if markup == "" {
			return nil
		}
		return []Segment{{Text: markup, Kind: SegmentPlain}}
	}

	var segs []Segment
	last := 0
	for _, m := range mentions {
		if m.Start > last {
			segs = append(segs, Segment{Text: markup[last:m.Start], Kind: SegmentPlain})
		}

		status, ok := statusByID[m.ID]
		if !ok {
			status = directory.StatusAccepted
		}
		segs = append(segs, Segment{
			Text:      "@" + m.DisplayName,
			Kind:      SegmentMention,
			MentionID: m.ID,
			External:  m.External,
			Status:    status,
			Navigable: !m.External && status == directory.StatusAccepted,
		})
		last = m.End
	}
	if last < len(markup) {
		segs = append(segs, Segment{Text: markup[last:], Kind: SegmentPlain})
	}
	return segs
}
