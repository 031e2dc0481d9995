package mention

import (
	"strings"

	"github.com/colonyops/mingle/internal/core/directory"
)

// runKind discriminates the two node types of an editor document.
type runKind int

const (
	runPlain runKind = iota
	runMention
)

// run is one node of the structured document: either a literal text run or
// an atomic committed mention. Mentions keep their identity across edits
// elsewhere in the text; an edit that touches a mention's visible span
// degrades it back to plain text.
type run struct {
	kind runKind
	text string // literal text, or the mention display name
	id   string // mention id, empty for plain runs
}

// visible returns the text the run occupies in the plain-text view.
func (r run) visible() string {
	if r.kind == runMention {
		return "@" + r.text
	}
	return r.text
}

// Editor reconciles the plain text a user edits against the committed
// mentions of the underlying markup. The document is held as a sequence of
// typed runs and serialized to markup only at the boundary, so two
// committed mentions with identical display names stay distinct: edits are
// structural, never name-keyed substring surgery.
//
// Editor methods are not safe for concurrent use; an Editor belongs to a
// single UI event loop.
type Editor struct {
	runs []run

	// Active-composition state. activeStart is a rune offset into the
	// plain text, -1 while no mention is in progress.
	activeStart int
	query       string
}

// NewEditor builds an editor from persisted markup. Malformed tokens remain
// literal text, matching Parse.
func NewEditor(markup string) *Editor {
	e := &Editor{activeStart: -1}
	e.runs = runsFromMarkup(markup)
	return e
}

func runsFromMarkup(markup string) []run {
	mentions := Parse(markup)
	var runs []run
	last := 0
	for _, m := range mentions {
		if m.Start > last {
			runs = append(runs, run{kind: runPlain, text: markup[last:m.Start]})
		}
		runs = append(runs, run{kind: runMention, text: m.DisplayName, id: m.ID})
		last = m.End
	}
	if last < len(markup) {
		runs = append(runs, run{kind: runPlain, text: markup[last:]})
	}
	return runs
}

// Markup serializes the document back to the persisted format. For a
// document built from well-formed markup with no intervening edits, this
// reproduces the input byte for byte.
func (e *Editor) Markup() string {
	var b strings.Builder
	for _, r := range e.runs {
		if r.kind == runMention {
			b.WriteString(Token(directory.Participant{ID: r.id, DisplayName: r.text}))
			continue
		}
		b.WriteString(r.text)
	}
	return b.String()
}

// PlainText serializes the document to the editable view: mentions render
// as "@DisplayName".
func (e *Editor) PlainText() string {
	var b strings.Builder
	for _, r := range e.runs {
		b.WriteString(r.visible())
	}
	return b.String()
}

// Participants returns the committed participant list, deduplicated by id
// in document order.
func (e *Editor) Participants() []directory.Participant {
	seen := make(map[string]bool)
	var out []directory.Participant
	for _, r := range e.runs {
		if r.kind != runMention || seen[r.id] {
			continue
		}
		seen[r.id] = true
		out = append(out, directory.Participant{
			ID:          r.id,
			DisplayName: r.text,
			External:    directory.IsExternalID(r.id),
		})
	}
	return out
}

// SetActive records an in-progress mention located by LocateActiveMention.
func (e *Editor) SetActive(start int, query string) {
	e.activeStart = start
	e.query = query
}

// ClearActive resets the composition state; selections received while no
// mention is in progress become no-ops.
func (e *Editor) ClearActive() {
	e.activeStart = -1
	e.query = ""
}

// Active returns the current composition state, if any.
func (e *Editor) Active() (ActiveMention, bool) {
	if e.activeStart < 0 {
		return ActiveMention{}, false
	}
	return ActiveMention{Start: e.activeStart, Query: e.query}, true
}

// SetPlainText reconciles the document against the live contents of the
// text field. The edit is recovered as the minimal changed span between the
// previous plain text and the new one (longest common prefix and suffix,
// rune-wise). Runs entirely outside the span are preserved — committed
// mentions included — while any mention the span touches degrades to plain
// text.
func (e *Editor) SetPlainText(plain string) {
	oldR := []rune(e.PlainText())
	newR := []rune(plain)

	p := commonPrefix(oldR, newR)
	s := commonSuffix(oldR, newR, p)
	oldEnd := len(oldR) - s

	if p == len(oldR) && p == len(newR) {
		return // unchanged
	}

	mid := string(newR[p : len(newR)-s])
	var repl []run
	if mid != "" {
		repl = []run{{kind: runPlain, text: mid}}
	}
	e.runs = e.spliceRunes(p, oldEnd, repl)
}

// Commit replaces the active-mention span with the chosen participant. The
// selection is a no-op when no mention is in progress. If the participant
// is already mentioned elsewhere in the document, the span collapses to the
// plain display text instead of a second token, so the participant list
// stays deduplicated by id. A mention run the active span itself overlaps
// does not count as "elsewhere": re-selecting a participant over their own
// token re-commits it rather than destroying it.
//
// Display names are scrubbed of the characters the token grammar reserves,
// so a committed mention always survives a markup round trip even when the
// caller skipped name validation.
//
// Commit clears the active state and reports whether the document changed.
func (e *Editor) Commit(p directory.Participant) bool {
	if e.activeStart < 0 {
		return false
	}

	start := e.activeStart
	end := start + 1 + len([]rune(e.query)) // "@" plus the typed query
	e.ClearActive()

	name := safeName(p.DisplayName)
	repl := run{kind: runMention, text: name, id: p.ID}
	off := 0
	for _, r := range e.runs {
		vis := len([]rune(r.visible()))
		rStart, rEnd := off, off+vis
		off = rEnd
		if r.kind != runMention || r.id != p.ID {
			continue
		}
		if rStart < end && rEnd > start {
			continue // the span being replaced, not a second mention
		}
		repl = run{kind: runPlain, text: "@" + name}
		break
	}

	e.runs = e.spliceRunes(start, end, []run{repl})
	return true
}

// InMention reports whether the rune span [start, end) of the plain-text
// view lies entirely within a single committed mention.
func (e *Editor) InMention(start, end int) bool {
	off := 0
	for _, r := range e.runs {
		vis := len([]rune(r.visible()))
		rStart, rEnd := off, off+vis
		off = rEnd
		if r.kind == runMention && rStart <= start && end <= rEnd {
			return true
		}
	}
	return false
}

// safeName strips the characters tokenRE reserves from a display name.
// A name reduced to nothing falls back to "someone" so the token stays
// parseable.
func safeName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '[', ']':
			return -1
		case '\n':
			return ' '
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if name == "" {
		return "someone"
	}
	return name
}

// spliceRunes replaces the rune span [start, end) of the plain-text view
// with repl, preserving runs outside the span and degrading partially
// covered mentions to their visible text.
func (e *Editor) spliceRunes(start, end int, repl []run) []run {
	var out []run
	off := 0

	var tail []run
	for _, r := range e.runs {
		vis := []rune(r.visible())
		rStart, rEnd := off, off+len(vis)
		off = rEnd

		switch {
		case rEnd <= start:
			out = append(out, r)
		case rStart >= end:
			tail = append(tail, r)
		default:
			// Overlaps the edited span. Keep the untouched slices as
			// plain text; the mention identity (if any) is lost.
			if rStart < start {
				out = append(out, run{kind: runPlain, text: string(vis[:start-rStart])})
			}
			if rEnd > end {
				tail = append(tail, run{kind: runPlain, text: string(vis[end-rStart:])})
			}
		}
	}

	out = append(out, repl...)
	out = append(out, tail...)
	return mergePlain(out)
}

// mergePlain coalesces adjacent plain runs and drops empty ones.
func mergePlain(runs []run) []run {
	var out []run
	for _, r := range runs {
		if r.kind == runPlain && r.text == "" {
			continue
		}
		if r.kind == runPlain && len(out) > 0 && out[len(out)-1].kind == runPlain {
			out[len(out)-1].text += r.text
			continue
		}
		out = append(out, r)
	}
	return out
}

func commonPrefix(a, b []rune) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// commonSuffix is bounded so the prefix and suffix never overlap.
func commonSuffix(a, b []rune, prefix int) int {
	n := min(len(a), len(b)) - prefix
	i := 0
	for i < n && a[len(a)-1-i] == b[len(b)-1-i] {
		i++
	}
	return i
}
