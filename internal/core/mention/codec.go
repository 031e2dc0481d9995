// Package mention implements the mention-aware text subsystem behind event
// descriptions: a codec between persisted markup and plain display text, a
// locator for in-progress @mentions, a structural editor that keeps
// committed mentions intact while the user types, and a projector that
// renders markup as styled segments.
//
// The persisted format encodes each mention inline as
//
//	@[Display Name](participant-id)
//
// where the id is either a directory identity or an external-participant
// synthetic id (see the directory package). Malformed or truncated tokens
// are never an error; they read as literal text.
package mention

import (
	"regexp"
	"strings"

	"github.com/colonyops/mingle/internal/core/directory"
)

// Mention is a single well-formed token found in a markup string. Offsets
// are byte positions within the markup string and are recomputed on every
// parse; they are never persisted.
type Mention struct {
	ID          string
	DisplayName string
	Start       int
	End         int
	External    bool
}

// tokenRE matches one well-formed mention token. Display names cannot
// contain brackets or newlines; ids cannot contain parens or whitespace.
// Anything that fails to match stays literal text.
var tokenRE = regexp.MustCompile(`@\[([^\[\]\n]+)\]\(([^()\s]+)\)`)

// Parse scans markup left-to-right for every well-formed token. Matches are
// non-overlapping and returned in order of appearance. Parse never fails;
// the worst case is an empty result for a string with no valid tokens.
func Parse(markup string) []Mention {
	idx := tokenRE.FindAllStringSubmatchIndex(markup, -1)
	if len(idx) == 0 {
		return nil
	}

	mentions := make([]Mention, 0, len(idx))
	for _, m := range idx {
		id := markup[m[4]:m[5]]
		mentions = append(mentions, Mention{
			ID:          id,
			DisplayName: markup[m[2]:m[3]],
			Start:       m[0],
			End:         m[1],
			External:    directory.IsExternalID(id),
		})
	}
	return mentions
}

// Participants derives the structured participant list from a markup
// string, deduplicated by id with first occurrence winning. This is the
// output handed to callers for persistence; it is derivable purely from the
// markup, with no side-channel state.
func Participants(markup string) []directory.Participant {
	mentions := Parse(markup)
	if len(mentions) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(mentions))
	out := make([]directory.Participant, 0, len(mentions))
	for _, m := range mentions {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, directory.Participant{
			ID:          m.ID,
			DisplayName: m.DisplayName,
			External:    m.External,
		})
	}
	return out
}

// ToPlainText replaces every well-formed token with "@DisplayName", leaving
// all other characters untouched. This is the text shown in editable
// fields.
func ToPlainText(markup string) string {
	mentions := Parse(markup)
	if len(mentions) == 0 {
		return markup
	}

	var b strings.Builder
	b.Grow(len(markup))
	last := 0
	for _, m := range mentions {
		b.WriteString(markup[last:m.Start])
		b.WriteByte('@')
		b.WriteString(m.DisplayName)
		last = m.End
	}
	b.WriteString(markup[last:])
	return b.String()
}

// Token serializes a participant as a markup token.
func Token(p directory.Participant) string {
	return "@[" + p.DisplayName + "](" + p.ID + ")"
}
