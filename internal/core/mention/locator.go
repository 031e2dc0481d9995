package mention

import "unicode"

// ActiveMention describes an in-progress @mention under the cursor.
// Start is the rune offset of the "@" in the plain text; Query is the
// partial name typed so far, excluding the "@".
type ActiveMention struct {
	Start int
	Query string
}

// LocateActiveMention determines whether the user is composing a mention at
// cursor, scanning backward from the cursor for the nearest "@" on the
// current line. The span between that "@" and the cursor must contain no
// whitespace; a second "@" inside the span means only the later one starts
// a candidate. An empty query (cursor right after "@") is a valid active
// mention.
//
// cursor is a rune offset into plainText, matching the cursor positions
// reported by terminal text inputs. Out-of-range cursors are clamped.
func LocateActiveMention(plainText string, cursor int) (ActiveMention, bool) {
	runes := []rune(plainText)
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}

	for i := cursor - 1; i >= 0; i-- {
		r := runes[i]
		if r == '@' {
			return ActiveMention{Start: i, Query: string(runes[i+1 : cursor])}, true
		}
		// Whitespace (including the line break) ends the scan: the
		// cursor is not inside a candidate span.
		if unicode.IsSpace(r) {
			return ActiveMention{}, false
		}
	}

	return ActiveMention{}, false
}
