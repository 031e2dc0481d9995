package mention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/mingle/internal/core/directory"
)

func TestEditor_RoundTrip(t *testing.T) {
	// Parsing markup and re-serializing with no edits must reproduce it
	// exactly.
	tests := []string{
		"",
		"plain text only",
		"@[Ana](u1)",
		"hi @[Ana](u1), meet @[Beto](u2)!",
		"@[Ana](u1)@[Beto](u2)",
		"tail text @[Maria](ext-a1b2)\nsecond line",
		"@[Ana](u1) vs @[Ana](u9)", // duplicate display names
	}

	for _, markup := range tests {
		t.Run(markup, func(t *testing.T) {
			e := NewEditor(markup)
			assert.Equal(t, markup, e.Markup())
		})
	}
}

func TestEditor_PlainText(t *testing.T) {
	e := NewEditor("hi @[Ana](u1)!")
	assert.Equal(t, "hi @Ana!", e.PlainText())
}

func TestEditor_CommitReplacesActiveSpan(t *testing.T) {
	e := NewEditor("")
	e.SetPlainText("hey @Be")

	am, ok := LocateActiveMention("hey @Be", 7)
	require.True(t, ok)
	e.SetActive(am.Start, am.Query)

	changed := e.Commit(directory.Participant{ID: "u2", DisplayName: "Beto"})
	require.True(t, changed)

	assert.Equal(t, "hey @[Beto](u2)", e.Markup())
	assert.Equal(t, "hey @Beto", e.PlainText())

	ps := e.Participants()
	require.Len(t, ps, 1)
	assert.Equal(t, "u2", ps[0].ID)
}

func TestEditor_PreservesCommittedMentions(t *testing.T) {
	// Typing after a committed mention and selecting a second candidate
	// must keep both tokens in their original relative order.
	e := NewEditor("@[Ana](u1)")

	e.SetPlainText("@Ana and @Be")
	am, ok := LocateActiveMention("@Ana and @Be", 12)
	require.True(t, ok)
	e.SetActive(am.Start, am.Query)

	require.True(t, e.Commit(directory.Participant{ID: "u2", DisplayName: "Beto"}))

	assert.Equal(t, "@[Ana](u1) and @[Beto](u2)", e.Markup())

	ps := e.Participants()
	require.Len(t, ps, 2)
	assert.Equal(t, "u1", ps[0].ID)
	assert.Equal(t, "u2", ps[1].ID)
}

func TestEditor_CommitBetweenMentions(t *testing.T) {
	e := NewEditor("@[Ana](u1) and @[Beto](u2)")

	// Insert a third mention in the middle of the text.
	e.SetPlainText("@Ana plus @Ca and @Beto")
	am, ok := LocateActiveMention("@Ana plus @Ca and @Beto", 13)
	require.True(t, ok)
	e.SetActive(am.Start, am.Query)

	require.True(t, e.Commit(directory.Participant{ID: "u3", DisplayName: "Carla"}))

	assert.Equal(t, "@[Ana](u1) plus @[Carla](u3) and @[Beto](u2)", e.Markup())
}

func TestEditor_DuplicateSelectionDedupes(t *testing.T) {
	// Selecting the same participant twice yields the same participant
	// list as selecting it once, with no second token.
	e := NewEditor("")

	e.SetPlainText("@An")
	e.SetActive(0, "An")
	require.True(t, e.Commit(directory.Participant{ID: "u1", DisplayName: "Ana"}))

	e.SetPlainText("@Ana @An")
	e.SetActive(5, "An")
	require.True(t, e.Commit(directory.Participant{ID: "u1", DisplayName: "Ana"}))

	ps := e.Participants()
	require.Len(t, ps, 1)
	assert.Equal(t, "u1", ps[0].ID)
	assert.Len(t, Parse(e.Markup()), 1)
	assert.Equal(t, "@Ana @Ana", e.PlainText())
}

func TestEditor_ReselectOverOwnMention(t *testing.T) {
	// After a commit the cursor rests right after the display text, so the
	// active span can re-locate over the participant's own token. Picking
	// the same candidate again must re-commit, not destroy the mention.
	e := NewEditor("@[Ana](u1)")

	am, ok := LocateActiveMention(e.PlainText(), 4)
	require.True(t, ok)
	e.SetActive(am.Start, am.Query)

	require.True(t, e.Commit(directory.Participant{ID: "u1", DisplayName: "Ana"}))

	assert.Equal(t, "@[Ana](u1)", e.Markup())
	ps := e.Participants()
	require.Len(t, ps, 1)
	assert.Equal(t, "u1", ps[0].ID)
}

func TestEditor_ReselectMidMentionKeepsIdentity(t *testing.T) {
	e := NewEditor("@[Ana](u1)")

	// Cursor inside the visible name: the span covers only "@An".
	am, ok := LocateActiveMention(e.PlainText(), 3)
	require.True(t, ok)
	assert.Equal(t, "An", am.Query)
	e.SetActive(am.Start, am.Query)

	require.True(t, e.Commit(directory.Participant{ID: "u1", DisplayName: "Ana"}))

	ps := e.Participants()
	require.Len(t, ps, 1)
	assert.Equal(t, "u1", ps[0].ID)
	assert.Len(t, Parse(e.Markup()), 1)
}

func TestEditor_InMention(t *testing.T) {
	e := NewEditor("hi @[Ana](u1)!")
	// Plain view is "hi @Ana!" with the mention visible at [3, 7).

	assert.True(t, e.InMention(3, 7))
	assert.True(t, e.InMention(4, 6))
	assert.False(t, e.InMention(0, 2))
	assert.False(t, e.InMention(3, 8))
}

func TestEditor_CommitScrubsReservedCharacters(t *testing.T) {
	e := NewEditor("")
	e.SetPlainText("@Bad")
	e.SetActive(0, "Bad")

	require.True(t, e.Commit(directory.Participant{ID: "u5", DisplayName: "Bad]Name\nHere"}))

	ms := Parse(e.Markup())
	require.Len(t, ms, 1)
	assert.Equal(t, "u5", ms[0].ID)
	assert.Equal(t, "BadName Here", ms[0].DisplayName)
}

func TestEditor_CommitWithoutActiveIsNoop(t *testing.T) {
	e := NewEditor("@[Ana](u1)")
	before := e.Markup()

	assert.False(t, e.Commit(directory.Participant{ID: "u2", DisplayName: "Beto"}))
	assert.Equal(t, before, e.Markup())
}

func TestEditor_ExternalParticipant(t *testing.T) {
	e := NewEditor("")
	e.SetPlainText("@Maria")
	e.SetActive(0, "Maria")

	ext := directory.NewExternal("Maria")
	require.True(t, e.Commit(ext))

	ps := e.Participants()
	require.Len(t, ps, 1)
	assert.True(t, ps[0].External)
	assert.NotEmpty(t, ps[0].ID)
	assert.Equal(t, "Maria", ps[0].DisplayName)

	// The synthetic id survives a markup round trip.
	reparsed := Participants(e.Markup())
	require.Len(t, reparsed, 1)
	assert.Equal(t, ps[0].ID, reparsed[0].ID)
	assert.True(t, reparsed[0].External)
}

func TestEditor_EditInsideMentionDegradesIt(t *testing.T) {
	e := NewEditor("@[Ana](u1) rocks")

	// Typing inside the visible "@Ana" destroys the mention but keeps
	// the surrounding text intact.
	e.SetPlainText("@Axna rocks")

	assert.Equal(t, "@Axna rocks", e.Markup())
	assert.Empty(t, e.Participants())
}

func TestEditor_DeleteMentionText(t *testing.T) {
	e := NewEditor("@[Ana](u1) and @[Beto](u2)")

	// Deleting Beto's visible text drops only that mention.
	e.SetPlainText("@Ana and ")

	assert.Equal(t, "@[Ana](u1) and ", e.Markup())

	ps := e.Participants()
	require.Len(t, ps, 1)
	assert.Equal(t, "u1", ps[0].ID)
}

func TestEditor_DuplicateDisplayNamesStayDistinct(t *testing.T) {
	// Two committed mentions sharing a display name must keep their own
	// ids across an unrelated edit. The structural document makes this
	// unambiguous where name-keyed substitution could not.
	e := NewEditor("@[Ana](u1) or @[Ana](u9)")

	e.SetPlainText("@Ana or @Ana!")

	assert.Equal(t, "@[Ana](u1) or @[Ana](u9)!", e.Markup())

	ps := e.Participants()
	require.Len(t, ps, 2)
	assert.Equal(t, "u1", ps[0].ID)
	assert.Equal(t, "u9", ps[1].ID)
}

func TestEditor_ActiveState(t *testing.T) {
	e := NewEditor("")

	_, ok := e.Active()
	assert.False(t, ok)

	e.SetActive(3, "An")
	am, ok := e.Active()
	require.True(t, ok)
	assert.Equal(t, 3, am.Start)
	assert.Equal(t, "An", am.Query)

	e.ClearActive()
	_, ok = e.Active()
	assert.False(t, ok)
}

func TestEditor_MultibyteText(t *testing.T) {
	e := NewEditor("")
	e.SetPlainText("café con @Ño")

	am, ok := LocateActiveMention("café con @Ño", 12)
	require.True(t, ok)
	e.SetActive(am.Start, am.Query)

	require.True(t, e.Commit(directory.Participant{ID: "u7", DisplayName: "Ñoño"}))
	assert.Equal(t, "café con @[Ñoño](u7)", e.Markup())
}
