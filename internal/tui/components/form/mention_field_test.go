package form

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/colonyops/mingle/internal/core/directory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMentionField(participants ...directory.Participant) *MentionField {
	opts := MentionOptions{
		Suggest: func(_ context.Context, query string) ([]directory.Participant, error) {
			if query == "" {
				return participants, nil
			}
			var out []directory.Participant
			for _, p := range participants {
				if containsFold(p.DisplayName, query) {
					out = append(out, p)
				}
			}
			return out, nil
		},
		Create: func(_ context.Context, name string) (directory.Participant, error) {
			return directory.Participant{ID: "ext-test12345678", DisplayName: name, External: true}, nil
		},
	}
	f := NewMentionField("Description", "", "", opts)
	f.Focus()
	return f
}

func containsFold(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		match := true
		for j := 0; j < len(sub); j++ {
			a, b := s[i+j], sub[j]
			if a >= 'A' && a <= 'Z' {
				a += 'a' - 'A'
			}
			if b >= 'A' && b <= 'Z' {
				b += 'a' - 'A'
			}
			if a != b {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// typeString feeds s one keystroke at a time.
func typeString(f *MentionField, s string) {
	for _, r := range s {
		f.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// deliverLookup runs the debounce and lookup cycle synchronously, the way
// the bubbletea runtime would once the timers fire.
func deliverLookup(t *testing.T, f *MentionField, query string) {
	t.Helper()

	cmd := f.handleDebounce(mentionDebounceMsg{seq: f.seq, query: query})
	require.NotNil(t, cmd, "debounce should trigger a lookup")

	msg, ok := cmd().(mentionResultsMsg)
	require.True(t, ok, "lookup should yield results")
	f.handleResults(msg)
}

func TestMentionField_Lookup(t *testing.T) {
	ana := directory.Participant{ID: "u1", DisplayName: "Ana Lima", Handle: "analima"}
	beto := directory.Participant{ID: "u2", DisplayName: "Beto Cruz"}

	t.Run("typing at-query opens popup", func(t *testing.T) {
		f := newMentionField(ana, beto)
		typeString(f, "hi @an")

		deliverLookup(t, f, "an")
		assert.True(t, f.popupOpen())
		require.Len(t, f.candidates, 1)
		assert.Equal(t, "u1", f.candidates[0].ID)
	})

	t.Run("bare at suggests defaults", func(t *testing.T) {
		f := newMentionField(ana, beto)
		typeString(f, "@")

		deliverLookup(t, f, "")
		assert.True(t, f.popupOpen())
		assert.Len(t, f.candidates, 2)
	})

	t.Run("stale debounce tick is dropped", func(t *testing.T) {
		f := newMentionField(ana)
		typeString(f, "@a")
		oldSeq := f.seq
		typeString(f, "n")

		cmd := f.handleDebounce(mentionDebounceMsg{seq: oldSeq, query: "a"})
		assert.Nil(t, cmd, "superseded tick must not trigger a lookup")
	})

	t.Run("stale results are dropped", func(t *testing.T) {
		f := newMentionField(ana)
		typeString(f, "@an")

		// response for an earlier, shorter query arrives late
		f.handleResults(mentionResultsMsg{query: "a", candidates: []directory.Participant{ana}})
		assert.False(t, f.popupOpen())

		deliverLookup(t, f, "an")
		assert.True(t, f.popupOpen())
	})

	t.Run("no active mention after whitespace", func(t *testing.T) {
		f := newMentionField(ana)
		typeString(f, "@ana ")
		assert.False(t, f.popupOpen())
		_, active := f.editor.Active()
		assert.False(t, active)
	})
}

func TestMentionField_Commit(t *testing.T) {
	ana := directory.Participant{ID: "u1", DisplayName: "Ana Lima", Handle: "analima"}

	t.Run("selecting a candidate inserts the mention", func(t *testing.T) {
		f := newMentionField(ana)
		typeString(f, "hi @an")
		deliverLookup(t, f, "an")

		f.Update(tea.KeyMsg{Type: tea.KeyEnter})

		assert.Equal(t, "hi @[Ana Lima](u1)", f.Value())
		assert.Equal(t, "hi @Ana Lima", f.input.Value())
		assert.Equal(t, len([]rune("hi @Ana Lima")), f.input.Position())
		assert.False(t, f.popupOpen())
	})

	t.Run("mention survives edits elsewhere", func(t *testing.T) {
		f := newMentionField(ana)
		typeString(f, "@an")
		deliverLookup(t, f, "an")
		f.Update(tea.KeyMsg{Type: tea.KeyEnter})

		typeString(f, " is coming")
		assert.Equal(t, "@[Ana Lima](u1) is coming", f.Value())
	})

	t.Run("second mention of same person collapses to text", func(t *testing.T) {
		f := newMentionField(ana)
		typeString(f, "@an")
		deliverLookup(t, f, "an")
		f.Update(tea.KeyMsg{Type: tea.KeyEnter})

		typeString(f, " and @an")
		deliverLookup(t, f, "an")
		f.Update(tea.KeyMsg{Type: tea.KeyEnter})

		assert.Equal(t, "@[Ana Lima](u1) and @Ana Lima", f.Value())
		require.Len(t, f.Participants(), 1)
	})

	t.Run("create row registers an external guest", func(t *testing.T) {
		f := newMentionField() // empty directory
		typeString(f, "with @Maria")
		deliverLookup(t, f, "Maria")

		require.True(t, f.popupOpen())
		require.True(t, f.canCreate)
		assert.Empty(t, f.candidates)

		_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)
		f.Update(cmd())

		assert.Equal(t, "with @[Maria](ext-test12345678)", f.Value())
	})

	t.Run("commit does not re-arm the lookup", func(t *testing.T) {
		// The cursor lands right after the committed name, where the
		// locator would re-match it as an in-progress mention. The popup
		// must stay closed, or the next enter never reaches the dialog.
		f := newMentionField(directory.Participant{ID: "u1", DisplayName: "Ana"})
		typeString(f, "hi @an")
		deliverLookup(t, f, "an")
		require.True(t, f.popupOpen())

		f.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.False(t, f.popupOpen())
		seq := f.seq

		// Cursor traffic over the committed name schedules nothing.
		f.Update(tea.KeyMsg{Type: tea.KeyLeft})
		f.Update(tea.KeyMsg{Type: tea.KeyLeft})
		assert.Equal(t, seq, f.seq)
		assert.False(t, f.popupOpen())

		assert.Equal(t, "hi @[Ana](u1)", f.Value())
		require.Len(t, f.Participants(), 1)
	})

	t.Run("escape closes the popup and keeps text", func(t *testing.T) {
		f := newMentionField(ana)
		typeString(f, "@an")
		deliverLookup(t, f, "an")
		require.True(t, f.popupOpen())

		f.Update(tea.KeyMsg{Type: tea.KeyEsc})
		assert.False(t, f.popupOpen())
		assert.Equal(t, "@an", f.input.Value())
	})

	t.Run("seeded markup round-trips", func(t *testing.T) {
		f := NewMentionField("Description", "", "see @[Ana Lima](u1) there", MentionOptions{})
		assert.Equal(t, "see @Ana Lima there", f.input.Value())
		assert.Equal(t, "see @[Ana Lima](u1) there", f.Value())
	})
}
