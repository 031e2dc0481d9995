package mention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("empty string", func(t *testing.T) {
		assert.Nil(t, Parse(""))
	})

	t.Run("no tokens", func(t *testing.T) {
		assert.Nil(t, Parse("dinner at eight, bring snacks"))
	})

	t.Run("single token with offsets", func(t *testing.T) {
		mentions := Parse("hi @[Ana](u1)!")
		require.Len(t, mentions, 1)

		m := mentions[0]
		assert.Equal(t, "u1", m.ID)
		assert.Equal(t, "Ana", m.DisplayName)
		assert.Equal(t, 3, m.Start)
		assert.Equal(t, 13, m.End)
		assert.False(t, m.External)
	})

	t.Run("multiple tokens in order", func(t *testing.T) {
		mentions := Parse("@[Ana](u1) and @[Beto](u2)")
		require.Len(t, mentions, 2)
		assert.Equal(t, "u1", mentions[0].ID)
		assert.Equal(t, "u2", mentions[1].ID)
		assert.Less(t, mentions[0].End, mentions[1].Start)
	})

	t.Run("external id flagged", func(t *testing.T) {
		mentions := Parse("@[Maria](ext-a1b2c3)")
		require.Len(t, mentions, 1)
		assert.True(t, mentions[0].External)
	})

	t.Run("duplicate display names stay distinct", func(t *testing.T) {
		mentions := Parse("@[Ana](u1) vs @[Ana](u9)")
		require.Len(t, mentions, 2)
		assert.Equal(t, "u1", mentions[0].ID)
		assert.Equal(t, "u9", mentions[1].ID)
	})

	t.Run("malformed tokens are literal text", func(t *testing.T) {
		tests := []string{
			"@[Ana](",       // truncated
			"@[Ana]",        // no id part
			"@[](u1)",       // empty name
			"@[Ana]()",      // empty id
			"@Ana (u1)",     // no brackets
			"@[Ana](u 1)",   // whitespace in id
			"@[An]a](u1x", // unbalanced
		}
		for _, tt := range tests {
			assert.Nil(t, Parse(tt), "input %q", tt)
		}
	})
}

func TestParticipants(t *testing.T) {
	t.Run("one per mention", func(t *testing.T) {
		ps := Participants("@[Ana](u1), @[Maria](ext-x1)")
		require.Len(t, ps, 2)
		assert.Equal(t, "Ana", ps[0].DisplayName)
		assert.False(t, ps[0].External)
		assert.True(t, ps[1].External)
	})

	t.Run("deduplicates by id, first wins", func(t *testing.T) {
		ps := Participants("@[Ana](u1) and @[Ana B.](u1)")
		require.Len(t, ps, 1)
		assert.Equal(t, "Ana", ps[0].DisplayName)
	})

	t.Run("no mentions yields nil", func(t *testing.T) {
		assert.Nil(t, Participants("plain text"))
	})
}

func TestToPlainText(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{"empty", "", ""},
		{"no tokens", "hello world", "hello world"},
		{"single token", "hi @[Ana](u1)!", "hi @Ana!"},
		{"adjacent tokens", "@[Ana](u1)@[Beto](u2)", "@Ana@Beto"},
		{"malformed stays literal", "hi @[Ana](", "hi @[Ana]("},
		{"surrounding text preserved", "a @[B C](d) e", "a @B C e"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToPlainText(tt.markup))
		})
	}
}

// The display name shown after ToPlainText must match the parsed name.
func TestToPlainText_NamesMatchParse(t *testing.T) {
	markup := "see @[Ana](u1) and @[Maria](ext-9f)"
	plain := ToPlainText(markup)

	for _, m := range Parse(markup) {
		assert.Contains(t, plain, "@"+m.DisplayName)
	}
}
