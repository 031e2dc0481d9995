package randid

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"length 0", 0},
		{"length 1", 1},
		{"length 4", 4},
		{"length 8", 8},
		{"length 16", 16},
	}

	pattern := regexp.MustCompile(`^[a-z0-9]*$`)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Generate(tt.length)

			assert.Len(t, result, tt.length, "Generate(%d) returned length %d, want %d", tt.length, len(result), tt.length)
			assert.True(t, pattern.MatchString(result), "Generate(%d) = %q, want only lowercase alphanumeric [a-z0-9]", tt.length, result)
		})
	}
}

func TestGenerate_Uniqueness(t *testing.T) {
	// Statistical check - extremely unlikely to fail with proper randomness.
	seen := make(map[string]bool)
	for range 100 {
		id := Generate(8)
		seen[id] = true
	}

	// With 36^8 possible combinations, getting fewer than 90 unique values
	// in 100 tries would indicate a serious randomness problem.
	assert.GreaterOrEqual(t, len(seen), 90, "Generate produced only %d unique values in 100 calls, expected near 100", len(seen))
}

func TestPrefixed(t *testing.T) {
	id := Prefixed("ext", 12)

	assert.True(t, strings.HasPrefix(id, "ext-"), "Prefixed id %q missing ext- prefix", id)
	assert.Len(t, id, len("ext-")+12)
}
