// Package directory defines the participant directory: the people that can
// be mentioned in event descriptions and attached to events.
//
// Participants come in two flavors. Registered participants live in the
// local directory and are found via Searcher. External participants are
// minted on the fly when the user tags someone the directory doesn't know;
// they carry a synthetic id with a fixed prefix so they remain
// distinguishable after a round trip through persisted markup.
package directory

import (
	"context"
	"strings"

	"github.com/colonyops/mingle/pkg/randid"
)

// ExternalIDPrefix marks synthetic ids of participants created outside the
// directory. The prefix is part of the persisted markup format and must not
// change.
const ExternalIDPrefix = "ext"

const externalIDLength = 12

// Participant is a person that can be mentioned and attached to an event.
type Participant struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	Handle       string `json:"handle,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	External     bool   `json:"external"`
}

// Searcher is the suggestion source consumed by the mention composer.
// Implementations match the query case-insensitively against at least the
// display name and handle. A failed search must surface as an error, not a
// panic; callers degrade to zero candidates.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Participant, error)
}

// NewExternal mints a participant for a display name with no directory
// match. No network or database round trip is involved.
func NewExternal(displayName string) Participant {
	return Participant{
		ID:          randid.Prefixed(ExternalIDPrefix, externalIDLength),
		DisplayName: strings.TrimSpace(displayName),
		External:    true,
	}
}

// IsExternalID reports whether id follows the external-participant prefix
// convention.
func IsExternalID(id string) bool {
	return strings.HasPrefix(id, ExternalIDPrefix+"-")
}
