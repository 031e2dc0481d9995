// Package event defines the event domain model: cultural events with a
// mention-carrying description and a tagged participant list.
package event

import (
	"time"

	"github.com/colonyops/mingle/internal/core/directory"
)

// Event is a single cultural event. Description holds the raw mention
// markup, never the plain rendering, so tagged participants survive a
// reload.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Venue       string    `json:"venue,omitempty"`
	StartsAt    time.Time `json:"starts_at"`
	Description string    `json:"description,omitempty"`
	OrganizerID string    `json:"organizer_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Participant is one tagged participant on an event, with their RSVP
// state.
type Participant struct {
	Participant directory.Participant `json:"participant"`
	Status      directory.Status      `json:"status"`
}
