// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// DisplayName validates a participant display name: non-empty after
// trimming and free of the characters the mention markup reserves.
func DisplayName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("display name is required")
	}
	if strings.ContainsAny(name, "[]\n") {
		return fmt.Errorf("display name must not contain brackets or newlines")
	}
	return nil
}

// DisplayNameField returns a criterio validator for display names.
func DisplayNameField(field, name string) error {
	return criterio.Run(field, name, DisplayName)
}

// ParticipantID validates a directory ID: non-empty and free of the
// characters the mention markup reserves.
func ParticipantID(id string) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}
	if strings.ContainsAny(id, "()") || strings.ContainsAny(id, " \t\n") {
		return fmt.Errorf("id must not contain parentheses or whitespace")
	}
	return nil
}

// ParticipantIDField returns a criterio validator for directory IDs.
func ParticipantIDField(field, id string) error {
	return criterio.Run(field, id, ParticipantID)
}

// EventTitle validates an event title is non-empty after trimming.
func EventTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}
