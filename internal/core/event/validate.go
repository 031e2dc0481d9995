package event

import (
	"fmt"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
)

const maxTitleLength = 200

// Validate checks structural validity of an event before persistence.
func (e Event) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("title", e.Title, titleValid),
		criterio.Run("starts_at", e.StartsAt, startsAtValid),
	)
}

func titleValid(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return fmt.Errorf("title is required")
	}
	if len(trimmed) > maxTitleLength {
		return fmt.Errorf("title exceeds %d characters", maxTitleLength)
	}
	return nil
}

func startsAtValid(t time.Time) error {
	if t.IsZero() {
		return fmt.Errorf("start time is required")
	}
	return nil
}

// ParseStartsAt accepts the date formats the CLI and import files use.
func ParseStartsAt(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q (want RFC3339, 2006-01-02 15:04, or 2006-01-02)", s)
}
