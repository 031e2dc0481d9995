package config

import (
	"fmt"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/mingle/internal/core/styles"
)

// Validate performs structural validation of the configuration.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("tui.theme", c.TUI.Theme, themeKnown),
		criterio.Run("directory.debounce_ms", c.Directory.DebounceMS, positive("debounce")),
		criterio.Run("directory.search_limit", c.Directory.SearchLimit, withinSearchLimit),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func themeKnown(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", name, styles.ThemeNames())
	}
	return nil
}

func positive(what string) func(int) error {
	return func(v int) error {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", what, v)
		}
		return nil
	}
}

func withinSearchLimit(v int) error {
	if v < 1 || v > 50 {
		return fmt.Errorf("search limit must be between 1 and 50, got %d", v)
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
