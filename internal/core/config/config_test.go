package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := Load(filepath.Join(dir, "nope.yml"), dir)
		require.NoError(t, err)

		assert.Equal(t, DefaultTheme, cfg.TUI.Theme)
		assert.Equal(t, DefaultDebounceMS, cfg.Directory.DebounceMS)
		assert.Equal(t, DefaultSearchLimit, cfg.Directory.SearchLimit)
		assert.Equal(t, dir, cfg.DataDir)
	})

	t.Run("sparse file backfills defaults", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("display_name: Ana\n"), 0o644))

		cfg, err := Load(path, dir)
		require.NoError(t, err)

		assert.Equal(t, "Ana", cfg.DisplayName)
		assert.Equal(t, DefaultTheme, cfg.TUI.Theme)
		assert.Equal(t, DefaultSearchLimit, cfg.Directory.SearchLimit)
	})

	t.Run("explicit values win", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yml")
		body := "tui:\n  theme: gruvbox\ndirectory:\n  debounce_ms: 150\n  search_limit: 3\n"
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		cfg, err := Load(path, dir)
		require.NoError(t, err)

		assert.Equal(t, "gruvbox", cfg.TUI.Theme)
		assert.Equal(t, 150, cfg.Directory.DebounceMS)
		assert.Equal(t, 3, cfg.Directory.SearchLimit)
	})

	t.Run("unknown theme rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("tui:\n  theme: neon-zebra\n"), 0o644))

		_, err := Load(path, dir)
		assert.Error(t, err)
	})

	t.Run("bad yaml rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yml")
		require.NoError(t, os.WriteFile(path, []byte(":\n\t- nope"), 0o644))

		_, err := Load(path, dir)
		assert.Error(t, err)
	})

	t.Run("search limit bounds", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("directory:\n  search_limit: 99\n"), 0o644))

		_, err := Load(path, dir)
		assert.Error(t, err)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	cfg := Default(dir)
	cfg.DisplayName = "Beto"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, "Beto", loaded.DisplayName)
	assert.Equal(t, cfg.TUI.Theme, loaded.TUI.Theme)
}
