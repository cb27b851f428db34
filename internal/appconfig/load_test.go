package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	def, err := DefaultConfig()
	require.NoError(t, err)
	assert.Equal(t, def, cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
config_version: 1
render:
  format: html
  split: line
html:
  class: ""
  target_blank: true
term:
  hyperlinks: true
preview:
  width: 72
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, cfg.Render.Format)
	assert.Equal(t, "line", cfg.Render.Split)
	assert.Equal(t, "", cfg.HTML.Class)
	assert.True(t, cfg.HTML.TargetBlank)
	assert.True(t, cfg.HTML.Safelink, "unset keys keep defaults")
	assert.Equal(t, ProfileAuto, cfg.Term.Profile)
	assert.True(t, cfg.Term.Hyperlinks)
	assert.Equal(t, 72, cfg.Preview.Width)
}

func TestLoadRejects(t *testing.T) {
	for _, tc := range []struct {
		name string
		yaml string
		err  string
	}{
		{"missing version", "render:\n  format: html\n", "config_version is required"},
		{"unsupported version", "config_version: 2\n", "unsupported config_version 2"},
		{"bad format", "config_version: 1\nrender:\n  format: pdf\n", `unsupported render.format "pdf"`},
		{"bad split", "config_version: 1\nrender:\n  split: words\n", `render.split: invalid split mode "words"`},
		{"bad profile", "config_version: 1\nterm:\n  profile: sixel\n", `unsupported term.profile "sixel"`},
		{"negative width", "config_version: 1\npreview:\n  width: -1\n", "preview.width must not be negative"},
		{"malformed", "config_version: [1\n", "reading "},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.err)
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	written, err := WriteDefault(path, false)
	require.NoError(t, err)
	assert.Equal(t, path, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "config_version: 1\n")
	assert.Contains(t, string(data), "format: segments\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	def, _ := DefaultConfig()
	assert.Equal(t, def, cfg, "written defaults load back")

	_, err = WriteDefault(path, false)
	assert.EqualError(t, err, "config already exists at "+path)

	_, err = WriteDefault(path, true)
	assert.NoError(t, err)
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}
