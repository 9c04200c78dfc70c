package tts

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPresets_Builtins(t *testing.T) {
	presets, err := LoadPresets("")
	require.NoError(t, err)

	require.Len(t, presets, 6)
	assert.Equal(t, Voice{Lang: "en", TLD: "co.uk"}, presets["Kate (UK)"])
	assert.Equal(t, Voice{Lang: "en", TLD: "com"}, presets["Eric (US)"])
	assert.Equal(t, Voice{Lang: "hi", TLD: "co.in"}, presets["Aditi (HI)"])
	assert.Equal(t, Voice{Lang: "te", TLD: "co.in"}, presets["Sai (TE)"])
	assert.True(t, presets["Soft (slow)"].Slow)
}

func TestLoadPresets_MissingFileIsFine(t *testing.T) {
	presets, err := LoadPresets(filepath.Join(t.TempDir(), "voices.yaml"))
	require.NoError(t, err)
	assert.Len(t, presets, 6)
}

func TestLoadPresets_UserFileMergesAndWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voices.yaml")
	content := `
"Nila (TA)":
  lang: ta
  tld: co.in
"Eric (US)":
  lang: en
  tld: com
  slow: true
"Marie (FR)":
  lang: fr
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	presets, err := LoadPresets(path)
	require.NoError(t, err)

	assert.Len(t, presets, 8)
	assert.Equal(t, Voice{Lang: "ta", TLD: "co.in"}, presets["Nila (TA)"])
	assert.True(t, presets["Eric (US)"].Slow, "user entry should override the builtin")
	assert.Equal(t, "com", presets["Marie (FR)"].TLD, "missing tld should default to com")
}

func TestLoadPresets_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voices.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0o644))

	_, err := LoadPresets(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestPresetNames_Sorted(t *testing.T) {
	presets, err := LoadPresets("")
	require.NoError(t, err)

	names := PresetNames(presets)
	require.Len(t, names, 6)
	assert.True(t, sort.StringsAreSorted(names))
}

func TestResolveVoice(t *testing.T) {
	presets, err := LoadPresets("")
	require.NoError(t, err)

	assert.Equal(t, Voice{Lang: "en", TLD: "co.uk"}, ResolveVoice(presets, "Kate (UK)", "en"))
	assert.Equal(t, Voice{Lang: "te", TLD: "com"}, ResolveVoice(presets, "", "te"), "no preset falls back to the language code")
	assert.Equal(t, Voice{Lang: "en", TLD: "com"}, ResolveVoice(presets, "No Such Voice", ""), "unknown preset with no lang falls back to en")
}
