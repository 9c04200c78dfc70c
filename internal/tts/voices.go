// ============================================================================
// EchoVerse - Tone-Aware Audiobook Generator
// ============================================================================
//
// Package:     tts
// Description: Voice presets for the network synthesis engine
// Author:      Mike Stoffels with Claude
// Created:     2026-08-15
// License:     MIT
// ============================================================================

package tts

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Voice selects the network engine's language, regional accent and pace
type Voice struct {
	Lang string `yaml:"lang" json:"lang"`
	TLD  string `yaml:"tld" json:"tld"`
	Slow bool   `yaml:"slow" json:"slow"`
}

// builtinPresets are always available; a user presets file may override
// them or add new ones.
var builtinPresets = map[string]Voice{
	"Kate (UK)":   {Lang: "en", TLD: "co.uk"},
	"Eric (US)":   {Lang: "en", TLD: "com"},
	"Aditi (EN)":  {Lang: "en", TLD: "co.in"},
	"Aditi (HI)":  {Lang: "hi", TLD: "co.in"},
	"Sai (TE)":    {Lang: "te", TLD: "co.in"},
	"Soft (slow)": {Lang: "en", TLD: "com", Slow: true},
}

// DefaultPreset is used when no voice is selected
const DefaultPreset = "Eric (US)"

// LoadPresets returns the builtin voice presets merged with the user
// presets file (user entries win). A missing file is fine; a malformed
// one is an error naming the file.
func LoadPresets(path string) (map[string]Voice, error) {
	presets := make(map[string]Voice, len(builtinPresets))
	for name, v := range builtinPresets {
		presets[name] = v
	}

	if path == "" {
		return presets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return presets, nil
		}
		return nil, fmt.Errorf("failed to read voice presets %s: %w", path, err)
	}

	user := make(map[string]Voice)
	if err := yaml.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to parse voice presets %s: %w", path, err)
	}

	for name, v := range user {
		if v.TLD == "" {
			v.TLD = "com"
		}
		presets[name] = v
	}
	return presets, nil
}

// PresetNames returns the preset names sorted alphabetically
func PresetNames(presets map[string]Voice) []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveVoice maps a preset name to its Voice. An unknown or empty name
// falls back to a plain voice for the given language code, so the CLI
// --lang path works without naming a preset.
func ResolveVoice(presets map[string]Voice, name, lang string) Voice {
	if v, ok := presets[name]; ok {
		return v
	}
	if lang == "" {
		lang = "en"
	}
	return Voice{Lang: lang, TLD: "com"}
}
