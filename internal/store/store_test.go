package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeTone(t *testing.T) {
	tests := []struct {
		name string
		tone string
		want string
	}{
		{"plain tone", "Neutral", "Neutral"},
		{"punctuation dropped", "Suspenseful!!", "Suspenseful"},
		{"spaces become underscores", "Calm & Slow", "Calm__Slow"},
		{"hyphen kept", "sci-fi", "sci-fi"},
		{"digits kept", "Tone2", "Tone2"},
		{"unicode letters kept", "Dramático", "Dramático"},
		{"surrounding underscores trimmed", "__Weird__", "Weird"},
		{"only punctuation", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeTone(tt.tone)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, SanitizeTone(got), "sanitization must be idempotent")
		})
	}
}

func TestTimestamp_Format(t *testing.T) {
	ts := Timestamp()
	parsed, err := time.ParseInLocation("20060102-150405", ts, time.Local)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), parsed, 2*time.Second)
}

func TestStore_EnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outputs", "nested")
	s := New(dir)

	require.NoError(t, s.EnsureDir())
	require.NoError(t, s.EnsureDir(), "EnsureDir must be idempotent")

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStore_SaveText(t *testing.T) {
	s := New(t.TempDir())

	path, err := s.SaveText("Once upon a midnight dreary.", "Suspenseful!!", "20260815-101530")
	require.NoError(t, err)

	assert.Equal(t, "rewritten_Suspenseful_20260815-101530.txt", filepath.Base(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Once upon a midnight dreary.", string(data))
}

func TestStore_SaveAudio(t *testing.T) {
	s := New(t.TempDir())

	path, err := s.SaveAudio([]byte("mp3-bytes"), "speech", "Calm & Slow", "20260815-101530")
	require.NoError(t, err)

	assert.Equal(t, "speech_Calm__Slow_20260815-101530.mp3", filepath.Base(path))
	assert.Equal(t, path, s.AudioPath("speech", "Calm & Slow", "20260815-101530"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(data))
}

func TestStore_SaveMetadata(t *testing.T) {
	s := New(t.TempDir())

	meta := Metadata{
		Timestamp:   "20260815-101530",
		Tone:        "Calm & Slow",
		Voice:       "Kate (UK)",
		Model:       "gemma3:4b",
		OllamaURL:   "http://localhost:11434",
		Temperature: 0.7,
		MaxTokens:   512,
		TextFile:    "/out/rewritten_Calm__Slow_20260815-101530.txt",
		AudioFile:   "/out/speech_Calm__Slow_20260815-101530.mp3",
	}

	path, err := s.SaveMetadata(meta, meta.Tone, meta.Timestamp)
	require.NoError(t, err)
	assert.Equal(t, "meta_Calm__Slow_20260815-101530.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	for _, key := range []string{
		"timestamp", "tone", "voice", "model", "ollama_url",
		"temperature", "max_tokens", "text_file", "audio_file",
	} {
		assert.Contains(t, string(data), `"`+key+`"`)
	}

	var got Metadata
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, meta, got, "the raw tone must survive the round trip")
}

func writeNarration(t *testing.T, s *Store, tone, ts string) {
	t.Helper()
	txt, err := s.SaveText("text", tone, ts)
	require.NoError(t, err)
	mp3, err := s.SaveAudio([]byte("audio"), "speech", tone, ts)
	require.NoError(t, err)
	_, err = s.SaveMetadata(Metadata{
		Timestamp: ts, Tone: tone, Voice: "Eric (US)", Model: "gemma3:4b",
		TextFile: txt, AudioFile: mp3,
	}, tone, ts)
	require.NoError(t, err)
}

func TestStore_List(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.EnsureDir())

	writeNarration(t, s, "Joyful", "20260815-101000")
	writeNarration(t, s, "Joyful", "20260815-102000")
	writeNarration(t, s, "Joyful", "20260815-103000")

	entries, err := s.List("speech", 20)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "speech_Joyful_20260815-103000.mp3", entries[0].Name, "newest first")
	assert.Equal(t, "speech_Joyful_20260815-101000.mp3", entries[2].Name)

	for _, e := range entries {
		require.NotNil(t, e.Meta)
		assert.Equal(t, "Joyful", e.Meta.Tone)
		assert.Equal(t, int64(len("audio")), e.Size)
	}
}

func TestStore_List_Limit(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.EnsureDir())

	writeNarration(t, s, "Neutral", "20260815-101000")
	writeNarration(t, s, "Neutral", "20260815-102000")
	writeNarration(t, s, "Neutral", "20260815-103000")

	entries, err := s.List("speech", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "speech_Neutral_20260815-103000.mp3", entries[0].Name)
}

func TestStore_List_ToleratesBrokenMetadata(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.EnsureDir())

	writeNarration(t, s, "Joyful", "20260815-101000")

	// audio without any metadata file
	_, err := s.SaveAudio([]byte("audio"), "speech", "Joyful", "20260815-102000")
	require.NoError(t, err)

	// audio with corrupt metadata
	_, err = s.SaveAudio([]byte("audio"), "speech", "Joyful", "20260815-103000")
	require.NoError(t, err)
	corrupt := filepath.Join(s.Dir(), "meta_Joyful_20260815-103000.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o644))

	entries, err := s.List("speech", 20)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Nil(t, entries[0].Meta, "corrupt metadata must not fail the listing")
	assert.Nil(t, entries[1].Meta, "missing metadata must not fail the listing")
	require.NotNil(t, entries[2].Meta)
	assert.Equal(t, "Joyful", entries[2].Meta.Tone)
}

func TestStore_List_EmptyDir(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.EnsureDir())

	entries, err := s.List("speech", 20)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_List_IgnoresOtherPrefixes(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.EnsureDir())

	writeNarration(t, s, "Joyful", "20260815-101000")
	_, err := s.SaveAudio([]byte("audio"), "podcast", "Joyful", "20260815-102000")
	require.NoError(t, err)

	entries, err := s.List("speech", 20)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "speech_Joyful_20260815-101000.mp3", entries[0].Name)
}
