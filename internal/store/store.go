// ============================================================================
// EchoVerse - Tone-Aware Audiobook Generator
// ============================================================================
//
// Package:     store
// Description: Filesystem persistence for narration artifacts
// Author:      Mike Stoffels with Claude
// Created:     2026-08-15
// License:     MIT
// ============================================================================

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
)

// Metadata describes one generated narration. It is written next to the
// text and audio artifacts and read back when listing past narrations.
type Metadata struct {
	Timestamp   string  `json:"timestamp"`
	Tone        string  `json:"tone"`
	Voice       string  `json:"voice"`
	Model       string  `json:"model"`
	OllamaURL   string  `json:"ollama_url"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	TextFile    string  `json:"text_file"`
	AudioFile   string  `json:"audio_file"`
}

// Entry is one listed narration. Meta is nil when the metadata file is
// missing or unreadable.
type Entry struct {
	Name string
	Path string
	Size int64
	Meta *Metadata
}

// Store persists narration artifacts under a single output directory.
// Artifacts share a sanitized-tone + timestamp key.
type Store struct {
	dir string
}

// New creates a store rooted at dir
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the output directory path
func (s *Store) Dir() string {
	return s.dir
}

// EnsureDir creates the output directory if it does not exist
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", s.dir, err)
	}
	return nil
}

// Timestamp returns the artifact key for the current time. One-second
// resolution; same-second same-tone submissions overwrite each other.
func Timestamp() string {
	return time.Now().Format("20060102-150405")
}

// SanitizeTone derives the filename segment for a tone label. Letters,
// digits, hyphen and underscore are kept, spaces become underscores,
// everything else is dropped, and leading/trailing underscores are trimmed.
func SanitizeTone(tone string) string {
	var b strings.Builder
	for _, r := range tone {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

// SaveText writes the rewritten text and returns its path
func (s *Store) SaveText(text, tone, ts string) (string, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("rewritten_%s_%s.txt", SanitizeTone(tone), ts))
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}
	return path, nil
}

// SaveAudio writes the MP3 bytes and returns the path
func (s *Store) SaveAudio(data []byte, prefix, tone, ts string) (string, error) {
	path := s.AudioPath(prefix, tone, ts)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	return path, nil
}

// AudioPath returns the audio artifact path for a prefix/tone/timestamp
// key without writing anything
func (s *Store) AudioPath(prefix, tone, ts string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s_%s.mp3", prefix, SanitizeTone(tone), ts))
}

// SaveMetadata writes the metadata document and returns its path
func (s *Store) SaveMetadata(meta Metadata, tone, ts string) (string, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("meta_%s_%s.json", SanitizeTone(tone), ts))
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write metadata file: %w", err)
	}
	return path, nil
}

// List returns past narrations newest-first, capped at limit. Entries with
// a missing or corrupt metadata file are listed with nil Meta rather than
// failing the whole listing.
func (s *Store) List(prefix string, limit int) ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, prefix+"_*.mp3"))
	if err != nil {
		return nil, fmt.Errorf("failed to list narrations: %w", err)
	}

	// names embed the timestamp, so name order is time order
	sort.Sort(sort.Reverse(sort.StringSlice(matches)))
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	entries := make([]Entry, 0, len(matches))
	for _, path := range matches {
		entry := Entry{Name: filepath.Base(path), Path: path}
		if info, err := os.Stat(path); err == nil {
			entry.Size = info.Size()
		}
		entry.Meta = s.readMetadata(prefix, entry.Name)
		entries = append(entries, entry)
	}
	return entries, nil
}

// readMetadata loads the metadata sibling of an audio file, or nil
func (s *Store) readMetadata(prefix, audioName string) *Metadata {
	stem := strings.TrimSuffix(audioName, ".mp3")
	key := strings.TrimPrefix(stem, prefix+"_")
	data, err := os.ReadFile(filepath.Join(s.dir, "meta_"+key+".json"))
	if err != nil {
		return nil
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil
	}
	return &meta
}
