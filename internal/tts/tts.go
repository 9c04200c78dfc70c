// ============================================================================
// EchoVerse - Tone-Aware Audiobook Generator
// ============================================================================
//
// Package:     tts
// Description: Text-to-Speech engines producing MP3 audiobook audio
// Author:      Mike Stoffels with Claude
// Created:     2026-08-15
// License:     MIT
// ============================================================================

package tts

import (
	"context"
	"errors"
)

// Sentinel errors for the synthesis stage; callers match with errors.Is.
var (
	ErrBackendUnavailable   = errors.New("speech synthesis backend unavailable")
	ErrProgramMissing       = errors.New("external program missing")
	ErrProgramFailed        = errors.New("external program failed")
	ErrConverterUnavailable = errors.New("no WAV to MP3 converter available")
)

// Synthesizer is the interface for text-to-speech engines. Every engine
// produces MP3, so callers never need to know which one ran.
type Synthesizer interface {
	// Synthesize converts text to MP3 audio bytes
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// SynthesizeToFile converts text to MP3 audio and saves it to a file
	SynthesizeToFile(ctx context.Context, text, path string) error

	// Close releases resources
	Close() error
}
