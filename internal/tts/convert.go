// ============================================================================
// EchoVerse - Tone-Aware Audiobook Generator
// ============================================================================
//
// Package:     tts
// Description: WAV to MP3 conversion via external converter programs
// Author:      Mike Stoffels with Claude
// Created:     2026-08-15
// License:     MIT
// ============================================================================

package tts

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
)

// converterPrograms share the `-y -i <in> <out>` invocation; the first
// one found on PATH is used.
var converterPrograms = []string{"ffmpeg", "avconv"}

// findConverter returns the first available converter program
func findConverter() (string, error) {
	for _, prog := range converterPrograms {
		if path, err := exec.LookPath(prog); err == nil {
			return path, nil
		}
	}
	return "", ErrConverterUnavailable
}

// ConvertWAVToMP3 converts a waveform file to MP3 with ffmpeg or avconv.
// When neither is installed the WAV is left in place and the error names
// its path.
func ConvertWAVToMP3(ctx context.Context, wavPath, mp3Path string) error {
	prog, err := findConverter()
	if err != nil {
		return fmt.Errorf("install ffmpeg (or avconv) to get MP3, WAV file kept at %s: %w", wavPath, err)
	}

	cmd := exec.CommandContext(ctx, prog, "-y", "-i", wavPath, mp3Path)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed to convert WAV to MP3: %v, stderr: %s: %w",
			filepath.Base(prog), err, stderr.String(), ErrProgramFailed)
	}
	return nil
}
