// ============================================================================
// EchoVerse - Tone-Aware Audiobook Generator
// ============================================================================
//
// Package:     tts
// Description: Offline synthesis engine using the Piper CLI
// Author:      Mike Stoffels with Claude
// Created:     2026-08-15
// License:     MIT
// ============================================================================

package tts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/msto63/echoverse/pkg/core/logging"
)

// PiperTTS synthesizes speech offline with the Piper CLI and a local
// .onnx voice model, then converts the WAV output to MP3.
type PiperTTS struct {
	binaryPath string
	modelPath  string
	logger     *logging.Logger
}

// NewPiperTTS creates the offline engine. The piper binary must be on
// PATH (or given as an absolute path) and the voice model must exist.
func NewPiperTTS(binary, modelPath string) (*PiperTTS, error) {
	if binary == "" {
		binary = "piper"
	}

	resolved, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("Piper CLI not found in PATH (see: https://github.com/rhasspy/piper): %w", ErrProgramMissing)
	}

	if modelPath == "" {
		return nil, fmt.Errorf("piper voice model path is required")
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("piper voice model not found: %s", modelPath)
	}

	return &PiperTTS{
		binaryPath: resolved,
		modelPath:  modelPath,
		logger:     logging.New("tts-piper"),
	}, nil
}

// Synthesize converts text to MP3 audio bytes via a temporary file
func (p *PiperTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "echoverse-tts-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	mp3Path := filepath.Join(tmpDir, "speech.mp3")
	if err := p.SynthesizeToFile(ctx, text, mp3Path); err != nil {
		return nil, err
	}
	return os.ReadFile(mp3Path)
}

// SynthesizeToFile synthesizes a WAV next to the target path, converts it
// to MP3, and removes the intermediate WAV on success.
func (p *PiperTTS) SynthesizeToFile(ctx context.Context, text, path string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no text to synthesize")
	}

	wavPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".wav"

	p.logger.Debug("running piper", "model", p.modelPath, "output", wavPath)
	cmd := exec.CommandContext(ctx, p.binaryPath, "--model", p.modelPath, "--output_file", wavPath)
	cmd.Stdin = strings.NewReader(text)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("piper failed: %v, stderr: %s: %w", err, stderr.String(), ErrProgramFailed)
	}

	if err := ConvertWAVToMP3(ctx, wavPath, path); err != nil {
		return err
	}

	if err := os.Remove(wavPath); err != nil {
		p.logger.Warn("failed to remove intermediate WAV", "path", wavPath, "error", err)
	}
	return nil
}

// Close releases resources
func (p *PiperTTS) Close() error {
	return nil
}
