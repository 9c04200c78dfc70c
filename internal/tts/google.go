// ============================================================================
// EchoVerse - Tone-Aware Audiobook Generator
// ============================================================================
//
// Package:     tts
// Description: Network synthesis engine using the Google Translate TTS API
// Author:      Mike Stoffels with Claude
// Created:     2026-08-15
// License:     MIT
// ============================================================================

package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/msto63/echoverse/pkg/core/logging"
)

const (
	// maxChunkRunes is the per-request text limit of the translate_tts API
	maxChunkRunes = 200

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	requestTimeout = 30 * time.Second
)

// GoogleTTS synthesizes speech through the Google Translate TTS endpoint.
// Long text is split into chunks; the returned MP3 frames concatenate
// into one playable artifact.
type GoogleTTS struct {
	voice  Voice
	client *http.Client
	logger *logging.Logger

	// endpoint overrides the translate host when set (tests)
	endpoint string
}

// NewGoogleTTS creates the network synthesis engine for a voice
func NewGoogleTTS(voice Voice) *GoogleTTS {
	if voice.Lang == "" {
		voice.Lang = "en"
	}
	if voice.TLD == "" {
		voice.TLD = "com"
	}
	return &GoogleTTS{
		voice:  voice,
		client: &http.Client{Timeout: requestTimeout},
		logger: logging.New("tts-google"),
	}
}

// Synthesize converts text to MP3 audio bytes
func (g *GoogleTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("no text to synthesize")
	}

	chunks := splitChunks(text, maxChunkRunes)
	g.logger.Debug("synthesizing", "lang", g.voice.Lang, "tld", g.voice.TLD, "slow", g.voice.Slow, "chunks", len(chunks))

	var audio []byte
	for i, chunk := range chunks {
		data, err := g.fetchChunk(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		audio = append(audio, data...)
	}
	return audio, nil
}

// SynthesizeToFile converts text to MP3 audio and saves it to a file
func (g *GoogleTTS) SynthesizeToFile(ctx context.Context, text, path string) error {
	audio, err := g.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}

// Close releases resources
func (g *GoogleTTS) Close() error {
	return nil
}

func (g *GoogleTTS) fetchChunk(ctx context.Context, chunk string) ([]byte, error) {
	base := g.endpoint
	if base == "" {
		base = fmt.Sprintf("https://translate.google.%s", g.voice.TLD)
	}

	speed := "1"
	if g.voice.Slow {
		speed = "0.24"
	}

	query := url.Values{
		"ie":       {"UTF-8"},
		"q":        {chunk},
		"tl":       {g.voice.Lang},
		"client":   {"tw-ob"},
		"ttsspeed": {speed},
	}

	req, err := http.NewRequestWithContext(ctx, "GET", base+"/translate_tts?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v: %w", err, ErrBackendUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("request failed with status %d: %s: %w", resp.StatusCode, string(bodyBytes), ErrBackendUnavailable)
	}

	return io.ReadAll(resp.Body)
}

// splitChunks splits text into pieces of at most max runes, preferring
// sentence boundaries, then whitespace, then a hard cut.
func splitChunks(text string, max int) []string {
	runes := []rune(strings.TrimSpace(text))
	var chunks []string

	for len(runes) > 0 {
		if len(runes) <= max {
			if chunk := strings.TrimSpace(string(runes)); chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		window := runes[:max]
		cut := -1
		if unicode.IsSpace(runes[max]) {
			cut = max
		}
		if cut <= 0 {
			for i := len(window) - 1; i > 0; i-- {
				if window[i] == '.' || window[i] == '!' || window[i] == '?' {
					cut = i + 1
					break
				}
			}
		}
		if cut <= 0 {
			for i := len(window) - 1; i > 0; i-- {
				if unicode.IsSpace(window[i]) {
					cut = i
					break
				}
			}
		}
		if cut <= 0 {
			cut = max
		}

		if chunk := strings.TrimSpace(string(runes[:cut])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		runes = runes[cut:]
		for len(runes) > 0 && unicode.IsSpace(runes[0]) {
			runes = runes[1:]
		}
	}
	return chunks
}
