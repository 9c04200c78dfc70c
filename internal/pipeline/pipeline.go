// ============================================================================
// EchoVerse - Tone-Aware Audiobook Generator
// ============================================================================
//
// Package:     pipeline
// Description: Orchestrates validate, rewrite, synthesize and persist
// Author:      Mike Stoffels with Claude
// Created:     2026-08-15
// License:     MIT
// ============================================================================

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/msto63/echoverse/internal/ollama"
	"github.com/msto63/echoverse/internal/rewrite"
	"github.com/msto63/echoverse/internal/store"
	"github.com/msto63/echoverse/internal/tts"
	"github.com/msto63/echoverse/pkg/core/logging"
)

// ErrEmptyInput marks a job rejected for empty or whitespace-only text
var ErrEmptyInput = errors.New("no input text provided")

// ErrBusy marks a job rejected because another one is still running
var ErrBusy = errors.New("a job is already running")

// Job is one narration request
type Job struct {
	Text        string
	Tone        string
	Model       string
	OllamaURL   string
	Temperature float64
	MaxTokens   int
	VoiceName   string
	Lang        string
	PiperModel  string
	OutPrefix   string
}

// Result carries the artifacts of a finished job back to the front-end
type Result struct {
	RewrittenText string
	Audio         []byte
	TextPath      string
	AudioPath     string
	MetaPath      string
	Meta          store.Metadata
}

// Rewriter is the rewrite stage contract
type Rewriter interface {
	Rewrite(ctx context.Context, text, tone string, opts rewrite.Options) (string, error)
}

// Orchestrator runs narration jobs one at a time through the pipeline.
// Both front-ends share one instance; its state machine is the busy gate.
type Orchestrator struct {
	store   *store.Store
	presets map[string]tts.Voice
	state   *StateMachine
	logger  *logging.Logger

	rewriterFor    func(job Job) Rewriter
	synthesizerFor func(job Job) (tts.Synthesizer, error)
}

// New creates an orchestrator persisting into st, with voice presets for
// the network synthesis engine
func New(st *store.Store, presets map[string]tts.Voice) *Orchestrator {
	o := &Orchestrator{
		store:   st,
		presets: presets,
		state:   NewStateMachine(),
		logger:  logging.New("pipeline"),
	}

	o.rewriterFor = func(job Job) Rewriter {
		cfg := ollama.DefaultConfig()
		if job.OllamaURL != "" {
			cfg.BaseURL = job.OllamaURL
		}
		return rewrite.New(ollama.NewClient(cfg))
	}

	// A Piper voice model path selects the offline engine
	o.synthesizerFor = func(job Job) (tts.Synthesizer, error) {
		if job.PiperModel != "" {
			return tts.NewPiperTTS("", job.PiperModel)
		}
		return tts.NewGoogleTTS(tts.ResolveVoice(o.presets, job.VoiceName, job.Lang)), nil
	}

	return o
}

// State exposes the job state machine for front-end progress display
func (o *Orchestrator) State() *StateMachine {
	return o.state
}

// Store returns the output store
func (o *Orchestrator) Store() *store.Store {
	return o.store
}

// Presets returns the voice presets available to jobs
func (o *Orchestrator) Presets() map[string]tts.Voice {
	return o.presets
}

// Run executes one job: validate, rewrite, synthesize, persist. Artifacts
// are only written after synthesis succeeded, so a metadata file never
// references a missing sibling. No retries; the first error ends the job.
func (o *Orchestrator) Run(ctx context.Context, job Job) (*Result, error) {
	if !o.state.Transition(StateValidating) {
		return nil, ErrBusy
	}

	job.Text = strings.TrimSpace(job.Text)
	if job.Text == "" {
		o.state.Transition(StateFailed)
		return nil, fmt.Errorf("please provide some input text: %w", ErrEmptyInput)
	}
	if job.OutPrefix == "" {
		job.OutPrefix = "speech"
	}

	if !o.state.Transition(StateRewriting) {
		return nil, ErrBusy
	}
	o.logger.Info("rewriting", "model", job.Model, "tone", job.Tone, "chars", len(job.Text))

	opts := rewrite.Options{Model: job.Model, Temperature: job.Temperature, MaxTokens: job.MaxTokens}
	rewritten, err := o.rewriterFor(job).Rewrite(ctx, job.Text, job.Tone, opts)
	if err != nil {
		o.logger.Error("rewrite failed", "error", err)
		o.state.Transition(StateFailed)
		return nil, err
	}

	if !o.state.Transition(StateSynthesizing) {
		return nil, ErrBusy
	}

	synth, err := o.synthesizerFor(job)
	if err != nil {
		o.logger.Error("synthesis setup failed", "error", err)
		o.state.Transition(StateFailed)
		return nil, err
	}
	defer synth.Close()

	o.logger.Info("synthesizing", "voice", job.VoiceName, "lang", job.Lang, "offline", job.PiperModel != "")
	audio, err := synth.Synthesize(ctx, rewritten)
	if err != nil {
		o.logger.Error("synthesis failed", "error", err)
		o.state.Transition(StateFailed)
		return nil, err
	}

	if !o.state.Transition(StatePersisting) {
		return nil, ErrBusy
	}

	result, err := o.persist(job, rewritten, audio)
	if err != nil {
		o.logger.Error("persist failed", "error", err)
		o.state.Transition(StateFailed)
		return nil, err
	}

	o.state.Transition(StateDone)
	o.logger.Info("job done", "audio", result.AudioPath, "bytes", len(audio))
	return result, nil
}

// persist writes text, audio and metadata under one tone+timestamp key,
// in that order
func (o *Orchestrator) persist(job Job, rewritten string, audio []byte) (*Result, error) {
	if err := o.store.EnsureDir(); err != nil {
		return nil, err
	}

	ts := store.Timestamp()

	textPath, err := o.store.SaveText(rewritten, job.Tone, ts)
	if err != nil {
		return nil, err
	}

	audioPath, err := o.store.SaveAudio(audio, job.OutPrefix, job.Tone, ts)
	if err != nil {
		return nil, err
	}

	meta := store.Metadata{
		Timestamp:   ts,
		Tone:        job.Tone,
		Voice:       job.VoiceName,
		Model:       job.Model,
		OllamaURL:   job.OllamaURL,
		Temperature: job.Temperature,
		MaxTokens:   job.MaxTokens,
		TextFile:    textPath,
		AudioFile:   audioPath,
	}
	metaPath, err := o.store.SaveMetadata(meta, job.Tone, ts)
	if err != nil {
		return nil, err
	}

	return &Result{
		RewrittenText: rewritten,
		Audio:         audio,
		TextPath:      textPath,
		AudioPath:     audioPath,
		MetaPath:      metaPath,
		Meta:          meta,
	}, nil
}
