package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/echoverse/internal/rewrite"
	"github.com/msto63/echoverse/internal/store"
	"github.com/msto63/echoverse/internal/tts"
)

type fakeRewriter struct {
	out    string
	err    error
	called bool

	gotText string
	gotTone string
	gotOpts rewrite.Options
}

func (f *fakeRewriter) Rewrite(_ context.Context, text, tone string, opts rewrite.Options) (string, error) {
	f.called = true
	f.gotText = text
	f.gotTone = tone
	f.gotOpts = opts
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

type fakeSynth struct {
	out    []byte
	err    error
	called bool

	gotText string
	release chan struct{}
}

func (f *fakeSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	f.called = true
	f.gotText = text
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func (f *fakeSynth) SynthesizeToFile(ctx context.Context, text, path string) error {
	data, err := f.Synthesize(ctx, text)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (f *fakeSynth) Close() error { return nil }

func newTestOrchestrator(t *testing.T, rw Rewriter, synth tts.Synthesizer) *Orchestrator {
	t.Helper()
	o := New(store.New(t.TempDir()), nil)
	o.rewriterFor = func(Job) Rewriter { return rw }
	o.synthesizerFor = func(Job) (tts.Synthesizer, error) { return synth, nil }
	return o
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestOrchestrator_Run_Success(t *testing.T) {
	rw := &fakeRewriter{out: "A dark and stormy rewrite."}
	synth := &fakeSynth{out: []byte("mp3-bytes")}
	o := newTestOrchestrator(t, rw, synth)

	job := Job{
		Text:        "  A plain tale. ",
		Tone:        "Suspenseful",
		Model:       "gemma3:4b",
		OllamaURL:   "http://localhost:11434",
		Temperature: 0.7,
		MaxTokens:   512,
		VoiceName:   "Eric (US)",
		Lang:        "en",
		OutPrefix:   "speech",
	}

	result, err := o.Run(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, StateDone, o.State().Current())

	assert.Equal(t, "A plain tale.", rw.gotText, "input must be trimmed before the rewrite")
	assert.Equal(t, "Suspenseful", rw.gotTone)
	assert.Equal(t, rewrite.Options{Model: "gemma3:4b", Temperature: 0.7, MaxTokens: 512}, rw.gotOpts)
	assert.Equal(t, "A dark and stormy rewrite.", synth.gotText, "synthesis must consume the rewritten text")

	assert.Equal(t, "A dark and stormy rewrite.", result.RewrittenText)
	assert.Equal(t, []byte("mp3-bytes"), result.Audio)

	// all three artifacts share one tone+timestamp key
	textBase := filepath.Base(result.TextPath)
	ts := strings.TrimSuffix(strings.TrimPrefix(textBase, "rewritten_Suspenseful_"), ".txt")
	require.NotEmpty(t, ts)
	assert.Equal(t, "speech_Suspenseful_"+ts+".mp3", filepath.Base(result.AudioPath))
	assert.Equal(t, "meta_Suspenseful_"+ts+".json", filepath.Base(result.MetaPath))

	for _, path := range []string{result.TextPath, result.AudioPath, result.MetaPath} {
		assert.FileExists(t, path)
	}

	data, err := os.ReadFile(result.MetaPath)
	require.NoError(t, err)
	var meta store.Metadata
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, result.Meta, meta)
	assert.Equal(t, "Suspenseful", meta.Tone)
	assert.Equal(t, result.TextPath, meta.TextFile)
	assert.Equal(t, result.AudioPath, meta.AudioFile)
}

func TestOrchestrator_Run_EmptyInput(t *testing.T) {
	rw := &fakeRewriter{out: "never"}
	synth := &fakeSynth{out: []byte("never")}
	o := newTestOrchestrator(t, rw, synth)

	_, err := o.Run(context.Background(), Job{Text: "   \n\t "})
	require.ErrorIs(t, err, ErrEmptyInput)

	assert.Equal(t, StateFailed, o.State().Current())
	assert.False(t, rw.called, "rewrite must not run for empty input")
	assert.False(t, synth.called, "synthesis must not run for empty input")
	assert.Empty(t, dirEntries(t, o.Store().Dir()), "no files for a rejected job")
}

func TestOrchestrator_Run_RewriteFails(t *testing.T) {
	rewriteErr := errors.New("Ollama model 'gemma3:4b' not found at http://localhost:11434")
	rw := &fakeRewriter{err: rewriteErr}
	synth := &fakeSynth{out: []byte("never")}
	o := newTestOrchestrator(t, rw, synth)

	_, err := o.Run(context.Background(), Job{Text: "hello", Tone: "Joyful"})
	require.ErrorIs(t, err, rewriteErr, "rewrite errors must surface verbatim")

	assert.Equal(t, StateFailed, o.State().Current())
	assert.False(t, synth.called)
	assert.Empty(t, dirEntries(t, o.Store().Dir()))
}

func TestOrchestrator_Run_SynthesisFails(t *testing.T) {
	rw := &fakeRewriter{out: "rewritten"}
	synth := &fakeSynth{err: tts.ErrBackendUnavailable}
	o := newTestOrchestrator(t, rw, synth)

	_, err := o.Run(context.Background(), Job{Text: "hello", Tone: "Joyful"})
	require.ErrorIs(t, err, tts.ErrBackendUnavailable)

	assert.Equal(t, StateFailed, o.State().Current())
	assert.Empty(t, dirEntries(t, o.Store().Dir()),
		"a failed synthesis must not leave text or metadata behind")
}

func TestOrchestrator_Run_SynthesizerSetupFails(t *testing.T) {
	rw := &fakeRewriter{out: "rewritten"}
	o := newTestOrchestrator(t, rw, nil)
	o.synthesizerFor = func(Job) (tts.Synthesizer, error) {
		return nil, tts.ErrProgramMissing
	}

	_, err := o.Run(context.Background(), Job{Text: "hello", Tone: "Joyful"})
	require.ErrorIs(t, err, tts.ErrProgramMissing)

	assert.Equal(t, StateFailed, o.State().Current())
	assert.Empty(t, dirEntries(t, o.Store().Dir()))
}

func TestOrchestrator_Run_DefaultPrefix(t *testing.T) {
	rw := &fakeRewriter{out: "rewritten"}
	synth := &fakeSynth{out: []byte("mp3")}
	o := newTestOrchestrator(t, rw, synth)

	result, err := o.Run(context.Background(), Job{Text: "hello", Tone: "Joyful"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(result.AudioPath), "speech_"))
}

func TestOrchestrator_Run_RejectsOverlappingJobs(t *testing.T) {
	release := make(chan struct{})
	rw := &fakeRewriter{out: "rewritten"}
	synth := &fakeSynth{out: []byte("mp3"), release: release}
	o := newTestOrchestrator(t, rw, synth)

	done := make(chan error, 1)
	go func() {
		_, err := o.Run(context.Background(), Job{Text: "first", Tone: "Joyful"})
		done <- err
	}()

	require.Eventually(t, func() bool {
		return o.State().Current() == StateSynthesizing
	}, time.Second, 5*time.Millisecond)

	_, err := o.Run(context.Background(), Job{Text: "second", Tone: "Joyful"})
	require.ErrorIs(t, err, ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateDone, o.State().Current())
}

func TestOrchestrator_Run_ReusableAfterFailure(t *testing.T) {
	rw := &fakeRewriter{out: "rewritten"}
	synth := &fakeSynth{out: []byte("mp3")}
	o := newTestOrchestrator(t, rw, synth)

	_, err := o.Run(context.Background(), Job{Text: " "})
	require.ErrorIs(t, err, ErrEmptyInput)

	result, err := o.Run(context.Background(), Job{Text: "hello", Tone: "Joyful"})
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, StateDone, o.State().Current())
}

func TestOrchestrator_Run_StateSequence(t *testing.T) {
	rw := &fakeRewriter{out: "rewritten"}
	synth := &fakeSynth{out: []byte("mp3")}
	o := newTestOrchestrator(t, rw, synth)

	var seen []State
	o.State().AddListener(func(_, to State) { seen = append(seen, to) })

	_, err := o.Run(context.Background(), Job{Text: "hello", Tone: "Joyful"})
	require.NoError(t, err)

	assert.Equal(t, []State{
		StateValidating, StateRewriting, StateSynthesizing,
		StatePersisting, StateDone,
	}, seen)
}
