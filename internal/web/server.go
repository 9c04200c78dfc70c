// ============================================================================
// EchoVerse - Tone-Aware Audiobook Generator
// ============================================================================
//
// Package:     web
// Description: Browser front-end over the narration pipeline
// Author:      Mike Stoffels with Claude
// Created:     2026-08-15
// License:     MIT
// ============================================================================

package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/msto63/echoverse/internal/config"
	"github.com/msto63/echoverse/internal/ollama"
	"github.com/msto63/echoverse/internal/pipeline"
	"github.com/msto63/echoverse/internal/rewrite"
	"github.com/msto63/echoverse/internal/store"
	"github.com/msto63/echoverse/internal/tts"
	"github.com/msto63/echoverse/pkg/core/cache"
	"github.com/msto63/echoverse/pkg/core/logging"
	"github.com/msto63/echoverse/pkg/core/version"
)

// Server is the browser front-end. It accepts one narration job at a time
// and pushes progress over WebSocket.
type Server struct {
	cfg        *config.Config
	orch       *pipeline.Orchestrator
	logger     *logging.Logger
	modelCache *cache.Cache[[]string]
	noBrowser  bool

	httpServer *http.Server

	mu      sync.Mutex
	jobs    map[string]*jobRecord
	current *jobRecord
}

// NewServer creates the front-end over an orchestrator
func NewServer(cfg *config.Config, orch *pipeline.Orchestrator, noBrowser bool) *Server {
	s := &Server{
		cfg:        cfg,
		orch:       orch,
		logger:     logging.New("web"),
		modelCache: cache.New[[]string](30 * time.Second),
		noBrowser:  noBrowser,
		jobs:       make(map[string]*jobRecord),
	}

	orch.State().AddListener(func(_, to pipeline.State) {
		s.onStateChange(to)
	})

	return s
}

// Start listens on the configured address and serves until Stop. The page
// is opened in the platform browser unless that was disabled.
func (s *Server) Start() error {
	addr := s.cfg.Web.Addr()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.httpServer = &http.Server{Handler: s.routes()}

	url := fmt.Sprintf("http://%s/", addr)
	s.logger.Info("web front-end listening", "url", url)

	if !s.noBrowser {
		go func() {
			time.Sleep(200 * time.Millisecond)
			openBrowser(url)
		}()
	}

	if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the server down
func (s *Server) Stop() {
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.httpServer.Shutdown(ctx)
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/generate", s.handleGenerate)
	mux.HandleFunc("/api/jobs/", s.handleJob)
	mux.HandleFunc("/api/models", s.handleModels)
	mux.HandleFunc("/api/narrations", s.handleNarrations)
	mux.HandleFunc("/files/", s.handleFiles)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

// generateRequest is the JSON job submission from the page
type generateRequest struct {
	Text        string   `json:"text"`
	Tone        string   `json:"tone"`
	Model       string   `json:"model"`
	OllamaURL   string   `json:"ollama_url"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   int      `json:"max_tokens"`
	Voice       string   `json:"voice"`
	Lang        string   `json:"lang"`
}

// jobView is the result shape rendered by the page. File fields carry base
// names for the /files/ routes.
type jobView struct {
	RewrittenText string         `json:"rewritten_text"`
	TextFile      string         `json:"text_file"`
	AudioFile     string         `json:"audio_file"`
	Meta          store.Metadata `json:"meta"`
}

// jobStatus is the polling shape for GET /api/jobs/{id}
type jobStatus struct {
	ID     string   `json:"id"`
	State  string   `json:"state"`
	Done   bool     `json:"done"`
	Error  string   `json:"error,omitempty"`
	Result *jobView `json:"result,omitempty"`
}

type narrationView struct {
	Name string          `json:"name"`
	Size int64           `json:"size"`
	Meta *store.Metadata `json:"meta,omitempty"`
}

// handleIndex serves the page
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	voices := tts.PresetNames(s.orch.Presets())
	if len(voices) == 0 {
		voices = []string{s.cfg.Voice}
	}

	tones := make([]string, len(rewrite.DefaultTones))
	copy(tones, rewrite.DefaultTones)
	sort.Strings(voices)

	data := map[string]interface{}{
		"Tones":       tones,
		"Voices":      voices,
		"Voice":       s.cfg.Voice,
		"Model":       s.cfg.Model,
		"OllamaURL":   s.cfg.OllamaURL,
		"Lang":        s.cfg.Lang,
		"Temperature": s.cfg.Temperature,
		"MaxTokens":   s.cfg.MaxTokens,
		"DefaultTone": "Suspenseful",
		"Version":     version.Version,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("failed to render page", "error", err)
	}
}

// handleGenerate starts one narration job. A second submission while one
// is running is rejected with 409.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, http.StatusBadRequest, "please provide some input text")
		return
	}

	job := s.buildJob(req)

	s.mu.Lock()
	if s.current != nil && !s.current.isDone() {
		s.mu.Unlock()
		s.writeError(w, http.StatusConflict, "a job is already running")
		return
	}
	rec := newJobRecord(uuid.New().String())
	s.jobs[rec.id] = rec
	s.current = rec
	s.mu.Unlock()

	s.logger.Info("job submitted", "id", rec.id, "tone", job.Tone, "voice", job.VoiceName)

	go func() {
		result, err := s.orch.Run(context.Background(), job)
		if err != nil {
			rec.finish(nil, err)
			return
		}
		rec.finish(&jobView{
			RewrittenText: result.RewrittenText,
			TextFile:      filepath.Base(result.TextPath),
			AudioFile:     filepath.Base(result.AudioPath),
			Meta:          result.Meta,
		}, nil)
	}()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"job_id": rec.id})
}

// buildJob folds the request over the configured defaults
func (s *Server) buildJob(req generateRequest) pipeline.Job {
	job := pipeline.Job{
		Text:        req.Text,
		Tone:        req.Tone,
		Model:       s.cfg.Model,
		OllamaURL:   s.cfg.OllamaURL,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
		VoiceName:   s.cfg.Voice,
		Lang:        s.cfg.Lang,
		OutPrefix:   s.cfg.OutPrefix,
	}
	if job.Tone == "" {
		job.Tone = "Neutral"
	}
	if req.Model != "" {
		job.Model = req.Model
	}
	if req.OllamaURL != "" {
		job.OllamaURL = req.OllamaURL
	}
	if req.Temperature != nil {
		job.Temperature = *req.Temperature
	}
	if req.MaxTokens != 0 {
		job.MaxTokens = req.MaxTokens
	}
	if req.Voice != "" {
		job.VoiceName = req.Voice
	}
	if req.Lang != "" {
		job.Lang = req.Lang
	}

	// A configured Piper model switches synthesis to the offline engine
	if s.cfg.PiperModel != "" {
		job.PiperModel = s.cfg.PiperModel
		job.VoiceName = strings.TrimSuffix(filepath.Base(job.PiperModel), filepath.Ext(job.PiperModel))
	}

	clamped := *s.cfg
	clamped.Temperature = job.Temperature
	clamped.MaxTokens = job.MaxTokens
	clamped.Clamp()
	job.Temperature = clamped.Temperature
	job.MaxTokens = clamped.MaxTokens

	return job
}

// handleJob reports a job's current state for clients without WebSocket
func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	rec := s.lookupJob(id)
	if rec == nil {
		s.writeError(w, http.StatusNotFound, "unknown job")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rec.status())
}

// handleModels returns installed Ollama models for the settings panel.
// Listings are cached briefly per server URL. Lookup failures yield an
// empty list and are not cached, so the next request retries.
func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	baseURL := r.URL.Query().Get("url")
	if baseURL == "" {
		baseURL = s.cfg.OllamaURL
	}

	names, ok := s.modelCache.Get(baseURL)
	if !ok {
		cfg := ollama.DefaultConfig()
		cfg.BaseURL = baseURL
		cfg.Timeout = 5 * time.Second

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var err error
		names, err = ollama.NewClient(cfg).ModelNames(ctx)
		if err != nil {
			s.logger.Warn("model listing failed", "url", baseURL, "error", err)
			names = []string{}
		} else {
			s.modelCache.Set(baseURL, names)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(names)
}

// handleNarrations lists past narrations newest-first
func (s *Server) handleNarrations(w http.ResponseWriter, r *http.Request) {
	entries, err := s.orch.Store().List(s.cfg.OutPrefix, 20)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	views := make([]narrationView, 0, len(entries))
	for _, e := range entries {
		views = append(views, narrationView{Name: e.Name, Size: e.Size, Meta: e.Meta})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(views)
}

// handleFiles serves artifacts from the outputs directory. Only bare file
// names are accepted.
func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/files/")
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		s.writeError(w, http.StatusBadRequest, "invalid file name")
		return
	}
	http.ServeFile(w, r, filepath.Join(s.orch.Store().Dir(), name))
}

func (s *Server) lookupJob(id string) *jobRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// onStateChange forwards pipeline transitions to the running job's watchers
func (s *Server) onStateChange(to pipeline.State) {
	s.mu.Lock()
	rec := s.current
	s.mu.Unlock()
	if rec != nil {
		rec.setState(to.String())
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// openBrowser opens the URL in the default browser
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	}
	if cmd != nil {
		cmd.Start()
	}
}
