package web

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocket upgrader with permissive settings for local use
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSResponse is one pushed progress message
type WSResponse struct {
	Type    string      `json:"type"` // "state", "done", "error"
	Payload interface{} `json:"payload"`
}

// WSStatePayload carries a pipeline state change
type WSStatePayload struct {
	State string `json:"state"`
}

// WSErrorPayload carries a failed job's error text
type WSErrorPayload struct {
	Message string `json:"message"`
}

// jobRecord tracks one submitted job and fans its progress out to
// WebSocket watchers
type jobRecord struct {
	id string

	mu       sync.Mutex
	state    string
	errText  string
	result   *jobView
	done     bool
	watchers []chan WSResponse
}

func newJobRecord(id string) *jobRecord {
	return &jobRecord{id: id, state: "queued"}
}

// setState records a pipeline state change and pushes it to watchers
func (j *jobRecord) setState(state string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.done {
		return
	}
	j.state = state
	j.push(WSResponse{Type: "state", Payload: WSStatePayload{State: state}})
}

// finish marks the job done and pushes the final event before closing all
// watcher channels
func (j *jobRecord) finish(result *jobView, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.done = true
	if err != nil {
		j.errText = err.Error()
	} else {
		j.result = result
	}
	j.push(j.finalEvent())
	for _, ch := range j.watchers {
		close(ch)
	}
	j.watchers = nil
}

// subscribe returns a channel replaying the job's current state and then
// streaming further events. The channel is closed when the job finishes.
func (j *jobRecord) subscribe() chan WSResponse {
	j.mu.Lock()
	defer j.mu.Unlock()

	ch := make(chan WSResponse, 16)
	ch <- WSResponse{Type: "state", Payload: WSStatePayload{State: j.state}}
	if j.done {
		ch <- j.finalEvent()
		close(ch)
		return ch
	}
	j.watchers = append(j.watchers, ch)
	return ch
}

// push delivers an event to all watchers without blocking. Callers hold
// the record lock.
func (j *jobRecord) push(resp WSResponse) {
	for _, ch := range j.watchers {
		select {
		case ch <- resp:
		default:
		}
	}
}

// finalEvent builds the terminal event for a finished job. Callers hold
// the record lock.
func (j *jobRecord) finalEvent() WSResponse {
	if j.errText != "" {
		return WSResponse{Type: "error", Payload: WSErrorPayload{Message: j.errText}}
	}
	return WSResponse{Type: "done", Payload: j.result}
}

// status snapshots the record for the polling endpoint
func (j *jobRecord) status() jobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return jobStatus{
		ID:     j.id,
		State:  j.state,
		Done:   j.done,
		Error:  j.errText,
		Result: j.result,
	}
}

func (j *jobRecord) isDone() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.done
}

// handleWS upgrades the connection and streams job progress until the job
// finishes or the client goes away
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("job")
	rec := s.lookupJob(id)
	if rec == nil {
		http.Error(w, "unknown job", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.logger.Debug("WebSocket watcher connected", "job", id, "remote", conn.RemoteAddr().String())

	for resp := range rec.subscribe() {
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Debug("WebSocket send failed", "error", err)
			return
		}
	}

	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
