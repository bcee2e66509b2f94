// Package server provides the HTTP API of the focus daemon.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grovetools/focusguard/config"
	"github.com/grovetools/focusguard/errors"
	"github.com/grovetools/focusguard/internal/daemon/engine"
	"github.com/grovetools/focusguard/internal/daemon/store"
	"github.com/grovetools/focusguard/version"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// VersionHeader carries the daemon build version on /health.
const VersionHeader = "X-Focus-Version"

// Backend is what the API needs from the engine.
type Backend interface {
	Store() *store.Store
	Config() *config.Config
	Do(ctx context.Context, cmd engine.Command) (store.Snapshot, error)
}

// RunningConfig describes the daemon process. Exposed via /api/config
// alongside the active configuration.
type RunningConfig struct {
	ConfigFile    string    `json:"config_file,omitempty"`
	IngressSocket string    `json:"ingress_socket"`
	PID           int       `json:"pid"`
	StartedAt     time.Time `json:"started_at"`
}

// ConfigResponse is the body of GET /api/config.
type ConfigResponse struct {
	Running RunningConfig  `json:"running"`
	Config  *config.Config `json:"config"`
}

// StateUpdate is one event on /api/stream and /api/ws.
type StateUpdate struct {
	UpdateType string          `json:"update_type"`
	Source     string          `json:"source,omitempty"`
	ConfigFile string          `json:"config_file,omitempty"`
	Snapshot   *store.Snapshot `json:"snapshot,omitempty"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const commandTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Unix socket only; there is no browser origin to check.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server manages the daemon's HTTP server over a Unix socket.
type Server struct {
	logger        *logrus.Entry
	mu            sync.Mutex
	server        *http.Server
	stopped       bool
	backend       Backend
	runningConfig RunningConfig
}

// New creates a new Server instance.
func New(logger *logrus.Entry) *Server {
	return &Server{
		logger: logger,
	}
}

// SetBackend sets the engine the API reads from and sends commands to.
func (s *Server) SetBackend(b Backend) {
	s.backend = b
}

// SetRunningConfig sets the process information reported by /api/config.
func (s *Server) SetRunningConfig(cfg RunningConfig) {
	s.runningConfig = cfg
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(VersionHeader, version.GetInfo().Version)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/state", s.handleGetState)
	mux.HandleFunc("/api/sessions", s.handleGetSessions)
	mux.HandleFunc("/api/stream", s.handleStreamState)
	mux.HandleFunc("/api/ws", s.handleWebSocket)
	mux.HandleFunc("/api/config", s.handleGetConfig)
	mux.HandleFunc("/api/reset", s.handleCommand(engine.CommandReset))
	mux.HandleFunc("/api/test-reminder", s.handleCommand(engine.CommandTestReminder))
	mux.HandleFunc("/api/settings", s.handleSettings)

	return mux
}

// ListenAndServe starts the API on the given unix socket path.
// It blocks until the server stops or fails.
func (s *Server) ListenAndServe(socketPath string) error {
	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(socketPath), 0700); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}

	if err := os.Chmod(socketPath, 0600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		_ = listener.Close()
		return nil
	}
	srv := &http.Server{
		Handler: h2c.NewHandler(s.Handler(), &http2.Server{}),
	}
	s.server = srv
	s.mu.Unlock()

	s.logger.WithField("socket", socketPath).Info("API listening")
	err = srv.Serve(listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server. A later ListenAndServe returns at once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")
	s.mu.Lock()
	s.stopped = true
	srv := s.server
	s.mu.Unlock()
	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

func (s *Server) ready(w http.ResponseWriter) bool {
	if s.backend == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New(errors.ErrCodeDaemonUnavailable, "engine not initialized"))
		return false
	}
	return true
}

// handleGetState returns the current snapshot as JSON.
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	if !s.ready(w) {
		return
	}
	writeJSON(w, http.StatusOK, s.backend.Store().Get())
}

// handleGetSessions returns the display list as JSON.
func (s *Server) handleGetSessions(w http.ResponseWriter, r *http.Request) {
	if !s.ready(w) {
		return
	}
	writeJSON(w, http.StatusOK, s.backend.Store().Get().Sessions)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	if !s.ready(w) {
		return
	}
	writeJSON(w, http.StatusOK, ConfigResponse{
		Running: s.runningConfig,
		Config:  s.backend.Config(),
	})
}

func (s *Server) handleCommand(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, errors.New(errors.ErrCodeInvalidInput, "method not allowed"))
			return
		}
		if !s.ready(w) {
			return
		}
		s.run(w, r, engine.Command{Name: name})
	}
}

// handleSettings applies a SettingsPatch sent as the request body.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New(errors.ErrCodeInvalidInput, "method not allowed"))
		return
	}
	if !s.ready(w) {
		return
	}
	var patch engine.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid request body"))
		return
	}
	s.run(w, r, engine.Command{Name: engine.CommandSettings, Settings: &patch})
}

func (s *Server) run(w http.ResponseWriter, r *http.Request, cmd engine.Command) {
	ctx, cancel := context.WithTimeout(r.Context(), commandTimeout)
	defer cancel()

	snap, err := s.backend.Do(ctx, cmd)
	if err != nil {
		status := http.StatusInternalServerError
		switch errors.GetCode(err) {
		case errors.ErrCodeConfigInvalid, errors.ErrCodeInvalidInput:
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	s.logger.WithField("command", cmd.Name).Debug("Command applied")
	writeJSON(w, http.StatusOK, snap)
}

// handleStreamState provides Server-Sent Events (SSE) for real-time state updates.
func (s *Server) handleStreamState(w http.ResponseWriter, r *http.Request) {
	if !s.ready(w) {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	st := s.backend.Store()
	ch := st.Subscribe()
	defer st.Unsubscribe(ch)

	fmt.Fprintf(w, ": connected\n\n")
	s.logger.Debug("SSE client connected")

	send := func(u StateUpdate) bool {
		data, err := json.Marshal(u)
		if err != nil {
			s.logger.WithError(err).Error("Failed to marshal update")
			return true
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	snap := st.Get()
	if !send(StateUpdate{UpdateType: "initial", Snapshot: &snap}) {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case update, ok := <-ch:
			if !ok {
				return
			}
			if !send(s.toStateUpdate(update)) {
				return
			}
		}
	}
}

// handleWebSocket streams the same updates as /api/stream over a websocket.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !s.ready(w) {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	st := s.backend.Store()
	ch := st.Subscribe()
	defer st.Unsubscribe(ch)

	// Reads only detect the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	snap := st.Get()
	if err := conn.WriteJSON(StateUpdate{UpdateType: "initial", Snapshot: &snap}); err != nil {
		return
	}

	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case update, ok := <-ch:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "daemon stopping"))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(commandTimeout))
			if err := conn.WriteJSON(s.toStateUpdate(update)); err != nil {
				return
			}
		}
	}
}

// toStateUpdate converts an internal store.Update to the public API format.
func (s *Server) toStateUpdate(u store.Update) StateUpdate {
	out := StateUpdate{UpdateType: string(u.Type), Source: u.Source}
	switch p := u.Payload.(type) {
	case store.Snapshot:
		out.Snapshot = &p
		return out
	case string:
		if u.Type == store.UpdateConfigReload {
			out.ConfigFile = p
		}
	}
	snap := s.backend.Store().Get()
	out.Snapshot = &snap
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, ErrorResponse{Code: string(code), Message: err.Error()})
}
