// Package server exposes stored timelines over HTTP and lets remote hosts
// record or replay sessions over a websocket.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/SmitUplenchwar2687/Rewind/internal/capture"
	"github.com/SmitUplenchwar2687/Rewind/internal/codec"
	"github.com/SmitUplenchwar2687/Rewind/internal/logging"
	"github.com/SmitUplenchwar2687/Rewind/internal/storage"
)

// MaxUploadBytes bounds a timeline uploaded through the API.
const MaxUploadBytes = 64 << 20

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithFormat sets the encoding used for recordings saved by sessions.
func WithFormat(f codec.Format) Option {
	return func(s *Server) { s.format = f }
}

// WithModes restricts the modalities recorded by sessions.
func WithModes(m capture.Modes) Option {
	return func(s *Server) { s.modes = m }
}

// Server is the Rewind HTTP server.
type Server struct {
	httpServer *http.Server
	store      storage.Store
	hub        *Hub
	mux        *http.ServeMux
	log        logrus.FieldLogger
	format     codec.Format
	modes      capture.Modes
	started    time.Time

	connMu sync.Mutex
	conns  map[*websocket.Conn]struct{}
}

// New creates a new Rewind server backed by store.
func New(addr string, store storage.Store, opts ...Option) *Server {
	s := &Server{
		store:   store,
		mux:     http.NewServeMux(),
		log:     logging.Discard(),
		format:  codec.FormatJSON,
		modes:   capture.AllModes,
		started: time.Now(),
		conns:   make(map[*websocket.Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = NewHub(s.log)
	s.routes()
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.mux,
	}
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/dashboard", s.handleDashboard)
	s.mux.HandleFunc("/api/timelines", s.handleTimelines)
	s.mux.HandleFunc("/api/timelines/", s.handleTimeline)
	s.mux.HandleFunc("/ws/session", s.handleSession)
	s.mux.HandleFunc("/ws/monitor", s.hub.HandleWebSocket)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Hub returns the monitor hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// handleRoot serves a welcome message.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":  "rewind",
		"status":   "running",
		"uptime":   time.Since(s.started).Round(time.Second).String(),
		"monitors": s.hub.ClientCount(),
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, DashboardHTML)
}

// handleTimelines lists stored timeline names.
func (s *Server) handleTimelines(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	names, err := s.store.List(r.Context())
	if err != nil {
		s.log.WithError(err).Error("listing timelines")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"timelines": names})
}

// handleTimeline serves one timeline.
// Path: /api/timelines/{name}
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/timelines/")
	if err := storage.ValidateName(name); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getTimeline(w, r, name)
	case http.MethodPut:
		s.putTimeline(w, r, name)
	case http.MethodDelete:
		if err := s.store.Delete(r.Context(), name); err != nil {
			s.storeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	}
}

func (s *Server) getTimeline(w http.ResponseWriter, r *http.Request, name string) {
	data, err := s.store.Load(r.Context(), name)
	if err != nil {
		s.storeError(w, err)
		return
	}
	contentType := "application/json"
	if f, err := codec.DetectFormat(data); err == nil && f == codec.FormatCBOR {
		contentType = "application/cbor"
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

func (s *Server) putTimeline(w http.ResponseWriter, r *http.Request, name string) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxUploadBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, errors.Wrap(err, "reading body"))
		return
	}
	tl, err := codec.Decode(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.Save(r.Context(), name, data); err != nil {
		s.storeError(w, err)
		return
	}
	s.log.WithFields(logrus.Fields{"name": name, "slots": tl.Len()}).Info("timeline uploaded")
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"name":       name,
		"slots":      tl.Len(),
		"events":     tl.EventCount(),
		"terminated": tl.Terminated,
	})
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	s.log.WithError(err).Error("storage request failed")
	writeError(w, http.StatusInternalServerError, err)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) track(conn *websocket.Conn) {
	s.connMu.Lock()
	s.conns[conn] = struct{}{}
	s.connMu.Unlock()
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.connMu.Lock()
	delete(s.conns, conn)
	s.connMu.Unlock()
	conn.Close()
}

// Start begins listening. It blocks until the server is shut down.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.StartOnListener(ln)
}

// StartOnListener begins serving on the provided listener.
// Useful for tests that need to pick an ephemeral port.
func (s *Server) StartOnListener(ln net.Listener) error {
	s.log.WithField("addr", ln.Addr().String()).Info("rewind server listening")
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server. Open websocket connections
// are closed; interrupted recordings are saved by their sessions.
func (s *Server) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.httpServer.Shutdown(ctx)

	s.connMu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connMu.Unlock()
	s.hub.Close()
	return err
}
