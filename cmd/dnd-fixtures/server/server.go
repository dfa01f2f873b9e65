// Package server provides an importable HTTP server for the drag-and-drop
// fixture pages. This allows E2E tests to programmatically start/stop the
// server without running main().
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thesyncim/dnd/internal/logger"
)

// Config holds server configuration options.
type Config struct {
	Addr         string         // Listen address (e.g., ":8080" or ":0" for random port)
	ReadTimeout  time.Duration  // HTTP read timeout
	WriteTimeout time.Duration  // HTTP write timeout
	Logger       *logrus.Logger // Request logger; nil discards
}

// DefaultConfig returns a configuration suitable for testing.
// Uses ":0" to bind to a random available port.
func DefaultConfig() Config {
	return Config{
		Addr:         ":0",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server serves the fixture pages over HTTP.
type Server struct {
	httpServer *http.Server
	manifest   *Manifest
	log        *logrus.Logger
	listener   net.Listener
	addr       string
	mu         sync.Mutex
	running    bool
	closed     bool
}

// ErrServerClosed is returned by Start after Shutdown. A Server is
// single-use; create a new one to serve again.
var ErrServerClosed = errors.New("fixture server closed")

// NewServer creates a new server with the given configuration.
// The server is not started until Start() is called.
func NewServer(cfg Config) (*Server, error) {
	manifest, err := LoadManifest()
	if err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}

	s := &Server{
		manifest: manifest,
		log:      log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleFile)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      requestLogger(log, mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

// Start begins listening and serving HTTP requests.
// Returns the actual address the server is listening on (useful when port is 0).
// This method is non-blocking - the server runs in a goroutine.
func (s *Server) Start() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return s.addr, nil
	}
	if s.closed {
		return "", ErrServerClosed
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen: %w", err)
	}

	s.listener = ln
	s.addr = ln.Addr().String()
	s.running = true

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("fixture server stopped")
		}
	}()

	s.log.WithField("addr", s.addr).Info("fixture server listening")
	return s.addr, nil
}

// Shutdown gracefully shuts down the server. Addr and URL return empty
// strings afterwards, and the server cannot be started again.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	s.running = false
	s.closed = true
	s.addr = ""
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the address the server is listening on.
// Returns empty string if server is not running.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// URL returns the browser-facing URL of a fixture file, e.g.
// URL(DragAndDropPage). The listen host is replaced by localhost, since
// Chrome cannot navigate to "[::]".
// Returns empty string if server is not running.
func (s *Server) URL(file string) string {
	addr := s.Addr()
	if addr == "" {
		return ""
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return ""
	}
	return "http://localhost:" + port + "/" + file
}

// Manifest returns the pages this server serves.
func (s *Server) Manifest() *Manifest {
	return s.manifest
}
