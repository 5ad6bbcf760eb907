// Package web provides an HTTP status server for the ir-receiver daemon.
package web

import (
	"context"
	"net"
	"net/http"

	"github.com/sweeney/ir-receiver/internal/status"
)

// Server serves the status page over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	recal      chan<- struct{}
}

// New creates a Server that reads state from the given tracker.
// POST /recalibrate sends on recal; a nil channel disables the endpoint.
func New(addr string, tracker *status.Tracker, recal chan<- struct{}) *Server {
	s := &Server{tracker: tracker, recal: recal}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/recalibrate", s.handleRecalibrate)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

func (s *Server) handleRecalibrate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.recal == nil {
		http.Error(w, "recalibration disabled", http.StatusServiceUnavailable)
		return
	}
	select {
	case s.recal <- struct{}{}:
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("recalibration requested\n"))
	default:
		// A request is already pending; treat as accepted.
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("recalibration already pending\n"))
	}
}
