// Package httpapi exposes the question answering service over HTTP.
// A single endpoint, POST /query, takes a question and returns the
// agent's cited answer.
package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/docask-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docask-cli/internal/logger"
)

// Default configuration values.
const (
	DefaultAddr         = ":8080"
	DefaultReadTimeout  = 30 * time.Second
	DefaultWriteTimeout = 5 * time.Minute
)

// queryRequest is the POST /query request body.
type queryRequest struct {
	Query string `json:"query"`
}

// queryResponse is the POST /query success body.
type queryResponse struct {
	Answer string `json:"answer"`
}

// errorResponse is the body for all error statuses. Internal detail
// stays in the logs; clients get a generic message.
type errorResponse struct {
	Error string `json:"error"`
}

// Server answers document questions over HTTP.
type Server struct {
	answerer driving.AnswerService
	server   *http.Server
	listener net.Listener
}

// NewServer creates a query server listening on addr.
func NewServer(answerer driving.AnswerService, addr string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}

	s := &Server{answerer: answerer}

	mux := http.NewServeMux()
	mux.HandleFunc("/query", s.handleQuery)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
	}

	return s
}

// Start begins listening. It returns once the listener is bound, so
// callers know the address is live; serving continues in background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.server.Addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("query server stopped: %v", err)
		}
	}()

	return nil
}

// Addr returns the bound listen address. Valid after Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.server.Addr
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler. Used for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	answer, err := s.answerer.Answer(r.Context(), req.Query)
	if err != nil {
		logger.Error("answering query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to answer query")
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{Answer: answer})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
