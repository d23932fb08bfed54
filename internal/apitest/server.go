// Package apitest runs a fake Deepself API for tests. Handlers are mounted on a
// chi router and every request is recorded for later assertions.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Request is a recorded request
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// Decode unmarshals the recorded body into v
func (r Request) Decode(t testing.TB, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("decoding %s %s body %q: %v", r.Method, r.Path, r.Body, err)
	}
}

// Server is the fake API
type Server struct {
	*httptest.Server

	router chi.Router

	mu       sync.Mutex
	requests []Request
}

// New starts a server that is closed when the test ends
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{router: chi.NewRouter()}
	s.router.Use(s.record)
	s.Server = httptest.NewServer(s.router)
	t.Cleanup(s.Close)
	return s
}

// Handle mounts a handler for method and a chi pattern such as /v1/models/{id}
func (s *Server) Handle(method, pattern string, h http.HandlerFunc) {
	s.router.MethodFunc(method, pattern, h)
}

// Requests returns every request received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Count returns the number of requests received
func (s *Server) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Last returns the most recent request
func (s *Server) Last(t testing.TB) Request {
	t.Helper()
	reqs := s.Requests()
	if len(reqs) == 0 {
		t.Fatal("no requests recorded")
	}
	return reqs[len(reqs)-1]
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// JSON responds with status and body encoded as JSON
func JSON(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

// Raw responds with status and a literal body
func Raw(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

// Envelope responds 200 with {"success": true, "data": data}
func Envelope(data any) http.HandlerFunc {
	return JSON(http.StatusOK, map[string]any{"success": true, "data": data})
}

// Failure responds 200 with {"success": false, "error": message, "code": code}
func Failure(message, code string) http.HandlerFunc {
	return JSON(http.StatusOK, map[string]any{"success": false, "error": message, "code": code})
}

// Sequence serves each handler in turn, repeating the last one
func Sequence(handlers ...http.HandlerFunc) http.HandlerFunc {
	var mu sync.Mutex
	next := 0
	return func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		h := handlers[next]
		if next < len(handlers)-1 {
			next++
		}
		mu.Unlock()
		h(w, r)
	}
}
