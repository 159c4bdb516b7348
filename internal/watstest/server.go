// Package watstest provides a fake WATS server for tests.
package watstest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/olreppe/pyWATS-sub001/client"
)

// Token is the API token the fake server expects.
const Token = "dGVzdDp0ZXN0"

// Recorded is a request as seen by the fake server.
type Recorded struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Server is an httptest server with a chi router that records requests.
type Server struct {
	*httptest.Server
	Router chi.Router

	mu       sync.Mutex
	requests []Recorded
}

// New starts a fake server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()

	s := &Server{Router: chi.NewRouter()}
	s.Router.Use(s.record)
	s.Server = httptest.NewServer(s.Router)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

// Client returns a client for the fake server that authenticates with Token
// and raises on unexpected statuses. opts are applied last.
func (s *Server) Client(t testing.TB, opts ...client.Option) *client.Client {
	t.Helper()
	base := []client.Option{
		client.WithToken(Token),
		client.WithRaiseOnUnexpectedStatus(true),
	}
	c, err := client.New(s.URL, append(base, opts...)...)
	if err != nil {
		t.Fatalf("watstest: creating client: %v", err)
	}
	return c
}

// Handle registers h for method and chi pattern.
func (s *Server) Handle(method, pattern string, h http.HandlerFunc) {
	s.Router.MethodFunc(method, pattern, h)
}

// JSON registers a handler answering with status and v encoded as JSON.
func (s *Server) JSON(method, pattern string, status int, v any) {
	s.Handle(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, v)
	})
}

// Status registers a handler answering with an empty body.
func (s *Server) Status(method, pattern string, status int) {
	s.Handle(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

// Bytes registers a handler answering with a raw payload.
func (s *Server) Bytes(method, pattern, contentType string, data []byte) {
	s.Handle(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(data)
	})
}

// Requests returns every recorded request in arrival order.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// Last returns the most recent request. It fails the test if there is none.
func (s *Server) Last(t testing.TB) Recorded {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		t.Fatal("watstest: no requests recorded")
	}
	return s.requests[len(s.requests)-1]
}

// DecodeBody unmarshals the recorded JSON body into v.
func (r Recorded) DecodeBody(t testing.TB, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		t.Fatalf("watstest: decoding body %q: %v", r.Body, err)
	}
}

// WriteJSON writes v as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
