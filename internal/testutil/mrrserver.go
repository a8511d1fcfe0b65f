package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/tjfontaine/mrr-go/internal/api/mrr"
)

// APIPrefix is the version segment of the real service's root URI.
const APIPrefix = "/api/v2"

// RecordedRequest is what MRRServer saw for one accepted request.
type RecordedRequest struct {
	Method      string
	Path        string
	RawQuery    string
	ContentType string
	Nonce       string
	Signature   string
	Body        []byte
}

// MRRServer is an in-process stand-in for the MRR API. It rejects requests
// whose signature does not verify or whose nonce was already used with a 401
// in MRR's {"success":false,"data":{"message":...}} shape. The messages are
// its own. Concurrent requests may arrive out of order, so only replays are
// refused.
type MRRServer struct {
	*httptest.Server

	creds mrr.Credentials
	api   chi.Router

	mu       sync.Mutex
	nonces   map[string]struct{}
	requests []RecordedRequest
}

// NewMRRServer starts a fake API that accepts requests signed with creds.
func NewMRRServer(t *testing.T, creds mrr.Credentials) *MRRServer {
	t.Helper()

	s := &MRRServer{creds: creds, nonces: make(map[string]struct{})}

	r := chi.NewRouter()
	r.Route(APIPrefix, func(r chi.Router) {
		r.Use(s.verifySignature)
		s.api = r
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the root URI a client should be pointed at.
func (s *MRRServer) BaseURL() string {
	return s.Server.URL + APIPrefix
}

// Handle answers method+pattern with a fixed status and body.
// Patterns use chi syntax, e.g. "/rig/{ids}/pool".
func (s *MRRServer) Handle(method, pattern string, status int, body string) {
	s.HandleFunc(method, pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// HandleFunc registers a custom handler behind signature verification.
func (s *MRRServer) HandleFunc(method, pattern string, h http.HandlerFunc) {
	s.api.MethodFunc(method, pattern, h)
}

// Requests returns the accepted requests in arrival order.
func (s *MRRServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent accepted request.
func (s *MRRServer) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *MRRServer) verifySignature(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "unreadable body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		key := r.Header.Get("x-api-key")
		nonce := r.Header.Get("x-api-nonce")
		sign := r.Header.Get("x-api-sign")
		basePath := strings.TrimPrefix(r.URL.Path, APIPrefix)

		if key != s.creds.APIKey {
			writeAPIError(w, http.StatusUnauthorized, "Invalid API key")
			return
		}
		if !mrr.Verify(s.creds, nonce, basePath, sign) {
			writeAPIError(w, http.StatusUnauthorized, "Invalid signature")
			return
		}

		if _, err := strconv.ParseFloat(nonce, 64); err != nil {
			writeAPIError(w, http.StatusUnauthorized, "Invalid nonce")
			return
		}

		s.mu.Lock()
		if _, used := s.nonces[nonce]; used {
			s.mu.Unlock()
			writeAPIError(w, http.StatusUnauthorized, "Nonce already used")
			return
		}
		s.nonces[nonce] = struct{}{}
		s.requests = append(s.requests, RecordedRequest{
			Method:      r.Method,
			Path:        basePath,
			RawQuery:    r.URL.RawQuery,
			ContentType: r.Header.Get("Content-Type"),
			Nonce:       nonce,
			Signature:   sign,
			Body:        body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"data":    map[string]string{"message": message},
	})
}
