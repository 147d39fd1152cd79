// Package testutil provides testing utilities for plus-cli.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
)

// MockServer provides a test HTTP server for API mocking.
type MockServer struct {
	server   *httptest.Server
	handlers map[string]http.HandlerFunc
	mu       sync.RWMutex
}

// NewMockServer creates a new mock server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		handlers: make(map[string]http.HandlerFunc),
	}

	ms.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		ms.mu.RLock()
		handler, ok := ms.handlers[key]
		ms.mu.RUnlock()

		if ok {
			handler(w, r)
			return
		}

		http.NotFound(w, r)
	}))

	return ms
}

// URL returns the server's base URL.
func (ms *MockServer) URL() string {
	return ms.server.URL
}

// Close shuts down the server.
func (ms *MockServer) Close() {
	ms.server.Close()
}

// Handle registers a custom handler for a method+path.
func (ms *MockServer) Handle(method, path string, handler http.HandlerFunc) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.handlers[method+" "+path] = handler
}

// HandleJSON registers a handler that returns JSON with the given status.
func (ms *MockServer) HandleJSON(method, path string, status int, response any) {
	ms.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(response)
	})
}

// HandleError registers a handler that returns a plus API error body.
func (ms *MockServer) HandleError(method, path string, status int, message string) {
	ms.HandleJSON(method, path, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

// HandleAuthSuccess registers an authentication endpoint issuing the
// given token.
func (ms *MockServer) HandleAuthSuccess(path, token string) {
	ms.HandleJSON(http.MethodPost, path, http.StatusOK, map[string]any{
		"success": true,
		"result": map[string]any{
			"user": map[string]any{"token": token},
		},
	})
}
