package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseWriterCapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusNotFound)
	if rw.statusCode != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rw.statusCode)
	}

	// A second WriteHeader must not overwrite the recorded status.
	rw.WriteHeader(http.StatusOK)
	if rw.statusCode != http.StatusNotFound {
		t.Errorf("status after duplicate WriteHeader: got %d, want 404", rw.statusCode)
	}
}

func TestResponseWriterDefaultsTo200OnWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rec}

	rw.Write([]byte("body"))
	if rw.statusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", rw.statusCode)
	}
}

func TestLoggerPassesThrough(t *testing.T) {
	called := false
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusCreated)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/posts", nil))

	if !called {
		t.Fatal("inner handler not called")
	}
	if w.Code != http.StatusCreated {
		t.Errorf("status: got %d, want 201", w.Code)
	}
}
