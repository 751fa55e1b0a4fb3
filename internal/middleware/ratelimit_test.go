package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("1.2.3.4") {
		t.Error("fourth request should be rejected")
	}

	// A different client has its own window.
	if !rl.allow("5.6.7.8") {
		t.Error("separate client should be allowed")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond)
	defer rl.Stop()

	if !rl.allow("client") {
		t.Fatal("first request should be allowed")
	}
	if rl.allow("client") {
		t.Fatal("second request inside window should be rejected")
	}

	time.Sleep(60 * time.Millisecond)
	if !rl.allow("client") {
		t.Error("request after window expiry should be allowed")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	h := rl.Middleware(okHandler())

	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r.RemoteAddr = "9.9.9.9:1234"

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("first request: got %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second request: got %d, want 429", w.Code)
	}
}

func TestClientIPHeaders(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"

	if got := clientIP(r); got != "10.0.0.1" {
		t.Errorf("remote addr: got %q, want 10.0.0.1", got)
	}

	r.Header.Set("X-Real-IP", "2.2.2.2")
	if got := clientIP(r); got != "2.2.2.2" {
		t.Errorf("x-real-ip: got %q, want 2.2.2.2", got)
	}

	r.Header.Set("X-Forwarded-For", "3.3.3.3, 4.4.4.4")
	if got := clientIP(r); got != "3.3.3.3" {
		t.Errorf("x-forwarded-for: got %q, want 3.3.3.3", got)
	}
}
