package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/apierr"
)

func TestRespondErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", apierr.Validation("title is required"), http.StatusBadRequest, "title is required"},
		{"not found", apierr.NotFound("Post"), http.StatusNotFound, "Post not found"},
		{"forbidden", apierr.Forbidden("nope"), http.StatusForbidden, "nope"},
		{"wrapped validation", errorsWrap(apierr.Validation("bad input")), http.StatusBadRequest, "bad input"},
		{"internal", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			respondError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", w.Code, tt.wantStatus)
			}

			var body errorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Success {
				t.Error("error envelope must have success=false")
			}
			if body.Error != tt.wantMsg {
				t.Errorf("message: got %q, want %q", body.Error, tt.wantMsg)
			}
		})
	}
}

func errorsWrap(err error) error {
	return errors.Join(errors.New("handler context"), err)
}

func TestRespondDataEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	respondData(w, http.StatusCreated, map[string]string{"hello": "world"})

	if w.Code != http.StatusCreated {
		t.Errorf("status: got %d, want 201", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}

	var body struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.Success || body.Data["hello"] != "world" {
		t.Errorf("envelope: got %+v", body)
	}
}

func TestRespondListKeepsEmptyData(t *testing.T) {
	w := httptest.NewRecorder()
	respondList(w, []string{}, NewPagination(1, 10, 0))

	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if string(body["data"]) != "[]" {
		t.Errorf("empty list data: got %s, want []", body["data"])
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		total, limit, wantPages int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{12, 5, 3},
	}
	for _, tt := range tests {
		p := NewPagination(1, tt.limit, tt.total)
		if p.Pages != tt.wantPages {
			t.Errorf("total=%d limit=%d: pages=%d, want %d", tt.total, tt.limit, p.Pages, tt.wantPages)
		}
	}
}
