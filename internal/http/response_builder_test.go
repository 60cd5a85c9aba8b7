package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSONResponseBuilder(t *testing.T) {
	w := httptest.NewRecorder()
	NewJSONResponse().
		Status(http.StatusAccepted).
		Header("X-Custom", "yes").
		JSON(map[string]int{"count": 3}).
		Write(w)

	if w.Code != http.StatusAccepted {
		t.Errorf("status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("content type = %q", got)
	}
	if w.Header().Get("X-Custom") != "yes" {
		t.Error("custom header missing")
	}
	if got := w.Body.String(); got != "{\"count\":3}\n" {
		t.Errorf("body = %q", got)
	}
}

func TestNoContentHasNoBody(t *testing.T) {
	w := httptest.NewRecorder()
	NoContent().Write(w)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d", w.Code)
	}
	if w.Body.Len() != 0 || w.Header().Get("Content-Type") != "" {
		t.Errorf("unexpected body %q / content type %q", w.Body.String(), w.Header().Get("Content-Type"))
	}
}

func TestErrorResponses(t *testing.T) {
	w := httptest.NewRecorder()
	TooManyRequestsError().Write(w)

	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") != "60" {
		t.Fatalf("status = %d, retry-after = %q", w.Code, w.Header().Get("Retry-After"))
	}
	var body ErrorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body.Error, "rate limit") || body.RequestID != "" {
		t.Errorf("body = %+v", body)
	}
}

func TestUnencodablePayload(t *testing.T) {
	w := httptest.NewRecorder()
	OK(map[string]interface{}{"bad": make(chan int)}).Write(w)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", w.Code)
	}
}

func TestCreatedAndOK(t *testing.T) {
	w := httptest.NewRecorder()
	Created([]string{"a"}).Write(w)
	if w.Code != http.StatusCreated || strings.TrimSpace(w.Body.String()) != `["a"]` {
		t.Errorf("created = %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	OK(nil).Write(w)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "null" {
		t.Errorf("ok = %d %q", w.Code, w.Body.String())
	}
}
