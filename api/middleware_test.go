package api

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nemopss/fin-records/logger"
)

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := &bytes.Buffer{}
	log := logger.NewWithWriter(buf)

	r := gin.New()
	r.Use(RequestLogger(log), Recovery(log))
	r.GET("/boom", func(c *gin.Context) { panic("db exploded") })

	req, _ := http.NewRequest("GET", "/boom", nil)
	req.Header.Set(requestIDHeader, "req-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if strings.Contains(w.Body.String(), "db exploded") {
		t.Errorf("Panic value leaked to client: %s", w.Body.String())
	}

	var panicLine, requestLine string
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		switch {
		case strings.Contains(line, "Panic recovered"):
			panicLine = line
		case strings.Contains(line, "HTTP request"):
			requestLine = line
		}
	}
	if !strings.Contains(panicLine, "db exploded") || !strings.Contains(panicLine, `"request_id":"req-7"`) {
		t.Errorf("Expected panic line with value and request id, got: %s", panicLine)
	}
	if !strings.Contains(requestLine, `"status":500`) || !strings.Contains(requestLine, `"request_id":"req-7"`) {
		t.Errorf("Expected request line with status 500, got: %s", requestLine)
	}
}

func TestRecoveryWithoutRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := &bytes.Buffer{}

	r := gin.New()
	r.Use(Recovery(logger.NewWithWriter(buf)))
	r.GET("/boom", func(c *gin.Context) { panic("db exploded") })

	req, _ := http.NewRequest("GET", "/boom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if !strings.Contains(buf.String(), "db exploded") {
		t.Errorf("Expected panic to be logged, got: %s", buf.String())
	}
}

func TestRequestLoggerAndInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := &bytes.Buffer{}
	log := logger.NewWithWriter(buf)
	h := &Handler{}

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/fail", func(c *gin.Context) {
		h.fail(c, errors.New("pq: connection refused"))
	})

	req, _ := http.NewRequest("GET", "/fail", nil)
	req.Header.Set(requestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, "internal server error") || strings.Contains(body, "pq:") {
		t.Errorf("Expected generic error body, got %s", body)
	}
	if w.Header().Get(requestIDHeader) != "req-42" {
		t.Errorf("Expected request id to be echoed, got %q", w.Header().Get(requestIDHeader))
	}

	out := buf.String()
	if !strings.Contains(out, "pq: connection refused") {
		t.Errorf("Expected underlying error in logs, got: %s", out)
	}
	if !strings.Contains(out, `"request_id":"req-42"`) || !strings.Contains(out, `"status":500`) {
		t.Errorf("Expected request line with id and status, got: %s", out)
	}
}
