package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nexus-chat/internal/handlers"
	"nexus-chat/internal/metrics"
)

type echoGenerator struct{ calls int }

func (g *echoGenerator) Generate(ctx context.Context, apiKey, prompt string) (string, error) {
	g.calls++
	return "ok", nil
}

func newTestRouter(gen *echoGenerator) (http.Handler, *metrics.Collector) {
	collector := metrics.NewCollector(nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handlers.NewChatHandler(gen, func() string { return "key" }, time.Second, collector, logger)
	return New(h, collector.Handler(), "*"), collector
}

func TestRouter_Preflight(t *testing.T) {
	gen := &echoGenerator{}
	r, _ := newTestRouter(gen)

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "https://chat.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected CORS origin header")
	}
	if gen.calls != 0 {
		t.Errorf("Preflight must not reach upstream")
	}
}

func TestRouter_ErrorsCarryCORSHeaders(t *testing.T) {
	r, _ := newTestRouter(&echoGenerator{})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{}`)))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected CORS headers on error responses")
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	// PURGE and PROPFIND are unknown to chi's method table and take the
	// router's own 405 path.
	methods := []string{http.MethodGet, http.MethodDelete, "PURGE", "PROPFIND"}

	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			gen := &echoGenerator{}
			r, _ := newTestRouter(gen)

			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(method, "/api/chat", nil))

			if rr.Code != http.StatusMethodNotAllowed {
				t.Fatalf("Expected 405, got %d", rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected JSON content type, got %q", ct)
			}
			if got := strings.TrimSpace(rr.Body.String()); got != `{"error":"Method not allowed"}` {
				t.Errorf("Unexpected body %q", got)
			}
			if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Errorf("Expected CORS headers on 405")
			}
			if gen.calls != 0 {
				t.Errorf("405 must not reach upstream")
			}

			rr = httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			want := `nexus_chat_requests_total{method="` + method + `",status="405"} 1`
			if !strings.Contains(rr.Body.String(), want) {
				t.Errorf("Expected %s in metrics", want)
			}
		})
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r, _ := newTestRouter(&echoGenerator{})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 from chat, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Errorf("Unexpected health response %d %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 from metrics, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `nexus_chat_requests_total{method="POST",status="200"} 1`) {
		t.Errorf("Expected recorded chat request in metrics, got:\n%s", rr.Body.String())
	}
}
