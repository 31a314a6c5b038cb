package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nexus-chat/internal/models"
)

func TestHTTPTransport_Success(t *testing.T) {
	var got models.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(models.ChatResponse{Message: "Hi there"})
	}))
	defer srv.Close()

	history := []models.ChatMessage{{Role: models.RoleUser, Content: "Hello"}}
	reply, err := NewHTTPTransport(srv.URL+"/", time.Second).Send(context.Background(), "Hello", history)
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if reply != "Hi there" {
		t.Errorf("Expected 'Hi there', got %q", reply)
	}
	if got.Message != "Hello" || len(got.History) != 1 {
		t.Errorf("Unexpected request %+v", got)
	}
}

func TestHTTPTransport_ServerErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"error field", http.StatusInternalServerError, `{"error":"quota exceeded"}`, "quota exceeded"},
		{"bad request", http.StatusBadRequest, `{"error":"Message is required"}`, "Message is required"},
		{"no json", http.StatusBadGateway, `gateway`, "API request failed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewHTTPTransport(srv.URL, time.Second).Send(context.Background(), "Hello", nil)

			var serverErr *ServerError
			if !errors.As(err, &serverErr) {
				t.Fatalf("Expected *ServerError, got %T (%v)", err, err)
			}
			if serverErr.StatusCode != tc.status || serverErr.Message != tc.wantMsg {
				t.Errorf("Expected (%d, %q), got (%d, %q)", tc.status, tc.wantMsg, serverErr.StatusCode, serverErr.Message)
			}
		})
	}
}

func TestHTTPTransport_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := NewHTTPTransport(base, time.Second).Send(context.Background(), "Hello", nil)
	if err == nil {
		t.Fatal("Expected network error")
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		t.Errorf("network failure must not look like a server reply")
	}
}
