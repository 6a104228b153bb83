package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestHTTPCompleter_MissingKey_NoNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	c := NewHTTPCompleter(HTTPOptions{APIKey: "  ", BaseURL: srv.URL})
	if _, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p"}); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	if called {
		t.Fatalf("no upstream call expected without a key")
	}
}

func TestHTTPCompleter_RequestShapeAndSuccess(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("auth header = %q", auth)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"summary\":\"ok\"}"}}]}`))
	}))
	defer srv.Close()

	c := NewHTTPCompleter(HTTPOptions{APIKey: "secret", BaseURL: srv.URL + "/v1/"})
	out, err := c.Complete(context.Background(), CompletionRequest{
		Model: "google/gemini-3-flash-preview", System: "sys", Prompt: "user prompt",
		Temperature: 0.7, MaxTokens: 2000,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != `{"summary":"ok"}` {
		t.Fatalf("content = %q", out)
	}
	want := chatRequest{
		Model:       "google/gemini-3-flash-preview",
		Messages:    []chatMessage{{Role: "system", Content: "sys"}, {Role: "user", Content: "user prompt"}},
		Temperature: 0.7,
		MaxTokens:   2000,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("request body (-want +got):\n%s", diff)
	}
}

func TestHTTPCompleter_StatusClassification(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusTooManyRequests, ErrRateLimited},
		{http.StatusPaymentRequired, ErrQuotaExhausted},
		{http.StatusInternalServerError, ErrGateway},
		{http.StatusBadRequest, ErrGateway},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"error":"nope"}`))
		}))
		c := NewHTTPCompleter(HTTPOptions{APIKey: "k", BaseURL: srv.URL})
		_, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p"})
		srv.Close()
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: got %v, want %v", tc.status, err, tc.want)
		}
	}

	// 429/402 are distinct from the generic bucket.
	if errors.Is(classify(429, ""), ErrGateway) || errors.Is(classify(402, ""), ErrGateway) {
		t.Fatalf("rate/quota errors must not match ErrGateway")
	}
	var se *StatusError
	if !errors.As(classify(503, "down"), &se) || se.Code != 503 || se.Body != "down" {
		t.Fatalf("expected *StatusError{503}, got %v", se)
	}
}

func TestHTTPCompleter_EmptyAndMalformedBodies(t *testing.T) {
	cases := map[string]error{
		`{"choices":[]}`:                            ErrEmptyCompletion,
		`{"choices":[{"message":{"content":"  "}}]}`: ErrEmptyCompletion,
		`not json`:                                  ErrGateway,
	}
	for body, want := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		c := NewHTTPCompleter(HTTPOptions{APIKey: "k", BaseURL: srv.URL})
		_, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p"})
		srv.Close()
		if !errors.Is(err, want) {
			t.Errorf("body %q: got %v, want %v", body, err, want)
		}
	}
}

func TestHTTPCompleter_TransportTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewHTTPCompleter(HTTPOptions{APIKey: "k", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	if _, err := c.Complete(context.Background(), CompletionRequest{Prompt: "p"}); !errors.Is(err, ErrGateway) {
		t.Fatalf("timeout should classify as ErrGateway, got %v", err)
	}
}
