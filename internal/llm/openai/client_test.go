package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/joseph-ayodele/lease-extractor/internal/llm"
)

func TestCompleteSendsChatRequest(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Errorf("missing request id")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Kia Ceed GT-Line\n"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/", Model: "gpt-test"}, nil)
	reply, err := c.Complete(context.Background(), "prompt body")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Kia Ceed GT-Line\n" {
		t.Fatalf("Complete() = %q", reply)
	}
	if got.Model != "gpt-test" || len(got.Messages) != 1 || got.Messages[0].Content != "prompt body" {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestCompleteReturnsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	_, err := c.Complete(context.Background(), "p")
	var statusErr *llm.HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 status error, got %v", err)
	}
	if !llm.ClassifyError(err).Retryable {
		t.Fatalf("503 should be retryable")
	}
}

func TestCompleteNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	if _, err := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil).Complete(context.Background(), "p"); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}

func TestNewClientDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "from-env")
	c := NewClient(Config{}, nil)
	if c.cfg.APIKey != "from-env" || c.cfg.Model != "gpt-4o-mini" || c.cfg.BaseURL != "https://api.openai.com/v1" {
		t.Fatalf("unexpected defaults %+v", c.cfg)
	}
	if c.Provider() != "openai" {
		t.Fatalf("Provider() = %q", c.Provider())
	}
}
