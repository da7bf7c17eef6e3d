package vertex

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/lease-extractor/internal/llm"
)

type generatorFake struct {
	resp  *genai.GenerateContentResponse
	err   error
	parts []genai.Part
}

func (g *generatorFake) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	g.parts = parts
	return g.resp, g.err
}

func TestCompleteJoinsTextParts(t *testing.T) {
	fake := &generatorFake{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("Audi "), genai.Text("A3 Sportback")}},
		}},
	}}
	c := newWithGenerator(Config{Model: "gemini-test"}, fake, nil)

	got, err := c.Complete(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Audi A3 Sportback" {
		t.Fatalf("Complete() = %q", got)
	}
	if len(fake.parts) != 1 || fake.parts[0] != genai.Text("the prompt") {
		t.Fatalf("unexpected parts %v", fake.parts)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
}

func TestCompleteEmptyResponse(t *testing.T) {
	c := newWithGenerator(Config{}, &generatorFake{resp: &genai.GenerateContentResponse{}}, nil)
	got, err := c.Complete(context.Background(), "p")
	if err != nil || got != "" {
		t.Fatalf("got %q, %v", got, err)
	}
}

func TestCompleteMapsStatusCodes(t *testing.T) {
	cases := []struct {
		code  codes.Code
		want  int
		retry bool
	}{
		{codes.Unavailable, http.StatusServiceUnavailable, true},
		{codes.ResourceExhausted, http.StatusTooManyRequests, true},
		{codes.InvalidArgument, http.StatusBadRequest, false},
		{codes.Unauthenticated, http.StatusUnauthorized, false},
	}
	for _, tc := range cases {
		c := newWithGenerator(Config{}, &generatorFake{err: status.Error(tc.code, "boom")}, nil)
		_, err := c.Complete(context.Background(), "p")
		var statusErr *llm.HTTPStatusError
		if !errors.As(err, &statusErr) || statusErr.StatusCode != tc.want {
			t.Fatalf("%s: expected %d, got %v", tc.code, tc.want, err)
		}
		if llm.ClassifyError(err).Retryable != tc.retry {
			t.Fatalf("%s: retryable mismatch", tc.code)
		}
	}
}

func TestNewClientRequiresProject(t *testing.T) {
	if _, err := NewClient(context.Background(), Config{Region: "us-central1"}, nil); err == nil {
		t.Fatalf("expected error without project id")
	}
}
