// Package vertex implements llm.Completer on Vertex AI Gemini models.
package vertex

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/lease-extractor/internal/llm"
)

type Config struct {
	ProjectID   string
	Region      string
	Model       string // default gemini-1.5-flash
	Temperature float32
	MaxTokens   int32
}

// generator is the slice of *genai.GenerativeModel the client uses.
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type Client struct {
	cfg    Config
	model  generator
	base   *genai.Client
	logger *slog.Logger
}

// NewClient dials Vertex AI with application default credentials.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("vertex: project and region are required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 64
	}
	if logger == nil {
		logger = slog.Default()
	}

	base, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	model := base.GenerativeModel(cfg.Model)
	model.GenerationConfig = genai.GenerationConfig{
		Temperature:     genai.Ptr(cfg.Temperature),
		MaxOutputTokens: genai.Ptr(cfg.MaxTokens),
	}
	return &Client{cfg: cfg, model: model, base: base, logger: logger}, nil
}

func newWithGenerator(cfg Config, g generator, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{cfg: cfg, model: g, logger: logger}
}

func (c *Client) Provider() string { return "vertex" }

// Complete implements llm.Completer.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.logger.Warn("llm.vertex.generate_error", "model", c.cfg.Model, "error", err)
		return "", asStatusError(err)
	}
	return responseText(resp), nil
}

func (c *Client) Close() error {
	if c.base != nil {
		return c.base.Close()
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}

// asStatusError maps gRPC status codes onto HTTP statuses so llm.ClassifyError
// treats both providers alike. Errors without a status pass through.
func asStatusError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	var code int
	switch st.Code() {
	case codes.Unavailable:
		code = http.StatusServiceUnavailable
	case codes.ResourceExhausted:
		code = http.StatusTooManyRequests
	case codes.Internal, codes.Unknown:
		code = http.StatusInternalServerError
	case codes.DeadlineExceeded:
		code = http.StatusGatewayTimeout
	case codes.InvalidArgument, codes.FailedPrecondition:
		code = http.StatusBadRequest
	case codes.PermissionDenied:
		code = http.StatusForbidden
	case codes.Unauthenticated:
		code = http.StatusUnauthorized
	case codes.NotFound:
		code = http.StatusNotFound
	default:
		return err
	}
	return fmt.Errorf("vertex %s: %w", st.Code(), &llm.HTTPStatusError{StatusCode: code, Body: st.Message()})
}
