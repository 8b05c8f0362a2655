package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cristianadrielbraun/qrstudio/internal/qrcode"
)

var tracer = otel.Tracer("qrcode-client")

const (
	CommitPath = "/api/qrcode"
	QueryPath  = "/api/qrcode/query"
)

// Client calls the QR generation service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
}

// NewClient creates a client for the service at baseURL. Calls carry no
// timeout of their own; cancel through the context instead.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tracer:     tracer,
	}
}

// Commit runs a generation through the committing path.
func (c *Client) Commit(ctx context.Context, text string, opts qrcode.Options) (qrcode.Result, error) {
	return c.call(ctx, "qrcode_commit", CommitPath, text, opts)
}

// Query runs a generation through the read-only path.
func (c *Client) Query(ctx context.Context, text string, opts qrcode.Options) (qrcode.Result, error) {
	return c.call(ctx, "qrcode_query", QueryPath, text, opts)
}

func (c *Client) call(ctx context.Context, span, path, text string, opts qrcode.Options) (qrcode.Result, error) {
	ctx, s := c.tracer.Start(ctx, span)
	defer s.End()

	body, err := json.Marshal(qrcode.Request{Input: text, Options: opts})
	if err != nil {
		s.RecordError(err)
		return qrcode.Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		s.RecordError(err)
		return qrcode.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		s.RecordError(err)
		return qrcode.Result{}, fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("qrcode API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		s.RecordError(err)
		return qrcode.Result{}, err
	}

	var result qrcode.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		s.RecordError(err)
		return qrcode.Result{}, fmt.Errorf("failed to decode response: %w", err)
	}

	s.SetAttributes(
		attribute.String("qrcode.result", result.Kind.String()),
		attribute.Int("qrcode.frames", len(result.Images)),
	)
	if id := resp.Header.Get(qrcode.CommitHeader); id != "" {
		s.SetAttributes(attribute.String("qrcode.commit_id", id))
	}
	return result, nil
}
