// Package classify submits email bodies to the phishing inference endpoint.
package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dkathe/phishdash/internal/types"
	"go.uber.org/zap"
)

// DefaultURL is the local inference endpoint.
const DefaultURL = "http://127.0.0.1:5000/api/inference"

// Failure means the endpoint was reachable but did not produce a usable
// score pair. Callers must treat it as "could not classify", not as benign.
type Failure struct {
	StatusCode int
	Err        error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("classification failed: %v", f.Err)
	}
	return fmt.Sprintf("classification failed: HTTP %d", f.StatusCode)
}

func (f *Failure) Unwrap() error { return f.Err }

// Client calls the inference HTTP endpoint.
type Client struct {
	httpClient *http.Client
	url        string
	logger     *zap.Logger
}

// NewClient creates a classifier client for the given endpoint URL.
func NewClient(url string, logger *zap.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		url:        url,
		logger:     logger,
	}
}

// inferenceRequest is the endpoint's expected request body.
type inferenceRequest struct {
	EmailBody string `json:"email_body"`
}

// Classify submits one message body and parses the returned score pair.
// Any non-2xx response or malformed body is a *Failure.
func (c *Client) Classify(ctx context.Context, text string) (*types.Classification, error) {
	payload, err := json.Marshal(inferenceRequest{EmailBody: text})
	if err != nil {
		return nil, fmt.Errorf("encode inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call inference endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("inference endpoint rejected request",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, &Failure{StatusCode: resp.StatusCode}
	}

	var result types.Classification
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &Failure{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode inference response: %w", err)}
	}

	return &result, nil
}
