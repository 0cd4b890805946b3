package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// JinaOption configures the Jina embeddings client.
type JinaOption func(*jinaClient)

// WithJinaBaseURL sets a custom base URL (for testing).
func WithJinaBaseURL(url string) JinaOption {
	return func(c *jinaClient) {
		c.baseURL = url
	}
}

// WithJinaHTTPClient sets a custom HTTP client.
func WithJinaHTTPClient(hc *http.Client) JinaOption {
	return func(c *jinaClient) {
		c.http = hc
	}
}

type jinaClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// NewJinaClient creates an Embedder backed by the Jina embeddings API.
func NewJinaClient(apiKey, model string, opts ...JinaOption) Embedder {
	if model == "" {
		model = "jina-embeddings-v3"
	}
	c := &jinaClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.jina.ai/v1",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type jinaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type jinaEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

// retryDo posts the payload with exponential backoff on transient
// failures (429, 500, 502, 503).
func (c *jinaClient) retryDo(ctx context.Context, url string, payload []byte) ([]byte, int, error) {
	const maxAttempts = 3
	backoff := 1 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, 0, eris.Wrap(err, "embed: create request")
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxAttempts {
				select {
				case <-ctx.Done():
					return nil, 0, ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= 2
				continue
			}
			return nil, 0, lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, resp.StatusCode, eris.Wrap(readErr, "embed: read response body")
		}

		if retryableStatusCode(resp.StatusCode) && attempt < maxAttempts {
			lastErr = eris.Errorf("embed: status %d: %s", resp.StatusCode, string(body))
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, lastErr
}

func (c *jinaClient) Embed(ctx context.Context, text string) ([]float32, error) {
	payload, err := json.Marshal(jinaEmbedRequest{
		Model: c.model,
		Input: []string{text},
	})
	if err != nil {
		return nil, eris.Wrap(err, "embed: marshal request")
	}

	body, statusCode, err := c.retryDo(ctx, c.baseURL+"/embeddings", payload)
	if err != nil {
		return nil, eris.Wrap(err, "embed: jina request failed")
	}
	if statusCode != http.StatusOK {
		return nil, eris.Errorf("embed: jina unexpected status %d: %s", statusCode, string(body))
	}

	var result jinaEmbedResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "embed: unmarshal response")
	}
	if len(result.Data) == 0 {
		return nil, eris.New("embed: jina returned no embeddings")
	}
	return result.Data[0].Embedding, nil
}
