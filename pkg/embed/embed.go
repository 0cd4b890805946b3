// Package embed provides a text embedding client used as the semantic
// fallback for categorical scoring.
package embed

import (
	"context"
	"math"

	"github.com/rotisserie/eris"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder generates vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Config holds the embedding endpoint settings. Provider selects the
// backend: "openai" (any OpenAI-compatible endpoint) or "jina".
type Config struct {
	Provider string `yaml:"provider" mapstructure:"provider"`
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	Token    string `yaml:"token" mapstructure:"token"`
	Model    string `yaml:"model" mapstructure:"model"`
}

// New creates the Embedder selected by cfg.Provider.
func New(cfg Config) (Embedder, error) {
	switch cfg.Provider {
	case "jina":
		if cfg.BaseURL != "" {
			return NewJinaClient(cfg.Token, cfg.Model, WithJinaBaseURL(cfg.BaseURL)), nil
		}
		return NewJinaClient(cfg.Token, cfg.Model), nil
	case "", "openai":
		return NewClient(cfg)
	default:
		return nil, eris.Errorf("embed: unknown provider %q", cfg.Provider)
	}
}

// client wraps a langchaingo embedder over an OpenAI-compatible API.
type client struct {
	inner embeddings.Embedder
}

// NewClient creates an Embedder against an OpenAI-compatible endpoint.
// Local endpoints that skip auth can leave Token empty.
func NewClient(cfg Config) (Embedder, error) {
	token := cfg.Token
	if token == "" {
		token = "none"
	}
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(token),
		openai.WithEmbeddingModel(cfg.Model),
	)
	if err != nil {
		return nil, eris.Wrap(err, "embed: create client")
	}

	inner, err := embeddings.NewEmbedder(llm, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, eris.Wrap(err, "embed: create embedder")
	}

	return &client{inner: inner}, nil
}

func (c *client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.inner.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, eris.Wrap(err, "embed: embed text")
	}
	if len(vectors) == 0 {
		return nil, eris.New("embed: provider returned no vectors")
	}
	return vectors[0], nil
}

// Cosine returns the cosine similarity of two vectors, 0 when either
// has zero magnitude or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
