package remote

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"sort"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Embedder calls an OpenAI-compatible embeddings endpoint. Vectors are
// L2-normalized before they are returned; the dimension is latched from
// the first response and stays fixed for the embedder's lifetime.
type Embedder struct {
	client    *openai.Client
	model     string
	dimension int
}

// Config configures the remote embeddings client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// New creates a remote embedder. It fails when the API key is not present
// in the environment, which callers treat as "backend unavailable" and
// fall back to the hashed embedder.
func New(cfg Config) (*Embedder, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	cc := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	cc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &Embedder{
		client: openai.NewClientWithConfig(cc),
		model:  cfg.Model,
	}, nil
}

func (e *Embedder) Name() string { return "remote" }

func (e *Embedder) Dimension() int { return e.dimension }

// Embed requests embeddings for all texts in one batched call.
func (e *Embedder) Embed(texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := e.client.CreateEmbeddings(context.Background(), openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings response has %d vectors for %d inputs", len(resp.Data), len(texts))
	}
	data := resp.Data
	sort.Slice(data, func(i, j int) bool { return data[i].Index < data[j].Index })
	out := make([][]float64, len(data))
	for i, d := range data {
		vec := make([]float64, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float64(v)
		}
		l2normalize(vec)
		if e.dimension == 0 {
			e.dimension = len(vec)
		}
		out[i] = vec
	}
	return out, nil
}

func l2normalize(vec []float64) {
	sum := 0.0
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range vec {
		vec[i] *= inv
	}
}
