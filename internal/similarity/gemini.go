package similarity

import (
	"context"
	"fmt"
	"math"

	"google.golang.org/genai"

	"github.com/arnavasoni/tango/internal/common"
)

// EmbeddingScorer scores semantic similarity as the cosine of Gemini text
// embeddings, scaled to 0-100. It is the production scorer for consignee and
// address fields, where word order and abbreviations defeat edit distance.
type EmbeddingScorer struct {
	client *genai.Client
	model  string
}

// NewEmbeddingScorer creates a Gemini-backed scorer. The model defaults to
// gemini-embedding-001 when empty.
func NewEmbeddingScorer(ctx context.Context, apiKey, model string) (*EmbeddingScorer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("embedding scorer requires an API key")
	}
	if model == "" {
		model = "gemini-embedding-001"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &EmbeddingScorer{client: client, model: model}, nil
}

// Score implements Scorer. Empty inputs score 0 without calling the API.
func (s *EmbeddingScorer) Score(ctx context.Context, a, b string) (float64, error) {
	if a == "" || b == "" {
		return 0, nil
	}

	contents := []*genai.Content{
		genai.NewContentFromText(a, genai.RoleUser),
		genai.NewContentFromText(b, genai.RoleUser),
	}

	var result *genai.EmbedContentResponse
	err := common.WithRetry(ctx, func() error {
		var embedErr error
		result, embedErr = s.client.Models.EmbedContent(ctx, s.model, contents, &genai.EmbedContentConfig{
			TaskType: "SEMANTIC_SIMILARITY",
		})
		return embedErr
	}, common.RetryOptions{MaxAttempts: 3})
	if err != nil {
		return 0, fmt.Errorf("embed content: %w", err)
	}
	if len(result.Embeddings) < 2 {
		return 0, fmt.Errorf("expected 2 embeddings, got %d", len(result.Embeddings))
	}

	return cosine(result.Embeddings[0].Values, result.Embeddings[1].Values) * 100, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
