package embedding

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements EmbeddingProvider on the OpenAI embeddings API.
type OpenAIProvider struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAIProvider(apiKey string, model string) EmbeddingProvider {
	m := openai.EmbeddingModel(model)
	if model == "" {
		m = openai.SmallEmbedding3
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  m,
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, text string, taskType string) (*EmbeddingResponse, error) {
	// taskType is not distinguished by OpenAI embedding models

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: p.model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding request failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embedding: no data returned")
	}

	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{
			Values: normalizeVector(resp.Data[0].Embedding),
		},
	}, nil
}
