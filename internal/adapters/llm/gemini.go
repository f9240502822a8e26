package llm

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/PabloGalante/fluid101/internal/domain"
)

type GeminiConfig struct {
	ProjectID string
	Location  string
	ModelName string
}

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a CompletionClient backed by Gemini on Vertex AI.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.ProjectID == "" || cfg.Location == "" {
		return nil, errors.New("gemini: project and location are required")
	}

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.ProjectID,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating Vertex AI client")
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Complete implements domain.CompletionClient.
func (g *GeminiClient) Complete(
	ctx context.Context,
	utterance string,
	convCtx domain.ConversationContext,
) (string, error) {
	contents := make([]*genai.Content, 0, len(convCtx.History)+1)
	for _, m := range convCtx.History {
		role := genai.Role(genai.RoleUser)
		if m.Author == domain.AuthorAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(utterance, genai.RoleUser))

	temp := float32(0.4)
	topP := float32(0.9)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt(), genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   4096,
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", errors.Wrap(err, "gemini generate content")
	}

	text := res.Text()
	if text == "" {
		return "", errors.New("gemini returned empty text")
	}
	return text, nil
}
