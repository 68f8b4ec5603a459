package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/JoachimHamraoui/bibliomania/internal/config"
)

type Provider interface {
	SendPrompt(ctx context.Context, system, user string) ([]Draft, error)
}

type geminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, apiKey, model string) (Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiProvider{client: client, model: model}, nil
}

func (p *geminiProvider) SendPrompt(ctx context.Context, system, user string) ([]Draft, error) {
	log := config.WithContext(ctx)

	result, err := p.client.Models.GenerateContent(
		ctx,
		p.model,
		genai.Text(user),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		log.WithError(err).Error("Gemini generation failed")
		return nil, fmt.Errorf("generate content: %w", err)
	}

	raw := result.Text()
	log.Debugf("Raw generator response:\n%s", raw)
	return ParseDrafts(raw)
}

// ParseDrafts decodes a model reply, tolerating a fenced code block around the JSON.
func ParseDrafts(raw string) ([]Draft, error) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return nil, errors.New("empty model response")
	}
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.Trim(clean, "`")
	clean = strings.TrimSpace(clean)

	var drafts []Draft
	if err := json.Unmarshal([]byte(clean), &drafts); err != nil {
		return nil, fmt.Errorf("decode drafts: %w", err)
	}

	valid := drafts[:0]
	for _, d := range drafts {
		if strings.TrimSpace(d.Question) == "" || len(d.Options) < 2 {
			continue
		}
		valid = append(valid, d)
	}
	return valid, nil
}
