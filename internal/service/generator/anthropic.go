package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/ezbjus/bariwikiemerg/internal/config"
	"github.com/ezbjus/bariwikiemerg/internal/domain"
)

var systemPrompt = fmt.Sprintf(`You are a medical encyclopedia writer specializing in bariatric surgery.
Generate comprehensive, accurate, and educational descriptions for bariatric surgery terms.

Respond ONLY with valid JSON in this exact structure:
{
    "description": "A comprehensive 2-4 paragraph description in HTML format using <p>, <strong>, <em>, <ul>, <li> tags.",
    "short_description": "A 1-2 sentence summary (max 160 characters)",
    "category": "One of: %s",
    "related_terms": ["array of 3-5 related terms from the provided list"],
    "authority_links": [
        {"title": "Link title", "url": "URL", "source": "NIH/Mayo Clinic/ASMBS/Cleveland Clinic"}
    ]
}

Include at least 2 authority links from reputable medical sources.`, strings.Join(domain.Categories, " | "))

// AnthropicGenerator generates encyclopedia entries via the Anthropic
// Messages API.
type AnthropicGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicGenerator creates a generator from the generation config.
func NewAnthropicGenerator(cfg config.GenerationConfig) *AnthropicGenerator {
	return &AnthropicGenerator{
		client: anthropic.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithRequestTimeout(cfg.Timeout),
		),
		model:     cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
	}
}

// Generate requests one entry for termName.
func (g *AnthropicGenerator) Generate(ctx context.Context, termName string, availableTerms []string) (*Content, error) {
	hints, err := json.Marshal(availableTerms)
	if err != nil {
		return nil, fmt.Errorf("marshal hint list: %w", err)
	}

	prompt := fmt.Sprintf("Generate an encyclopedia entry for: %q\n\nAvailable related terms: %s\n\nRespond ONLY with valid JSON.",
		termName, hints)

	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: g.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: api call for %q: %v", domain.ErrGeneration, termName, err)
	}

	if len(msg.Content) == 0 {
		return nil, fmt.Errorf("%w: empty response for %q", domain.ErrGeneration, termName)
	}

	return parseContent(msg.Content[0].Text)
}
