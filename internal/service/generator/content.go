package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ezbjus/bariwikiemerg/internal/domain"
)

// Content is one generated encyclopedia entry as returned by the text
// generation backend.
type Content struct {
	Description      string                 `json:"description"`
	ShortDescription string                 `json:"short_description"`
	Category         string                 `json:"category"`
	RelatedTerms     []string               `json:"related_terms"`
	AuthorityLinks   []domain.AuthorityLink `json:"authority_links"`
}

// ContentGenerator produces an encyclopedia entry for a term name.
// availableTerms is a hint list of existing term names the backend may pick
// related terms from.
type ContentGenerator interface {
	Generate(ctx context.Context, termName string, availableTerms []string) (*Content, error)
}

// parseContent decodes a generation response into Content. Models often
// wrap the JSON in a markdown code fence even when told not to, so fences
// are stripped before decoding.
func parseContent(raw string) (*Content, error) {
	text := stripFences(raw)

	var c Content
	if err := json.Unmarshal([]byte(text), &c); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrGeneration, err)
	}
	return &c, nil
}

// stripFences removes an enclosing markdown code fence, with or without a
// language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
