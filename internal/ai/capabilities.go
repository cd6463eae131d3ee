package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"detector-padroes/internal/models"
)

const darkPatternsPrompt = `You are an expert in identifying dark patterns on e-commerce websites.

Analyze the webpage at the given URL for any dark patterns. Dark patterns are deceptive UI/UX interactions, designed to trick users into doing things they might not otherwise do.

Return a JSON array of detected dark patterns. Each object in the array should have the following fields:
- patternType: The type of dark pattern detected (e.g., fake scarcity, hidden costs).
- element: The specific HTML element where the pattern is found (e.g., a specific button or text).
- explanation: An explanation of why this is considered a dark pattern.

URL: %s
`

const trickyOffersPrompt = `You are an expert in identifying misleading or tricky offers on e-commerce product pages.
Analyze the content of the webpage at the given URL. Identify any offers, discounts, or promotions that might be considered 'tricky'. This includes, but is not limited to:
- Offers with unclear conditions or fine print.
- Discounts that seem too good to be true or have hidden costs after initial interaction.
- Promotions that pressure users into immediate purchase without full information (e.g., exaggerated scarcity).
- Subscription traps disguised as one-time purchases or difficult-to-cancel trials.
- Misleading comparisons or inflated original prices to make a discount appear larger.

For each tricky offer found, describe:
- offerText: The verbatim text of the offer as seen on the page. If it's a visual element, describe it.
- concern: A clear explanation of why this offer is potentially tricky or misleading.
- advice: Actionable advice to the user on how to approach this offer cautiously (e.g., 'Check for hidden fees at checkout', 'Look for cancellation terms before subscribing').

If no tricky offers are found, return an empty array.

URL: %s
`

const reviewSummaryPrompt = `Summarize the following product reviews for %s, highlighting the key pros and cons mentioned by users.

Respond with JSON only, in this exact format:
{"summary": "Your summary here"}

Reviews:
%s`

var darkPatternFields = []string{"patternType", "element", "explanation"}

var trickyOfferFields = []string{"offerText", "concern", "advice"}

// DetectDarkPatterns pede ao modelo a lista de dark patterns da página
func (c *Client) DetectDarkPatterns(ctx context.Context, url string) ([]models.DarkPattern, error) {
	text, err := c.generate(ctx, fmt.Sprintf(darkPatternsPrompt, url), arraySchema(darkPatternFields))
	if err != nil {
		return nil, fmt.Errorf("detectar dark patterns: %w", err)
	}
	patterns, err := decodeRecords[models.DarkPattern](text, darkPatternFields)
	if err != nil {
		return nil, fmt.Errorf("detectar dark patterns: %w", err)
	}
	return patterns, nil
}

// DetectTrickyOffers pede ao modelo a lista de ofertas enganosas da página
func (c *Client) DetectTrickyOffers(ctx context.Context, url string) ([]models.TrickyOffer, error) {
	text, err := c.generate(ctx, fmt.Sprintf(trickyOffersPrompt, url), arraySchema(trickyOfferFields))
	if err != nil {
		return nil, fmt.Errorf("detectar ofertas enganosas: %w", err)
	}
	offers, err := decodeRecords[models.TrickyOffer](text, trickyOfferFields)
	if err != nil {
		return nil, fmt.Errorf("detectar ofertas enganosas: %w", err)
	}
	return offers, nil
}

// SummarizeProductReviews resume avaliações fornecidas pelo chamador
func (c *Client) SummarizeProductReviews(ctx context.Context, productName, reviews string) (*models.ReviewSummary, error) {
	schema := map[string]any{
		"type":       "OBJECT",
		"properties": map[string]any{"summary": map[string]any{"type": "STRING"}},
		"required":   []string{"summary"},
	}

	text, err := c.generate(ctx, fmt.Sprintf(reviewSummaryPrompt, productName, reviews), schema)
	if err != nil {
		return nil, fmt.Errorf("resumir avaliações: %w", err)
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("resumir avaliações: %w: %w", ErrSchemaMismatch, err)
	}
	summary, ok := raw["summary"].(string)
	if !ok || strings.TrimSpace(summary) == "" {
		return nil, fmt.Errorf("resumir avaliações: %w: campo \"summary\" ausente", ErrSchemaMismatch)
	}
	return &models.ReviewSummary{Summary: summary}, nil
}

// arraySchema monta o responseSchema de um array de objetos com campos string obrigatórios
func arraySchema(fields []string) map[string]any {
	properties := make(map[string]any, len(fields))
	for _, f := range fields {
		properties[f] = map[string]any{"type": "STRING"}
	}
	return map[string]any{
		"type": "ARRAY",
		"items": map[string]any{
			"type":       "OBJECT",
			"properties": properties,
			"required":   fields,
		},
	}
}

// decodeRecords valida que cada item tem os campos obrigatórios como string
// e só então converte para o tipo final. Saída null vira lista vazia.
func decodeRecords[T any](text string, required []string) ([]T, error) {
	if text == "" || text == "null" {
		return []T{}, nil
	}

	var raw []map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
	}
	for i, item := range raw {
		for _, key := range required {
			if _, ok := item[key].(string); !ok {
				return nil, fmt.Errorf("%w: item %d sem campo %q", ErrSchemaMismatch, i, key)
			}
		}
	}

	records := make([]T, 0, len(raw))
	if err := json.Unmarshal([]byte(text), &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
	}
	return records, nil
}
