package prompt

import (
	"encoding/json"
	"fmt"
)

// NormalizationSystemPrompt pins the normalization model to JSON output.
const NormalizationSystemPrompt = "You are a data normalization expert. Return only valid JSON."

// BuildCompetitorNormalizationPrompt builds the prompt that maps raw
// competitor name variants to canonical forms.
func BuildCompetitorNormalizationPrompt(data NormalizationPromptData) string {
	entities, _ := json.Marshal(data.Entities)
	return fmt.Sprintf(`Normalize these competitor names for "%s":
%s

Rules:
1. Merge variations of the same entity (e.g., "Uber" and "UBER" → "Uber")
2. Use the format "Product (Company)" for specific products
3. Use just the brand/company name when no specific product is mentioned
4. Group related entities when appropriate

Return JSON in this format:
{
  "normalized": {
    "original_name": "normalized_name",
    ...
  },
  "groups": {
    "normalized_name": ["original_variant1", "original_variant2"],
    ...
  }
}`, data.Context, entities)
}

// BuildCriteriaNormalizationPrompt builds the prompt that merges
// synonym criteria into canonical forms.
func BuildCriteriaNormalizationPrompt(data NormalizationPromptData) string {
	entities, _ := json.Marshal(data.Entities)
	return fmt.Sprintf(`Normalize these comparison criteria for "%s":
%s

Rules:
1. Merge synonyms (e.g., "Cost" and "Price" → "Price")
2. Standardize naming (e.g., "Battery" and "Battery Life" → "Battery Life")
3. Maintain clarity and specificity

Return JSON in this format:
{
  "normalized": {
    "original_criteria": "normalized_criteria",
    ...
  },
  "groups": {
    "normalized_criteria": ["original_variant1", "original_variant2"],
    ...
  }
}`, data.Context, entities)
}
