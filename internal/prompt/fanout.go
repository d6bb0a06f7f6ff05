package prompt

import "fmt"

// BuildCompetitorsPrompt builds the fan-out prompt asking one model for
// competitor names.
func BuildCompetitorsPrompt(data FanoutPromptData) string {
	return fmt.Sprintf(`List up to 20 competitors for "%s".
Return as a JSON array with key "competitors".
Include both direct competitors and alternative products/services.
Example format: {"competitors": ["Competitor 1", "Competitor 2", ...]}`, data.Target)
}

// BuildCriteriaPrompt builds the fan-out prompt asking one model for
// comparison criteria.
func BuildCriteriaPrompt(data FanoutPromptData) string {
	return fmt.Sprintf(`List up to 20 comparison criteria/features for evaluating "%s".
Return as a JSON array with key "criteria".
Include price, key features, and differentiating factors.
Example format: {"criteria": ["Price", "Feature 1", "Feature 2", ...]}`, data.Target)
}
