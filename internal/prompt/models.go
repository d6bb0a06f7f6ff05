package prompt

// FanoutPromptData holds variables for the competitor/criteria listing prompts
type FanoutPromptData struct {
	Target string
}

// NormalizationPromptData holds variables for the entity normalization prompt
type NormalizationPromptData struct {
	Context  string
	Entities []string
}

// CellPromptData holds variables for the single-cell factual answer prompt
type CellPromptData struct {
	Competitor string
	Criterion  string
}

// DescriptionPromptData holds variables for the competitor description prompt
type DescriptionPromptData struct {
	Competitor string
	Context    string
}
