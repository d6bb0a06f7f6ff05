package prompt

import "fmt"

// CellSystemPrompt forces the cell model into terse factual answers.
const CellSystemPrompt = "Respond with only the factual answer. No reasoning, no explanation, no extra text. Maximum 5 words."

// BuildCellPrompt builds the single-cell factual question with few-shot
// examples anchoring the answer format.
func BuildCellPrompt(data CellPromptData) string {
	return fmt.Sprintf(`What is the %s for %s?

Give only the direct answer in 5 words or less. No explanation.

Examples:
- Tesla + Fuel Source = Electric
- Ferrari + Fuel Source = Petrol
- iPhone + Operating System = iOS
- Sony WH-1000XM4 + Price = $300-400

Answer:`, data.Criterion, data.Competitor)
}

// BuildDescriptionPrompt builds the short competitor blurb prompt.
func BuildDescriptionPrompt(data DescriptionPromptData) string {
	return fmt.Sprintf(`Describe %s in one sentence, as a competitor of "%s".

Give only the sentence. No preamble, no markdown.`, data.Competitor, data.Context)
}
