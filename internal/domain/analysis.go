package domain

import (
	"fmt"
	"time"
)

// CellAnswer holds the short factual answer for one
// (competitor, criterion) pair. Each cell lives independently: it is
// created lazily on demand and may be refreshed any number of times.
type CellAnswer struct {
	Competitor string `json:"competitor"`
	Criterion  string `json:"criterion"`
	Answer     string `json:"answer"`
	Error      bool   `json:"error,omitempty"`
}

// Description is a short competitor blurb resolved on demand, sharing
// the cell answers' lifecycle.
type Description struct {
	Competitor string `json:"competitor"`
	Text       string `json:"text"`
	Error      bool   `json:"error,omitempty"`
}

// CellKey identifies a cell by (competitor index, criterion index).
func CellKey(competitorIdx, criterionIdx int) string {
	return fmt.Sprintf("%d-%d", competitorIdx, criterionIdx)
}

// RawResponses keeps the unaggregated per-model outcomes for the
// audit/debug view.
type RawResponses struct {
	Competitors []*ModelResponse `json:"competitors"`
	Criteria    []*ModelResponse `json:"criteria"`
}

// AnalysisResult is the final aggregate of one analysis run. The
// ranked lists and raw responses are immutable once built; only the
// keyed cell answer store grows afterwards, each cell under its own
// distinct key.
type AnalysisResult struct {
	Target       string                  `json:"target"`
	Competitors  []*Competitor           `json:"competitors"`
	Criteria     []*Criterion            `json:"criteria"`
	Table        [][]string              `json:"table"`
	CellAnswers  map[string]*CellAnswer  `json:"cell_answers,omitempty"`
	Descriptions map[string]*Description `json:"descriptions,omitempty"`
	Timestamp    time.Time               `json:"timestamp"`
	Raw          *RawResponses           `json:"raw_responses,omitempty"`
}

// SetDescription attaches a competitor description, replacing any
// previous one.
func (r *AnalysisResult) SetDescription(desc *Description) {
	if r.Descriptions == nil {
		r.Descriptions = make(map[string]*Description)
	}
	r.Descriptions[desc.Competitor] = desc
}

// NewEmptyTable reserves the |competitors| x |criteria| grid for
// on-demand cell answers.
func NewEmptyTable(rows, cols int) [][]string {
	table := make([][]string, rows)
	for i := range table {
		table[i] = make([]string, cols)
	}
	return table
}

// Cell returns the stored answer for a cell, or nil.
func (r *AnalysisResult) Cell(competitorIdx, criterionIdx int) *CellAnswer {
	if r == nil || r.CellAnswers == nil {
		return nil
	}
	return r.CellAnswers[CellKey(competitorIdx, criterionIdx)]
}

// SetCell attaches an answer under its cell key, replacing any
// previous value for the same cell.
func (r *AnalysisResult) SetCell(competitorIdx, criterionIdx int, answer *CellAnswer) {
	if r.CellAnswers == nil {
		r.CellAnswers = make(map[string]*CellAnswer)
	}
	r.CellAnswers[CellKey(competitorIdx, criterionIdx)] = answer
	if competitorIdx >= 0 && competitorIdx < len(r.Table) {
		if criterionIdx >= 0 && criterionIdx < len(r.Table[competitorIdx]) {
			r.Table[competitorIdx][criterionIdx] = answer.Answer
		}
	}
}

// Stage identifies pipeline progress for presentation layers.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageFetching    Stage = "fetching"
	StageNormalizing Stage = "normalizing"
	StageComplete    Stage = "complete"
)

func (s Stage) String() string {
	return string(s)
}
