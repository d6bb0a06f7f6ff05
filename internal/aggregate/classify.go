package aggregate

import (
	"regexp"
	"strings"

	"github.com/kapu/comp-table-go/internal/domain"
)

// productPattern matches the structural "Product (Company)" form.
var productPattern = regexp.MustCompile(`^(.+)\s*\((.+)\)$`)

// Keyword tables driving criterion classification. Deliberately simple
// containment checks over lowercased names; not a statistical model.
var (
	quantitativeKeywords = []string{"price", "cost", "weight", "size", "battery", "range", "speed"}
	binaryKeywords       = []string{"yes/no", "available", "support", "wireless", "waterproof"}
	categoricalKeywords  = []string{"type", "category", "style", "color"}

	unitTable = []struct {
		keyword string
		unit    string
	}{
		{"price", "USD"},
		{"cost", "USD"},
		{"weight", "g"},
		{"battery", "hours"},
		{"size", "inches"},
		{"speed", "mph"},
		{"range", "miles"},
	}
)

// ClassifyCompetitor infers a competitor's kind from its canonical
// name. Names in "Product (Company)" form classify as product with the
// owning company extracted; everything else is a company. The brand
// kind is reserved and never produced here.
func ClassifyCompetitor(name string) (domain.CompetitorKind, string) {
	if m := productPattern.FindStringSubmatch(name); m != nil {
		return domain.CompetitorKindProduct, strings.TrimSpace(m[2])
	}
	return domain.CompetitorKindCompany, ""
}

// InferValueType classifies a criterion name against the fixed keyword
// tables, defaulting to qualitative.
func InferValueType(name string) domain.ValueType {
	lower := strings.ToLower(name)

	for _, keyword := range quantitativeKeywords {
		if strings.Contains(lower, keyword) {
			return domain.ValueTypeQuantitative
		}
	}
	for _, keyword := range binaryKeywords {
		if strings.Contains(lower, keyword) {
			return domain.ValueTypeBinary
		}
	}
	for _, keyword := range categoricalKeywords {
		if strings.Contains(lower, keyword) {
			return domain.ValueTypeCategorical
		}
	}
	return domain.ValueTypeQualitative
}

// InferUnit derives a display unit from the criterion name, or "" when
// no keyword applies.
func InferUnit(name string) string {
	lower := strings.ToLower(name)
	for _, entry := range unitTable {
		if strings.Contains(lower, entry.keyword) {
			return entry.unit
		}
	}
	return ""
}

// InferScale returns "1-5" for qualitative criteria and "" otherwise.
func InferScale(valueType domain.ValueType) string {
	if valueType == domain.ValueTypeQualitative {
		return "1-5"
	}
	return ""
}
