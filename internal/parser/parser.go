package parser

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kapu/comp-table-go/internal/constants"
	"github.com/kapu/comp-table-go/internal/domain"
	"github.com/kapu/comp-table-go/internal/util"
	"github.com/kapu/comp-table-go/pkg/errors"
)

// listPatterns are tried in order against each non-empty line; the
// first capturing group that matches wins.
var listPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[-•*]\s*(.+)$`),
	regexp.MustCompile(`^\d+\.\s*(.+)$`),
	regexp.MustCompile(`^\d+\)\s*(.+)$`),
	regexp.MustCompile(`^["']([^"']+)["']$`),
}

type structuredPayload struct {
	Competitors []string `json:"competitors"`
	Criteria    []string `json:"criteria"`
}

// Parse turns one raw model payload into a typed response. The decode
// ladder: strict JSON, code-fence strip + JSON retry, HTML list
// extraction, line-oriented text extraction. A payload that yields no
// items is a failure, never an empty success.
func Parse(model, payload string, kind domain.EntityKind) *domain.ModelResponse {
	if items, detected, ok := parseStructured(payload); ok {
		return success(model, kind, detected, items)
	}

	cleaned := util.StripCodeFences(payload)
	if items, detected, ok := parseStructured(cleaned); ok {
		return success(model, kind, detected, items)
	}

	if items := parseHTMLList(payload); len(items) > 0 {
		if !kind.IsValid() {
			kind = inferKind(payload)
		}
		return success(model, kind, domain.EntityKindUnknown, items)
	}

	items := parseLines(payload)
	if len(items) == 0 {
		return Failed(model, kind, errors.NewParseError("could not parse response - no items found", model).Error())
	}

	if !kind.IsValid() {
		kind = inferKind(payload)
	}
	return success(model, kind, domain.EntityKindUnknown, items)
}

// Failed builds the failure representation shared by transport errors
// and unparseable payloads; aggregation never distinguishes the two.
func Failed(model string, kind domain.EntityKind, reason string) *domain.ModelResponse {
	return &domain.ModelResponse{
		Model:   model,
		Kind:    kind,
		Failure: reason,
	}
}

func success(model string, kind, detected domain.EntityKind, items []string) *domain.ModelResponse {
	if !kind.IsValid() {
		if detected.IsValid() {
			kind = detected
		} else {
			kind = domain.EntityKindCompetitors
		}
	}
	return &domain.ModelResponse{
		Model: model,
		Kind:  kind,
		Items: items,
	}
}

func parseStructured(payload string) (items []string, detected domain.EntityKind, ok bool) {
	var parsed structuredPayload
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		return nil, domain.EntityKindUnknown, false
	}

	if len(parsed.Competitors) > 0 {
		return cleanItems(parsed.Competitors), domain.EntityKindCompetitors, true
	}
	if len(parsed.Criteria) > 0 {
		return cleanItems(parsed.Criteria), domain.EntityKindCriteria, true
	}
	return nil, domain.EntityKindUnknown, false
}

// parseHTMLList extracts <li> texts when a model wrapped its answer in
// HTML list markup instead of JSON or plain text.
func parseHTMLList(payload string) []string {
	if !strings.Contains(payload, "<li") {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(payload))
	if err != nil {
		return nil
	}

	var items []string
	doc.Find("li").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			items = append(items, text)
		}
	})
	return items
}

func parseLines(payload string) []string {
	var items []string
	for _, line := range strings.Split(payload, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		matched := false
		for _, pattern := range listPatterns {
			if m := pattern.FindStringSubmatch(line); m != nil {
				if item := strings.TrimSpace(m[1]); item != "" {
					items = append(items, item)
					matched = true
				}
				break
			}
		}

		// Bare lines count as items as long as they are not
		// prose-like (no colon) and exceed the minimal length.
		if !matched && len(line) > constants.ParserConfig.MinLineLength && !strings.Contains(line, ":") {
			items = append(items, line)
		}
	}
	return items
}

func cleanItems(raw []string) []string {
	items := make([]string, 0, len(raw))
	for _, item := range raw {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// inferKind guesses the response kind from keyword presence when the
// caller did not already know it, defaulting to competitors.
func inferKind(payload string) domain.EntityKind {
	lower := strings.ToLower(payload)

	for _, keyword := range []string{"competitor", "compet", "alternative", "rival"} {
		if strings.Contains(lower, keyword) {
			return domain.EntityKindCompetitors
		}
	}
	for _, keyword := range []string{"criteri", "feature", "factor", "aspect"} {
		if strings.Contains(lower, keyword) {
			return domain.EntityKindCriteria
		}
	}
	return domain.EntityKindCompetitors
}
