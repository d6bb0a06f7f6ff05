// Package export renders a completed analysis as a spreadsheet. Pure
// formatting over the final data model.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/kapu/comp-table-go/internal/domain"
)

// WriteCSV writes the comparison table: one header row of criteria
// (annotated with unit or scale), one row per competitor with any
// resolved cell answers. Unresolved cells stay blank.
func WriteCSV(w io.Writer, result *domain.AnalysisResult) error {
	writer := csv.NewWriter(w)

	header := make([]string, 0, len(result.Criteria)+1)
	header = append(header, "Competitor")
	for _, criterion := range result.Criteria {
		header = append(header, criterionHeader(criterion))
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for ci, competitor := range result.Competitors {
		row := make([]string, 0, len(result.Criteria)+1)
		row = append(row, competitor.Name)
		for ki := range result.Criteria {
			cell := result.Cell(ci, ki)
			switch {
			case cell == nil:
				row = append(row, "")
			case cell.Error:
				row = append(row, "")
			default:
				row = append(row, cell.Answer)
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func criterionHeader(criterion *domain.Criterion) string {
	switch {
	case criterion.Unit != "":
		return fmt.Sprintf("%s (%s)", criterion.Name, criterion.Unit)
	case criterion.Scale != "":
		return fmt.Sprintf("%s (%s)", criterion.Name, criterion.Scale)
	default:
		return criterion.Name
	}
}
