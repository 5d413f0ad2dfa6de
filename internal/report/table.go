package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/temirov/gitupdated/internal/audit"
)

const (
	tableHeaderPathConstant         = "PATH"
	tableHeaderStatusConstant       = "STATUS"
	tableHeaderDetailConstant       = "DETAIL"
	tableColumnStatusIndexConstant  = 1
	remediationHeadingConstant      = "Run the following commands:"
	remediationLineTemplateConstant = "\t%s\n"
	emptyResultsMessageConstant     = "No directories to check.\n"
	detailLineSeparatorConstant     = "\n"
	detailLineJoinerConstant        = "; "
)

// TableReporter prints results as an aligned table followed by the remediation commands.
type TableReporter struct {
	writer   io.Writer
	renderer *lipgloss.Renderer
	color    bool
}

// NewTableReporter constructs a TableReporter. Colors are applied only when color is true.
func NewTableReporter(writer io.Writer, color bool) *TableReporter {
	return &TableReporter{
		writer:   writer,
		renderer: lipgloss.NewRenderer(writer),
		color:    color,
	}
}

// Report writes the table and the remediation list.
func (reporter *TableReporter) Report(results []audit.RepositoryResult) error {
	if len(results) == 0 {
		_, writeError := io.WriteString(reporter.writer, emptyResultsMessageConstant)
		return writeError
	}

	rows := make([][]string, 0, len(results))
	for _, result := range results {
		rows = append(rows, []string{result.Path, StateMessage(result.State), singleLineDetail(result.Detail)})
	}

	resultTable := table.New().
		Headers(tableHeaderPathConstant, tableHeaderStatusConstant, tableHeaderDetailConstant).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row int, column int) lipgloss.Style {
			cellStyle := reporter.renderer.NewStyle().PaddingRight(2)
			if row == table.HeaderRow {
				return cellStyle.Bold(reporter.color)
			}
			if reporter.color && column == tableColumnStatusIndexConstant && row >= 0 && row < len(results) {
				return cellStyle.Foreground(StateColor(results[row].State))
			}
			return cellStyle
		})

	var output strings.Builder
	output.WriteString(resultTable.String())
	output.WriteString("\n")

	remediations := remediationCommands(results)
	if len(remediations) > 0 {
		output.WriteString("\n")
		output.WriteString(remediationHeadingConstant)
		output.WriteString("\n")
		for _, remediation := range remediations {
			output.WriteString(fmt.Sprintf(remediationLineTemplateConstant, remediation))
		}
	}

	_, writeError := io.WriteString(reporter.writer, output.String())
	return writeError
}

func remediationCommands(results []audit.RepositoryResult) []string {
	remediations := make([]string, 0)
	for _, result := range results {
		if len(result.Remediation) == 0 {
			continue
		}
		remediations = append(remediations, result.Remediation)
	}
	return remediations
}

func singleLineDetail(detail string) string {
	lines := strings.Split(strings.TrimSpace(detail), detailLineSeparatorConstant)
	trimmedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmedLine := strings.TrimSpace(line); len(trimmedLine) > 0 {
			trimmedLines = append(trimmedLines, trimmedLine)
		}
	}
	return strings.Join(trimmedLines, detailLineJoinerConstant)
}
