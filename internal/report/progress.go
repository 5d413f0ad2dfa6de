package report

import (
	"fmt"
	"io"

	"github.com/temirov/gitupdated/internal/audit"
	"github.com/temirov/gitupdated/internal/utils"
)

const progressLineTemplateConstant = "[%d/%d] %s\n"

// ProgressPrinter writes one line per started candidate. Writes are serialized.
type ProgressPrinter struct {
	writer io.Writer
}

// NewProgressPrinter constructs a ProgressPrinter over a flushing writer.
func NewProgressPrinter(writer io.Writer) *ProgressPrinter {
	return &ProgressPrinter{writer: utils.NewFlushingWriter(writer)}
}

// CandidateStarted prints the one-based position of the candidate.
func (printer *ProgressPrinter) CandidateStarted(index int, total int, candidatePath string) {
	if printer == nil || printer.writer == nil {
		return
	}
	fmt.Fprintf(printer.writer, progressLineTemplateConstant, index+1, total, candidatePath)
}

// CandidateFinished is a no-op; the final report carries the outcome.
func (printer *ProgressPrinter) CandidateFinished(audit.RepositoryResult) {}
