package report

import (
	"fmt"
	"io"

	"github.com/temirov/gitupdated/internal/audit"
)

const unsupportedFormatTemplateConstant = "unsupported report format %q"

// NewPresenter builds the reporter for the requested format and a progress printer that is
// active only when errorWriter is a terminal. Colors require both the option and a terminal.
func NewPresenter(options audit.PresentationOptions, outputWriter io.Writer, errorWriter io.Writer) (audit.Reporter, audit.ProgressObserver, error) {
	var progressObserver audit.ProgressObserver
	if IsTerminal(errorWriter) {
		progressObserver = NewProgressPrinter(errorWriter)
	}

	switch options.Format {
	case audit.ReportFormatTable, "":
		return NewTableReporter(outputWriter, options.Color && IsTerminal(outputWriter)), progressObserver, nil
	case audit.ReportFormatYAML:
		return NewYAMLReporter(outputWriter), progressObserver, nil
	default:
		return nil, nil, fmt.Errorf(unsupportedFormatTemplateConstant, options.Format)
	}
}
