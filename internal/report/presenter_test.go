package report_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitupdated/internal/audit"
	"github.com/temirov/gitupdated/internal/report"
)

func TestNewPresenterSelectsReporter(testInstance *testing.T) {
	testCases := []struct {
		name         string
		format       audit.ReportFormat
		expectedType any
	}{
		{name: "table", format: audit.ReportFormatTable, expectedType: &report.TableReporter{}},
		{name: "default", format: "", expectedType: &report.TableReporter{}},
		{name: "yaml", format: audit.ReportFormatYAML, expectedType: &report.YAMLReporter{}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			reporter, progressObserver, presenterError := report.NewPresenter(audit.PresentationOptions{Format: testCase.format, Color: true}, &bytes.Buffer{}, &bytes.Buffer{})
			require.NoError(testInstance, presenterError)
			require.IsType(testInstance, testCase.expectedType, reporter)
			require.Nil(testInstance, progressObserver)
		})
	}
}

func TestNewPresenterRejectsUnknownFormat(testInstance *testing.T) {
	_, _, presenterError := report.NewPresenter(audit.PresentationOptions{Format: "csv"}, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(testInstance, presenterError)
}

func TestIsTerminalRejectsBuffers(testInstance *testing.T) {
	require.False(testInstance, report.IsTerminal(&bytes.Buffer{}))
}

func TestProgressPrinterWritesOneBasedPositions(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	printer := report.NewProgressPrinter(outputBuffer)

	printer.CandidateStarted(0, 2, "/src/a")
	printer.CandidateFinished(audit.NewRepositoryResult("/src/a", audit.StateOk, ""))
	printer.CandidateStarted(1, 2, "/src/b")

	require.Equal(testInstance, "[1/2] /src/a\n[2/2] /src/b\n", outputBuffer.String())
}

func TestProgressPrinterSerializesConcurrentLines(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	printer := report.NewProgressPrinter(outputBuffer)

	var waitGroup sync.WaitGroup
	for index := 0; index < 50; index++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			printer.CandidateStarted(index, 50, "/src/repository")
		}()
	}
	waitGroup.Wait()

	require.Equal(testInstance, 50, bytes.Count(outputBuffer.Bytes(), []byte("\n")))
	require.Equal(testInstance, 50, bytes.Count(outputBuffer.Bytes(), []byte("/50] /src/repository\n")))
}
