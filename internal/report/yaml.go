package report

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/temirov/gitupdated/internal/audit"
)

const yamlIndentConstant = 2

type yamlReportDocument struct {
	Results  []yamlReportResult `yaml:"results"`
	ExitCode int                `yaml:"exit_code"`
}

type yamlReportResult struct {
	Path        string `yaml:"path"`
	State       string `yaml:"state"`
	Severity    int    `yaml:"severity"`
	Remediation string `yaml:"remediation,omitempty"`
	Detail      string `yaml:"detail,omitempty"`
}

// YAMLReporter prints results as a single YAML document.
type YAMLReporter struct {
	writer io.Writer
}

// NewYAMLReporter constructs a YAMLReporter.
func NewYAMLReporter(writer io.Writer) *YAMLReporter {
	return &YAMLReporter{writer: writer}
}

// Report encodes every result and the aggregated exit code.
func (reporter *YAMLReporter) Report(results []audit.RepositoryResult) error {
	document := yamlReportDocument{
		Results:  make([]yamlReportResult, 0, len(results)),
		ExitCode: audit.AggregateExitCode(results),
	}
	for _, result := range results {
		document.Results = append(document.Results, yamlReportResult{
			Path:        result.Path,
			State:       result.State.String(),
			Severity:    result.Severity,
			Remediation: result.Remediation,
			Detail:      result.Detail,
		})
	}

	encoder := yaml.NewEncoder(reporter.writer)
	encoder.SetIndent(yamlIndentConstant)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return encodeError
	}
	return encoder.Close()
}
