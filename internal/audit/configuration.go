package audit

import (
	"fmt"
	"strings"
	"time"
)

const (
	scanConfigurationKeyConstant               = "scan"
	reportConfigurationKeyConstant             = "report"
	scanRootConfigurationKeyConstant           = scanConfigurationKeyConstant + ".root"
	scanIgnoredPathsConfigurationKeyConstant   = scanConfigurationKeyConstant + ".ignored_paths"
	scanWorkersConfigurationKeyConstant        = scanConfigurationKeyConstant + ".workers"
	scanFetchTimeoutConfigurationKeyConstant   = scanConfigurationKeyConstant + ".fetch_timeout"
	scanCommandTimeoutConfigurationKeyConstant = scanConfigurationKeyConstant + ".command_timeout"
	scanSkipFetchConfigurationKeyConstant      = scanConfigurationKeyConstant + ".skip_fetch"
	reportFormatConfigurationKeyConstant       = reportConfigurationKeyConstant + ".format"
	reportColorConfigurationKeyConstant        = reportConfigurationKeyConstant + ".color"
	unsupportedReportFormatTemplateConstant    = "unsupported report format %q (expected table or yaml)"
	negativeWorkerCountTemplateConstant        = "worker count must not be negative: %d"
	nonPositiveTimeoutTemplateConstant         = "%s must be positive: %s"
)

// ReportFormat selects how results are rendered.
type ReportFormat string

// Supported report formats.
const (
	ReportFormatTable ReportFormat = "table"
	ReportFormatYAML  ReportFormat = "yaml"
)

// ParseReportFormat normalizes and validates a report format name.
func ParseReportFormat(raw string) (ReportFormat, error) {
	switch ReportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case ReportFormatTable, "":
		return ReportFormatTable, nil
	case ReportFormatYAML:
		return ReportFormatYAML, nil
	default:
		return "", fmt.Errorf(unsupportedReportFormatTemplateConstant, raw)
	}
}

// CommandConfiguration captures persistent settings for the audit command.
type CommandConfiguration struct {
	Scan   ScanConfiguration   `mapstructure:"scan"`
	Report ReportConfiguration `mapstructure:"report"`
}

// ScanConfiguration controls discovery and classification.
type ScanConfiguration struct {
	Root           string        `mapstructure:"root"`
	IgnoredPaths   []string      `mapstructure:"ignored_paths"`
	Workers        int           `mapstructure:"workers"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`
	CommandTimeout time.Duration `mapstructure:"command_timeout"`
	SkipFetch      bool          `mapstructure:"skip_fetch"`
}

// ReportConfiguration controls result rendering.
type ReportConfiguration struct {
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// DefaultCommandConfiguration returns baseline configuration values for the audit command.
// An empty root and an empty denylist select the platform defaults at run time.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Scan: ScanConfiguration{
			Root:           "",
			IgnoredPaths:   nil,
			Workers:        0,
			FetchTimeout:   DefaultFetchTimeout,
			CommandTimeout: DefaultCommandTimeout,
			SkipFetch:      false,
		},
		Report: ReportConfiguration{
			Format: string(ReportFormatTable),
			Color:  true,
		},
	}
}

// DefaultConfigurationValues exposes the defaults keyed by configuration path.
func DefaultConfigurationValues() map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		scanRootConfigurationKeyConstant:           defaults.Scan.Root,
		scanIgnoredPathsConfigurationKeyConstant:   []string{},
		scanWorkersConfigurationKeyConstant:        defaults.Scan.Workers,
		scanFetchTimeoutConfigurationKeyConstant:   defaults.Scan.FetchTimeout.String(),
		scanCommandTimeoutConfigurationKeyConstant: defaults.Scan.CommandTimeout.String(),
		scanSkipFetchConfigurationKeyConstant:      defaults.Scan.SkipFetch,
		reportFormatConfigurationKeyConstant:       defaults.Report.Format,
		reportColorConfigurationKeyConstant:        defaults.Report.Color,
	}
}

// sanitize trims whitespace, drops empty denylist entries, and applies defaults to unset values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Scan.Root = strings.TrimSpace(configuration.Scan.Root)
	sanitized.Scan.IgnoredPaths = sanitizePaths(configuration.Scan.IgnoredPaths)
	if sanitized.Scan.FetchTimeout == 0 {
		sanitized.Scan.FetchTimeout = DefaultFetchTimeout
	}
	if sanitized.Scan.CommandTimeout == 0 {
		sanitized.Scan.CommandTimeout = DefaultCommandTimeout
	}
	sanitized.Report.Format = strings.TrimSpace(configuration.Report.Format)
	return sanitized
}

func sanitizePaths(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for index := range raw {
		trimmed := strings.TrimSpace(raw[index])
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
