package audit

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitupdated/internal/execshell"
	"github.com/temirov/gitupdated/internal/repos/dependencies"
	"github.com/temirov/gitupdated/internal/repos/discovery"
	"github.com/temirov/gitupdated/internal/repos/shared"
	"github.com/temirov/gitupdated/internal/ui"
	"github.com/temirov/gitupdated/internal/utils"
	pathutils "github.com/temirov/gitupdated/internal/utils/path"
)

const (
	commandUseConstant                = "git-updated [path...]"
	commandShortDescriptionConstant   = "Report which local directories hold unsaved git work"
	commandLongDescriptionConstant    = "git-updated checks each path (literal or glob) and reports whether it is missing, not a repository, has uncommitted changes, or has commits that no remote contains. The exit code is the most severe state found: 0 ok, 1 missing directory, 2 not a repository, 3 git error, 4 fetch failed, 5 uncommitted changes, 6 unpushed commits."
	commandExampleConstant            = "  git-updated ~/src/*\n  git-updated --skip-fetch --format yaml ~/src/**\n  git-updated --full"
	flagFullScanNameConstant          = "full"
	flagFullScanShorthandConstant     = "f"
	flagFullScanUsageConstant         = "Scan the whole filesystem (or scan.root) for repositories instead of the given paths."
	flagDebugNameConstant             = "debug"
	flagDebugShorthandConstant        = "d"
	flagDebugUsageConstant            = "Print every git command with its working directory and exit code."
	flagWorkersNameConstant           = "workers"
	flagWorkersShorthandConstant      = "w"
	flagWorkersUsageConstant          = "Number of repositories checked in parallel (default: number of CPUs)."
	flagFetchTimeoutNameConstant      = "fetch-timeout"
	flagFetchTimeoutUsageConstant     = "Maximum duration of git fetch per repository."
	flagCommandTimeoutNameConstant    = "command-timeout"
	flagCommandTimeoutUsageConstant   = "Maximum duration of every other git command."
	flagSkipFetchNameConstant         = "skip-fetch"
	flagSkipFetchUsageConstant        = "Compare against existing remote-tracking branches without fetching."
	flagFormatNameConstant            = "format"
	flagFormatUsageConstant           = "Report format: table or yaml."
	flagNoColorNameConstant           = "no-color"
	flagNoColorUsageConstant          = "Disable colored output."
	flagScanRootNameConstant          = "root"
	flagScanRootUsageConstant         = "Directory walked by --full."
	defaultPathSpecifierConstant      = "."
	exitCodeErrorTemplateConstant     = "audit finished with exit code %d"
	presenterCreationTemplateConstant = "unable to prepare report output: %w"
	executorCreationTemplateConstant  = "unable to prepare git executor: %w"
	flagValueTemplateConstant         = "invalid --%s value: %w"
	fetchTimeoutLabelConstant         = "fetch timeout"
	commandTimeoutLabelConstant       = "command timeout"
)

// ErrPresenterNotConfigured indicates a CommandBuilder without a presenter factory.
var ErrPresenterNotConfigured = errors.New("audit presenter factory not configured")

// ExitCodeError carries the aggregated severity of a run that found something to report.
type ExitCodeError struct {
	Code int
}

func (exitCodeError ExitCodeError) Error() string {
	return fmt.Sprintf(exitCodeErrorTemplateConstant, exitCodeError.Code)
}

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the loaded audit configuration.
type ConfigurationProvider func() CommandConfiguration

// PresentationOptions describes how results should be rendered.
type PresentationOptions struct {
	Format ReportFormat
	Color  bool
}

// PresenterFactory builds the reporter and progress observer for a run.
type PresenterFactory func(options PresentationOptions, outputWriter io.Writer, errorWriter io.Writer) (Reporter, ProgressObserver, error)

// CommandOptions captures the resolved parameters of one invocation.
type CommandOptions struct {
	Specifiers     []string
	FullScan       bool
	Debug          bool
	Workers        int
	FetchTimeout   time.Duration
	CommandTimeout time.Duration
	SkipFetch      bool
	ScanRoot       string
	IgnoredPaths   []string
	Presentation   PresentationOptions
}

// CommandBuilder assembles the audit cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	PresenterFactory      PresenterFactory
	GitExecutor           shared.GitExecutor
	FileSystem            shared.FileSystem
	PathFilter            shared.PathFilter
	Discoverer            shared.RepositoryDiscoverer
	HomeExpander          *pathutils.HomeExpander
	CommandEventsObserver execshell.CommandEventObserver
}

// Build constructs the cobra command for the repository audit.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		RunE:    builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().BoolP(flagFullScanNameConstant, flagFullScanShorthandConstant, false, flagFullScanUsageConstant)
	command.Flags().BoolP(flagDebugNameConstant, flagDebugShorthandConstant, false, flagDebugUsageConstant)
	command.Flags().IntP(flagWorkersNameConstant, flagWorkersShorthandConstant, defaults.Scan.Workers, flagWorkersUsageConstant)
	command.Flags().Duration(flagFetchTimeoutNameConstant, defaults.Scan.FetchTimeout, flagFetchTimeoutUsageConstant)
	command.Flags().Duration(flagCommandTimeoutNameConstant, defaults.Scan.CommandTimeout, flagCommandTimeoutUsageConstant)
	command.Flags().Bool(flagSkipFetchNameConstant, defaults.Scan.SkipFetch, flagSkipFetchUsageConstant)
	command.Flags().String(flagFormatNameConstant, defaults.Report.Format, flagFormatUsageConstant)
	command.Flags().Bool(flagNoColorNameConstant, false, flagNoColorUsageConstant)
	command.Flags().String(flagScanRootNameConstant, defaults.Scan.Root, flagScanRootUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command, arguments)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()

	commandEventsObserver := builder.CommandEventsObserver
	if options.Debug && commandEventsObserver == nil {
		traceLogger := utils.NewLoggerFactory().CreateTraceLogger(command.ErrOrStderr())
		commandEventsObserver = ui.NewConsoleCommandEventLogger(traceLogger)
	}

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, commandEventsObserver, options.CommandTimeout)
	if executorError != nil {
		return fmt.Errorf(executorCreationTemplateConstant, executorError)
	}

	fileSystem := dependencies.ResolveFileSystem(builder.FileSystem)
	pathFilter := dependencies.ResolvePathFilter(builder.PathFilter, options.IgnoredPaths)
	discoverer := dependencies.ResolveRepositoryDiscoverer(builder.Discoverer, fileSystem, pathFilter)
	expander := discovery.NewExpander(
		pathFilter,
		discovery.WithFileSystem(fileSystem),
		discovery.WithRepositoryDiscoverer(discoverer),
		discovery.WithHomeExpander(builder.HomeExpander),
		discovery.WithScanRoot(options.ScanRoot),
	)
	classifier := NewClassifier(gitExecutor, fileSystem, ClassifierOptions{
		FetchTimeout:   options.FetchTimeout,
		CommandTimeout: options.CommandTimeout,
		SkipFetch:      options.SkipFetch,
	})

	if builder.PresenterFactory == nil {
		return ErrPresenterNotConfigured
	}
	reporter, progressObserver, presenterError := builder.PresenterFactory(options.Presentation, command.OutOrStdout(), command.ErrOrStderr())
	if presenterError != nil {
		return fmt.Errorf(presenterCreationTemplateConstant, presenterError)
	}

	service, serviceError := NewService(expander, classifier, progressObserver, reporter, logger)
	if serviceError != nil {
		return serviceError
	}

	summary, runError := service.Run(command.Context(), RunOptions{
		Specifiers: options.Specifiers,
		FullScan:   options.FullScan,
		Workers:    options.Workers,
	})
	if runError != nil {
		return runError
	}
	if summary.ExitCode != StateOk.Severity() {
		return ExitCodeError{Code: summary.ExitCode}
	}
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) (CommandOptions, error) {
	configuration := builder.resolveConfiguration()

	flagSet := command.Flags()
	fullScan, _ := flagSet.GetBool(flagFullScanNameConstant)
	debug, _ := flagSet.GetBool(flagDebugNameConstant)

	if flagSet.Changed(flagWorkersNameConstant) {
		configuration.Scan.Workers, _ = flagSet.GetInt(flagWorkersNameConstant)
	}
	if flagSet.Changed(flagFetchTimeoutNameConstant) {
		configuration.Scan.FetchTimeout, _ = flagSet.GetDuration(flagFetchTimeoutNameConstant)
	}
	if flagSet.Changed(flagCommandTimeoutNameConstant) {
		configuration.Scan.CommandTimeout, _ = flagSet.GetDuration(flagCommandTimeoutNameConstant)
	}
	if flagSet.Changed(flagSkipFetchNameConstant) {
		configuration.Scan.SkipFetch, _ = flagSet.GetBool(flagSkipFetchNameConstant)
	}
	if flagSet.Changed(flagFormatNameConstant) {
		configuration.Report.Format, _ = flagSet.GetString(flagFormatNameConstant)
	}
	if flagSet.Changed(flagScanRootNameConstant) {
		configuration.Scan.Root, _ = flagSet.GetString(flagScanRootNameConstant)
	}
	if noColor, _ := flagSet.GetBool(flagNoColorNameConstant); noColor {
		configuration.Report.Color = false
	}

	if configuration.Scan.Workers < 0 {
		return CommandOptions{}, fmt.Errorf(flagValueTemplateConstant, flagWorkersNameConstant, fmt.Errorf(negativeWorkerCountTemplateConstant, configuration.Scan.Workers))
	}
	if configuration.Scan.FetchTimeout <= 0 {
		return CommandOptions{}, fmt.Errorf(flagValueTemplateConstant, flagFetchTimeoutNameConstant, fmt.Errorf(nonPositiveTimeoutTemplateConstant, fetchTimeoutLabelConstant, configuration.Scan.FetchTimeout))
	}
	if configuration.Scan.CommandTimeout <= 0 {
		return CommandOptions{}, fmt.Errorf(flagValueTemplateConstant, flagCommandTimeoutNameConstant, fmt.Errorf(nonPositiveTimeoutTemplateConstant, commandTimeoutLabelConstant, configuration.Scan.CommandTimeout))
	}
	reportFormat, formatError := ParseReportFormat(configuration.Report.Format)
	if formatError != nil {
		return CommandOptions{}, fmt.Errorf(flagValueTemplateConstant, flagFormatNameConstant, formatError)
	}

	specifiers := append([]string{}, arguments...)
	if len(specifiers) == 0 && !fullScan {
		specifiers = []string{defaultPathSpecifierConstant}
	}

	return CommandOptions{
		Specifiers:     specifiers,
		FullScan:       fullScan,
		Debug:          debug,
		Workers:        configuration.Scan.Workers,
		FetchTimeout:   configuration.Scan.FetchTimeout,
		CommandTimeout: configuration.Scan.CommandTimeout,
		SkipFetch:      configuration.Scan.SkipFetch,
		ScanRoot:       configuration.Scan.Root,
		IgnoredPaths:   configuration.Scan.IgnoredPaths,
		Presentation: PresentationOptions{
			Format: reportFormat,
			Color:  configuration.Report.Color,
		},
	}, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration().sanitize()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
