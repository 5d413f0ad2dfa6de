package audit

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	expansionErrorTemplateConstant      = "unable to expand paths: %w"
	reportErrorTemplateConstant         = "unable to write report: %w"
	runInterruptedErrorTemplateConstant = "audit interrupted: %w"
	candidatesExpandedMessageConstant   = "candidates expanded"
	candidateClassifiedMessageConstant  = "candidate classified"
	auditCompletedMessageConstant       = "audit completed"
	logFieldCandidateCountConstant      = "candidate_count"
	logFieldWorkerCountConstant         = "workers"
	logFieldFullScanConstant            = "full_scan"
	logFieldPathConstant                = "path"
	logFieldStateConstant               = "state"
	logFieldDetailConstant              = "detail"
	logFieldExitCodeConstant            = "exit_code"
)

var (
	// ErrExpanderNotConfigured indicates a Service without a candidate expander.
	ErrExpanderNotConfigured = errors.New("audit service candidate expander not configured")
	// ErrClassifierNotConfigured indicates a Service without a classifier.
	ErrClassifierNotConfigured = errors.New("audit service classifier not configured")
)

// CandidateExpander turns path specifiers into candidate directories.
type CandidateExpander interface {
	Expand(specifiers []string, fullScan bool) ([]string, error)
}

// RepositoryClassifier evaluates a single candidate directory.
type RepositoryClassifier interface {
	Classify(executionContext context.Context, candidatePath string) RepositoryResult
}

// ProgressObserver receives per-candidate notifications. Calls arrive concurrently from workers.
type ProgressObserver interface {
	CandidateStarted(index int, total int, candidatePath string)
	CandidateFinished(result RepositoryResult)
}

// Reporter renders the ordered results of a completed run.
type Reporter interface {
	Report(results []RepositoryResult) error
}

// RunOptions captures the inputs of one audit run.
type RunOptions struct {
	Specifiers []string
	FullScan   bool
	Workers    int
}

// Summary is the outcome of a completed run.
type Summary struct {
	Results  []RepositoryResult
	ExitCode int
}

// Service coordinates expansion, parallel classification, and reporting.
type Service struct {
	expander   CandidateExpander
	classifier RepositoryClassifier
	progress   ProgressObserver
	reporter   Reporter
	logger     *zap.Logger
}

// NewService constructs a Service. Progress and reporter are optional.
func NewService(expander CandidateExpander, classifier RepositoryClassifier, progress ProgressObserver, reporter Reporter, logger *zap.Logger) (*Service, error) {
	if expander == nil {
		return nil, ErrExpanderNotConfigured
	}
	if classifier == nil {
		return nil, ErrClassifierNotConfigured
	}
	if progress == nil {
		progress = noopProgressObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		expander:   expander,
		classifier: classifier,
		progress:   progress,
		reporter:   reporter,
		logger:     logger,
	}, nil
}

// DefaultWorkerCount returns the worker pool size used when none is configured.
func DefaultWorkerCount() int {
	return runtime.NumCPU()
}

// Run classifies every candidate and reports results in candidate order.
func (service *Service) Run(executionContext context.Context, options RunOptions) (Summary, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}

	candidates, expansionError := service.expander.Expand(options.Specifiers, options.FullScan)
	if expansionError != nil {
		return Summary{}, fmt.Errorf(expansionErrorTemplateConstant, expansionError)
	}

	workerCount := options.Workers
	if workerCount <= 0 {
		workerCount = DefaultWorkerCount()
	}

	service.logger.Debug(
		candidatesExpandedMessageConstant,
		zap.Int(logFieldCandidateCountConstant, len(candidates)),
		zap.Int(logFieldWorkerCountConstant, workerCount),
		zap.Bool(logFieldFullScanConstant, options.FullScan),
	)

	results := make([]RepositoryResult, len(candidates))
	workerGroup, groupContext := errgroup.WithContext(executionContext)
	workerGroup.SetLimit(workerCount)
	for candidateIndex, candidatePath := range candidates {
		workerGroup.Go(func() error {
			service.progress.CandidateStarted(candidateIndex, len(candidates), candidatePath)
			result := service.classifier.Classify(groupContext, candidatePath)
			results[candidateIndex] = result
			service.progress.CandidateFinished(result)
			service.logger.Debug(
				candidateClassifiedMessageConstant,
				zap.String(logFieldPathConstant, result.Path),
				zap.Stringer(logFieldStateConstant, result.State),
				zap.String(logFieldDetailConstant, result.Detail),
			)
			return nil
		})
	}
	_ = workerGroup.Wait()

	if contextError := executionContext.Err(); contextError != nil {
		return Summary{}, fmt.Errorf(runInterruptedErrorTemplateConstant, contextError)
	}

	summary := Summary{Results: results, ExitCode: AggregateExitCode(results)}
	service.logger.Debug(auditCompletedMessageConstant, zap.Int(logFieldExitCodeConstant, summary.ExitCode))

	if service.reporter != nil {
		if reportError := service.reporter.Report(summary.Results); reportError != nil {
			return summary, fmt.Errorf(reportErrorTemplateConstant, reportError)
		}
	}
	return summary, nil
}

type noopProgressObserver struct{}

func (noopProgressObserver) CandidateStarted(int, int, string) {}

func (noopProgressObserver) CandidateFinished(RepositoryResult) {}
