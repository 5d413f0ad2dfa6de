package audit

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/temirov/gitupdated/internal/execshell"
	"github.com/temirov/gitupdated/internal/repos/dependencies"
	"github.com/temirov/gitupdated/internal/repos/shared"
)

const (
	// DefaultFetchTimeout bounds git fetch when no timeout is configured.
	DefaultFetchTimeout = 60 * time.Second
	// DefaultCommandTimeout bounds every other git command when no timeout is configured.
	DefaultCommandTimeout = 30 * time.Second

	notDirectoryDetailConstant = "path is not a directory"
)

// ClassifierOptions tunes git invocation for a Classifier.
type ClassifierOptions struct {
	FetchTimeout   time.Duration
	CommandTimeout time.Duration
	SkipFetch      bool
}

// Classifier determines the RepositoryState of candidate directories.
type Classifier struct {
	gitExecutor     shared.GitExecutor
	fileSystem      shared.FileSystem
	options         ClassifierOptions
	caseInsensitive bool
}

// NewClassifier constructs a Classifier. Non-positive timeouts fall back to the defaults.
func NewClassifier(gitExecutor shared.GitExecutor, fileSystem shared.FileSystem, options ClassifierOptions) *Classifier {
	if options.FetchTimeout <= 0 {
		options.FetchTimeout = DefaultFetchTimeout
	}
	if options.CommandTimeout <= 0 {
		options.CommandTimeout = DefaultCommandTimeout
	}
	return &Classifier{
		gitExecutor:     gitExecutor,
		fileSystem:      dependencies.ResolveFileSystem(fileSystem),
		options:         options,
		caseInsensitive: runtime.GOOS == "windows" || runtime.GOOS == "darwin",
	}
}

// Classify evaluates a single candidate. Every git command runs with the candidate as its
// working directory. Failures are folded into the returned state.
func (classifier *Classifier) Classify(executionContext context.Context, candidatePath string) RepositoryResult {
	fileInfo, statError := classifier.fileSystem.Stat(candidatePath)
	if statError != nil {
		return NewRepositoryResult(candidatePath, StateMissingDirectory, statError.Error())
	}
	if !fileInfo.IsDir() {
		return NewRepositoryResult(candidatePath, StateMissingDirectory, notDirectoryDetailConstant)
	}

	topLevelResult, topLevelError := classifier.runGit(executionContext, candidatePath, topLevelArguments(), classifier.options.CommandTimeout, nil)
	if topLevelError != nil {
		if isNonZeroExit(topLevelError) {
			return NewRepositoryResult(candidatePath, StateNotARepository, failureDetail(topLevelError))
		}
		return NewRepositoryResult(candidatePath, StateToolError, failureDetail(topLevelError))
	}
	topLevelPath := strings.TrimSpace(topLevelResult.StandardOutput)
	if !classifier.samePath(topLevelPath, candidatePath) {
		return NewRepositoryResult(candidatePath, StateNotARepository, fmt.Sprintf(topLevelMismatchTemplateConstant, topLevelPath))
	}

	statusResult, statusError := classifier.runGit(executionContext, candidatePath, statusArguments(), classifier.options.CommandTimeout, statusEnvironment())
	if statusError != nil {
		return NewRepositoryResult(candidatePath, StateToolError, failureDetail(statusError))
	}
	if len(strings.TrimSpace(statusResult.StandardOutput)) > 0 {
		return NewRepositoryResult(candidatePath, StateDirty, "")
	}

	if !classifier.options.SkipFetch {
		_, fetchError := classifier.runGit(executionContext, candidatePath, fetchArguments(), classifier.options.FetchTimeout, fetchEnvironment())
		if fetchError != nil {
			if isNonZeroExit(fetchError) || isTimeout(fetchError) {
				return NewRepositoryResult(candidatePath, StateFetchFailed, failureDetail(fetchError))
			}
			return NewRepositoryResult(candidatePath, StateToolError, failureDetail(fetchError))
		}
	}

	logResult, logError := classifier.runGit(executionContext, candidatePath, unpushedCommitsArguments(), classifier.options.CommandTimeout, nil)
	if logError != nil {
		return NewRepositoryResult(candidatePath, StateToolError, failureDetail(logError))
	}
	if len(strings.TrimSpace(logResult.StandardOutput)) > 0 {
		return NewRepositoryResult(candidatePath, StateAheadOfRemote, "")
	}

	return NewRepositoryResult(candidatePath, StateOk, "")
}

func (classifier *Classifier) runGit(executionContext context.Context, workingDirectory string, arguments []string, timeout time.Duration, environment map[string]string) (execshell.ExecutionResult, error) {
	return classifier.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     workingDirectory,
		EnvironmentVariables: environment,
		Timeout:              timeout,
	})
}

// samePath reports whether git's top level is the candidate itself rather than an enclosing repository.
func (classifier *Classifier) samePath(topLevelPath string, candidatePath string) bool {
	if len(topLevelPath) == 0 {
		return false
	}
	return canonicalPath(classifier.fileSystem.EvalSymlinks, topLevelPath, classifier.caseInsensitive) ==
		canonicalPath(classifier.fileSystem.EvalSymlinks, candidatePath, classifier.caseInsensitive)
}
