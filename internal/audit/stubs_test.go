package audit_test

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/temirov/gitupdated/internal/audit"
	"github.com/temirov/gitupdated/internal/execshell"
)

const (
	workingDirectoryPlaceholderConstant = "<working-directory>"
	topLevelCommandKeyConstant          = "rev-parse --show-toplevel"
	statusCommandKeyConstant            = "status --short"
	fetchCommandKeyConstant             = "fetch --all --quiet"
	unpushedCommandKeyConstant          = "log --branches --not --remotes --oneline"
)

type gitResponse struct {
	output string
	err    error
}

type stubGitExecutor struct {
	mutex       sync.Mutex
	responses   map[string]gitResponse
	invocations []execshell.CommandDetails
}

func newStubGitExecutor(responses map[string]gitResponse) *stubGitExecutor {
	return &stubGitExecutor{responses: responses}
}

func (executor *stubGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.mutex.Lock()
	executor.invocations = append(executor.invocations, details)
	executor.mutex.Unlock()

	key := strings.Join(details.Arguments, " ")
	response, found := executor.responses[key]
	if !found {
		return execshell.ExecutionResult{}, fmt.Errorf("unexpected git command: %s", key)
	}
	if response.err != nil {
		return execshell.ExecutionResult{}, response.err
	}
	output := response.output
	if output == workingDirectoryPlaceholderConstant {
		output = details.WorkingDirectory + "\n"
	}
	return execshell.ExecutionResult{StandardOutput: output}, nil
}

func (executor *stubGitExecutor) invokedKeys() []string {
	executor.mutex.Lock()
	defer executor.mutex.Unlock()
	keys := make([]string, 0, len(executor.invocations))
	for _, details := range executor.invocations {
		keys = append(keys, strings.Join(details.Arguments, " "))
	}
	return keys
}

func cleanRepositoryResponses() map[string]gitResponse {
	return map[string]gitResponse{
		topLevelCommandKeyConstant: {output: workingDirectoryPlaceholderConstant},
		statusCommandKeyConstant:   {output: ""},
		fetchCommandKeyConstant:    {output: ""},
		unpushedCommandKeyConstant: {output: ""},
	}
}

func withResponse(responses map[string]gitResponse, key string, response gitResponse) map[string]gitResponse {
	responses[key] = response
	return responses
}

func gitExitFailure(arguments string, exitCode int, standardError string) error {
	return execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: strings.Fields(arguments)}},
		Result:  execshell.ExecutionResult{ExitCode: exitCode, StandardError: standardError},
	}
}

func gitStartFailure(arguments string) error {
	return execshell.CommandExecutionError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: strings.Fields(arguments)}},
		Cause:   exec.ErrNotFound,
	}
}

func gitTimeoutFailure(arguments string) error {
	return execshell.CommandExecutionError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: execshell.CommandDetails{Arguments: strings.Fields(arguments)}},
		Cause:   fmt.Errorf("%w after %s", execshell.ErrCommandTimedOut, time.Minute),
	}
}

type stubExpander struct {
	candidates []string
	err        error
	calls      int
}

func (expander *stubExpander) Expand(specifiers []string, fullScan bool) ([]string, error) {
	expander.calls++
	if expander.err != nil {
		return nil, expander.err
	}
	return expander.candidates, nil
}

type stubClassifier struct {
	states map[string]audit.RepositoryState
	delays map[string]time.Duration
}

func (classifier stubClassifier) Classify(executionContext context.Context, candidatePath string) audit.RepositoryResult {
	if delay, found := classifier.delays[candidatePath]; found {
		time.Sleep(delay)
	}
	return audit.NewRepositoryResult(candidatePath, classifier.states[candidatePath], "")
}

type recordingProgress struct {
	mutex    sync.Mutex
	started  []string
	finished []string
	totals   []int
}

func (progress *recordingProgress) CandidateStarted(index int, total int, candidatePath string) {
	progress.mutex.Lock()
	defer progress.mutex.Unlock()
	progress.started = append(progress.started, candidatePath)
	progress.totals = append(progress.totals, total)
}

func (progress *recordingProgress) CandidateFinished(result audit.RepositoryResult) {
	progress.mutex.Lock()
	defer progress.mutex.Unlock()
	progress.finished = append(progress.finished, result.Path)
}

type recordingReporter struct {
	reports [][]audit.RepositoryResult
	err     error
}

func (reporter *recordingReporter) Report(results []audit.RepositoryResult) error {
	reporter.reports = append(reporter.reports, results)
	return reporter.err
}

var errStubReport = errors.New("report sink closed")
