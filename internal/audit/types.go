package audit

import (
	"fmt"
	"strings"
)

// RepositoryState enumerates the terminal outcomes of classifying a candidate directory.
// The numeric value of each state is its severity.
type RepositoryState int

// Repository states in ascending severity.
const (
	StateOk RepositoryState = iota
	StateMissingDirectory
	StateNotARepository
	StateToolError
	StateFetchFailed
	StateDirty
	StateAheadOfRemote
)

const (
	stateNameOkConstant               = "ok"
	stateNameMissingDirectoryConstant = "missing_directory"
	stateNameNotARepositoryConstant   = "not_a_repository"
	stateNameToolErrorConstant        = "tool_error"
	stateNameFetchFailedConstant      = "fetch_failed"
	stateNameDirtyConstant            = "dirty"
	stateNameAheadOfRemoteConstant    = "ahead_of_remote"
	unknownStateNameTemplateConstant  = "state(%d)"
	dirtyRemediationTemplateConstant  = "cd %s && git status"
	aheadRemediationTemplateConstant  = "cd %s && git log --branches --not --remotes"
	shellSingleQuoteConstant          = "'"
	shellEscapedSingleQuoteConstant   = `'\''`
)

var stateNames = map[RepositoryState]string{
	StateOk:               stateNameOkConstant,
	StateMissingDirectory: stateNameMissingDirectoryConstant,
	StateNotARepository:   stateNameNotARepositoryConstant,
	StateToolError:        stateNameToolErrorConstant,
	StateFetchFailed:      stateNameFetchFailedConstant,
	StateDirty:            stateNameDirtyConstant,
	StateAheadOfRemote:    stateNameAheadOfRemoteConstant,
}

// AllStates lists every state in ascending severity.
func AllStates() []RepositoryState {
	return []RepositoryState{
		StateOk,
		StateMissingDirectory,
		StateNotARepository,
		StateToolError,
		StateFetchFailed,
		StateDirty,
		StateAheadOfRemote,
	}
}

// String returns the stable machine-readable name of the state.
func (state RepositoryState) String() string {
	if name, found := stateNames[state]; found {
		return name
	}
	return fmt.Sprintf(unknownStateNameTemplateConstant, int(state))
}

// Severity returns the exit code contribution of the state.
func (state RepositoryState) Severity() int {
	return int(state)
}

// RequiresRemediation reports whether the state carries unsaved work the user should inspect.
func (state RepositoryState) RequiresRemediation() bool {
	return state == StateDirty || state == StateAheadOfRemote
}

// RepositoryResult is the immutable classification of one candidate directory.
type RepositoryResult struct {
	Path        string
	State       RepositoryState
	Remediation string
	Severity    int
	// Detail carries diagnostic text for error states and never influences classification.
	Detail string
}

// NewRepositoryResult derives severity and remediation from the state.
func NewRepositoryResult(path string, state RepositoryState, detail string) RepositoryResult {
	return RepositoryResult{
		Path:        path,
		State:       state,
		Remediation: Remediation(state, path),
		Severity:    state.Severity(),
		Detail:      strings.TrimSpace(detail),
	}
}

// Remediation returns the shell command a user should run to inspect unsaved work, or an empty string.
func Remediation(state RepositoryState, path string) string {
	switch state {
	case StateDirty:
		return fmt.Sprintf(dirtyRemediationTemplateConstant, quoteShellArgument(path))
	case StateAheadOfRemote:
		return fmt.Sprintf(aheadRemediationTemplateConstant, quoteShellArgument(path))
	default:
		return ""
	}
}

// AggregateExitCode folds results into the maximum severity; no results yield zero.
func AggregateExitCode(results []RepositoryResult) int {
	exitCode := StateOk.Severity()
	for _, result := range results {
		if result.Severity > exitCode {
			exitCode = result.Severity
		}
	}
	return exitCode
}

func quoteShellArgument(value string) string {
	return shellSingleQuoteConstant + strings.ReplaceAll(value, shellSingleQuoteConstant, shellEscapedSingleQuoteConstant) + shellSingleQuoteConstant
}
