package audit

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/temirov/gitupdated/internal/execshell"
)

const (
	gitRevParseSubcommandConstant           = "rev-parse"
	gitShowTopLevelFlagConstant             = "--show-toplevel"
	gitStatusSubcommandConstant             = "status"
	gitShortFlagConstant                    = "--short"
	gitFetchSubcommandConstant              = "fetch"
	gitAllRemotesFlagConstant               = "--all"
	gitQuietFlagConstant                    = "--quiet"
	gitLogSubcommandConstant                = "log"
	gitBranchesFlagConstant                 = "--branches"
	gitNotFlagConstant                      = "--not"
	gitRemotesFlagConstant                  = "--remotes"
	gitOnelineFlagConstant                  = "--oneline"
	gitTerminalPromptEnvironmentKeyConstant = "GIT_TERMINAL_PROMPT"
	gitOptionalLocksEnvironmentKeyConstant  = "GIT_OPTIONAL_LOCKS"
	disabledEnvironmentValueConstant        = "0"
	topLevelMismatchTemplateConstant        = "repository root is %s"
)

func topLevelArguments() []string {
	return []string{gitRevParseSubcommandConstant, gitShowTopLevelFlagConstant}
}

func statusArguments() []string {
	return []string{gitStatusSubcommandConstant, gitShortFlagConstant}
}

func fetchArguments() []string {
	return []string{gitFetchSubcommandConstant, gitAllRemotesFlagConstant, gitQuietFlagConstant}
}

func unpushedCommitsArguments() []string {
	return []string{gitLogSubcommandConstant, gitBranchesFlagConstant, gitNotFlagConstant, gitRemotesFlagConstant, gitOnelineFlagConstant}
}

// fetchEnvironment disables interactive credential prompts.
func fetchEnvironment() map[string]string {
	return map[string]string{gitTerminalPromptEnvironmentKeyConstant: disabledEnvironmentValueConstant}
}

// statusEnvironment skips optional index lock acquisition.
func statusEnvironment() map[string]string {
	return map[string]string{gitOptionalLocksEnvironmentKeyConstant: disabledEnvironmentValueConstant}
}

// canonicalPath resolves symbolic links and separators so two spellings of a directory compare equal.
func canonicalPath(evalSymlinks func(string) (string, error), path string, caseInsensitive bool) string {
	cleanedPath := filepath.Clean(filepath.FromSlash(strings.TrimSpace(path)))
	if evalSymlinks != nil {
		if resolvedPath, resolveError := evalSymlinks(cleanedPath); resolveError == nil {
			cleanedPath = filepath.Clean(resolvedPath)
		}
	}
	if caseInsensitive {
		return strings.ToLower(cleanedPath)
	}
	return cleanedPath
}

// failureDetail extracts the most useful diagnostic text from a shell error.
func failureDetail(commandError error) string {
	var failedError execshell.CommandFailedError
	if errors.As(commandError, &failedError) {
		if standardError := strings.TrimSpace(failedError.Result.StandardError); len(standardError) > 0 {
			return standardError
		}
	}
	return commandError.Error()
}

func isNonZeroExit(commandError error) bool {
	var failedError execshell.CommandFailedError
	return errors.As(commandError, &failedError)
}

func isTimeout(commandError error) bool {
	return errors.Is(commandError, execshell.ErrCommandTimedOut)
}
