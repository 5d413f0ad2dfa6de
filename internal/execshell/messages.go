package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	gitFetchAllRemotesLabelConstant         = "all remotes"
)

const (
	gitRevParseSubcommandNameConstant = "rev-parse"
	gitShowTopLevelFlagConstant       = "--show-toplevel"
	gitStatusSubcommandNameConstant   = "status"
	gitFetchSubcommandNameConstant    = "fetch"
	gitAllFlagConstant                = "--all"
	gitLogSubcommandNameConstant      = "log"
)

const (
	gitTopLevelStartTemplateConstant            = "Locating repository root for %s"
	gitTopLevelSuccessTemplateConstant          = "Located repository root for %s"
	gitTopLevelFailureTemplateConstant          = "%s is not inside a Git working tree (exit code %d%s)"
	gitTopLevelExecutionFailureTemplateConstant = "Unable to locate repository root for %s: %s"
	gitStatusStartTemplateConstant              = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant            = "Collected working tree status for %s"
	gitStatusFailureTemplateConstant            = "Failed to review working tree status in %s (exit code %d%s)"
	gitStatusExecutionFailureTemplateConstant   = "Unable to review working tree status in %s: %s"
	gitFetchStartTemplateConstant               = "Fetching from %s in %s"
	gitFetchSuccessTemplateConstant             = "Fetched from %s in %s"
	gitFetchFailureTemplateConstant             = "Failed to fetch from %s in %s (exit code %d%s)"
	gitFetchExecutionFailureTemplateConstant    = "Unable to fetch from %s in %s: %s"
	gitLogStartTemplateConstant                 = "Listing unpushed commits in %s"
	gitLogSuccessTemplateConstant               = "Listed unpushed commits in %s"
	gitLogFailureTemplateConstant               = "Failed to list unpushed commits in %s (exit code %d%s)"
	gitLogExecutionFailureTemplateConstant      = "Unable to list unpushed commits in %s: %s"
)

type stageTemplates struct {
	start            string
	success          string
	failure          string
	executionFailure string
}

var gitSubcommandTemplates = map[string]stageTemplates{
	gitStatusSubcommandNameConstant: {
		start:            gitStatusStartTemplateConstant,
		success:          gitStatusSuccessTemplateConstant,
		failure:          gitStatusFailureTemplateConstant,
		executionFailure: gitStatusExecutionFailureTemplateConstant,
	},
	gitLogSubcommandNameConstant: {
		start:            gitLogStartTemplateConstant,
		success:          gitLogSuccessTemplateConstant,
		failure:          gitLogFailureTemplateConstant,
		executionFailure: gitLogExecutionFailureTemplateConstant,
	},
}

var gitTopLevelTemplates = stageTemplates{
	start:            gitTopLevelStartTemplateConstant,
	success:          gitTopLevelSuccessTemplateConstant,
	failure:          gitTopLevelFailureTemplateConstant,
	executionFailure: gitTopLevelExecutionFailureTemplateConstant,
}

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	arguments := command.Details.Arguments
	subcommand := strings.TrimSpace(arguments[0])
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch {
	case subcommand == gitRevParseSubcommandNameConstant && containsArgument(arguments, gitShowTopLevelFlagConstant):
		return formatter.applyTemplates(gitTopLevelTemplates, result, failure, stage, workingDirectory)
	case subcommand == gitFetchSubcommandNameConstant:
		return formatter.describeGitFetchMessage(command, result, failure, stage)
	}

	if templates, known := gitSubcommandTemplates[subcommand]; known {
		return formatter.applyTemplates(templates, result, failure, stage, workingDirectory)
	}
	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) applyTemplates(templates stageTemplates, result ExecutionResult, failure error, stage messageStage, subjects ...any) string {
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(templates.start, subjects...)
	case messageStageSuccess:
		return fmt.Sprintf(templates.success, subjects...)
	case messageStageFailure:
		arguments := append(append([]any{}, subjects...), result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		return fmt.Sprintf(templates.failure, arguments...)
	case messageStageExecutionFailure:
		arguments := append(append([]any{}, subjects...), formatter.describeFailure(failure))
		return fmt.Sprintf(templates.executionFailure, arguments...)
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) describeGitFetchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	remote := formatter.extractFetchRemote(command.Details.Arguments)
	templates := stageTemplates{
		start:            gitFetchStartTemplateConstant,
		success:          gitFetchSuccessTemplateConstant,
		failure:          gitFetchFailureTemplateConstant,
		executionFailure: gitFetchExecutionFailureTemplateConstant,
	}
	return formatter.applyTemplates(templates, result, failure, stage, remote, formatter.describeWorkingDirectory(command))
}

func (formatter CommandMessageFormatter) extractFetchRemote(arguments []string) string {
	if containsArgument(arguments, gitAllFlagConstant) {
		return gitFetchAllRemotesLabelConstant
	}
	for _, argument := range arguments[1:] {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 || strings.HasPrefix(trimmedArgument, "-") {
			continue
		}
		return trimmedArgument
	}
	return gitFetchAllRemotesLabelConstant
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = commandLabel + commandArgumentsJoinSeparatorConstant + strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant)
	}
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return commandLabel
	}
	return commandLabel + fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
