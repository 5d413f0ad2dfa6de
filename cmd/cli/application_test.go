package cli_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/gitupdated/cmd/cli"
	"github.com/temirov/gitupdated/internal/audit"
	"github.com/temirov/gitupdated/internal/execshell"
)

const (
	testConfigurationFileNameConstant      = ".git-updated.yaml"
	testStatusCommandKeyConstant           = "status --short"
	testTopLevelCommandKeyConstant         = "rev-parse --show-toplevel"
	testApplicationSubtestTemplateConstant = "%d_%s"
)

type applicationGitExecutor struct {
	statusOutput string
	invocations  []string
}

func (executor *applicationGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	key := strings.Join(details.Arguments, " ")
	executor.invocations = append(executor.invocations, key)
	switch key {
	case testTopLevelCommandKeyConstant:
		return execshell.ExecutionResult{StandardOutput: details.WorkingDirectory + "\n"}, nil
	case testStatusCommandKeyConstant:
		return execshell.ExecutionResult{StandardOutput: executor.statusOutput}, nil
	default:
		return execshell.ExecutionResult{}, nil
	}
}

type yamlReportFixture struct {
	Results []struct {
		Path  string `yaml:"path"`
		State string `yaml:"state"`
	} `yaml:"results"`
	ExitCode int `yaml:"exit_code"`
}

func runApplication(testInstance *testing.T, application *cli.Application, arguments ...string) (string, error) {
	testInstance.Helper()
	outputBuffer := &bytes.Buffer{}
	rootCommand := application.RootCommand()
	rootCommand.SetArgs(arguments)
	rootCommand.SetOut(outputBuffer)
	rootCommand.SetErr(&bytes.Buffer{})
	executionError := application.Execute(context.Background())
	return outputBuffer.String(), executionError
}

func TestApplicationAppliesEmbeddedDefaults(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	application, creationError := cli.NewApplication(
		cli.WithConfigurationSearchPaths(testInstance.TempDir()),
		cli.WithGitExecutor(&applicationGitExecutor{}),
	)
	require.NoError(testInstance, creationError)

	_, executionError := runApplication(testInstance, application, repositoryPath)
	require.NoError(testInstance, executionError)

	configuration := application.Configuration()
	require.Equal(testInstance, "warn", configuration.Common.LogLevel)
	require.Equal(testInstance, "console", configuration.Common.LogFormat)
	require.Equal(testInstance, 60*time.Second, configuration.Scan.FetchTimeout)
	require.Equal(testInstance, 30*time.Second, configuration.Scan.CommandTimeout)
	require.Equal(testInstance, "table", configuration.Report.Format)
	require.True(testInstance, configuration.Report.Color)
	require.False(testInstance, configuration.Scan.SkipFetch)
}

func TestApplicationConfigurationSources(testInstance *testing.T) {
	testCases := []struct {
		name                 string
		fileContent          string
		environmentVariables map[string]string
		arguments            []string
		expectYAML           bool
		expectFetch          bool
	}{
		{
			name:        "table by default",
			expectYAML:  false,
			expectFetch: true,
		},
		{
			name:        "config file selects yaml and skips fetch",
			fileContent: "report:\n  format: yaml\nscan:\n  skip_fetch: true\n",
			expectYAML:  true,
			expectFetch: false,
		},
		{
			name:                 "environment selects yaml",
			environmentVariables: map[string]string{"GITUPDATED_REPORT_FORMAT": "yaml"},
			expectYAML:           true,
			expectFetch:          true,
		},
		{
			name:        "flag overrides config file",
			fileContent: "report:\n  format: yaml\n",
			arguments:   []string{"--format", "table", "--skip-fetch"},
			expectYAML:  false,
			expectFetch: false,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testApplicationSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			configurationDirectory := testInstance.TempDir()
			if len(testCase.fileContent) > 0 {
				configurationPath := filepath.Join(configurationDirectory, testConfigurationFileNameConstant)
				require.NoError(testInstance, os.WriteFile(configurationPath, []byte(testCase.fileContent), 0o600))
			}
			for name, value := range testCase.environmentVariables {
				testInstance.Setenv(name, value)
			}

			repositoryPath := testInstance.TempDir()
			gitExecutor := &applicationGitExecutor{}
			application, creationError := cli.NewApplication(
				cli.WithConfigurationSearchPaths(configurationDirectory),
				cli.WithGitExecutor(gitExecutor),
			)
			require.NoError(testInstance, creationError)

			arguments := append(append([]string{}, testCase.arguments...), repositoryPath)
			output, executionError := runApplication(testInstance, application, arguments...)
			require.NoError(testInstance, executionError)

			if testCase.expectYAML {
				document := yamlReportFixture{}
				require.NoError(testInstance, yaml.Unmarshal([]byte(output), &document))
				require.Len(testInstance, document.Results, 1)
				require.Equal(testInstance, "ok", document.Results[0].State)
				require.Equal(testInstance, 0, document.ExitCode)
			} else {
				require.Contains(testInstance, output, "PATH")
				require.Contains(testInstance, output, "up to date")
			}

			fetched := false
			for _, invocation := range gitExecutor.invocations {
				if strings.HasPrefix(invocation, "fetch") {
					fetched = true
				}
			}
			require.Equal(testInstance, testCase.expectFetch, fetched)
		})
	}
}

func TestApplicationReturnsExitCodeError(testInstance *testing.T) {
	repositoryPath := testInstance.TempDir()
	application, creationError := cli.NewApplication(
		cli.WithConfigurationSearchPaths(testInstance.TempDir()),
		cli.WithGitExecutor(&applicationGitExecutor{statusOutput: "?? notes.txt\n"}),
	)
	require.NoError(testInstance, creationError)

	output, executionError := runApplication(testInstance, application, "--no-color", repositoryPath)

	var exitCodeError audit.ExitCodeError
	require.True(testInstance, errors.As(executionError, &exitCodeError))
	require.Equal(testInstance, audit.StateDirty.Severity(), exitCodeError.Code)
	require.Contains(testInstance, output, "git status")
}

func TestApplicationRejectsInvalidLogLevel(testInstance *testing.T) {
	application, creationError := cli.NewApplication(
		cli.WithConfigurationSearchPaths(testInstance.TempDir()),
		cli.WithGitExecutor(&applicationGitExecutor{}),
	)
	require.NoError(testInstance, creationError)

	_, executionError := runApplication(testInstance, application, "--log-level", "verbose", testInstance.TempDir())
	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "unable to create logger")

	var exitCodeError audit.ExitCodeError
	require.False(testInstance, errors.As(executionError, &exitCodeError))
}

func TestApplicationLogFlagsOverrideConfiguration(testInstance *testing.T) {
	application, creationError := cli.NewApplication(
		cli.WithConfigurationSearchPaths(testInstance.TempDir()),
		cli.WithGitExecutor(&applicationGitExecutor{}),
	)
	require.NoError(testInstance, creationError)

	_, executionError := runApplication(testInstance, application, "--log-level", "error", "--log-format", "structured", testInstance.TempDir())
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "error", application.Configuration().Common.LogLevel)
	require.Equal(testInstance, "structured", application.Configuration().Common.LogFormat)
}

func TestEmbeddedDefaultConfigurationIsIndependentCopy(testInstance *testing.T) {
	firstContent, configurationType := cli.EmbeddedDefaultConfiguration()
	require.Equal(testInstance, "yaml", configurationType)
	require.NotEmpty(testInstance, firstContent)
	firstContent[0] = '#'

	secondContent, _ := cli.EmbeddedDefaultConfiguration()
	require.NotEqual(testInstance, byte('#'), secondContent[0])
}
