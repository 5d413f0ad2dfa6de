package dependencies_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/gitupdated/internal/execshell"
	"github.com/temirov/gitupdated/internal/repos/dependencies"
	"github.com/temirov/gitupdated/internal/repos/discovery"
	"github.com/temirov/gitupdated/internal/repos/filesystem"
)

type stubGitExecutor struct{}

func (stubGitExecutor) ExecuteGit(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return execshell.ExecutionResult{}, nil
}

type stubPathFilter struct{}

func (stubPathFilter) Ignored(string) bool {
	return true
}

func TestResolveGitExecutor(testInstance *testing.T) {
	existingExecutor := stubGitExecutor{}
	resolvedExecutor, resolveError := dependencies.ResolveGitExecutor(existingExecutor, nil, nil, 0)
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, existingExecutor, resolvedExecutor)

	createdExecutor, creationError := dependencies.ResolveGitExecutor(nil, zap.NewNop(), nil, time.Second)
	require.NoError(testInstance, creationError)
	require.IsType(testInstance, &execshell.ShellExecutor{}, createdExecutor)

	_, missingLoggerError := dependencies.ResolveGitExecutor(nil, nil, nil, time.Second)
	require.ErrorIs(testInstance, missingLoggerError, execshell.ErrLoggerNotConfigured)
}

func TestResolvePathFilter(testInstance *testing.T) {
	existingFilter := stubPathFilter{}
	require.Equal(testInstance, existingFilter, dependencies.ResolvePathFilter(existingFilter, nil))

	defaultFilter := dependencies.ResolvePathFilter(nil, nil)
	require.IsType(testInstance, &discovery.IgnoreFilter{}, defaultFilter)
	require.Len(testInstance, defaultFilter.(*discovery.IgnoreFilter).IgnoredPaths(), len(discovery.DefaultIgnoredPaths()))

	configuredFilter := dependencies.ResolvePathFilter(nil, []string{"/srv/mirror"})
	require.True(testInstance, configuredFilter.Ignored("/srv/mirror/repo"))
	require.False(testInstance, configuredFilter.Ignored("/proc/self"))
}

func TestResolveFileSystemAndDiscoverer(testInstance *testing.T) {
	require.Equal(testInstance, filesystem.OSFileSystem{}, dependencies.ResolveFileSystem(nil))
	require.IsType(testInstance, &discovery.FilesystemRepositoryDiscoverer{}, dependencies.ResolveRepositoryDiscoverer(nil, nil, nil))
}
