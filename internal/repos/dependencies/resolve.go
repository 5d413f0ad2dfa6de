package dependencies

import (
	"time"

	"go.uber.org/zap"

	"github.com/temirov/gitupdated/internal/execshell"
	"github.com/temirov/gitupdated/internal/repos/discovery"
	"github.com/temirov/gitupdated/internal/repos/filesystem"
	"github.com/temirov/gitupdated/internal/repos/shared"
)

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolvePathFilter returns the provided filter or an ignore filter over the given denylist.
// An empty denylist selects the platform defaults.
func ResolvePathFilter(existing shared.PathFilter, ignoredPaths []string) shared.PathFilter {
	if existing != nil {
		return existing
	}
	if len(ignoredPaths) == 0 {
		ignoredPaths = discovery.DefaultIgnoredPaths()
	}
	return discovery.NewIgnoreFilter(ignoredPaths)
}

// ResolveRepositoryDiscoverer returns the provided discoverer or a filesystem-backed default.
func ResolveRepositoryDiscoverer(existing shared.RepositoryDiscoverer, fileSystem shared.FileSystem, pathFilter shared.PathFilter) shared.RepositoryDiscoverer {
	if existing != nil {
		return existing
	}
	return discovery.NewFilesystemRepositoryDiscoverer(ResolveFileSystem(fileSystem), pathFilter)
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default that reports
// every command to observer and bounds commands without their own timeout by defaultTimeout.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, observer execshell.CommandEventObserver, defaultTimeout time.Duration) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, commandRunner, observer, defaultTimeout)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}
