package shared

import (
	"context"
	"io/fs"

	"github.com/temirov/gitupdated/internal/execshell"
)

// FileSystem exposes filesystem operations required by discovery and classification.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
	EvalSymlinks(path string) (string, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	WalkDir(root string, walkFunction fs.WalkDirFunc) error
}

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryDiscoverer locates Git repositories beneath the provided roots.
type RepositoryDiscoverer interface {
	DiscoverRepositories(roots []string) ([]string, error)
}

// PathFilter decides whether a discovered candidate should be dropped.
type PathFilter interface {
	Ignored(candidatePath string) bool
}
