package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/temirov/gitupdated/internal/repos/filesystem"
	"github.com/temirov/gitupdated/internal/repos/shared"
)

const (
	gitMetadataDirectoryNameConstant   = ".git"
	scanRootUnreadableTemplateConstant = "scan root %s cannot be read: %w"
)

// ErrScanRootNotDirectory indicates that a full scan root is not a directory.
var ErrScanRootNotDirectory = errors.New("scan root is not a directory")

// FilesystemRepositoryDiscoverer locates git repositories on disk.
type FilesystemRepositoryDiscoverer struct {
	fileSystem shared.FileSystem
	pathFilter shared.PathFilter
}

// NewFilesystemRepositoryDiscoverer constructs a repository discoverer backed by filepath.WalkDir.
// Directories rejected by the filter are pruned instead of descended.
func NewFilesystemRepositoryDiscoverer(fileSystem shared.FileSystem, pathFilter shared.PathFilter) *FilesystemRepositoryDiscoverer {
	if fileSystem == nil {
		fileSystem = filesystem.OSFileSystem{}
	}
	return &FilesystemRepositoryDiscoverer{fileSystem: fileSystem, pathFilter: pathFilter}
}

// DiscoverRepositories walks the provided roots and returns the parent of every .git entry
// in walk order. Unreadable directories below a root are skipped; an unreadable root fails.
func (discoverer *FilesystemRepositoryDiscoverer) DiscoverRepositories(roots []string) ([]string, error) {
	var repositories []string

	for _, root := range roots {
		rootInfo, statError := discoverer.fileSystem.Stat(root)
		if statError != nil {
			return nil, fmt.Errorf(scanRootUnreadableTemplateConstant, root, statError)
		}
		if !rootInfo.IsDir() {
			return nil, fmt.Errorf(scanRootUnreadableTemplateConstant, root, ErrScanRootNotDirectory)
		}

		walkError := discoverer.fileSystem.WalkDir(root, func(path string, directoryEntry fs.DirEntry, walkError error) error {
			if walkError != nil {
				if path == root {
					return walkError
				}
				return nil
			}

			if directoryEntry.Name() == gitMetadataDirectoryNameConstant && path != root {
				repositories = append(repositories, filepath.Dir(path))
				if directoryEntry.IsDir() {
					return fs.SkipDir
				}
				return nil
			}

			if directoryEntry.IsDir() && path != root && discoverer.ignored(path) {
				return fs.SkipDir
			}
			return nil
		})
		if walkError != nil {
			return nil, fmt.Errorf(scanRootUnreadableTemplateConstant, root, walkError)
		}
	}

	return repositories, nil
}

func (discoverer *FilesystemRepositoryDiscoverer) ignored(path string) bool {
	return discoverer.pathFilter != nil && discoverer.pathFilter.Ignored(path)
}
