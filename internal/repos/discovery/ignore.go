package discovery

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	nodeModulesDirectoryNameConstant = "node_modules"
	windowsOperatingSystemConstant   = "windows"
	darwinOperatingSystemConstant    = "darwin"
	systemDriveEnvironmentConstant   = "SystemDrive"
	defaultWindowsDriveConstant      = "C:"
	unixFilesystemRootConstant       = "/"
)

var unixIgnoredPaths = []string{
	"/proc",
	"/sys",
	"/dev",
	"/run",
	"/tmp",
	"/var/tmp",
	"/var/lib",
	"/snap",
}

var windowsIgnoredPathSuffixes = []string{
	`Windows`,
	`$Recycle.Bin`,
	`ProgramData`,
	`System Volume Information`,
}

// IgnoreFilter drops candidates located at or below denylisted paths, or inside node_modules.
type IgnoreFilter struct {
	ignoredPaths    []string
	caseInsensitive bool
}

// NewIgnoreFilter constructs a filter over the provided denylist for the running platform.
func NewIgnoreFilter(ignoredPaths []string) *IgnoreFilter {
	return newIgnoreFilter(ignoredPaths, caseInsensitiveFileSystem(runtime.GOOS))
}

func newIgnoreFilter(ignoredPaths []string, caseInsensitive bool) *IgnoreFilter {
	cleanedPaths := make([]string, 0, len(ignoredPaths))
	for _, ignoredPath := range ignoredPaths {
		trimmedPath := strings.TrimSpace(ignoredPath)
		if len(trimmedPath) == 0 {
			continue
		}
		cleanedPaths = append(cleanedPaths, filepath.Clean(trimmedPath))
	}
	return &IgnoreFilter{ignoredPaths: cleanedPaths, caseInsensitive: caseInsensitive}
}

// Ignored reports whether the candidate should be dropped.
func (filter *IgnoreFilter) Ignored(candidatePath string) bool {
	if filter == nil {
		return false
	}

	cleanedCandidate := filepath.Clean(candidatePath)
	for _, segment := range strings.Split(filepath.ToSlash(cleanedCandidate), "/") {
		if filter.equal(segment, nodeModulesDirectoryNameConstant) {
			return true
		}
	}

	for _, ignoredPath := range filter.ignoredPaths {
		if filter.within(cleanedCandidate, ignoredPath) {
			return true
		}
	}
	return false
}

// IgnoredPaths returns the configured denylist.
func (filter *IgnoreFilter) IgnoredPaths() []string {
	if filter == nil {
		return nil
	}
	return append([]string(nil), filter.ignoredPaths...)
}

func (filter *IgnoreFilter) within(candidatePath string, ignoredPath string) bool {
	if filter.equal(candidatePath, ignoredPath) {
		return true
	}
	prefix := ignoredPath
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if len(candidatePath) < len(prefix) {
		return false
	}
	return filter.equal(candidatePath[:len(prefix)], prefix)
}

func (filter *IgnoreFilter) equal(first string, second string) bool {
	if filter.caseInsensitive {
		return strings.EqualFold(first, second)
	}
	return first == second
}

// DefaultIgnoredPaths returns the OS temporary directory followed by the platform denylist.
func DefaultIgnoredPaths() []string {
	return defaultIgnoredPaths(runtime.GOOS, os.TempDir(), os.Getenv(systemDriveEnvironmentConstant))
}

func defaultIgnoredPaths(operatingSystem string, temporaryDirectory string, systemDrive string) []string {
	ignoredPaths := make([]string, 0, len(unixIgnoredPaths)+1)
	if len(temporaryDirectory) > 0 {
		ignoredPaths = append(ignoredPaths, temporaryDirectory)
	}

	if operatingSystem != windowsOperatingSystemConstant {
		return append(ignoredPaths, unixIgnoredPaths...)
	}

	driveRoot := windowsDriveRoot(systemDrive)
	for _, suffix := range windowsIgnoredPathSuffixes {
		ignoredPaths = append(ignoredPaths, driveRoot+suffix)
	}
	return ignoredPaths
}

// DefaultScanRoot returns the filesystem root walked by a full scan.
func DefaultScanRoot() string {
	return defaultScanRoot(runtime.GOOS, os.Getenv(systemDriveEnvironmentConstant))
}

func defaultScanRoot(operatingSystem string, systemDrive string) string {
	if operatingSystem == windowsOperatingSystemConstant {
		return windowsDriveRoot(systemDrive)
	}
	return unixFilesystemRootConstant
}

func windowsDriveRoot(systemDrive string) string {
	drive := strings.TrimRight(strings.TrimSpace(systemDrive), `\/`)
	if len(drive) == 0 {
		drive = defaultWindowsDriveConstant
	}
	return drive + `\`
}

func caseInsensitiveFileSystem(operatingSystem string) bool {
	return operatingSystem == windowsOperatingSystemConstant || operatingSystem == darwinOperatingSystemConstant
}
