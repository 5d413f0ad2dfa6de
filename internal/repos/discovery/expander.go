package discovery

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/gitupdated/internal/repos/filesystem"
	"github.com/temirov/gitupdated/internal/repos/shared"
	pathutils "github.com/temirov/gitupdated/internal/utils/path"
)

const (
	globWildcardConstant                     = "*"
	recursiveGlobSegmentConstant             = "**"
	globMetaCharactersConstant               = "*?["
	hiddenEntryPrefixConstant                = "."
	malformedGlobTemplateConstant            = "invalid glob pattern %q: %w"
	specifierResolutionErrorTemplateConstant = "unable to resolve path %q: %w"
	fullScanDiscoveryErrorTemplateConstant   = "full scan failed: %w"
)

// ErrMalformedGlob indicates that a glob specifier cannot be parsed.
var ErrMalformedGlob = errors.New("malformed glob pattern")

// Expander turns path specifiers into the ordered candidate sequence for an audit run.
type Expander struct {
	fileSystem   shared.FileSystem
	homeExpander *pathutils.HomeExpander
	discoverer   shared.RepositoryDiscoverer
	pathFilter   shared.PathFilter
	scanRoot     string
}

// ExpanderOption customizes an Expander.
type ExpanderOption func(*Expander)

// WithFileSystem overrides the filesystem used for glob matching and path resolution.
func WithFileSystem(fileSystem shared.FileSystem) ExpanderOption {
	return func(expander *Expander) {
		if fileSystem != nil {
			expander.fileSystem = fileSystem
		}
	}
}

// WithHomeExpander overrides the "~" resolver.
func WithHomeExpander(homeExpander *pathutils.HomeExpander) ExpanderOption {
	return func(expander *Expander) {
		if homeExpander != nil {
			expander.homeExpander = homeExpander
		}
	}
}

// WithRepositoryDiscoverer overrides the full scan walker.
func WithRepositoryDiscoverer(discoverer shared.RepositoryDiscoverer) ExpanderOption {
	return func(expander *Expander) {
		if discoverer != nil {
			expander.discoverer = discoverer
		}
	}
}

// WithScanRoot sets the directory walked by a full scan.
func WithScanRoot(scanRoot string) ExpanderOption {
	return func(expander *Expander) {
		if len(strings.TrimSpace(scanRoot)) > 0 {
			expander.scanRoot = strings.TrimSpace(scanRoot)
		}
	}
}

// NewExpander constructs an Expander that applies pathFilter to glob and full scan candidates.
func NewExpander(pathFilter shared.PathFilter, options ...ExpanderOption) *Expander {
	expander := &Expander{
		fileSystem:   filesystem.OSFileSystem{},
		homeExpander: pathutils.NewHomeExpander(),
		pathFilter:   pathFilter,
		scanRoot:     DefaultScanRoot(),
	}
	for _, option := range options {
		option(expander)
	}
	if expander.discoverer == nil {
		expander.discoverer = NewFilesystemRepositoryDiscoverer(expander.fileSystem, pathFilter)
	}
	return expander
}

// Expand produces candidate paths in specifier order. Literal specifiers are always kept,
// glob matches are restricted to directories, and full scan replaces the specifiers entirely.
func (expander *Expander) Expand(specifiers []string, fullScan bool) ([]string, error) {
	if fullScan {
		scanRoot := expander.homeExpander.Expand(expander.scanRoot)
		repositories, discoveryError := expander.discoverer.DiscoverRepositories([]string{scanRoot})
		if discoveryError != nil {
			return nil, fmt.Errorf(fullScanDiscoveryErrorTemplateConstant, discoveryError)
		}
		return expander.filter(repositories), nil
	}

	candidates := make([]string, 0, len(specifiers))
	for _, specifier := range expander.homeExpander.ExpandAll(specifiers) {
		if !strings.Contains(specifier, globWildcardConstant) {
			absolutePath, resolutionError := expander.fileSystem.Abs(specifier)
			if resolutionError != nil {
				return nil, fmt.Errorf(specifierResolutionErrorTemplateConstant, specifier, resolutionError)
			}
			candidates = append(candidates, absolutePath)
			continue
		}

		matches, globError := expander.expandGlob(specifier)
		if globError != nil {
			return nil, globError
		}
		candidates = append(candidates, expander.filter(matches)...)
	}
	return candidates, nil
}

func (expander *Expander) filter(candidates []string) []string {
	if expander.pathFilter == nil {
		return candidates
	}
	kept := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if expander.pathFilter.Ignored(candidate) {
			continue
		}
		kept = append(kept, candidate)
	}
	return kept
}

func (expander *Expander) expandGlob(pattern string) ([]string, error) {
	absolutePattern, resolutionError := expander.fileSystem.Abs(pattern)
	if resolutionError != nil {
		return nil, fmt.Errorf(specifierResolutionErrorTemplateConstant, pattern, resolutionError)
	}

	volumeName := filepath.VolumeName(absolutePattern)
	remainder := strings.TrimPrefix(absolutePattern[len(volumeName):], string(filepath.Separator))
	segments := make([]string, 0)
	for _, segment := range strings.Split(remainder, string(filepath.Separator)) {
		if len(segment) == 0 {
			continue
		}
		if segment != recursiveGlobSegmentConstant {
			if _, matchError := filepath.Match(segment, ""); matchError != nil {
				return nil, fmt.Errorf(malformedGlobTemplateConstant, pattern, errors.Join(ErrMalformedGlob, matchError))
			}
		}
		segments = append(segments, segment)
	}

	var matches []string
	expander.matchSegments(volumeName+string(filepath.Separator), segments, &matches)
	return matches, nil
}

// matchSegments appends every directory below base that matches the remaining segments.
func (expander *Expander) matchSegments(base string, segments []string, matches *[]string) {
	if len(segments) == 0 {
		if expander.isDirectory(base) {
			*matches = append(*matches, base)
		}
		return
	}

	segment := segments[0]
	if !strings.ContainsAny(segment, globMetaCharactersConstant) {
		expander.matchSegments(filepath.Join(base, segment), segments[1:], matches)
		return
	}

	if segment == recursiveGlobSegmentConstant {
		expander.matchSegments(base, segments[1:], matches)
		for _, childDirectory := range expander.childDirectories(base, segment) {
			expander.matchSegments(childDirectory, segments, matches)
		}
		return
	}

	for _, childDirectory := range expander.childDirectories(base, segment) {
		expander.matchSegments(childDirectory, segments[1:], matches)
	}
}

// childDirectories lists subdirectories of base whose names match the segment pattern.
// Hidden entries only match patterns that start with a dot.
func (expander *Expander) childDirectories(base string, segment string) []string {
	entries, readError := expander.fileSystem.ReadDir(base)
	if readError != nil {
		return nil
	}

	matchHidden := strings.HasPrefix(segment, hiddenEntryPrefixConstant)
	childDirectories := make([]string, 0, len(entries))
	for _, entry := range entries {
		entryName := entry.Name()
		if strings.HasPrefix(entryName, hiddenEntryPrefixConstant) && !matchHidden {
			continue
		}
		if segment != recursiveGlobSegmentConstant {
			matched, _ := filepath.Match(segment, entryName)
			if !matched {
				continue
			}
		}
		childPath := filepath.Join(base, entryName)
		if segment == recursiveGlobSegmentConstant && !entry.IsDir() {
			continue
		}
		if !expander.isDirectory(childPath) {
			continue
		}
		childDirectories = append(childDirectories, childPath)
	}
	return childDirectories
}

func (expander *Expander) isDirectory(path string) bool {
	fileInfo, statError := expander.fileSystem.Stat(path)
	return statError == nil && fileInfo.IsDir()
}
