package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant             = "~"
	tildeForwardSlashPrefixConstant = "~/"
)

var tildeWithPathSeparatorPrefix = tildeSymbolConstant + string(os.PathSeparator)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander converts user home shortcuts in path specifiers to absolute paths.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewHomeExpander constructs a HomeExpander using the operating system lookup.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider}
}

// Expand resolves a leading "~" or "~/" to the user's home directory. Glob characters after the
// prefix are preserved, so "~/src/*" becomes "<home>/src/*". "~user" forms are left untouched.
func (expander *HomeExpander) Expand(specifier string) string {
	if expander == nil || !strings.HasPrefix(specifier, tildeSymbolConstant) {
		return specifier
	}

	var relativePath string
	switch {
	case specifier == tildeSymbolConstant:
		relativePath = ""
	case strings.HasPrefix(specifier, tildeForwardSlashPrefixConstant):
		relativePath = strings.TrimPrefix(specifier, tildeForwardSlashPrefixConstant)
	case strings.HasPrefix(specifier, tildeWithPathSeparatorPrefix):
		relativePath = strings.TrimPrefix(specifier, tildeWithPathSeparatorPrefix)
	default:
		return specifier
	}

	homeDirectory := expander.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return specifier
	}
	return filepath.Join(homeDirectory, relativePath)
}

// ExpandAll trims, expands, and drops empty specifiers while preserving order and duplicates.
func (expander *HomeExpander) ExpandAll(specifiers []string) []string {
	expanded := make([]string, 0, len(specifiers))
	for _, specifier := range specifiers {
		trimmedSpecifier := strings.TrimSpace(specifier)
		if len(trimmedSpecifier) == 0 {
			continue
		}
		expanded = append(expanded, expander.Expand(trimmedSpecifier))
	}
	return expanded
}

func (expander *HomeExpander) resolveHomeDirectory() string {
	expander.initializationGuard.Do(func() {
		expander.homeDirectory, expander.homeDirectoryError = expander.homeDirectoryProvider()
	})
	if expander.homeDirectoryError != nil {
		return ""
	}
	return expander.homeDirectory
}
