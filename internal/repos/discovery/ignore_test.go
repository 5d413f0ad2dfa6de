package discovery_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitupdated/internal/repos/discovery"
)

func TestIgnoreFilterIgnored(testInstance *testing.T) {
	if runtime.GOOS == "windows" {
		testInstance.Skip("unix paths")
	}

	ignoreFilter := discovery.NewIgnoreFilter([]string{"/proc", " /var/tmp/ ", "", "/mnt/backup"})

	testCases := []struct {
		name            string
		candidatePath   string
		expectedIgnored bool
	}{
		{name: "equal_to_denied", candidatePath: "/proc", expectedIgnored: true},
		{name: "under_denied", candidatePath: "/proc/1/cwd", expectedIgnored: true},
		{name: "trimmed_and_cleaned_entry", candidatePath: "/var/tmp/build", expectedIgnored: true},
		{name: "shared_prefix_is_not_under", candidatePath: "/processes/repo", expectedIgnored: false},
		{name: "node_modules_segment", candidatePath: "/home/dev/app/node_modules/lib", expectedIgnored: true},
		{name: "node_modules_leaf", candidatePath: "/home/dev/app/node_modules", expectedIgnored: true},
		{name: "node_modules_substring", candidatePath: "/home/dev/my_node_modules_tool", expectedIgnored: false},
		{name: "configured_override", candidatePath: "/mnt/backup/repo", expectedIgnored: true},
		{name: "regular_repository", candidatePath: "/home/dev/project", expectedIgnored: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedIgnored, ignoreFilter.Ignored(testCase.candidatePath))
		})
	}
}

func TestIgnoreFilterNilIgnoresNothing(testInstance *testing.T) {
	var ignoreFilter *discovery.IgnoreFilter
	require.False(testInstance, ignoreFilter.Ignored(filepath.Join("a", "node_modules")))
	require.Nil(testInstance, ignoreFilter.IgnoredPaths())
}

func TestIgnoreFilterIgnoredPathsReturnsCleanCopy(testInstance *testing.T) {
	ignoreFilter := discovery.NewIgnoreFilter([]string{" /srv/cache/ ", ""})

	ignoredPaths := ignoreFilter.IgnoredPaths()
	require.Equal(testInstance, []string{filepath.Clean("/srv/cache/")}, ignoredPaths)

	ignoredPaths[0] = "mutated"
	require.Equal(testInstance, []string{filepath.Clean("/srv/cache/")}, ignoreFilter.IgnoredPaths())
}
