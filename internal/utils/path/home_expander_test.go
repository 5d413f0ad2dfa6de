package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/gitupdated/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/developer"

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name         string
		specifier    string
		expectedPath string
	}{
		{name: "bare_tilde", specifier: "~", expectedPath: testHomeDirectoryConstant},
		{name: "tilde_prefix", specifier: "~/src/project", expectedPath: filepath.Join(testHomeDirectoryConstant, "src", "project")},
		{name: "tilde_glob", specifier: "~/src/*", expectedPath: filepath.Join(testHomeDirectoryConstant, "src", "*")},
		{name: "other_user", specifier: "~root/src", expectedPath: "~root/src"},
		{name: "absolute", specifier: "/srv/repos", expectedPath: "/srv/repos"},
		{name: "relative", specifier: "repos/*", expectedPath: "repos/*"},
	}

	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPath, expander.Expand(testCase.specifier))
		})
	}
}

func TestHomeExpanderLeavesSpecifierWhenHomeUnavailable(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "", errors.New("no home")
	})

	require.Equal(testInstance, "~/src", expander.Expand("~/src"))
}

func TestHomeExpanderExpandAllPreservesOrderAndDuplicates(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	expanded := expander.ExpandAll([]string{" ~/a ", "", "/b", "   ", "~/a"})

	require.Equal(testInstance, []string{
		filepath.Join(testHomeDirectoryConstant, "a"),
		"/b",
		filepath.Join(testHomeDirectoryConstant, "a"),
	}, expanded)
}
