package cli_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/gitupdated/cmd/cli"
	"github.com/temirov/gitupdated/internal/audit"
)

const (
	defaultConfigurationKeySeparatorConstant = "."
	missingConfigurationKeyTemplateConstant  = "default configuration missing key %s"
)

func TestEmbeddedDefaultConfigurationDocumentsEveryKey(testInstance *testing.T) {
	content, _ := cli.EmbeddedDefaultConfiguration()

	document := map[string]map[string]any{}
	require.NoError(testInstance, yaml.Unmarshal(content, &document))

	expectedKeys := []string{"common.log_level", "common.log_format"}
	for configurationKey := range audit.DefaultConfigurationValues() {
		expectedKeys = append(expectedKeys, configurationKey)
	}

	for _, configurationKey := range expectedKeys {
		sectionName, fieldName, found := strings.Cut(configurationKey, defaultConfigurationKeySeparatorConstant)
		require.True(testInstance, found)
		section, sectionFound := document[sectionName]
		require.Truef(testInstance, sectionFound, missingConfigurationKeyTemplateConstant, configurationKey)
		_, fieldFound := section[fieldName]
		require.Truef(testInstance, fieldFound, missingConfigurationKeyTemplateConstant, configurationKey)
	}
}

func TestEmbeddedDefaultConfigurationMatchesCommandDefaults(testInstance *testing.T) {
	content, _ := cli.EmbeddedDefaultConfiguration()

	document := struct {
		Scan struct {
			Workers   int  `yaml:"workers"`
			SkipFetch bool `yaml:"skip_fetch"`
		} `yaml:"scan"`
		Report struct {
			Format string `yaml:"format"`
			Color  bool   `yaml:"color"`
		} `yaml:"report"`
	}{}
	require.NoError(testInstance, yaml.Unmarshal(content, &document))

	defaults := audit.DefaultCommandConfiguration()
	require.Equal(testInstance, defaults.Scan.Workers, document.Scan.Workers)
	require.Equal(testInstance, defaults.Scan.SkipFetch, document.Scan.SkipFetch)
	require.Equal(testInstance, defaults.Report.Format, document.Report.Format)
	require.Equal(testInstance, defaults.Report.Color, document.Report.Color)
}
