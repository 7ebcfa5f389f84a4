package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfigurationFile(testInstance *testing.T, path string, content string) {
	testInstance.Helper()
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(testInstance, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadApplicationConfigurationLocalOverridesGlobal(testInstance *testing.T) {
	homeDirectory := testInstance.TempDir()
	workingDirectory := testInstance.TempDir()
	testInstance.Setenv("HOME", homeDirectory)
	testInstance.Setenv("USERPROFILE", homeDirectory)

	globalPath := filepath.Join(homeDirectory, GlobalConfigDirectoryName, ConfigFileName)
	writeConfigurationFile(testInstance, globalPath, "export:\n  format: json\n  summary: false\n  exclude:\n    - node_modules\n")

	localPath := filepath.Join(workingDirectory, ConfigFileName)
	writeConfigurationFile(testInstance, localPath, "export:\n  format: xml\n  tokens:\n    enabled: true\n    model: custom\nwatch:\n  debounce_ms: 750\n")

	configuration, loadError := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory})
	require.NoError(testInstance, loadError)

	require.Equal(testInstance, "xml", configuration.Export.Format)
	require.NotNil(testInstance, configuration.Export.Summary)
	require.False(testInstance, *configuration.Export.Summary)
	require.Equal(testInstance, []string{"node_modules"}, configuration.Export.Exclude)
	require.NotNil(testInstance, configuration.Export.Tokens.Enabled)
	require.True(testInstance, *configuration.Export.Tokens.Enabled)
	require.Equal(testInstance, "custom", configuration.Export.Tokens.Model)
	require.NotNil(testInstance, configuration.Watch.DebounceMilliseconds)
	require.Equal(testInstance, 750, *configuration.Watch.DebounceMilliseconds)
}

func TestLoadApplicationConfigurationExplicitPathWins(testInstance *testing.T) {
	homeDirectory := testInstance.TempDir()
	workingDirectory := testInstance.TempDir()
	testInstance.Setenv("HOME", homeDirectory)
	testInstance.Setenv("USERPROFILE", homeDirectory)

	writeConfigurationFile(testInstance, filepath.Join(workingDirectory, ConfigFileName), "export:\n  format: json\n")
	writeConfigurationFile(testInstance, filepath.Join(workingDirectory, "custom.yaml"), "export:\n  format: xml\n  clipboard: true\n")

	configuration, loadError := LoadApplicationConfiguration(LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: "custom.yaml",
	})
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "xml", configuration.Export.Format)
	require.NotNil(testInstance, configuration.Export.Clipboard)
	require.True(testInstance, *configuration.Export.Clipboard)
}

func TestLoadApplicationConfigurationMissingFilesIsEmpty(testInstance *testing.T) {
	homeDirectory := testInstance.TempDir()
	testInstance.Setenv("HOME", homeDirectory)
	testInstance.Setenv("USERPROFILE", homeDirectory)

	configuration, loadError := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: testInstance.TempDir()})
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, ApplicationConfiguration{}, configuration)
}

func TestMergeOverlaysPointerFields(testInstance *testing.T) {
	summaryTrue := true
	summaryFalse := false
	maxFileSize := int64(1024)

	base := ApplicationConfiguration{
		Export: ExportConfiguration{
			Format:  "json",
			Summary: &summaryTrue,
			Exclude: []string{"dist"},
		},
	}
	override := ApplicationConfiguration{
		Export: ExportConfiguration{
			Summary:     &summaryFalse,
			MaxFileSize: &maxFileSize,
			Exclude:     []string{"build", "build"},
		},
	}

	merged := base.Merge(override)
	require.Equal(testInstance, "json", merged.Export.Format)
	require.NotNil(testInstance, merged.Export.Summary)
	require.False(testInstance, *merged.Export.Summary)
	require.NotNil(testInstance, merged.Export.MaxFileSize)
	require.Equal(testInstance, int64(1024), *merged.Export.MaxFileSize)
	require.Equal(testInstance, []string{"build"}, merged.Export.Exclude)

	// The merged copy owns its pointers.
	*merged.Export.Summary = true
	require.False(testInstance, *override.Export.Summary)
}
