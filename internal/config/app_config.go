// Package config loads application configuration and batch manifests.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"repo2ai/internal/utils"
)

const (
	// ConfigFileName is the application configuration file discovered in the
	// working directory and the global configuration directory.
	ConfigFileName = ".repo2ai.yaml"
	// GlobalConfigDirectoryName is the per-user configuration directory under
	// the home directory.
	GlobalConfigDirectoryName = ".repo2ai"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Export ExportConfiguration `mapstructure:"export"`
	Watch  WatchConfiguration  `mapstructure:"watch"`
}

// ExportConfiguration defines defaults for the export command.
type ExportConfiguration struct {
	Format        string             `mapstructure:"format"`
	Summary       *bool              `mapstructure:"summary"`
	IncludeHidden *bool              `mapstructure:"include_hidden"`
	MaxFileSize   *int64             `mapstructure:"max_file_size"`
	Exclude       []string           `mapstructure:"exclude"`
	ExcludeFiles  []string           `mapstructure:"exclude_files"`
	Tokens        TokenConfiguration `mapstructure:"tokens"`
	Clipboard     *bool              `mapstructure:"clipboard"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// WatchConfiguration defines defaults for the watch command.
type WatchConfiguration struct {
	DebounceMilliseconds *int `mapstructure:"debounce_ms"`
}

// LoadApplicationConfiguration loads configuration from global and local files.
// The local file overrides the global one.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, GlobalConfigDirectoryName, ConfigFileName)
		globalConfig, loadError := loadConfigurationFromPath(globalPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveError := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveError != nil {
		return ApplicationConfiguration{}, resolveError
	}
	if localPath != "" {
		localConfig, loadError := loadConfigurationFromPath(localPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(localConfig)
	}

	merged.Export.Exclude = utils.DeduplicatePatterns(merged.Export.Exclude)
	merged.Export.ExcludeFiles = utils.DeduplicatePatterns(merged.Export.ExcludeFiles)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Export = result.Export.merge(override.Export)
	result.Watch = result.Watch.merge(override.Watch)
	return result
}

func (configuration ExportConfiguration) merge(override ExportConfiguration) ExportConfiguration {
	result := configuration
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Summary != nil {
		result.Summary = cloneBool(override.Summary)
	}
	if override.IncludeHidden != nil {
		result.IncludeHidden = cloneBool(override.IncludeHidden)
	}
	if override.MaxFileSize != nil {
		result.MaxFileSize = cloneInt64(override.MaxFileSize)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if len(override.ExcludeFiles) > 0 {
		result.ExcludeFiles = append([]string{}, utils.DeduplicatePatterns(override.ExcludeFiles)...)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func (configuration TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := configuration
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (configuration WatchConfiguration) merge(override WatchConfiguration) WatchConfiguration {
	result := configuration
	if override.DebounceMilliseconds != nil {
		result.DebounceMilliseconds = cloneInt(override.DebounceMilliseconds)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
