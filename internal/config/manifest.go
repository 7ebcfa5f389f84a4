package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultManifestFileName is the batch manifest discovered in the working
// directory when no explicit path is given.
const DefaultManifestFileName = "repo2ai.yaml"

// Manifest describes a sequence of export jobs.
type Manifest struct {
	Jobs []ManifestJob `yaml:"jobs"`
}

// ManifestJob is one export invocation within a manifest.
type ManifestJob struct {
	Name         string   `yaml:"name"`
	Source       string   `yaml:"source"`
	Output       string   `yaml:"output"`
	Format       string   `yaml:"format"`
	Exclude      []string `yaml:"exclude"`
	ExcludeFiles []string `yaml:"exclude_files"`
	Disabled     bool     `yaml:"disabled"`
}

// LoadManifest reads and validates a batch manifest. Unknown fields are
// rejected so that typos in job definitions surface immediately. Source and
// output paths support a leading "~/" referring to the user home directory.
func LoadManifest(manifestPath string) (Manifest, error) {
	fileBytes, readError := os.ReadFile(manifestPath)
	if readError != nil {
		return Manifest{}, fmt.Errorf("read manifest %s: %w", manifestPath, readError)
	}

	var manifest Manifest
	decoder := yaml.NewDecoder(strings.NewReader(string(fileBytes)))
	decoder.KnownFields(true)
	if decodeError := decoder.Decode(&manifest); decodeError != nil {
		return Manifest{}, fmt.Errorf("decode manifest %s: %w", manifestPath, decodeError)
	}

	if len(manifest.Jobs) == 0 {
		return Manifest{}, fmt.Errorf("manifest %s defines no jobs", manifestPath)
	}

	for jobIndex := range manifest.Jobs {
		job := &manifest.Jobs[jobIndex]
		if job.Source == "" {
			return Manifest{}, fmt.Errorf("manifest %s: job %d has no source", manifestPath, jobIndex+1)
		}
		if job.Output == "" {
			return Manifest{}, fmt.Errorf("manifest %s: job %d has no output", manifestPath, jobIndex+1)
		}
		expandedSource, sourceError := ExpandUserPath(job.Source)
		if sourceError != nil {
			return Manifest{}, fmt.Errorf("manifest %s: job %d: %w", manifestPath, jobIndex+1, sourceError)
		}
		expandedOutput, outputError := ExpandUserPath(job.Output)
		if outputError != nil {
			return Manifest{}, fmt.Errorf("manifest %s: job %d: %w", manifestPath, jobIndex+1, outputError)
		}
		job.Source = expandedSource
		job.Output = expandedOutput
		if job.Name == "" {
			job.Name = filepath.Base(job.Source)
		}
	}

	return manifest, nil
}

// FindJob returns the job with the provided name.
func (manifest Manifest) FindJob(name string) (ManifestJob, bool) {
	for _, job := range manifest.Jobs {
		if job.Name == name {
			return job, true
		}
	}
	return ManifestJob{}, false
}

// ExpandUserPath replaces a leading "~/" with the user home directory.
func ExpandUserPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDirectory, homeError := os.UserHomeDir()
		if homeError != nil {
			return "", fmt.Errorf("resolve home directory for %s: %w", path, homeError)
		}
		if path == "~" {
			return homeDirectory, nil
		}
		return filepath.Join(homeDirectory, path[2:]), nil
	}
	return path, nil
}
