// Package types defines the cross-package data structures used by the repo2ai CLI.
package types

import "encoding/xml"

const (
	FormatXML  = "xml"
	FormatJSON = "json"

	// DefaultLanguage is assigned to files whose extension is not recognized.
	DefaultLanguage = "text"
)

// ValidatedSource is an absolute source directory that passed existence checks.
type ValidatedSource struct {
	AbsolutePath string
	Name         string
}

// Repository is the root of an export document.
type Repository struct {
	XMLName         xml.Name      `json:"-" xml:"repository"`
	SourcePath      string        `json:"sourcePath" xml:"source_path,attr"`
	Name            string        `json:"name" xml:"name,attr"`
	Module          string        `json:"module,omitempty" xml:"module,attr,omitempty"`
	ExcludedFolders string        `json:"excludedFolders,omitempty" xml:"excluded_folders,attr,omitempty"`
	ExcludedFiles   string        `json:"excludedFiles,omitempty" xml:"excluded_files,attr,omitempty"`
	Structure       StructureNode `json:"structure" xml:"structure"`
	Summary         *Summary      `json:"summary,omitempty" xml:"summary,omitempty"`
}

// StructureNode holds the top level entries of the exported tree.
type StructureNode struct {
	Directories []*DirectoryNode `json:"directories,omitempty" xml:"directory,omitempty"`
	Files       []*FileNode      `json:"files,omitempty" xml:"file,omitempty"`
}

// DirectoryNode represents one exported directory.
type DirectoryNode struct {
	Name         string           `json:"name" xml:"name,attr"`
	Path         string           `json:"path" xml:"path,attr"`
	LastModified string           `json:"lastModified,omitempty" xml:"lastModified,attr,omitempty"`
	Directories  []*DirectoryNode `json:"directories,omitempty" xml:"directory,omitempty"`
	Files        []*FileNode      `json:"files,omitempty" xml:"file,omitempty"`
}

// FileNode represents one exported file with its inlined content.
type FileNode struct {
	Name         string `json:"name" xml:"name,attr"`
	Path         string `json:"path" xml:"path,attr"`
	Language     string `json:"language" xml:"language,attr"`
	Size         string `json:"size,omitempty" xml:"size,attr,omitempty"`
	SizeBytes    int64  `json:"sizeBytes,omitempty" xml:"-"`
	LastModified string `json:"lastModified,omitempty" xml:"lastModified,attr,omitempty"`
	Tokens       int    `json:"tokens,omitempty" xml:"tokens,attr,omitempty"`
	Model        string `json:"model,omitempty" xml:"model,attr,omitempty"`
	Content      string `json:"content" xml:"content"`
}

// Summary captures aggregate information about an export.
type Summary struct {
	Files  int    `json:"files" xml:"files,attr"`
	Bytes  int64  `json:"bytes" xml:"bytes,attr"`
	Size   string `json:"size,omitempty" xml:"size,attr,omitempty"`
	Tokens int    `json:"tokens,omitempty" xml:"tokens,attr,omitempty"`
	Model  string `json:"model,omitempty" xml:"model,attr,omitempty"`
}
