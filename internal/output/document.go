package output

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"repo2ai/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	outputDirectoryPermissions = 0o755
	outputFilePermissions      = 0o644
)

// RenderXML serializes the repository document as a pretty-printed XML string.
func RenderXML(document *types.Repository) (string, error) {
	encoded, xmlMarshalError := xml.MarshalIndent(document, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", fmt.Errorf("marshal export document: %w", xmlMarshalError)
	}
	return xml.Header + string(encoded) + "\n", nil
}

// RenderJSON serializes the repository document as indented JSON.
func RenderJSON(document *types.Repository) (string, error) {
	encoded, jsonEncodeError := json.MarshalIndent(document, indentPrefix, indentSpacer)
	if jsonEncodeError != nil {
		return "", fmt.Errorf("marshal export document: %w", jsonEncodeError)
	}
	return string(encoded) + "\n", nil
}

// Render serializes the document in the requested format.
func Render(document *types.Repository, format string) (string, error) {
	switch format {
	case types.FormatXML:
		return RenderXML(document)
	case types.FormatJSON:
		return RenderJSON(document)
	default:
		return "", fmt.Errorf("unsupported output format '%s'", format)
	}
}

// WriteDocumentFile writes rendered content to outputPath, creating missing
// parent directories.
func WriteDocumentFile(outputPath string, rendered string) error {
	outputDirectory := filepath.Dir(outputPath)
	if outputDirectory != "" && outputDirectory != "." {
		if mkdirError := os.MkdirAll(outputDirectory, outputDirectoryPermissions); mkdirError != nil {
			return fmt.Errorf("create output directory %s: %w", outputDirectory, mkdirError)
		}
	}
	if writeError := os.WriteFile(outputPath, []byte(rendered), outputFilePermissions); writeError != nil {
		return fmt.Errorf("write export to %s: %w", outputPath, writeError)
	}
	return nil
}
