package export

import (
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

const goModuleFileName = "go.mod"

// DetectModulePath returns the Go module path declared by a go.mod file at
// the root of sourcePath, or an empty string when none is present or the
// file does not parse.
func DetectModulePath(sourcePath string) string {
	goModuleFilePath := filepath.Join(sourcePath, goModuleFileName)
	fileBytes, readError := os.ReadFile(goModuleFilePath)
	if readError != nil {
		return ""
	}
	return modfile.ModulePath(fileBytes)
}
