package export

import (
	"path/filepath"
	"strings"

	"repo2ai/internal/types"
)

// extensionToLanguage maps file extensions to language identifiers used in
// the export document.
var extensionToLanguage = map[string]string{
	".py":    "python",
	".js":    "javascript",
	".ts":    "typescript",
	".jsx":   "javascript",
	".tsx":   "typescript",
	".java":  "java",
	".cpp":   "cpp",
	".c":     "c",
	".cs":    "csharp",
	".html":  "html",
	".css":   "css",
	".rb":    "ruby",
	".php":   "php",
	".go":    "go",
	".rs":    "rust",
	".swift": "swift",
	".kt":    "kotlin",
	".sh":    "bash",
	".md":    "markdown",
	".json":  "json",
	".xml":   "xml",
	".yaml":  "yaml",
	".yml":   "yaml",
	".sql":   "sql",
	".r":     "r",
	".scala": "scala",
}

// DetectLanguage returns the language identifier for the provided file name.
func DetectLanguage(fileName string) string {
	extension := strings.ToLower(filepath.Ext(fileName))
	if language, known := extensionToLanguage[extension]; known {
		return language
	}
	return types.DefaultLanguage
}
