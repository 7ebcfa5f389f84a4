package cli

import (
	"bytes"
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"repo2ai/internal/export"
	"repo2ai/internal/types"
)

type recordingCopier struct {
	copied []string
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return nil
}

func writeTestFile(testInstance *testing.T, path string, content string) {
	testInstance.Helper()
	if mkdirError := os.MkdirAll(filepath.Dir(path), 0o755); mkdirError != nil {
		testInstance.Fatalf("create directory: %v", mkdirError)
	}
	if writeError := os.WriteFile(path, []byte(content), 0o644); writeError != nil {
		testInstance.Fatalf("write file: %v", writeError)
	}
}

func TestValidateSource(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()

	source, validateError := validateSource(rootDirectory)
	if validateError != nil {
		testInstance.Fatalf("validateSource error: %v", validateError)
	}
	if source.Name != filepath.Base(rootDirectory) {
		testInstance.Errorf("unexpected source name: %q", source.Name)
	}
	if !filepath.IsAbs(source.AbsolutePath) {
		testInstance.Errorf("expected an absolute path, got %q", source.AbsolutePath)
	}
}

func TestValidateSourceRejectsMissingPath(testInstance *testing.T) {
	missingPath := filepath.Join(testInstance.TempDir(), "missing")
	if _, validateError := validateSource(missingPath); validateError == nil {
		testInstance.Fatal("expected an error for a missing source")
	}
}

func TestValidateSourceRejectsFile(testInstance *testing.T) {
	filePath := filepath.Join(testInstance.TempDir(), "plain.txt")
	writeTestFile(testInstance, filePath, "plain")
	if _, validateError := validateSource(filePath); validateError == nil {
		testInstance.Fatal("expected an error for a file source")
	}
}

func TestRunExportWritesDocumentFile(testInstance *testing.T) {
	sourceDirectory := testInstance.TempDir()
	writeTestFile(testInstance, filepath.Join(sourceDirectory, "main.go"), "package main\n")
	writeTestFile(testInstance, filepath.Join(sourceDirectory, "go.mod"), "module github.com/example/webapp\n")
	writeTestFile(testInstance, filepath.Join(sourceDirectory, "node_modules", "pkg", "index.js"), "x")

	outputPath := filepath.Join(testInstance.TempDir(), "exports", "webapp.xml")
	var stdoutBuffer, stderrBuffer bytes.Buffer

	runError := runExport(context.Background(), exportRequest{
		Source:         sourceDirectory,
		OutputPath:     outputPath,
		Format:         types.FormatXML,
		ExcludeFolders: []string{"node_modules"},
		IncludeSummary: true,
		MaxFileSize:    export.DefaultMaxFileSize,
		Stdout:         &stdoutBuffer,
		Stderr:         &stderrBuffer,
	})
	if runError != nil {
		testInstance.Fatalf("runExport error: %v", runError)
	}

	if !strings.Contains(stdoutBuffer.String(), "Repository export saved to: "+outputPath) {
		testInstance.Errorf("unexpected stdout: %q", stdoutBuffer.String())
	}

	renderedBytes, readError := os.ReadFile(outputPath)
	if readError != nil {
		testInstance.Fatalf("read output file: %v", readError)
	}
	var document types.Repository
	if decodeError := xml.Unmarshal(renderedBytes, &document); decodeError != nil {
		testInstance.Fatalf("decode output document: %v", decodeError)
	}
	if document.Module != "github.com/example/webapp" {
		testInstance.Errorf("unexpected module attribute: %q", document.Module)
	}
	if document.ExcludedFolders != "node_modules" {
		testInstance.Errorf("unexpected excluded folders: %q", document.ExcludedFolders)
	}
	if document.Summary == nil || document.Summary.Files != 2 {
		testInstance.Errorf("unexpected summary: %+v", document.Summary)
	}
	for _, fileNode := range document.Structure.Files {
		if strings.HasPrefix(fileNode.Path, "node_modules/") {
			testInstance.Errorf("excluded file present: %q", fileNode.Path)
		}
	}
}

func TestRunExportWritesToStdout(testInstance *testing.T) {
	sourceDirectory := testInstance.TempDir()
	writeTestFile(testInstance, filepath.Join(sourceDirectory, "note.md"), "# note\n")

	var stdoutBuffer, stderrBuffer bytes.Buffer
	runError := runExport(context.Background(), exportRequest{
		Source:   sourceDirectory,
		ToStdout: true,
		Format:   types.FormatJSON,
		Stdout:   &stdoutBuffer,
		Stderr:   &stderrBuffer,
	})
	if runError != nil {
		testInstance.Fatalf("runExport error: %v", runError)
	}
	if !strings.Contains(stdoutBuffer.String(), `"note.md"`) {
		testInstance.Errorf("unexpected stdout: %q", stdoutBuffer.String())
	}
}

func TestRunExportCopiesToClipboard(testInstance *testing.T) {
	sourceDirectory := testInstance.TempDir()
	writeTestFile(testInstance, filepath.Join(sourceDirectory, "note.md"), "# note\n")

	copier := &recordingCopier{}
	var stdoutBuffer, stderrBuffer bytes.Buffer
	runError := runExport(context.Background(), exportRequest{
		Source:          sourceDirectory,
		ToStdout:        true,
		Format:          types.FormatXML,
		CopyToClipboard: true,
		Stdout:          &stdoutBuffer,
		Stderr:          &stderrBuffer,
		Copier:          copier,
	})
	if runError != nil {
		testInstance.Fatalf("runExport error: %v", runError)
	}
	if len(copier.copied) != 1 {
		testInstance.Fatalf("expected one clipboard copy, got %d", len(copier.copied))
	}
	if copier.copied[0] != stdoutBuffer.String() {
		testInstance.Error("clipboard content differs from rendered document")
	}
}

func TestRunExportRejectsInvalidFormat(testInstance *testing.T) {
	runError := runExport(context.Background(), exportRequest{
		Source:   testInstance.TempDir(),
		ToStdout: true,
		Format:   "csv",
	})
	if runError == nil {
		testInstance.Fatal("expected an invalid format error")
	}
}

func TestRunExportRequiresDestination(testInstance *testing.T) {
	runError := runExport(context.Background(), exportRequest{
		Source: testInstance.TempDir(),
		Format: types.FormatXML,
	})
	if runError == nil {
		testInstance.Fatal("expected a missing destination error")
	}
}

func TestInterpretCopyFlagLiteral(testInstance *testing.T) {
	testCases := []struct {
		input       string
		expected    bool
		expectValid bool
	}{
		{input: "", expected: true, expectValid: true},
		{input: "true", expected: true, expectValid: true},
		{input: "YES", expected: true, expectValid: true},
		{input: "1", expected: true, expectValid: true},
		{input: "false", expected: false, expectValid: true},
		{input: "no", expected: false, expectValid: true},
		{input: "maybe", expectValid: false},
	}

	for _, testCase := range testCases {
		actual, valid := interpretCopyFlagLiteral(testCase.input)
		if valid != testCase.expectValid {
			testInstance.Errorf("interpretCopyFlagLiteral(%q) valid = %v, expected %v", testCase.input, valid, testCase.expectValid)
			continue
		}
		if valid && actual != testCase.expected {
			testInstance.Errorf("interpretCopyFlagLiteral(%q) = %v, expected %v", testCase.input, actual, testCase.expected)
		}
	}
}
