package utils_test

import (
	"path/filepath"
	"testing"

	"repo2ai/internal/utils"
)

func TestDeduplicatePatterns(testInstance *testing.T) {
	input := []string{"utils", "build", "utils", "dist", "build"}
	actual := utils.DeduplicatePatterns(input)
	expected := []string{"utils", "build", "dist"}
	if len(actual) != len(expected) {
		testInstance.Fatalf("unexpected result: %v", actual)
	}
	for patternIndex, expectedPattern := range expected {
		if actual[patternIndex] != expectedPattern {
			testInstance.Errorf("pattern %d = %q, expected %q", patternIndex, actual[patternIndex], expectedPattern)
		}
	}
}

func TestRelativePathOrSelf(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()

	samePath := utils.RelativePathOrSelf(rootDirectory, rootDirectory)
	if samePath != "." {
		testInstance.Errorf("expected '.', got %q", samePath)
	}

	nestedPath := utils.RelativePathOrSelf(filepath.Join(rootDirectory, "src", "main.go"), rootDirectory)
	if nestedPath != "src/main.go" {
		testInstance.Errorf("expected 'src/main.go', got %q", nestedPath)
	}
}
