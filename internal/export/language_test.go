package export_test

import (
	"testing"

	"repo2ai/internal/export"
)

func TestDetectLanguage(testInstance *testing.T) {
	testCases := []struct {
		fileName string
		expected string
	}{
		{fileName: "main.go", expected: "go"},
		{fileName: "script.py", expected: "python"},
		{fileName: "component.tsx", expected: "typescript"},
		{fileName: "README.md", expected: "markdown"},
		{fileName: "config.YAML", expected: "yaml"},
		{fileName: "deploy.sh", expected: "bash"},
		{fileName: "query.sql", expected: "sql"},
		{fileName: "Makefile", expected: "text"},
		{fileName: "archive.tar.gz", expected: "text"},
		{fileName: "LICENSE", expected: "text"},
	}

	for _, testCase := range testCases {
		actual := export.DetectLanguage(testCase.fileName)
		if actual != testCase.expected {
			testInstance.Errorf("DetectLanguage(%q) = %q, expected %q", testCase.fileName, actual, testCase.expected)
		}
	}
}
