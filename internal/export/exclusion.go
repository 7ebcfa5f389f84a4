package export

import (
	"strings"

	"repo2ai/internal/utils"
)

const pathSegmentSeparator = "/"

// RuleSet holds the exclusion patterns applied during a walk.
type RuleSet struct {
	folderPatterns []string
	filePatterns   []string
	includeHidden  bool
}

// NewRuleSet builds a RuleSet from folder and file patterns. Patterns are
// trimmed, normalized to forward slashes, and deduplicated.
func NewRuleSet(folderPatterns []string, filePatterns []string, includeHidden bool) RuleSet {
	return RuleSet{
		folderPatterns: normalizePatterns(folderPatterns),
		filePatterns:   normalizePatterns(filePatterns),
		includeHidden:  includeHidden,
	}
}

// FolderPatterns returns the normalized folder exclusion patterns.
func (rules RuleSet) FolderPatterns() []string {
	return rules.folderPatterns
}

// FilePatterns returns the normalized file exclusion patterns.
func (rules RuleSet) FilePatterns() []string {
	return rules.filePatterns
}

// ExcludesEntry reports whether the entry at relativePath should be skipped.
// Hidden entries (dot-prefixed names) are skipped unless the rule set allows
// them. Folder patterns are segment sequences that may match any contiguous
// window of the relative path, so "components/ui" also excludes
// "src/components/ui". File patterns match a file whose relative path equals
// the pattern or ends with "/" followed by the pattern.
func (rules RuleSet) ExcludesEntry(relativePath string, isDirectory bool) bool {
	normalizedPath := strings.ReplaceAll(relativePath, "\\", pathSegmentSeparator)
	pathSegments := strings.Split(normalizedPath, pathSegmentSeparator)

	if !rules.includeHidden {
		lastSegment := pathSegments[len(pathSegments)-1]
		if strings.HasPrefix(lastSegment, ".") {
			return true
		}
	}

	if !isDirectory {
		for _, filePattern := range rules.filePatterns {
			if normalizedPath == filePattern || strings.HasSuffix(normalizedPath, pathSegmentSeparator+filePattern) {
				return true
			}
		}
	}

	for _, folderPattern := range rules.folderPatterns {
		patternSegments := strings.Split(folderPattern, pathSegmentSeparator)
		if windowMatches(pathSegments, patternSegments) {
			return true
		}
	}

	return false
}

// windowMatches reports whether any contiguous window of pathSegments equals
// patternSegments.
func windowMatches(pathSegments []string, patternSegments []string) bool {
	if len(patternSegments) == 0 || len(pathSegments) < len(patternSegments) {
		return false
	}
	for start := 0; start <= len(pathSegments)-len(patternSegments); start++ {
		matched := true
		for offset, patternSegment := range patternSegments {
			if pathSegments[start+offset] != patternSegment {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

func normalizePatterns(patterns []string) []string {
	var normalized []string
	for _, pattern := range patterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		trimmedPattern = strings.ReplaceAll(trimmedPattern, "\\", pathSegmentSeparator)
		trimmedPattern = strings.Trim(trimmedPattern, pathSegmentSeparator)
		if trimmedPattern == "" {
			continue
		}
		normalized = append(normalized, trimmedPattern)
	}
	return utils.DeduplicatePatterns(normalized)
}
