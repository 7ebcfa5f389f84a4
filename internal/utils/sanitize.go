package utils

import "strings"

// SanitizeContent removes control characters that are not representable in an
// XML document. Tab, newline, and carriage return are preserved; the remaining
// C0 range, DEL, and the C1 range are dropped.
func SanitizeContent(content string) string {
	var builder strings.Builder
	builder.Grow(len(content))
	for _, runeValue := range content {
		if isDisallowedControlRune(runeValue) {
			continue
		}
		builder.WriteRune(runeValue)
	}
	return builder.String()
}

func isDisallowedControlRune(runeValue rune) bool {
	switch runeValue {
	case '\t', '\n', '\r':
		return false
	}
	if runeValue < 0x20 {
		return true
	}
	return runeValue >= 0x7f && runeValue <= 0x9f
}
