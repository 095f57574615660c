package taxonomy

import "strings"

// Match reports whether a wildcard pattern matches a code. A lone "*" matches
// everything; otherwise each "*" in the pattern spans any run of characters,
// including segment separators, so "ore-*" is a prefix match, "*-copper" a
// suffix match, and "*-ore-*" a contains match. Patterns without a "*" must
// equal the code exactly. Matching is case-sensitive; codes are canonical
// lowercase.
func Match(pattern, code string) bool {
	if pattern == code {
		return true
	}
	if pattern == "*" {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}

	parts := strings.Split(pattern, "*")

	if first := parts[0]; first != "" {
		if !strings.HasPrefix(code, first) {
			return false
		}
		code = code[len(first):]
	}

	last := parts[len(parts)-1]

	for _, part := range parts[1 : len(parts)-1] {
		if part == "" {
			continue
		}
		idx := strings.Index(code, part)
		if idx < 0 {
			return false
		}
		code = code[idx+len(part):]
	}

	if last == "" {
		return true
	}
	return strings.HasSuffix(code, last)
}
