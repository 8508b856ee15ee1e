package hookresponse

import "strings"

// Excerpt returns at most limit runes of s with line breaks flattened to
// spaces, so a multi-line error fits in one context sentence.
func Excerpt(s string, limit int) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)

	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	return string(runes[:limit])
}

// JoinSentences joins non-empty parts with single spaces.
func JoinSentences(parts ...string) string {
	kept := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}

	return strings.Join(kept, " ")
}
