package tree

import "strings"

// Kebab converts an identifier into a flag-safe token: lowercase, a hyphen at
// each lower-to-upper transition, underscores and spaces folded into single
// hyphens, leading and trailing hyphens trimmed. The transform is idempotent.
func Kebab(value string) string {
	var out strings.Builder
	prevLower := false

	for _, ch := range value {
		if ch == '_' || ch == ' ' {
			if s := out.String(); !strings.HasSuffix(s, "-") {
				out.WriteByte('-')
			}
			prevLower = false
			continue
		}

		if ch >= 'A' && ch <= 'Z' {
			if prevLower {
				out.WriteByte('-')
			}
			out.WriteRune(ch - 'A' + 'a')
			prevLower = false
			continue
		}

		out.WriteRune(ch)
		prevLower = (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9')
	}

	return strings.Trim(out.String(), "-")
}
