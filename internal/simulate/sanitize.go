package simulate

import "strings"

// Sanitize strips every rune outside the allow-list [A-Za-z0-9._/:-] from a
// caller-supplied string. Stage config values are interpolated into log text
// and must not be able to smuggle control characters or newlines into it.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '/', r == ':', r == '-':
			return r
		}
		return -1
	}, s)
}
