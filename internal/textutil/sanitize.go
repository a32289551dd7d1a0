package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// illegalPathRunes are removed outright; Windows rejects all of them and "/"
// or "\" would otherwise create nested directories. "!" and "." are dropped
// too so names never end in a dot or look like relative path segments.
const illegalPathRunes = `<>:!"/\|?*.`

// SanitizeDirName converts a creator identifier into a single path segment.
// Illegal characters and control characters (tabs and line breaks included)
// are removed, runs of spaces collapse to one, and the result is trimmed. The
// result is empty when nothing usable remains.
func SanitizeDirName(name string) string {
	name = norm.NFC.String(name)
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case strings.ContainsRune(illegalPathRunes, r):
			continue
		case r == '\t' || r == '\n' || r == '\r':
			continue
		case unicode.IsControl(r):
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
