package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// DefaultSlug is used when a name has no ASCII letter or digit left.
const DefaultSlug = "produit"

// Slugify folds accents (NFKD, then drops what is not ASCII), lowercases
// letters and digits and turns every other run of characters into one '-'.
// "Café Crème" becomes "cafe-creme".
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastDash := false

	for _, r := range norm.NFKD.String(s) {
		if r > unicode.MaxASCII {
			// 组合附加符号等非 ASCII 字符直接丢弃，不产生分隔符
			continue
		}
		switch {
		case 'a' <= r && r <= 'z', '0' <= r && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case 'A' <= r && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return DefaultSlug
	}
	return out
}
